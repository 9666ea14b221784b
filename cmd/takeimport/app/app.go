package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/motive-tools/mocap/internal/mocap"
	"github.com/motive-tools/mocap/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	files, err := resolveFiles(&config.Import)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no take files matched the import configuration")
	}

	store := storage.NewSqliteStore(config.Storage.DatabasePath)
	defer store.Close()

	for _, file := range files {
		if err = ctx.Err(); err != nil {
			return err
		}

		take, err := mocap.ReadFile(file, mocap.WithLogger(logger))
		if err != nil {
			return err
		}

		takeID, err := store.StoreTake(ctx, filepath.Base(file), take)
		if err != nil {
			return fmt.Errorf("storing %s: %w", file, err)
		}

		logger.Info("take imported",
			slog.String("file", file),
			slog.Int64("takeID", takeID),
			slog.Int("bodies", len(take.Bodies)),
			slog.String("frames", humanize.Comma(int64(take.NumFrames()))))
	}

	return nil
}

// resolveFiles combines the explicit file list with the source directory
// glob, deduplicated and in stable order.
func resolveFiles(config *ImportConfig) ([]string, error) {
	files := slices.Clone(config.Files)

	if config.SourceDir != "" {
		matches, err := filepath.Glob(filepath.Join(config.SourceDir, config.Pattern))
		if err != nil {
			return nil, fmt.Errorf("matching takes in '%s': %w", config.SourceDir, err)
		}
		files = append(files, matches...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}
