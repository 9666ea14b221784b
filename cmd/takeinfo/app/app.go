package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/motive-tools/mocap/internal/mocap"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	stat, err := os.Stat(config.TakePath)
	if err != nil {
		return fmt.Errorf("take file '%s': %w", config.TakePath, err)
	}

	var options []mocap.Option
	if config.Verbose {
		options = append(options, mocap.WithLogger(logger))
	}

	take, err := mocap.ReadFile(config.TakePath, options...)
	if err != nil {
		return err
	}

	takeName, _ := take.Info("Take Name")
	logger.Info("take parsed",
		slog.Group("take",
			slog.String("file", config.TakePath),
			slog.String("size", humanize.Bytes(uint64(stat.Size()))),
			slog.String("name", takeName),
			slog.String("frames", humanize.Comma(int64(take.NumFrames()))),
			slog.String("frameRate", fmt.Sprintf("%g fps", take.FrameRate)),
			slog.String("duration", take.Duration().String()),
			slog.String("units", take.Units),
			slog.String("rotation", take.RotationType),
			slog.Int("bodies", len(take.Bodies)),
			slog.Int("ignoredAssets", len(take.IgnoredLabels())),
		))

	labels := take.Labels()
	if config.Body != "" {
		if _, ok := take.Body(config.Body); !ok {
			return fmt.Errorf("no rigid body labelled '%s' in take", config.Body)
		}
		labels = []string{config.Body}
	}

	for _, label := range labels {
		body, _ := take.Body(label)

		var coverage float64
		if body.NumFrames() > 0 {
			coverage = float64(body.NumValidFrames()) / float64(body.NumFrames()) * 100
		}

		logger.Info("rigid body",
			slog.String("label", body.Label),
			slog.String("id", body.ID),
			slog.String("validFrames", humanize.Comma(int64(body.NumValidFrames()))),
			slog.String("coverage", fmt.Sprintf("%0.1f%%", coverage)),
		)
	}

	return nil
}
