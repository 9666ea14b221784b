package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/motive-tools/mocap/internal/mocap"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	var options []mocap.Option
	if config.Verbose {
		options = append(options, mocap.WithLogger(logger))
	}

	take, err := mocap.ReadFile(config.TakePath, options...)
	if err != nil {
		return err
	}

	track, err := NewTrackData(take, config.Bodies)
	if err != nil {
		return err
	}

	logger.Info("plotting track",
		slog.Group("track",
			slog.Int("bodies", len(track.Paths)),
			slog.Int("frames", track.NumFrames),
			slog.String("width", fmt.Sprintf("%0.2f %s", track.RangeX(), track.Units)),
			slog.String("depth", fmt.Sprintf("%0.2f %s", track.RangeZ(), track.Units)),
		))

	var annotator *Annotator
	if !config.NoAnnotations {
		if annotator, err = NewAnnotator(config.FontPath); err != nil {
			return fmt.Errorf("creating annotator: %w", err)
		}
	}

	renderer := NewTrackRenderer(RenderConfig{Width: config.Width}, annotator)
	img, err := renderer.Render(track)
	if err != nil {
		return fmt.Errorf("rendering track: %w", err)
	}

	logger.Info("writing image",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("width", img.Bounds().Dx()),
			slog.Int("height", img.Bounds().Dy()),
		))

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	switch config.Format {
	case ImageJPEG:
		err = jpeg.Encode(out, img, nil)
	default:
		err = png.Encode(out, img)
	}
	if err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}

	return nil
}
