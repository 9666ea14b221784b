package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"

	minPlotWidth     = 256
	defaultPlotWidth = 1024
)

type ImageFormat string

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

type Config struct {
	TakePath      string
	OutputFile    string
	Format        ImageFormat
	Bodies        []string
	FontPath      string
	Width         int
	NoAnnotations bool
	Verbose       bool
}

func NewConfigFromCLI() (*Config, error) {
	c := Config{Format: ImagePNG}

	var imageFormat, bodies string
	flag.StringVar(&c.TakePath, "in", "", "Path to the exported take CSV file")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", ImagePNG, "Output image format. [png, jpeg]")
	flag.StringVar(&bodies, "bodies", "", "Comma-separated rigid body labels to plot (all bodies when empty)")
	flag.StringVar(&c.FontPath, "font", "", "Path to a TTF font used for annotations")
	flag.IntVar(&c.Width, "w", defaultPlotWidth, "Plot area width in pixels")
	flag.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable annotations such as axis scales and the legend")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	var err error
	if c.TakePath == "" {
		err = errors.New("take file path is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if c.Width < minPlotWidth {
		err = fmt.Errorf("plot width must be at least %d pixels", minPlotWidth)
	} else if !c.NoAnnotations && c.FontPath == "" {
		err = errors.New("font path is required unless annotations are disabled")
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	if bodies != "" {
		for _, label := range strings.Split(bodies, ",") {
			if label = strings.TrimSpace(label); label != "" {
				c.Bodies = append(c.Bodies, label)
			}
		}
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return &c, nil
}
