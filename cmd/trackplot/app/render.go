package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

const (
	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 120
	defaultRightBorder  = 40

	// Plot height is derived from the world aspect ratio, clamped so a
	// degenerate take cannot produce an unusable image.
	minAspect = 0.25
	maxAspect = 4.0

	startMarkerSize = 3
)

// pathPalette assigns each body path a stable color by index.
var pathPalette = []color.RGBA{
	{R: 0xD6, G: 0x28, B: 0x28, A: 0xFF}, // red
	{R: 0x1F, G: 0x77, B: 0xB4, A: 0xFF}, // blue
	{R: 0x2C, G: 0xA0, B: 0x2C, A: 0xFF}, // green
	{R: 0x94, G: 0x67, B: 0xBD, A: 0xFF}, // purple
	{R: 0xFF, G: 0x7F, B: 0x0E, A: 0xFF}, // orange
	{R: 0x8C, G: 0x56, B: 0x4B, A: 0xFF}, // brown
}

var gridColor = color.RGBA{R: 0xDD, G: 0xDD, B: 0xDD, A: 0xFF}

// BorderConfig defines the sizes of white space around the plot area
type BorderConfig struct {
	Top    int // Top padding
	Left   int // Space for the depth scale
	Bottom int // Space for the width scale and information block
	Right  int // Right padding
}

// RenderConfig holds the configuration options for track visualization
type RenderConfig struct {
	Width        int // Plot area width in pixels
	BorderConfig BorderConfig
}

// projection maps world ground-plane coordinates to plot-area pixels.
// World Z grows away from the viewer, so it is flipped to image Y.
type projection struct {
	area       image.Rectangle
	minX, minZ float64
	ppuX, ppuZ float64 // pixels per world unit
}

func newProjection(track *TrackData, area image.Rectangle) projection {
	return projection{
		area: area,
		minX: track.MinX,
		minZ: track.MinZ,
		ppuX: float64(area.Dx()) / track.RangeX(),
		ppuZ: float64(area.Dy()) / track.RangeZ(),
	}
}

func (p projection) point(x, z float64) image.Point {
	return image.Point{
		X: p.area.Min.X + int((x-p.minX)*p.ppuX),
		Y: p.area.Max.Y - 1 - int((z-p.minZ)*p.ppuZ),
	}
}

// TrackRenderer draws a TrackData view into an RGBA image. The annotator is
// optional; without one the image carries no scales or legend.
type TrackRenderer struct {
	config    RenderConfig
	annotator *Annotator
}

// NewTrackRenderer creates a track renderer with the given configuration.
func NewTrackRenderer(config RenderConfig, annotator *Annotator) *TrackRenderer {
	if config.Width == 0 {
		config.Width = defaultPlotWidth
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	return &TrackRenderer{config: config, annotator: annotator}
}

// Render creates an image of the track data with optional annotations.
func (r *TrackRenderer) Render(track *TrackData) (*image.RGBA, error) {
	aspect := track.RangeZ() / track.RangeX()
	aspect = max(minAspect, min(aspect, maxAspect))

	plotWidth := r.config.Width
	plotHeight := int(float64(plotWidth) * aspect)

	fullWidth := plotWidth + r.config.BorderConfig.Left + r.config.BorderConfig.Right
	fullHeight := plotHeight + r.config.BorderConfig.Top + r.config.BorderConfig.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	plotArea := image.Rect(
		r.config.BorderConfig.Left,
		r.config.BorderConfig.Top,
		r.config.BorderConfig.Left+plotWidth,
		r.config.BorderConfig.Top+plotHeight,
	)
	drawFrame(img, plotArea)

	proj := newProjection(track, plotArea)

	for i, path := range track.Paths {
		r.drawPath(img, proj, path, pathPalette[i%len(pathPalette)])
	}

	if r.annotator != nil {
		if err := r.annotator.Annotate(img, track, proj); err != nil {
			return nil, fmt.Errorf("annotating track: %w", err)
		}
	}

	return img, nil
}

// drawPath draws the polyline of one body, breaking the line at dropout
// frames, and marks the first present sample with a small square.
func (r *TrackRenderer) drawPath(img *image.RGBA, proj projection, path BodyPath, c color.Color) {
	var prev *image.Point
	var started bool

	for _, sample := range path.Points {
		if sample == nil {
			prev = nil
			continue
		}

		pt := proj.point(sample[0], sample[2])
		if !started {
			drawMarker(img, pt, c)
			started = true
		}
		if prev != nil {
			drawLine(img, *prev, pt, c)
		}
		prev = &pt
	}
}

func drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X; x < area.Max.X; x++ {
		img.Set(x, area.Min.Y, gridColor)
		img.Set(x, area.Max.Y-1, gridColor)
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		img.Set(area.Min.X, y, gridColor)
		img.Set(area.Max.X-1, y, gridColor)
	}
}

func drawMarker(img *image.RGBA, pt image.Point, c color.Color) {
	for dx := -startMarkerSize; dx <= startMarkerSize; dx++ {
		for dy := -startMarkerSize; dy <= startMarkerSize; dy++ {
			img.Set(pt.X+dx, pt.Y+dy, c)
		}
	}
}

// drawLine rasterizes a line segment with the Bresenham algorithm.
func drawLine(img *image.RGBA, a, b image.Point, c color.Color) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)

	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}

	err := dx + dy
	x, y := a.X, a.Y
	for {
		img.Set(x, y, c)
		if x == b.X && y == b.Y {
			return
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
