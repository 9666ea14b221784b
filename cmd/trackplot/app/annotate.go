package app

import (
	"fmt"
	"image"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
)

const (
	dpi     float64 = 72
	size    float64 = 14
	spacing float64 = 1.2

	tickLength     = 8
	pixelsPerLabel = 150
)

type Annotator struct {
	context *freetype.Context
}

// NewAnnotator loads the TTF font at fontPath and prepares a drawing context
// for axis scales, the information block and the legend.
func NewAnnotator(fontPath string) (*Annotator, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetFontSize(size)
	context.SetSrc(image.Black)
	context.SetHinting(font.HintingFull)

	return &Annotator{context: context}, nil
}

func (a *Annotator) Annotate(img *image.RGBA, track *TrackData, proj projection) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	ops := []struct {
		msg string
		fn  func(*image.RGBA, *TrackData, projection) error
	}{
		{"drawing X scale", a.drawXScale},
		{"drawing Z scale", a.drawZScale},
		{"drawing info", a.drawInfo},
		{"drawing legend", a.drawLegend},
	}
	for _, op := range ops {
		if err := op.fn(img, track, proj); err != nil {
			return fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return nil
}

// drawXScale labels the ground-plane X axis along the bottom edge of the
// plot area.
func (a *Annotator) drawXScale(img *image.RGBA, track *TrackData, proj projection) error {
	count := proj.area.Dx() / pixelsPerLabel
	if count == 0 {
		count = 1
	}
	unitsPerLabel := track.RangeX() / float64(count)

	for si := 0; si <= count; si++ {
		x := track.MinX + float64(si)*unitsPerLabel
		pt := proj.point(x, track.MinZ)

		for i := 0; i < tickLength; i++ {
			img.Set(pt.X, proj.area.Max.Y+i, image.Black)
		}

		label := freetype.Pt(pt.X+3, proj.area.Max.Y+tickLength+int(size))
		if _, err := a.context.DrawString(a.humanLength(x, track.Units), label); err != nil {
			return err
		}
	}

	return nil
}

// drawZScale labels the ground-plane Z axis along the left edge of the
// plot area.
func (a *Annotator) drawZScale(img *image.RGBA, track *TrackData, proj projection) error {
	count := proj.area.Dy() / pixelsPerLabel
	if count == 0 {
		count = 1
	}
	unitsPerLabel := track.RangeZ() / float64(count)

	for si := 0; si <= count; si++ {
		z := track.MinZ + float64(si)*unitsPerLabel
		pt := proj.point(track.MinX, z)

		for i := 0; i < tickLength; i++ {
			img.Set(proj.area.Min.X-1-i, pt.Y, image.Black)
		}

		label := freetype.Pt(3, pt.Y+int(size)/2)
		if _, err := a.context.DrawString(a.humanLength(z, track.Units), label); err != nil {
			return err
		}
	}

	return nil
}

// drawInfo writes the take summary block below the X scale.
func (a *Annotator) drawInfo(img *image.RGBA, track *TrackData, proj projection) error {
	lines := []string{
		fmt.Sprintf("Take: %s", track.TakeName),
		fmt.Sprintf("Frames: %s at %g fps", humanize.Comma(int64(track.NumFrames)), track.FrameRate),
		fmt.Sprintf("Area: %s x %s",
			a.humanLength(track.RangeX(), track.Units),
			a.humanLength(track.RangeZ(), track.Units)),
	}

	lineHeight := size * spacing
	pt := freetype.Pt(proj.area.Min.X, proj.area.Max.Y+tickLength+2*int(lineHeight))
	for _, line := range lines {
		if _, err := a.context.DrawString(line, pt); err != nil {
			return err
		}
		pt.Y += a.context.PointToFixed(size * spacing)
	}

	return nil
}

// drawLegend writes each body label in its path color above the plot area.
func (a *Annotator) drawLegend(img *image.RGBA, track *TrackData, proj projection) error {
	pt := freetype.Pt(proj.area.Min.X, proj.area.Min.Y-tickLength)

	for i, path := range track.Paths {
		a.context.SetSrc(image.NewUniform(pathPalette[i%len(pathPalette)]))

		adv, err := a.context.DrawString(path.Label, pt)
		if err != nil {
			return err
		}
		pt.X = adv.X + a.context.PointToFixed(size)
	}

	a.context.SetSrc(image.Black)
	return nil
}

func (a *Annotator) humanLength(v float64, units string) string {
	return fmt.Sprintf("%s %s", humanize.FtoaWithDigits(v, 2), units)
}
