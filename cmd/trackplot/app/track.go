package app

import (
	"errors"
	"fmt"
	"math"

	"github.com/motive-tools/mocap/internal/mocap"
)

// boundsMargin pads the plotted area so paths never touch the frame edge.
const boundsMargin = 0.05

// BodyPath is the ground-plane trajectory of one rigid body; nil entries mark
// frames with no position sample and break the plotted line.
type BodyPath struct {
	Label  string
	Points []*mocap.Vec3
}

// TrackData is a top-down view of the take: every selected body's path
// projected onto the X/Z ground plane, plus the world bounds of the view.
type TrackData struct {
	TakeName  string
	Units     string
	FrameRate float64
	NumFrames int

	MinX, MaxX float64
	MinZ, MaxZ float64
	Paths      []BodyPath
}

// NewTrackData projects the selected bodies of a take onto the ground plane.
// An empty label list selects every body in the take.
func NewTrackData(take *mocap.Take, labels []string) (*TrackData, error) {
	if len(labels) == 0 {
		labels = take.Labels()
	}

	name, _ := take.Info("Take Name")
	track := TrackData{
		TakeName:  name,
		Units:     take.Units,
		FrameRate: take.FrameRate,
		NumFrames: take.NumFrames(),
		MinX:      math.MaxFloat64,
		MaxX:      -math.MaxFloat64,
		MinZ:      math.MaxFloat64,
		MaxZ:      -math.MaxFloat64,
	}

	var samples int
	for _, label := range labels {
		body, ok := take.Body(label)
		if !ok {
			return nil, fmt.Errorf("no rigid body labelled '%s' in take", label)
		}

		for _, p := range body.Positions {
			if p == nil {
				continue
			}
			samples++
			track.MinX = min(track.MinX, p[0])
			track.MaxX = max(track.MaxX, p[0])
			track.MinZ = min(track.MinZ, p[2])
			track.MaxZ = max(track.MaxZ, p[2])
		}

		track.Paths = append(track.Paths, BodyPath{Label: label, Points: body.Positions})
	}

	if samples == 0 {
		return nil, errors.New("selected bodies have no position samples to plot")
	}

	track.pad()
	return &track, nil
}

// RangeX returns the world width of the view.
func (t *TrackData) RangeX() float64 {
	return t.MaxX - t.MinX
}

// RangeZ returns the world depth of the view.
func (t *TrackData) RangeZ() float64 {
	return t.MaxZ - t.MinZ
}

// pad widens the bounds by a fixed margin, and by a half unit on an axis
// with zero extent so a stationary body still gets a drawable area.
func (t *TrackData) pad() {
	dx, dz := t.RangeX(), t.RangeZ()

	if dx == 0 {
		t.MinX, t.MaxX = t.MinX-0.5, t.MaxX+0.5
	} else {
		t.MinX -= dx * boundsMargin
		t.MaxX += dx * boundsMargin
	}

	if dz == 0 {
		t.MinZ, t.MaxZ = t.MinZ-0.5, t.MaxZ+0.5
	} else {
		t.MinZ -= dz * boundsMargin
		t.MaxZ += dz * boundsMargin
	}
}
