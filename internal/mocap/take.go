package mocap

import (
	"slices"
	"time"
)

const (
	defaultFrameRate = 120.0
	defaultUnits     = "Meters"
)

// Vec3 is a position sample in the take's length units, in X, Y, Z order.
type Vec3 [3]float64

// Quat is a quaternion rotation sample in X, Y, Z, W component order.
type Quat [4]float64

// RigidBody holds the trajectory of a single tracked object across the whole
// take. The three slices are index-aligned: one entry per processed frame,
// appended for every frame regardless of whether the body has data in it, so
// a frame index is a stable key across all bodies of a take.
//
// A position or rotation entry stays nil until the first axis component for
// that frame is written; the first write allocates a zero vector.
type RigidBody struct {
	Label string
	ID    string

	Times     []float64
	Positions []*Vec3
	Rotations []*Quat
}

// addFrame appends an empty slot for the next frame.
func (b *RigidBody) addFrame(t float64) {
	b.Times = append(b.Times, t)
	b.Positions = append(b.Positions, nil)
	b.Rotations = append(b.Rotations, nil)
}

func (b *RigidBody) setPosition(frame, axis int, value float64) {
	if b.Positions[frame] == nil {
		b.Positions[frame] = new(Vec3)
	}
	b.Positions[frame][axis] = value
}

func (b *RigidBody) setRotation(frame, axis int, value float64) {
	if b.Rotations[frame] == nil {
		b.Rotations[frame] = new(Quat)
	}
	b.Rotations[frame][axis] = value
}

// NumFrames returns the total number of frames recorded for this body.
func (b *RigidBody) NumFrames() int {
	return len(b.Times)
}

// NumValidFrames returns the number of frames with a present position sample.
func (b *RigidBody) NumValidFrames() int {
	var count int
	for _, p := range b.Positions {
		if p != nil {
			count++
		}
	}
	return count
}

// Take represents one recorded motion capture session, corresponding to one
// exported CSV file. A Take is populated by a single parse pass and is
// read-only afterwards.
type Take struct {
	FrameRate    float64 // export frame rate in frames per second
	RotationType string  // always "Quaternion"; any other convention is rejected
	Units        string  // length units of position samples

	Bodies map[string]*RigidBody

	info          map[string]string
	ignoredLabels map[string]struct{}
	columns       []columnMapping
	numFrames     int
}

func newTake() *Take {
	return &Take{
		FrameRate:     defaultFrameRate,
		Units:         defaultUnits,
		Bodies:        make(map[string]*RigidBody),
		info:          make(map[string]string),
		ignoredLabels: make(map[string]struct{}),
	}
}

// NumFrames returns the number of frame rows processed.
func (t *Take) NumFrames() int {
	return t.numFrames
}

// Duration returns the capture length implied by the frame count and the
// export frame rate.
func (t *Take) Duration() time.Duration {
	if t.FrameRate == 0 {
		return 0
	}
	return time.Duration(float64(t.numFrames) / t.FrameRate * float64(time.Second))
}

// Body looks up a trajectory by its asset label.
func (t *Take) Body(label string) (*RigidBody, bool) {
	b, ok := t.Bodies[label]
	return b, ok
}

// Labels returns the labels of all tracked rigid bodies in sorted order.
func (t *Take) Labels() []string {
	labels := make([]string, 0, len(t.Bodies))
	for label := range t.Bodies {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// IgnoredLabels returns the labels of header columns that were skipped
// because their asset type is not a rigid body, in sorted order.
func (t *Take) IgnoredLabels() []string {
	labels := make([]string, 0, len(t.ignoredLabels))
	for label := range t.ignoredLabels {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// Info returns the raw value of a key/value pair from the first header line,
// e.g. "Take Name" or "Capture Start Time".
func (t *Take) Info(key string) (string, bool) {
	v, ok := t.info[key]
	return v, ok
}
