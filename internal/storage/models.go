package storage

import (
	"database/sql"
	"time"

	"github.com/motive-tools/mocap/internal/mocap"
)

// TakeRecord is the stored metadata of one imported take.
type TakeRecord struct {
	ID            int64
	ImportedAt    time.Time
	SourceFile    string
	FormatVersion string
	FrameRate     float64
	LengthUnits   string
	RotationType  string
	FrameCount    int64
}

// BodyRecord identifies one rigid body trajectory within a stored take.
type BodyRecord struct {
	ID      int64
	TakeID  int64
	Label   string
	AssetID string
}

// FrameSample is one frame of a stored trajectory. Position and Rotation are
// nil for frames where the body had no sample, mirroring the in-memory model.
type FrameSample struct {
	Frame    int
	Time     float64
	Position *mocap.Vec3
	Rotation *mocap.Quat
}

// frameData is the scan target for one frames table row.
type frameData struct {
	Frame int64
	Time  float64
	PosX  sql.NullFloat64
	PosY  sql.NullFloat64
	PosZ  sql.NullFloat64
	RotX  sql.NullFloat64
	RotY  sql.NullFloat64
	RotZ  sql.NullFloat64
	RotW  sql.NullFloat64
}
