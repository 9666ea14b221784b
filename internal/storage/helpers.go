package storage

import (
	"database/sql"
	"errors"

	"github.com/motive-tools/mocap/internal/mocap"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

// rollbackWithError ignores ErrTxDone so a deferred rollback is a no-op
// after a successful commit.
func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

// positionArgs maps an optional position sample to its nullable columns.
// A nil vector stores NULL for every axis.
func positionArgs(p *mocap.Vec3) [3]sql.NullFloat64 {
	var args [3]sql.NullFloat64
	if p == nil {
		return args
	}
	for i := range args {
		args[i] = sql.NullFloat64{Float64: p[i], Valid: true}
	}
	return args
}

func rotationArgs(q *mocap.Quat) [4]sql.NullFloat64 {
	var args [4]sql.NullFloat64
	if q == nil {
		return args
	}
	for i := range args {
		args[i] = sql.NullFloat64{Float64: q[i], Valid: true}
	}
	return args
}

// toFrameSample converts a scanned row back to the optional-vector model.
// Axes stored as NULL come back as zero components of a present vector only
// if at least one axis of that vector is non-NULL; an all-NULL vector is an
// absent sample.
func toFrameSample(row *frameData) *FrameSample {
	s := FrameSample{
		Frame: int(row.Frame),
		Time:  row.Time,
	}

	if row.PosX.Valid || row.PosY.Valid || row.PosZ.Valid {
		s.Position = &mocap.Vec3{row.PosX.Float64, row.PosY.Float64, row.PosZ.Float64}
	}
	if row.RotX.Valid || row.RotY.Valid || row.RotZ.Valid || row.RotW.Valid {
		s.Rotation = &mocap.Quat{row.RotX.Float64, row.RotY.Float64, row.RotZ.Float64, row.RotW.Float64}
	}

	return &s
}
