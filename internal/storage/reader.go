package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoData indicates that no frames exist for the requested trajectory.
var ErrNoData = errors.New("no data available")

// ReaderOption configures a TrajectoryReader with filtering criteria.
type ReaderOption func(*TrajectoryReader)

// WithFrameRange restricts the reader to frames in [first, last].
func WithFrameRange(first, last int) ReaderOption {
	return func(r *TrajectoryReader) {
		r.firstFrame = &first
		r.lastFrame = &last
	}
}

// WithTimeRange restricts the reader to frames whose capture time lies in
// [start, end] seconds.
func WithTimeRange(start, end float64) ReaderOption {
	return func(r *TrajectoryReader) {
		r.startTime = &start
		r.endTime = &end
	}
}

// TrajectoryReader provides an iterator over the stored frames of one rigid
// body. Frames come back in frame order; filters not set explicitly default
// to the full stored range.
type TrajectoryReader struct {
	db     *sql.DB
	bodyID int64

	firstFrame *int
	lastFrame  *int
	startTime  *float64
	endTime    *float64

	rows    *sql.Rows
	current *FrameSample
	err     error
}

// ReadTrajectory returns an iterator over the stored frames of the given
// body. The caller must Close the reader when done.
func (s *SqliteStore) ReadTrajectory(ctx context.Context, bodyID int64, options ...ReaderOption) (*TrajectoryReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	r := TrajectoryReader{
		db:     db,
		bodyID: bodyID,
	}
	for _, option := range options {
		option(&r)
	}

	if err = r.init(ctx); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *TrajectoryReader) init(ctx context.Context) error {
	if err := r.initFilters(ctx); err != nil {
		return fmt.Errorf("setting up filters: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, selectFramesSQL,
		r.bodyID, *r.firstFrame, *r.lastFrame, *r.startTime, *r.endTime)
	if err != nil {
		return fmt.Errorf("querying frames: %w", err)
	}

	r.rows = rows
	return nil
}

// initFilters resolves unset frame and time bounds from the stored data.
func (r *TrajectoryReader) initFilters(ctx context.Context) error {
	if r.firstFrame != nil && r.lastFrame != nil && r.startTime != nil && r.endTime != nil {
		return nil
	}

	var firstFrame, lastFrame sql.NullInt64
	var startTime, endTime sql.NullFloat64

	err := r.db.QueryRowContext(ctx, selectFrameBoundsSQL, r.bodyID).
		Scan(&firstFrame, &lastFrame, &startTime, &endTime)
	if err != nil {
		return err
	}
	if !firstFrame.Valid {
		return fmt.Errorf("%w: body %d has no frames", ErrNoData, r.bodyID)
	}

	if r.firstFrame == nil {
		first := int(firstFrame.Int64)
		r.firstFrame = &first
	}
	if r.lastFrame == nil {
		last := int(lastFrame.Int64)
		r.lastFrame = &last
	}
	if r.startTime == nil {
		r.startTime = &startTime.Float64
	}
	if r.endTime == nil {
		r.endTime = &endTime.Float64
	}

	return nil
}

// Next advances the iterator and returns true if another frame is available.
// Cancellation is checked before advancing, so a cancelled context stops
// iteration even while rows remain buffered.
func (r *TrajectoryReader) Next(ctx context.Context) bool {
	if r.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		r.err = err
		return false
	}
	if !r.rows.Next() {
		return false
	}

	var row frameData
	if err := r.rows.Scan(
		&row.Frame,
		&row.Time,
		&row.PosX, &row.PosY, &row.PosZ,
		&row.RotX, &row.RotY, &row.RotZ, &row.RotW,
	); err != nil {
		r.err = err
		return false
	}

	r.current = toFrameSample(&row)
	return true
}

// Current returns the frame the iterator is positioned on. The behavior is
// undefined after Next has returned false.
func (r *TrajectoryReader) Current() *FrameSample {
	return r.current
}

// Error returns any error that occurred during iteration. Check it after
// Next returns false to distinguish end of data from a failure.
func (r *TrajectoryReader) Error() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

// Close releases the database resources held by the reader.
func (r *TrajectoryReader) Close() error {
	return r.rows.Close()
}
