package mocap

import (
	"fmt"
	"strconv"
)

// readFrame applies one tokenized data row to the take. A frame slot is
// appended to every tracked body before any value is written, so all
// trajectories stay index-aligned even for rows that populate none of a
// body's columns.
func (p *parser) readFrame(take *Take, row []string) error {
	if len(row) < reservedColumns {
		return fmt.Errorf("%w: expected at least frame number and time, found %d fields", ErrMalformedRow, len(row))
	}

	frame, err := strconv.Atoi(row[0])
	if err != nil {
		return fmt.Errorf("%w: invalid frame number %q", ErrMalformedRow, row[0])
	}

	// The exporter numbers frames contiguously from zero; a declared frame
	// number that disagrees with the row ordinal would silently misalign
	// every trajectory, so it is rejected instead.
	if frame != take.numFrames {
		return fmt.Errorf("%w: frame number %d out of sequence, expected %d", ErrMalformedRow, frame, take.numFrames)
	}

	t, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid frame time %q on frame %d", ErrMalformedRow, row[1], frame)
	}

	for _, body := range take.Bodies {
		body.addFrame(t)
	}

	values := row[reservedColumns:]
	for _, m := range take.columns {
		if m.column >= len(values) {
			return fmt.Errorf("%w: frame %d has %d value columns, header declared column %d", ErrMalformedRow, frame, len(values), m.column+reservedColumns)
		}

		raw := values[m.column]
		if raw == "" {
			// missing sample for this column, leave the axis unwritten
			continue
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid value %q in column %d of frame %d", ErrMalformedRow, raw, m.column+reservedColumns, frame)
		}

		body := take.Bodies[m.label]
		switch m.kind {
		case fieldPosition:
			body.setPosition(frame, m.axis, v)
		case fieldRotation:
			body.setRotation(frame, m.axis, v)
		}
	}

	take.numFrames++
	return nil
}
