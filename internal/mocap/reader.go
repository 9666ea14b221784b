// Package mocap parses motion capture takes exported by OptiTrack Motive in
// CSV format version 1.2 or 1.21 into time-indexed rigid body trajectories.
//
// Reference for the format: http://wiki.optitrack.com/index.php?title=Data_Export:_CSV
package mocap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var (
	// ErrUnsupportedVersion is returned when the header declares a format
	// version other than 1.2 or 1.21.
	ErrUnsupportedVersion = errors.New("unsupported format version")

	// ErrUnsupportedRotation is returned when the header declares a rotation
	// convention other than Quaternion.
	ErrUnsupportedRotation = errors.New("unsupported rotation convention")

	// ErrMalformedHeader is returned when the seven-line preamble violates
	// the fixed header shape.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrUnsupportedAssetType is returned when header line 3 names an asset
	// type outside the supported set.
	ErrUnsupportedAssetType = errors.New("unsupported asset type")

	// ErrUnsupportedAxis is returned when header line 7 names an axis
	// designator outside the expected set for its field kind.
	ErrUnsupportedAxis = errors.New("unsupported axis designator")

	// ErrMalformedRow is returned when a data row cannot be applied to the
	// take. Row errors abort the whole parse: a corrupted frame would
	// desynchronize the frame alignment of every trajectory.
	ErrMalformedRow = errors.New("malformed frame row")
)

// Option configures the parser.
type Option func(*parser)

// WithLogger sets the logger used for parse diagnostics, such as the
// discovery of ignored marker columns.
func WithLogger(logger *slog.Logger) Option {
	return func(p *parser) {
		p.logger = logger
	}
}

type parser struct {
	logger *slog.Logger
}

// Read parses a complete take from r in a single forward pass: the seven
// header lines first, then one row per captured frame. It either returns a
// fully populated Take or the first fatal error encountered.
func Read(r io.Reader, options ...Option) (*Take, error) {
	p := parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}
	for _, option := range options {
		option(&p)
	}

	take := newTake()
	scanner := bufio.NewScanner(r)

	header := make([][]string, 0, headerLines)
	for len(header) < headerLines && scanner.Scan() {
		header = append(header, splitFields(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < headerLines {
		return nil, fmt.Errorf("%w: expected %d header lines, found %d", ErrMalformedHeader, headerLines, len(header))
	}

	if err := p.parseHeader(take, header); err != nil {
		return nil, err
	}

	for scanner.Scan() {
		row := splitFields(scanner.Text())
		if len(row) == 0 {
			// stray blank line, usually at the end of the file
			continue
		}
		if err := p.readFrame(take, row); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading frame rows: %w", err)
	}

	p.logger.Debug("take parsed",
		slog.Int("bodies", len(take.Bodies)),
		slog.Int("frames", take.numFrames),
		slog.Int("ignoredLabels", len(take.ignoredLabels)))

	return take, nil
}

// ReadFile parses the take stored in the CSV file at path.
func ReadFile(path string, options ...Option) (*Take, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening take file: %w", err)
	}
	defer f.Close()

	take, err := Read(f, options...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return take, nil
}
