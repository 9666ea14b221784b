package mocap

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// The export always begins with a fixed seven-line preamble: key/value
// metadata, a blank line, then five column-aligned rows describing every data
// column past the frame number and time columns.
const (
	headerLines = 7

	// data columns start after the frame number and time columns
	reservedColumns = 2

	assetRigidBody       = "Rigid Body"
	assetRigidBodyMarker = "Rigid Body Marker"
	assetMarker          = "Marker"

	fieldRotationName = "Rotation"
	fieldPositionName = "Position"

	rotationQuaternion = "Quaternion"
)

var (
	supportedVersions = map[string]struct{}{
		"1.2":  {},
		"1.21": {},
	}

	supportedAssetTypes = map[string]struct{}{
		assetRigidBody:       {},
		assetRigidBodyMarker: {},
		assetMarker:          {},
	}

	positionAxes = map[string]int{"X": 0, "Y": 1, "Z": 2}
	rotationAxes = map[string]int{"X": 0, "Y": 1, "Z": 2, "W": 3}
)

type fieldKind int

const (
	fieldPosition fieldKind = iota
	fieldRotation
)

// columnMapping binds one data column to the trajectory field and axis it
// feeds. The body is referenced by its label key into Take.Bodies rather than
// by pointer, so trajectory storage stays owned by the Take and the mapping
// list can never dangle relative to it.
type columnMapping struct {
	kind   fieldKind
	label  string
	axis   int
	column int
}

// parseHeader consumes the seven tokenized header lines, populating the take
// metadata, its rigid bodies and the ordered column mapping list. Every
// violated format assumption is fatal.
func (p *parser) parseHeader(take *Take, lines [][]string) error {
	// Line 1 is a flat sequence of key/value pairs and must lead with the
	// format version.
	line1 := lines[0]
	if len(line1) < 2 || line1[0] != "Format Version" {
		return fmt.Errorf("%w: first header cell must be %q, found %q", ErrMalformedHeader, "Format Version", at(line1, 0))
	}
	if _, ok := supportedVersions[line1[1]]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, line1[1])
	}

	for i := 0; i+1 < len(line1); i += 2 {
		take.info[line1[i]] = line1[i+1]
	}

	take.RotationType = take.info["Rotation Type"]
	if take.RotationType != rotationQuaternion {
		return fmt.Errorf("%w: %q", ErrUnsupportedRotation, take.RotationType)
	}

	if v, ok := take.info["Export Frame Rate"]; ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid export frame rate %q", ErrMalformedHeader, v)
		}
		take.FrameRate = rate
	}
	if v, ok := take.info["Length Units"]; ok {
		take.Units = v
	}

	// Line 2 must be blank.
	if len(lines[1]) != 0 {
		return fmt.Errorf("%w: expected blank second line, found %q", ErrMalformedHeader, strings.Join(lines[1], ","))
	}

	// Lines 3-7 describe the data columns: asset type, asset label, asset ID,
	// field kind and axis designator.
	types := dataColumns(lines[2])
	labels := dataColumns(lines[3])
	ids := dataColumns(lines[4])
	fields := dataColumns(lines[5])
	axes := dataColumns(lines[6])

	for _, typ := range types {
		if _, ok := supportedAssetTypes[typ]; !ok {
			return fmt.Errorf("%w: %q", ErrUnsupportedAssetType, typ)
		}
	}

	for col, typ := range types {
		label := at(labels, col)

		if typ != assetRigidBody {
			// Marker and rigid-body-marker columns carry no trajectory;
			// remember the label once for diagnostics.
			if _, seen := take.ignoredLabels[label]; !seen {
				take.ignoredLabels[label] = struct{}{}
				p.logger.Debug("ignoring asset",
					slog.String("label", label),
					slog.String("type", typ))
			}
			continue
		}

		// A rigid body column past the end of the label line means the header
		// rows disagree on the column count; a body keyed by an empty label
		// would silently swallow every such column.
		if label == "" {
			return fmt.Errorf("%w: rigid body column %d has no label", ErrMalformedHeader, col+reservedColumns)
		}

		if _, ok := take.Bodies[label]; !ok {
			take.Bodies[label] = &RigidBody{Label: label, ID: at(ids, col)}
		}

		axis := at(axes, col)
		switch at(fields, col) {
		case fieldRotationName:
			idx, ok := rotationAxes[axis]
			if !ok {
				return fmt.Errorf("%w: %q on rotation column %d", ErrUnsupportedAxis, axis, col+reservedColumns)
			}
			take.columns = append(take.columns, columnMapping{kind: fieldRotation, label: label, axis: idx, column: col})

		case fieldPositionName:
			idx, ok := positionAxes[axis]
			if !ok {
				return fmt.Errorf("%w: %q on position column %d", ErrUnsupportedAxis, axis, col+reservedColumns)
			}
			take.columns = append(take.columns, columnMapping{kind: fieldPosition, label: label, axis: idx, column: col})

			// Other field kinds on rigid body columns, such as the mean marker
			// error metric, are not part of the trajectory and get no mapping.
		}
	}

	return nil
}

func dataColumns(fields []string) []string {
	if len(fields) <= reservedColumns {
		return nil
	}
	return fields[reservedColumns:]
}
