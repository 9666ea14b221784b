package mocap

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
)

// twoBodyTake is a small but complete export: two rigid bodies, a marker
// column set shared between them, and three frames with a dropout in the
// middle one.
const twoBodyTake = `Format Version,1.21,Take Name,walk cycle,Capture Frame Rate,240.000000,Export Frame Rate,120.000000,Rotation Type,Quaternion,Length Units,Meters

,,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Marker,Marker,Marker
,,Head,Head,Head,Head,Head,Head,Head,Wand,Wand,Wand,Wand,Wand,Wand,Wand,Head:M1,Head:M1,Head:M1
,,"10","10","10","10","10","10","10","11","11","11","11","11","11","11","10.1","10.1","10.1"
,,Rotation,Rotation,Rotation,Rotation,Position,Position,Position,Rotation,Rotation,Rotation,Rotation,Position,Position,Position,Position,Position,Position
,,X,Y,Z,W,X,Y,Z,X,Y,Z,W,X,Y,Z,X,Y,Z
0,0.000000,0.0,0.0,0.0,1.0,0.1,1.7,0.2,0.0,0.7,0.0,0.7,1.0,1.1,1.2,0.11,1.71,0.21
1,0.008333,,,,,,,,0.0,0.7,0.0,0.7,1.0,1.1,1.3,0.12,1.72,0.22
2,0.016667,0.0,0.1,0.0,0.9,0.2,1.8,0.3,,,,,,,,0.13,1.73,0.23
`

func TestReadTake(t *testing.T) {
	take := mustRead(t, twoBodyTake)

	if got := take.Labels(); !slices.Equal(got, []string{"Head", "Wand"}) {
		t.Errorf("Labels() = %q, want [Head Wand]", got)
	}
	if take.NumFrames() != 3 {
		t.Errorf("NumFrames() = %d, want 3", take.NumFrames())
	}
	if got := take.IgnoredLabels(); !slices.Equal(got, []string{"Head:M1"}) {
		t.Errorf("IgnoredLabels() = %q, want [Head:M1]", got)
	}

	head, _ := take.Body("Head")
	wand, _ := take.Body("Wand")

	if head.ID != "10" || wand.ID != "11" {
		t.Errorf("body IDs = %q/%q, want 10/11", head.ID, wand.ID)
	}

	// Head drops out on frame 1, Wand on frame 2
	if head.NumValidFrames() != 2 {
		t.Errorf("Head.NumValidFrames() = %d, want 2", head.NumValidFrames())
	}
	if wand.NumValidFrames() != 2 {
		t.Errorf("Wand.NumValidFrames() = %d, want 2", wand.NumValidFrames())
	}
	if head.Positions[1] != nil {
		t.Errorf("Head.Positions[1] = %v, want nil", head.Positions[1])
	}
	if wand.Rotations[2] != nil {
		t.Errorf("Wand.Rotations[2] = %v, want nil", wand.Rotations[2])
	}

	wantHeadPos := Vec3{0.2, 1.8, 0.3}
	if head.Positions[2] == nil || *head.Positions[2] != wantHeadPos {
		t.Errorf("Head.Positions[2] = %v, want %v", head.Positions[2], wantHeadPos)
	}
}

func TestReadIdempotence(t *testing.T) {
	first := mustRead(t, twoBodyTake)
	second := mustRead(t, twoBodyTake)

	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same input twice produced different takes")
	}
}

func TestReadDuration(t *testing.T) {
	take := mustRead(t, twoBodyTake)

	// 3 frames at 120 fps
	if got := take.Duration().Seconds(); got != 0.025 {
		t.Errorf("Duration() = %vs, want 0.025s", got)
	}
}

func TestReadDiagnosticsLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Read(strings.NewReader(twoBodyTake), WithLogger(logger)); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ignoring asset") || !strings.Contains(out, "Head:M1") {
		t.Errorf("expected ignored-asset diagnostic in log output, got:\n%s", out)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.csv")
	if err := os.WriteFile(path, []byte(twoBodyTake), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	take, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if take.NumFrames() != 3 {
		t.Errorf("NumFrames() = %d, want 3", take.NumFrames())
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
