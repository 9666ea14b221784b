package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/motive-tools/mocap/internal/mocap"
)

const fixtureTake = `Format Version,1.21,Take Name,storage test,Export Frame Rate,120.000000,Rotation Type,Quaternion,Length Units,Meters

,,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body,Rigid Body
,,Probe,Probe,Probe,Probe,Probe,Probe,Probe
,,"7","7","7","7","7","7","7"
,,Rotation,Rotation,Rotation,Rotation,Position,Position,Position
,,X,Y,Z,W,X,Y,Z
0,0.000000,0.0,0.0,0.0,1.0,0.1,0.2,0.3
1,0.008333,,,,,,,
2,0.016667,0.0,0.1,0.0,0.9,0.4,0.5,0.6
`

func storeFixture(t *testing.T) (*SqliteStore, int64) {
	t.Helper()

	take, err := mocap.Read(strings.NewReader(fixtureTake))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	store := NewSqliteStore(filepath.Join(t.TempDir(), "takes.sqlite"))
	t.Cleanup(func() { _ = store.Close() })

	takeID, err := store.StoreTake(context.Background(), "storage_test.csv", take)
	if err != nil {
		t.Fatalf("StoreTake failed: %v", err)
	}
	return store, takeID
}

func TestStoreTakeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, takeID := storeFixture(t)

	rec, err := store.Take(ctx, takeID)
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if rec.SourceFile != "storage_test.csv" {
		t.Errorf("SourceFile = %q, want storage_test.csv", rec.SourceFile)
	}
	if rec.FormatVersion != "1.21" {
		t.Errorf("FormatVersion = %q, want 1.21", rec.FormatVersion)
	}
	if rec.FrameCount != 3 {
		t.Errorf("FrameCount = %d, want 3", rec.FrameCount)
	}
	if rec.FrameRate != 120 {
		t.Errorf("FrameRate = %v, want 120", rec.FrameRate)
	}

	takes, err := store.Takes(ctx)
	if err != nil {
		t.Fatalf("Takes failed: %v", err)
	}
	if len(takes) != 1 {
		t.Fatalf("Takes returned %d records, want 1", len(takes))
	}

	bodies, err := store.Bodies(ctx, takeID)
	if err != nil {
		t.Fatalf("Bodies failed: %v", err)
	}
	if len(bodies) != 1 || bodies[0].Label != "Probe" || bodies[0].AssetID != "7" {
		t.Fatalf("Bodies = %+v, want one Probe body with asset ID 7", bodies)
	}
}

func TestReadTrajectory(t *testing.T) {
	ctx := context.Background()
	store, takeID := storeFixture(t)

	bodies, err := store.Bodies(ctx, takeID)
	if err != nil {
		t.Fatalf("Bodies failed: %v", err)
	}

	reader, err := store.ReadTrajectory(ctx, bodies[0].ID)
	if err != nil {
		t.Fatalf("ReadTrajectory failed: %v", err)
	}
	defer reader.Close()

	var frames []*FrameSample
	for reader.Next(ctx) {
		frames = append(frames, reader.Current())
	}
	if err = reader.Error(); err != nil {
		t.Fatalf("iteration failed: %v", err)
	}

	if len(frames) != 3 {
		t.Fatalf("read %d frames, want 3", len(frames))
	}

	// frame 1 was a dropout, its samples must come back absent
	if frames[1].Position != nil || frames[1].Rotation != nil {
		t.Errorf("frame 1 samples = %v/%v, want nil/nil", frames[1].Position, frames[1].Rotation)
	}

	wantPos := mocap.Vec3{0.4, 0.5, 0.6}
	if frames[2].Position == nil || *frames[2].Position != wantPos {
		t.Errorf("frame 2 position = %v, want %v", frames[2].Position, wantPos)
	}

	wantRot := mocap.Quat{0, 0.1, 0, 0.9}
	if frames[2].Rotation == nil || *frames[2].Rotation != wantRot {
		t.Errorf("frame 2 rotation = %v, want %v", frames[2].Rotation, wantRot)
	}
}

func TestReadTrajectoryFrameRange(t *testing.T) {
	ctx := context.Background()
	store, takeID := storeFixture(t)

	bodies, err := store.Bodies(ctx, takeID)
	if err != nil {
		t.Fatalf("Bodies failed: %v", err)
	}

	reader, err := store.ReadTrajectory(ctx, bodies[0].ID, WithFrameRange(1, 2))
	if err != nil {
		t.Fatalf("ReadTrajectory failed: %v", err)
	}
	defer reader.Close()

	var got []int
	for reader.Next(ctx) {
		got = append(got, reader.Current().Frame)
	}
	if err = reader.Error(); err != nil {
		t.Fatalf("iteration failed: %v", err)
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("frames = %v, want [1 2]", got)
	}
}

func TestReadTrajectoryCancelledContext(t *testing.T) {
	ctx := context.Background()
	store, takeID := storeFixture(t)

	bodies, err := store.Bodies(ctx, takeID)
	if err != nil {
		t.Fatalf("Bodies failed: %v", err)
	}

	reader, err := store.ReadTrajectory(ctx, bodies[0].ID)
	if err != nil {
		t.Fatalf("ReadTrajectory failed: %v", err)
	}
	defer reader.Close()

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	// all three frames are still unread; cancellation must stop iteration
	// before the cursor advances
	if reader.Next(cancelled) {
		t.Error("Next returned true on a cancelled context")
	}
	if !errors.Is(reader.Error(), context.Canceled) {
		t.Errorf("Error() = %v, want %v", reader.Error(), context.Canceled)
	}
}

func TestReadTrajectoryNoData(t *testing.T) {
	store, _ := storeFixture(t)

	_, err := store.ReadTrajectory(context.Background(), 9999)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("ReadTrajectory error = %v, want %v", err, ErrNoData)
	}
}
