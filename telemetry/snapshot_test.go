package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/slime/components"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Seed1:   42,
		Seed2:   7,
		Width:   2,
		Height:  2,
		Frame:   1000,
		Agents: []components.Agent{
			{X: 0.5, Y: 1.25, Heading: 3.1},
			{X: 1.9999, Y: 0, Heading: 0.001},
		},
		Field: []float32{0, 0.1, 1e-7, 12.5},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}
	if want := filepath.Join(tmpDir, "snapshot_1000.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed1 != 42 || loaded.Seed2 != 7 || loaded.Frame != 1000 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	// float32 values must survive the JSON roundtrip bit for bit.
	for i, a := range snapshot.Agents {
		if loaded.Agents[i] != a {
			t.Errorf("agent %d: got %+v, want %+v", i, loaded.Agents[i], a)
		}
	}
	for i, v := range snapshot.Field {
		if loaded.Field[i] != v {
			t.Errorf("cell %d: got %v, want %v", i, loaded.Field[i], v)
		}
	}
	if err := loaded.Validate(2, 2, 2, 42, 7); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSnapshotValidate(t *testing.T) {
	newSnapshot := func() Snapshot {
		return Snapshot{
			Version: SnapshotVersion,
			Seed1:   3,
			Seed2:   9,
			Width:   2,
			Height:  1,
			Agents:  []components.Agent{{X: 0, Y: 0}, {X: 1.5, Y: 0.5, Heading: 6}, {X: 0.25, Y: 0.99, Heading: 1}},
			Field:   []float32{0, 0.5},
		}
	}
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"version", func(s *Snapshot) { s.Version = SnapshotVersion + 1 }},
		{"grid", func(s *Snapshot) { s.Width = 4 }},
		{"seed 1", func(s *Snapshot) { s.Seed1 = 4 }},
		{"seed 2", func(s *Snapshot) { s.Seed2 = 999 }},
		{"cells", func(s *Snapshot) { s.Field = s.Field[:1] }},
		{"agents", func(s *Snapshot) { s.Agents = s.Agents[:2] }},
		{"negative cell", func(s *Snapshot) { s.Field[0] = -5 }},
		{"nan cell", func(s *Snapshot) { s.Field[1] = nan }},
		{"inf cell", func(s *Snapshot) { s.Field[1] = inf }},
		{"nan x", func(s *Snapshot) { s.Agents[0].X = nan }},
		{"y off grid", func(s *Snapshot) { s.Agents[1].Y = 1 }},
		{"inf heading", func(s *Snapshot) { s.Agents[2].Heading = inf }},
		{"negative heading", func(s *Snapshot) { s.Agents[2].Heading = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSnapshot()
			tt.mutate(&s)
			if err := s.Validate(2, 1, 3, 3, 9); err == nil {
				t.Error("expected an error")
			}
		})
	}

	s := newSnapshot()
	if err := s.Validate(2, 1, 3, 3, 9); err != nil {
		t.Errorf("unexpected error for matching snapshot: %v", err)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
