package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pthm-cable/slime/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the settled simulation state between two frames. With the
// same parameters and seeds, restoring a snapshot and stepping reproduces the original
// run exactly.
type Snapshot struct {
	Version int `json:"version"`

	Seed1 int64  `json:"seed_1"`
	Seed2 uint64 `json:"seed_2"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Frame uint64 `json:"frame"`

	Agents []components.Agent `json:"agents"`
	Field  []float32          `json:"field"`
}

// Validate checks that the snapshot was taken from a run on a w x h grid
// with n agents and the given seeds, and that its state is well formed.
func (s *Snapshot) Validate(w, h, n int, seed1 int64, seed2 uint64) error {
	switch {
	case s.Version != SnapshotVersion:
		return fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	case s.Width != w || s.Height != h:
		return fmt.Errorf("snapshot grid %dx%d, want %dx%d", s.Width, s.Height, w, h)
	case s.Seed1 != seed1 || s.Seed2 != seed2:
		return fmt.Errorf("snapshot seeds (%d, %d), want (%d, %d)", s.Seed1, s.Seed2, seed1, seed2)
	case len(s.Field) != w*h:
		return fmt.Errorf("snapshot field has %d cells, want %d", len(s.Field), w*h)
	case len(s.Agents) != n:
		return fmt.Errorf("snapshot has %d agents, want %d", len(s.Agents), n)
	}

	for i, v := range s.Field {
		// Also rejects NaN.
		if !(v >= 0) || math.IsInf(float64(v), 1) {
			return fmt.Errorf("snapshot cell %d has invalid value %v", i, v)
		}
	}
	fw, fh := float32(w), float32(h)
	for i, a := range s.Agents {
		if !(a.X >= 0 && a.X < fw && a.Y >= 0 && a.Y < fh) {
			return fmt.Errorf("snapshot agent %d at (%v, %v) outside the grid", i, a.X, a.Y)
		}
		if !(a.Heading >= 0 && a.Heading < 2*math.Pi) {
			return fmt.Errorf("snapshot agent %d has invalid heading %v", i, a.Heading)
		}
	}
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Frame))

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
