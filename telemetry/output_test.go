package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/slime/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// Nil manager methods are no-ops.
	if err := om.WriteField(FieldStats{}); err != nil {
		t.Errorf("WriteField on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := uint64(1); i <= 3; i++ {
		if err := om.WriteField(FieldStats{Frame: i * 10, Mass: float64(i)}); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
		perf := PerfStats{AvgFrameDuration: time.Millisecond, PhasePct: map[string]float64{PhaseAgents: 50}}
		if err := om.WritePerf(perf, i*10); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "field.csv"))
	if err != nil {
		t.Fatalf("open field.csv: %v", err)
	}
	defer f.Close()

	var rows []FieldStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("unmarshal field.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (header written once)", len(rows))
	}
	if rows[2].Frame != 30 || rows[2].Mass != 3 {
		t.Errorf("unexpected last row: %+v", rows[2])
	}

	pf, err := os.Open(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("open perf.csv: %v", err)
	}
	defer pf.Close()

	var perfRows []PerfStatsCSV
	if err := gocsv.UnmarshalFile(pf, &perfRows); err != nil {
		t.Fatalf("unmarshal perf.csv: %v", err)
	}
	if len(perfRows) != 3 || perfRows[0].AgentsPct != 50 {
		t.Errorf("unexpected perf rows: %+v", perfRows)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load back: %v", err)
	}
}
