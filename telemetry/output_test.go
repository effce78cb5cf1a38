package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/blobs/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Nil manager is a no-op
	if err := om.WriteGeneration(GenerationRecord{}); err != nil {
		t.Errorf("WriteGeneration on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir on nil = %q", om.Dir())
	}
}

func TestOutputManagerWritesGenerations(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for gen := 1; gen <= 3; gen++ {
		rec := GenerationRecord{RunID: "abc", Generation: gen, Survived: gen * 2, Extinct: gen == 2}
		if err := om.WriteGeneration(rec); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatalf("reading generations.csv: %v", err)
	}

	var got []GenerationRecord
	if err := gocsv.UnmarshalBytes(data, &got); err != nil {
		t.Fatalf("parsing generations.csv: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3 (single header)", len(got))
	}
	for i, rec := range got {
		if rec.Generation != i+1 || rec.Survived != (i+1)*2 || rec.RunID != "abc" {
			t.Errorf("row %d = %+v", i, rec)
		}
	}
	if !got[1].Extinct || got[0].Extinct {
		t.Error("extinct column not round-tripped")
	}
}

func TestOutputManagerWritesConfigAndPerf(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not reload: %v", err)
	}

	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase(PhaseActuation)
	pc.EndTick()
	if err := om.WritePerf(pc.Stats(), 1); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WritePerf(pc.Stats(), 2); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	var rows []PerfStatsCSV
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("parsing perf.csv: %v", err)
	}
	if len(rows) != 2 || rows[1].Tick != 2 {
		t.Errorf("perf rows = %+v, want 2 rows ending at tick 2", rows)
	}
}
