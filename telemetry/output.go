package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/blobs/config"
)

// csvSink appends rows of one record type to a CSV file. The header is
// written with the first row.
type csvSink[T any] struct {
	name   string
	f      *os.File
	header bool
}

func newCSVSink[T any](dir, name string) (*csvSink[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink[T]{name: name, f: f}, nil
}

func (s *csvSink[T]) write(row T) error {
	rows := []T{row}
	var err error
	if s.header {
		err = gocsv.MarshalWithoutHeaders(rows, s.f)
	} else {
		err = gocsv.Marshal(rows, s.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	s.header = true
	return nil
}

func (s *csvSink[T]) close() error {
	if s == nil {
		return nil
	}
	return s.f.Close()
}

// OutputManager writes one run's experiment output: generations.csv,
// perf.csv and a config.yaml snapshot. A nil manager discards everything.
type OutputManager struct {
	dir         string
	generations *csvSink[GenerationRecord]
	perf        *csvSink[PerfStatsCSV]
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	generations, err := newCSVSink[GenerationRecord](dir, "generations.csv")
	if err != nil {
		return nil, err
	}
	perf, err := newCSVSink[PerfStatsCSV](dir, "perf.csv")
	if err != nil {
		generations.close()
		return nil, err
	}
	return &OutputManager{dir: dir, generations: generations, perf: perf}, nil
}

// WriteConfig snapshots the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteGeneration appends a generation record to generations.csv.
func (om *OutputManager) WriteGeneration(rec GenerationRecord) error {
	if om == nil {
		return nil
	}
	return om.generations.write(rec)
}

// WritePerf appends the perf window at tick to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, tick int32) error {
	if om == nil {
		return nil
	}
	return om.perf.write(stats.ToCSV(tick))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.generations.close(), om.perf.close())
}
