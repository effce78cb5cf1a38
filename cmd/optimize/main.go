// Package main provides CMA-ES optimization for finding simulation parameters
// under which the safe-zone selection keeps a high, steady survival rate.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/blobs/config"
)

// options holds the parsed command line.
type options struct {
	configPath  string
	generations int
	seeds       int
	maxEvals    int
	population  int
	outputDir   string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.generations, "generations", 20, "Generations simulated per run")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if err := run(opts); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.outputDir == "" {
		return errors.New("-output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, opts.generations, evalSeeds(opts.seeds), baseCfg)

	log, err := newEvalLog(filepath.Join(opts.outputDir, "optimize_log.csv"), params)
	if err != nil {
		return err
	}
	defer log.Close()

	popSize := opts.population
	if popSize == 0 {
		popSize = defaultPopulation(params.Dim())
	}

	tr := &tracker{best: 1e9, start: time.Now(), maxEvals: opts.maxEvals}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// CMA-ES works in the unit cube; the simulation sees clamped raw values
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)

			tr.observe(fitness, raw)
			log.Write(tr.evals, fitness, raw)
			tr.report(fitness, evaluator.LastQuality())
			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, opts.maxEvals)
	fmt.Printf("Seeds per evaluation: %d, generations per run: %d\n", opts.seeds, opts.generations)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	best := tr.params
	switch {
	case best != nil:
	case result != nil:
		best = params.Clamp(params.Denormalize(result.X))
	default:
		best = params.DefaultVector()
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", tr.evals, formatDuration(time.Since(tr.start)))
	fmt.Printf("Best fitness: %.4f\n", tr.best)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %-14s %-22s %.6f\n", spec.Name, spec.Path, best[i])
	}

	params.ApplyToConfig(baseCfg, best)
	out := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", out)
	return nil
}

// evalSeeds returns n fixed seeds so every evaluation sees the same runs.
func evalSeeds(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	return seeds
}

// defaultPopulation is the usual CMA-ES lambda: 4 + floor(3 ln n).
func defaultPopulation(dim int) int {
	return 4 + int(3*math.Log(float64(dim)))
}

// tracker follows the best evaluation and prints progress.
type tracker struct {
	evals    int
	maxEvals int
	best     float64
	params   []float64
	start    time.Time
}

func (t *tracker) observe(fitness float64, raw []float64) {
	t.evals++
	if fitness < t.best {
		t.best = fitness
		t.params = append(t.params[:0], raw...)
	}
}

func (t *tracker) report(fitness, quality float64) {
	elapsed := time.Since(t.start)
	remaining := time.Duration(t.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))

	// Fitness = -(survival × (1 + 0.2×quality))
	survival := -fitness / (1.0 + 0.2*quality)
	fmt.Printf("Eval %d/%d: survival=%.3f quality=%.2f (best=%.4f) | elapsed: %s, ETA: %s\n",
		t.evals, t.maxEvals, survival, quality, t.best,
		formatDuration(elapsed), formatDuration(remaining))
}

// evalLog appends one CSV row per evaluation. Columns depend on the
// parameter table, so rows are written positionally.
type evalLog struct {
	f *os.File
	w *csv.Writer
}

func newEvalLog(path string, params *ParamVector) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	l := &evalLog{f: f, w: csv.NewWriter(f)}

	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing log header: %w", err)
	}
	return l, nil
}

func (l *evalLog) Write(eval int, fitness float64, values []float64) {
	row := []string{strconv.Itoa(eval), strconv.FormatFloat(fitness, 'f', 6, 64)}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := l.w.Write(row); err != nil {
		slog.Error("failed to write log row", "eval", eval, "error", err)
	}
	l.w.Flush()
}

func (l *evalLog) Close() error {
	l.w.Flush()
	return l.f.Close()
}

// formatDuration formats a duration as 1h02m03s or 2m03s for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
