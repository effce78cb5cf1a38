package systems

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/blobs/neural"
)

var (
	testZone   = NewSafeZone(r3.Vec{X: 8}, r3.Vec{X: 6, Y: 6, Z: 6})
	insidePos  = r3.Vec{X: 8}
	outsidePos = r3.Vec{}
)

func newTestGeneration(target int, policy ExtinctionPolicy) *GenerationSystem {
	return NewGenerationSystem(GenerationOptions{
		Zone:   testZone,
		Target: target,
		Period: 10,
		Policy: policy,
		Params: neural.DefaultParams(),
	}, rand.New(rand.NewSource(42)))
}

func randomGenomes(n int, seed int64) []neural.Network {
	rng := rand.New(rand.NewSource(seed))
	out := make([]neural.Network, n)
	for i := range out {
		out[i] = neural.Random(rng, neural.DefaultParams())
	}
	return out
}

func TestResetSingleSurvivorFillsPopulation(t *testing.T) {
	genomes := randomGenomes(10, 1)
	candidates := make([]Candidate, len(genomes))
	for i := range genomes {
		candidates[i] = Candidate{Pos: outsidePos, Genome: &genomes[i]}
	}
	candidates[3].Pos = insidePos

	gen := newTestGeneration(10, PolicyReseed)
	out, err := gen.Reset(candidates)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if len(out.Genomes) != 10 {
		t.Fatalf("population = %d, want 10", len(out.Genomes))
	}
	want := genomes[3].Key()
	for i := range out.Genomes {
		if out.Genomes[i].Key() != want {
			t.Errorf("genome %d differs from sole survivor", i)
		}
	}
	m := out.Metrics
	if m.Survived != 1 || m.Diversity != 1 || m.Generation != 1 || m.Extinct {
		t.Errorf("metrics = %+v, want survived=1 diversity=1 generation=1", m)
	}
	if m.SurvivalRate != 0.1 {
		t.Errorf("SurvivalRate = %f, want 0.1", m.SurvivalRate)
	}
}

func TestResetSurvivorsMatchZone(t *testing.T) {
	genomes := randomGenomes(40, 2)
	candidates := make([]Candidate, len(genomes))
	pool := make(map[neural.Key]bool)
	wantSurvived := 0
	for i := range genomes {
		pos := outsidePos
		if i%3 == 0 {
			pos = insidePos
			wantSurvived++
			pool[genomes[i].Key()] = true
		}
		candidates[i] = Candidate{Pos: pos, Genome: &genomes[i]}
	}

	gen := newTestGeneration(25, PolicyReseed)
	out, err := gen.Reset(candidates)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if out.Metrics.Survived != wantSurvived {
		t.Errorf("Survived = %d, want %d", out.Metrics.Survived, wantSurvived)
	}
	if out.Metrics.Diversity > 25 || out.Metrics.Diversity > len(pool) {
		t.Errorf("Diversity = %d exceeds bounds (target 25, pool %d)", out.Metrics.Diversity, len(pool))
	}
	for i := range out.Genomes {
		if !pool[out.Genomes[i].Key()] {
			t.Errorf("genome %d was not drawn from the survivors", i)
		}
	}
}

func TestResetCopiesGenomes(t *testing.T) {
	genomes := randomGenomes(1, 3)
	candidates := []Candidate{{Pos: insidePos, Genome: &genomes[0]}}
	before := genomes[0].Key()

	gen := newTestGeneration(4, PolicyReseed)
	out, err := gen.Reset(candidates)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}

	genomes[0].Connections[0].Weight += 1
	if out.Genomes[0].Key() != before {
		t.Error("offspring share storage with the parent genome")
	}
}

func TestResetExtinction(t *testing.T) {
	genomes := randomGenomes(5, 4)
	candidates := make([]Candidate, len(genomes))
	for i := range genomes {
		candidates[i] = Candidate{Pos: outsidePos, Genome: &genomes[i]}
	}

	t.Run("reseed", func(t *testing.T) {
		gen := newTestGeneration(8, PolicyReseed)
		out, err := gen.Reset(candidates)
		if err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if len(out.Genomes) != 8 {
			t.Errorf("population = %d, want 8", len(out.Genomes))
		}
		for i := range out.Genomes {
			if err := out.Genomes[i].Validate(); err != nil {
				t.Errorf("reseeded genome %d invalid: %v", i, err)
			}
		}
		m := out.Metrics
		if !m.Extinct || m.Survived != 0 || m.Diversity != 0 {
			t.Errorf("metrics = %+v, want extinct with zero survivors", m)
		}
	})

	t.Run("halt", func(t *testing.T) {
		gen := newTestGeneration(8, PolicyHalt)
		out, err := gen.Reset(candidates)
		if !errors.Is(err, ErrExtinct) {
			t.Fatalf("err = %v, want ErrExtinct", err)
		}
		if len(out.Genomes) != 0 {
			t.Errorf("population = %d, want 0", len(out.Genomes))
		}
		if !gen.Metrics().Extinct {
			t.Error("committed metrics not marked extinct")
		}
	})

	t.Run("empty scan", func(t *testing.T) {
		gen := newTestGeneration(3, PolicyReseed)
		out, err := gen.Reset(nil)
		if err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if out.Metrics.SurvivalRate != 0 || !out.Metrics.Extinct {
			t.Errorf("metrics = %+v, want extinct with zero rate", out.Metrics)
		}
	})
}

func TestResetCountsGenerations(t *testing.T) {
	genomes := randomGenomes(1, 5)
	gen := newTestGeneration(2, PolicyReseed)

	for want := 1; want <= 3; want++ {
		if _, err := gen.Reset([]Candidate{{Pos: insidePos, Genome: &genomes[0]}}); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if got := gen.Metrics().Generation; got != want {
			t.Errorf("Generation = %d, want %d", got, want)
		}
	}
}

func TestAdvance(t *testing.T) {
	gen := newTestGeneration(1, PolicyReseed)

	fired := 0
	for i := 0; i < 250; i++ {
		if gen.Advance(0.1) {
			fired++
		}
	}
	// 25 simulated seconds over a 10s period
	if fired != 2 {
		t.Errorf("fired %d resets, want 2", fired)
	}
	if r := gen.Remaining(); r <= 0 || r > 10 {
		t.Errorf("Remaining = %f, want in (0, 10]", r)
	}
}

func TestAdvanceCarriesOvershoot(t *testing.T) {
	gen := newTestGeneration(1, PolicyReseed)

	if !gen.Advance(12) {
		t.Fatal("expected reset after overshooting the period")
	}
	if r := gen.Remaining(); r != 8 {
		t.Errorf("Remaining = %f, want 8", r)
	}
}

func TestParseExtinctionPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ExtinctionPolicy
		wantErr bool
	}{
		{"reseed", PolicyReseed, false},
		{"halt", PolicyHalt, false},
		{"restart", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExtinctionPolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownPolicy) {
				t.Errorf("err = %v, want ErrUnknownPolicy", err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if !tt.wantErr && got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}
