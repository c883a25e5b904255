package evo

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"
)

// matchFitness rewards agreement with the canonical layout, so evolution has
// a known optimum to climb toward.
func matchFitness(l layout.Layout) float64 {
	canonical := layout.Canonical().CanonicalLayout()
	matches := 0
	for i := range l {
		if l[i] == canonical[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(canonical))
}

func testConfig() Config {
	return Config{
		PopulationSize: 24,
		Generations:    12,
		MutationRate:   0.2,
		CrossoverRate:  0.8,
		EliteCount:     2,
		Workers:        4,
		Seed:           42,
		Space:          FullSpace(),
	}
}

func TestNewEngineValidation(t *testing.T) {
	ks := layout.Canonical()
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero population", func(c *Config) { c.PopulationSize = 0 }},
		{"zero generations", func(c *Config) { c.Generations = 0 }},
		{"negative mutation rate", func(c *Config) { c.MutationRate = -0.1 }},
		{"mutation rate above one", func(c *Config) { c.MutationRate = 1.1 }},
		{"crossover rate above one", func(c *Config) { c.CrossoverRate = 2 }},
		{"negative elite count", func(c *Config) { c.EliteCount = -1 }},
		{"elite count above population", func(c *Config) { c.EliteCount = 25 }},
		{"tournament above population", func(c *Config) { c.TournamentSize = 25 }},
		{"sub-2 restricted space", func(c *Config) { c.Space = RestrictedSpace([]int{3}) }},
		{"out-of-range space index", func(c *Config) { c.Space = RestrictedSpace([]int{0, 99}) }},
		{"duplicate space index", func(c *Config) { c.Space = RestrictedSpace([]int{4, 4}) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := NewEngine(ks, matchFitness, cfg); err == nil {
				t.Fatal("expected a configuration error")
			}
		})
	}

	if _, err := NewEngine(nil, matchFitness, testConfig()); err == nil {
		t.Fatal("expected an error for a nil key space")
	}
	if _, err := NewEngine(ks, nil, testConfig()); err == nil {
		t.Fatal("expected an error for a nil fitness function")
	}
}

func TestInitPopulationProducesValidPermutations(t *testing.T) {
	ks := layout.Canonical()
	engine, err := NewEngine(ks, matchFitness, testConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	population := engine.InitPopulation()
	if len(population) != 24 {
		t.Fatalf("population size: got=%d want=24", len(population))
	}
	for i, individual := range population {
		if err := ks.Validate(individual); err != nil {
			t.Fatalf("individual %d invalid: %v", i, err)
		}
	}
}

func TestInitPopulationRestrictedKeepsFrozenPositions(t *testing.T) {
	ks := layout.Canonical()
	cfg := testConfig()
	subset := ks.Partition().Letters
	cfg.Space = RestrictedSpace(subset)

	engine, err := NewEngine(ks, matchFitness, cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	inSubset := make(map[int]bool, len(subset))
	for _, idx := range subset {
		inSubset[idx] = true
	}
	canonical := ks.CanonicalLayout()
	for _, individual := range engine.InitPopulation() {
		for i := range individual {
			if !inSubset[i] && individual[i] != canonical[i] {
				t.Fatalf("frozen position %d was shuffled", i)
			}
		}
		if err := ks.Validate(individual); err != nil {
			t.Fatalf("restricted individual invalid: %v", err)
		}
	}
}

func TestRunElitismMonotonicTrajectory(t *testing.T) {
	ks := layout.Canonical()
	engine, err := NewEngine(ks, matchFitness, testConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.BestByGeneration) != 12 {
		t.Fatalf("trajectory length: got=%d want=12", len(result.BestByGeneration))
	}
	for i := 1; i < len(result.BestByGeneration); i++ {
		if result.BestByGeneration[i] < result.BestByGeneration[i-1] {
			t.Fatalf("trajectory decreased at generation %d: %v -> %v",
				i+1, result.BestByGeneration[i-1], result.BestByGeneration[i])
		}
	}
	if err := ks.Validate(result.Best); err != nil {
		t.Fatalf("best layout invalid: %v", err)
	}
	if result.BestFitness < result.BestByGeneration[0] {
		t.Fatal("final best fitness below the first generation's best")
	}
}

func TestRunEvaluationCountImpliesPopulationSizeInvariance(t *testing.T) {
	ks := layout.Canonical()
	cfg := testConfig()

	var calls atomic.Int64
	counting := func(l layout.Layout) float64 {
		calls.Add(1)
		return matchFitness(l)
	}
	engine, err := NewEngine(ks, counting, cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Every generation plus the terminal evaluation scores exactly
	// PopulationSize individuals.
	want := int64((cfg.Generations + 1) * cfg.PopulationSize)
	if calls.Load() != want {
		t.Fatalf("fitness evaluations: got=%d want=%d", calls.Load(), want)
	}
}

func TestRunRestrictedSpaceFreezesAcrossGenerations(t *testing.T) {
	ks := layout.Canonical()
	cfg := testConfig()
	subset := ks.Partition().Letters
	cfg.Space = RestrictedSpace(subset)
	cfg.MutationRate = 0.9
	cfg.CrossoverRate = 1.0

	inSubset := make(map[int]bool, len(subset))
	for _, idx := range subset {
		inSubset[idx] = true
	}
	canonical := ks.CanonicalLayout()

	frozenViolations := atomic.Int64{}
	fitness := func(l layout.Layout) float64 {
		for i := range l {
			if !inSubset[i] && l[i] != canonical[i] {
				frozenViolations.Add(1)
			}
		}
		return matchFitness(l)
	}

	engine, err := NewEngine(ks, fitness, cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if frozenViolations.Load() != 0 {
		t.Fatalf("frozen positions were written %d times", frozenViolations.Load())
	}
	for i := range result.Best {
		if !inSubset[i] && result.Best[i] != canonical[i] {
			t.Fatalf("best layout moved frozen position %d", i)
		}
	}
}

func TestRunDeterministicForFixedSeed(t *testing.T) {
	ks := layout.Canonical()

	runOnce := func(workers int) RunResult {
		cfg := testConfig()
		cfg.Workers = workers
		engine, err := NewEngine(ks, matchFitness, cfg)
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		result, err := engine.Run(context.Background())
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return result
	}

	first := runOnce(1)
	second := runOnce(8)
	if string(first.Best) != string(second.Best) {
		t.Fatal("same seed produced different best layouts")
	}
	if len(first.BestByGeneration) != len(second.BestByGeneration) {
		t.Fatal("trajectory lengths differ")
	}
	for i := range first.BestByGeneration {
		if first.BestByGeneration[i] != second.BestByGeneration[i] {
			t.Fatalf("trajectories diverge at generation %d", i+1)
		}
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ks := layout.Canonical()
	engine, err := NewEngine(ks, matchFitness, testConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Run(ctx); err == nil {
		t.Fatal("expected a context error")
	}
}

func TestRunDiagnosticsBounds(t *testing.T) {
	ks := layout.Canonical()
	engine, err := NewEngine(ks, matchFitness, testConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.Diagnostics) != 12 {
		t.Fatalf("diagnostics length: got=%d want=12", len(result.Diagnostics))
	}
	for i, d := range result.Diagnostics {
		if d.Generation != i+1 {
			t.Fatalf("diagnostics generation: got=%d want=%d", d.Generation, i+1)
		}
		if d.MinFitness > d.MeanFitness || d.MeanFitness > d.BestFitness {
			t.Fatalf("generation %d: min/mean/best out of order: %+v", d.Generation, d)
		}
		if d.BestFitness != result.BestByGeneration[i] {
			t.Fatalf("generation %d: diagnostics best diverges from trajectory", d.Generation)
		}
	}
}
