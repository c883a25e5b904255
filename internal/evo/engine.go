// Package evo owns the permutation-preserving evolutionary loop: population
// initialization, tournament selection, order crossover, swap mutation, and
// elitist generational replacement.
package evo

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"
)

// FitnessFunc scores one individual. It must be a pure function of the
// layout and shared read-only tables; the engine calls it from multiple
// goroutines.
type FitnessFunc func(layout.Layout) float64

// Config drives one evolution run. Zero values are invalid except where a
// default is documented; NewEngine validates and never clamps silently.
type Config struct {
	PopulationSize int
	Generations    int
	// MutationRate is the per-offspring swap probability, in [0,1].
	MutationRate float64
	// CrossoverRate is the probability a parent pair recombines, in [0,1].
	CrossoverRate float64
	// EliteCount individuals are copied unchanged into each next generation,
	// in [0, PopulationSize].
	EliteCount int
	// TournamentSize is the selection sample size k; defaults to 3.
	TournamentSize int
	// Workers bounds parallel fitness evaluation; defaults to 1.
	Workers int
	Seed    int64
	// Space selects full-permutation or restricted-permutation operation.
	Space Space
}

// GenerationDiagnostics summarizes one evaluated generation.
type GenerationDiagnostics struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	MinFitness  float64 `json:"min_fitness"`
}

// RunResult is the outcome of a completed run.
type RunResult struct {
	Best             layout.Layout
	BestFitness      float64
	BestByGeneration []float64
	Diagnostics      []GenerationDiagnostics
}

// Engine runs the generational loop over a fixed key space. All randomness
// flows through a single deterministic source seeded from Config.Seed, so
// runs with the same seed and configuration reproduce bit for bit; fitness
// evaluation consumes no randomness and may run in parallel.
type Engine struct {
	cfg     Config
	space   *layout.KeySpace
	fitness FitnessFunc
	indices []int
	rng     *rand.Rand
}

// NewEngine validates cfg against the key space and builds an engine.
func NewEngine(space *layout.KeySpace, fitness FitnessFunc, cfg Config) (*Engine, error) {
	if space == nil {
		return nil, fmt.Errorf("key space is required")
	}
	if fitness == nil {
		return nil, fmt.Errorf("fitness function is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0,1]: %v", cfg.MutationRate)
	}
	if cfg.CrossoverRate < 0 || cfg.CrossoverRate > 1 {
		return nil, fmt.Errorf("crossover rate must be in [0,1]: %v", cfg.CrossoverRate)
	}
	if cfg.EliteCount < 0 || cfg.EliteCount > cfg.PopulationSize {
		return nil, fmt.Errorf("elite count must be in [0, population size]")
	}
	if cfg.TournamentSize == 0 {
		cfg.TournamentSize = 3
	}
	if cfg.TournamentSize < 1 || cfg.TournamentSize > cfg.PopulationSize {
		return nil, fmt.Errorf("tournament size must be in [1, population size]: %d", cfg.TournamentSize)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	indices, err := cfg.Space.resolve(space.Size())
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:     cfg,
		space:   space,
		fitness: fitness,
		indices: indices,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// InitPopulation produces the starting population: each individual is the
// canonical layout with the writable positions' values shuffled among
// themselves. Frozen positions keep their canonical symbol.
func (e *Engine) InitPopulation() []layout.Layout {
	base := e.space.CanonicalLayout()
	population := make([]layout.Layout, 0, e.cfg.PopulationSize)
	for i := 0; i < e.cfg.PopulationSize; i++ {
		cand := base.Clone()
		e.shuffleWritable(cand)
		population = append(population, cand)
	}
	return population
}

// shuffleWritable Fisher-Yates shuffles the values at the writable indices.
func (e *Engine) shuffleWritable(l layout.Layout) {
	for i := len(e.indices) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		pi, pj := e.indices[i], e.indices[j]
		l[pi], l[pj] = l[pj], l[pi]
	}
}

// Run executes the configured number of generations and returns the best
// individual found, its fitness, the per-generation best-fitness trajectory,
// and per-generation diagnostics.
func (e *Engine) Run(ctx context.Context) (RunResult, error) {
	population := e.InitPopulation()

	bestHistory := make([]float64, 0, e.cfg.Generations)
	diagnostics := make([]GenerationDiagnostics, 0, e.cfg.Generations)

	for gen := 0; gen < e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		scored, err := e.evaluatePopulation(ctx, population)
		if err != nil {
			return RunResult{}, err
		}

		eliteOrder := rankIndices(scored)
		best := scored[eliteOrder[0]]
		bestHistory = append(bestHistory, best.Fitness)
		diagnostics = append(diagnostics, summarizeGeneration(scored, gen+1))

		next := make([]layout.Layout, 0, e.cfg.PopulationSize)
		for i := 0; i < e.cfg.EliteCount; i++ {
			next = append(next, scored[eliteOrder[i]].Layout.Clone())
		}

		for len(next) < e.cfg.PopulationSize {
			if err := ctx.Err(); err != nil {
				return RunResult{}, err
			}

			p1 := TournamentSelect(e.rng, scored, e.cfg.TournamentSize)
			p2 := TournamentSelect(e.rng, scored, e.cfg.TournamentSize)
			o1, o2 := p1, p2
			if e.rng.Float64() < e.cfg.CrossoverRate {
				o1, o2 = OrderCrossover(e.rng, p1, p2, e.indices)
			}
			SwapMutation(e.rng, o1, e.cfg.MutationRate, e.indices)
			SwapMutation(e.rng, o2, e.cfg.MutationRate, e.indices)
			next = append(next, o1)
			if len(next) < e.cfg.PopulationSize {
				next = append(next, o2)
			}
		}

		population = next
	}

	scored, err := e.evaluatePopulation(ctx, population)
	if err != nil {
		return RunResult{}, err
	}
	final := scored[rankIndices(scored)[0]]

	return RunResult{
		Best:             final.Layout.Clone(),
		BestFitness:      final.Fitness,
		BestByGeneration: bestHistory,
		Diagnostics:      diagnostics,
	}, nil
}

// rankIndices orders population indices by descending fitness, ties broken by
// stable original order.
func rankIndices(scored []ScoredLayout) []int {
	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scored[order[i]].Fitness > scored[order[j]].Fitness
	})
	return order
}

func summarizeGeneration(scored []ScoredLayout, generation int) GenerationDiagnostics {
	if len(scored) == 0 {
		return GenerationDiagnostics{Generation: generation}
	}

	total := 0.0
	best := scored[0].Fitness
	min := scored[0].Fitness
	for _, item := range scored {
		total += item.Fitness
		if item.Fitness > best {
			best = item.Fitness
		}
		if item.Fitness < min {
			min = item.Fitness
		}
	}
	return GenerationDiagnostics{
		Generation:  generation,
		BestFitness: best,
		MeanFitness: total / float64(len(scored)),
		MinFitness:  min,
	}
}

// evaluatePopulation scores every individual through a bounded worker pool.
// Evaluation is pure, so parallel order does not affect the results: each
// fitness lands in its individual's private slot and the pool joins before
// reproduction proceeds.
func (e *Engine) evaluatePopulation(ctx context.Context, population []layout.Layout) ([]ScoredLayout, error) {
	type job struct {
		idx        int
		individual layout.Layout
	}
	type result struct {
		idx     int
		fitness float64
		err     error
	}

	jobs := make(chan job)
	results := make(chan result, len(population))

	workerCount := e.cfg.Workers
	if workerCount > len(population) {
		workerCount = len(population)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				results <- result{idx: j.idx, fitness: e.fitness(j.individual)}
			}
		}()
	}

	for i := range population {
		jobs <- job{idx: i, individual: population[i]}
	}
	close(jobs)

	wg.Wait()
	close(results)

	scored := make([]ScoredLayout, len(population))
	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		scored[res.idx] = ScoredLayout{Layout: population[res.idx], Fitness: res.fitness}
	}
	return scored, nil
}
