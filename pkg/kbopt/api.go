// Package kbopt is the embeddable client API: it loads corpus and typing
// data, runs layout optimizations, and persists and lists run results.
package kbopt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/corpus"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/cost"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/evo"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/model"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/report"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/storage"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/typingdata"
)

const (
	defaultRunsDir = "runs"
	defaultDBPath  = "kbopt.db"
)

type Options struct {
	StoreKind string
	DBPath    string
	RunsDir   string
}

type Client struct {
	store   storage.Store
	runsDir string
}

// OptimizeRequest parameterizes one optimization run. Zero-valued fields
// take documented defaults.
type OptimizeRequest struct {
	CorpusPath    string
	TypingCSVPath string
	JSONColumn    string

	Population     int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	EliteCount     int
	TournamentSize int
	Workers        int
	Seed           int64

	CostOrder          string
	UseTrigrams        bool
	FallbackToUnigrams bool

	// Subset restricts evolution to one position class: "letters", "digits",
	// or "symbols". Empty means the full key space.
	Subset string
}

type OptimizeSummary struct {
	RunID            string
	ArtifactsDir     string
	BestLayout       layout.Layout
	BestCost         float64
	BestFitness      float64
	BaselineCost     float64
	ImprovementPct   float64
	BestByGeneration []float64
	SkippedRecords   int
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	CostOrder      string
	Seed           int64
	Population     int
	Generations    int
	BestCost       float64
	BestFitness    float64
	ImprovementPct float64
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

type FitnessHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type FitnessHistory struct {
	RunID  string
	Series []float64
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	runsDir := opts.RunsDir
	if runsDir == "" {
		runsDir = defaultRunsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{store: store, runsDir: runsDir}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) Optimize(ctx context.Context, req OptimizeRequest) (OptimizeSummary, error) {
	if req.CorpusPath == "" {
		return OptimizeSummary{}, errors.New("corpus path is required")
	}
	if req.TypingCSVPath == "" {
		return OptimizeSummary{}, errors.New("typing data path is required")
	}
	if req.JSONColumn == "" {
		req.JSONColumn = typingdata.DefaultJSONColumn
	}
	if req.Population <= 0 {
		req.Population = 200
	}
	if req.Generations <= 0 {
		req.Generations = 300
	}
	if req.MutationRate == 0 {
		req.MutationRate = 0.1
	}
	if req.CrossoverRate == 0 {
		req.CrossoverRate = 0.7
	}
	if req.EliteCount == 0 {
		req.EliteCount = 5
	}
	if req.TournamentSize <= 0 {
		req.TournamentSize = 3
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}
	if req.CostOrder == "" {
		req.CostOrder = "bi"
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	ks := layout.Canonical()

	var freq cost.FrequencySet
	var timing cost.TimingSet
	var skipped int

	var g errgroup.Group
	g.Go(func() error {
		var err error
		freq, err = loadCorpus(req.CorpusPath, ks.Keys())
		if err != nil {
			return fmt.Errorf("load corpus: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		timing, skipped, err = loadTypingData(req.TypingCSVPath, req.JSONColumn)
		if err != nil {
			return fmt.Errorf("load typing data: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return OptimizeSummary{}, err
	}

	order, err := cost.ParseOrder(req.CostOrder)
	if err != nil {
		return OptimizeSummary{}, err
	}
	costModel := cost.Model{
		Space:              ks,
		Freq:               freq,
		Timing:             timing,
		Order:              order,
		UseTrigrams:        req.UseTrigrams,
		FallbackToUnigrams: req.FallbackToUnigrams,
	}
	if err := costModel.Validate(); err != nil {
		return OptimizeSummary{}, err
	}

	space, err := subsetSpace(ks, req.Subset)
	if err != nil {
		return OptimizeSummary{}, err
	}

	engine, err := evo.NewEngine(ks, costModel.Fitness, evo.Config{
		PopulationSize: req.Population,
		Generations:    req.Generations,
		MutationRate:   req.MutationRate,
		CrossoverRate:  req.CrossoverRate,
		EliteCount:     req.EliteCount,
		TournamentSize: req.TournamentSize,
		Workers:        req.Workers,
		Seed:           req.Seed,
		Space:          space,
	})
	if err != nil {
		return OptimizeSummary{}, err
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return OptimizeSummary{}, err
	}

	baselineCost := costModel.Cost(ks.CanonicalLayout())
	bestCost := costModel.Cost(result.Best)
	improvementPct := 0.0
	if baselineCost > 0 {
		improvementPct = (baselineCost - bestCost) / baselineCost * 100
	}

	runID := uuid.NewString()
	now := time.Now().UTC()

	run := model.RunRecord{
		ID:           runID,
		CreatedAtUTC: now.Format(time.RFC3339Nano),
		Config: model.RunConfig{
			CorpusPath:         req.CorpusPath,
			TypingCSVPath:      req.TypingCSVPath,
			JSONColumn:         req.JSONColumn,
			PopulationSize:     req.Population,
			Generations:        req.Generations,
			MutationRate:       req.MutationRate,
			CrossoverRate:      req.CrossoverRate,
			EliteCount:         req.EliteCount,
			TournamentSize:     req.TournamentSize,
			CostOrder:          req.CostOrder,
			UseTrigrams:        req.UseTrigrams,
			FallbackToUnigrams: req.FallbackToUnigrams,
			Subset:             req.Subset,
			Seed:               req.Seed,
			Workers:            req.Workers,
		},
		BestLayout:     result.Best.String(),
		BestCost:       bestCost,
		BestFitness:    result.BestFitness,
		BaselineCost:   baselineCost,
		ImprovementPct: improvementPct,
	}
	storage.Stamp(&run)

	if err := c.store.SaveRun(ctx, run); err != nil {
		return OptimizeSummary{}, err
	}
	if err := c.store.SaveFitnessHistory(ctx, runID, result.BestByGeneration); err != nil {
		return OptimizeSummary{}, err
	}

	runDir, err := report.WriteRunArtifacts(c.runsDir, report.RunArtifacts{
		Run:              run,
		BestByGeneration: result.BestByGeneration,
		Diagnostics:      result.Diagnostics,
		BestLayout:       result.Best,
		PerKeyCost:       costModel.PerKeyCost(result.Best),
	})
	if err != nil {
		return OptimizeSummary{}, err
	}
	if err := report.AppendRunIndex(c.runsDir, report.RunIndexEntry{
		RunID:          runID,
		CreatedAtUTC:   run.CreatedAtUTC,
		PopulationSize: req.Population,
		Generations:    req.Generations,
		CostOrder:      req.CostOrder,
		Seed:           req.Seed,
		BestCost:       bestCost,
		BestFitness:    result.BestFitness,
		ImprovementPct: improvementPct,
	}); err != nil {
		return OptimizeSummary{}, err
	}

	return OptimizeSummary{
		RunID:            runID,
		ArtifactsDir:     filepath.Clean(runDir),
		BestLayout:       result.Best,
		BestCost:         bestCost,
		BestFitness:      result.BestFitness,
		BaselineCost:     baselineCost,
		ImprovementPct:   improvementPct,
		BestByGeneration: append([]float64(nil), result.BestByGeneration...),
		SkippedRecords:   skipped,
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}

	out := make([]RunItem, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunItem{
			RunID:          run.ID,
			CreatedAtUTC:   run.CreatedAtUTC,
			CostOrder:      run.Config.CostOrder,
			Seed:           run.Config.Seed,
			Population:     run.Config.PopulationSize,
			Generations:    run.Config.Generations,
			BestCost:       run.BestCost,
			BestFitness:    run.BestFitness,
			ImprovementPct: run.ImprovementPct,
		})
	}
	return out, nil
}

func (c *Client) GetRun(ctx context.Context, runID string) (model.RunRecord, bool, error) {
	return c.store.GetRun(ctx, runID)
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = "exports"
	}

	runID := req.RunID
	if req.Latest {
		runs, err := c.store.ListRuns(ctx)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(runs) == 0 {
			return ExportSummary{}, errors.New("no runs available to export")
		}
		runID = runs[0].ID
	}

	exportedDir, err := report.ExportRunArtifacts(c.runsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) FitnessHistory(ctx context.Context, req FitnessHistoryRequest) (FitnessHistory, error) {
	if req.RunID != "" && req.Latest {
		return FitnessHistory{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return FitnessHistory{}, errors.New("fitness history requires run id or latest")
	}
	if req.Limit < 0 {
		return FitnessHistory{}, errors.New("limit must be >= 0")
	}

	runID := req.RunID
	if req.Latest {
		runs, err := c.store.ListRuns(ctx)
		if err != nil {
			return FitnessHistory{}, err
		}
		if len(runs) == 0 {
			return FitnessHistory{}, errors.New("no runs available")
		}
		runID = runs[0].ID
	}

	series, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return FitnessHistory{}, err
	}
	if !ok {
		return FitnessHistory{}, fmt.Errorf("no fitness history for run %s", runID)
	}
	if req.Limit > 0 && len(series) > req.Limit {
		series = series[len(series)-req.Limit:]
	}
	return FitnessHistory{RunID: runID, Series: series}, nil
}

func loadCorpus(path string, allowed []rune) (cost.FrequencySet, error) {
	file, err := os.Open(path)
	if err != nil {
		return cost.FrequencySet{}, err
	}
	defer file.Close()
	return corpus.CountNgrams(file, allowed)
}

func loadTypingData(path, jsonColumn string) (cost.TimingSet, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return cost.TimingSet{}, 0, err
	}
	defer file.Close()
	return typingdata.ParseCSV(file, jsonColumn)
}

func subsetSpace(ks *layout.KeySpace, subset string) (evo.Space, error) {
	switch subset {
	case "":
		return evo.FullSpace(), nil
	case "letters":
		return evo.RestrictedSpace(ks.Partition().Letters), nil
	case "digits":
		return evo.RestrictedSpace(ks.Partition().Digits), nil
	case "symbols":
		return evo.RestrictedSpace(ks.Partition().Symbols), nil
	default:
		return evo.Space{}, fmt.Errorf("unknown subset %q (want letters|digits|symbols)", subset)
	}
}
