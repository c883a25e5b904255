//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/model"
)

func TestSQLiteStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "kbopt.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
		CreatedAtUTC:    "2026-08-31T10:00:00Z",
		Config:          model.RunConfig{PopulationSize: 200, Generations: 300, CostOrder: "bi", Seed: 42},
		BestLayout:      "qwerty",
		BestCost:        120.5,
		BestFitness:     1 / 120.5,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatalf("expected run %s", run.ID)
	}
	if loaded.ID != run.ID || loaded.BestCost != run.BestCost || loaded.Config.Seed != 42 {
		t.Fatalf("unexpected run loaded: %+v", loaded)
	}

	// Saving the same ID again replaces the record instead of duplicating it.
	run.BestCost = 110.0
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("resave run: %v", err)
	}
	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].BestCost != 110.0 {
		t.Fatalf("unexpected runs after upsert: %+v", runs)
	}
}

func TestSQLiteStoreFitnessHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "kbopt.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	input := []float64{0.001, 0.002, 0.004}
	if err := store.SaveFitnessHistory(ctx, "run-1", input); err != nil {
		t.Fatalf("save history: %v", err)
	}

	history, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted fitness history")
	}
	if len(history) != len(input) || history[2] != input[2] {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestSQLiteStoreMissingLookups(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "kbopt.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	_, ok, err := store.GetRun(ctx, "missing")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if ok {
		t.Fatal("expected missing run")
	}

	_, ok, err = store.GetFitnessHistory(ctx, "missing")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if ok {
		t.Fatal("expected missing history")
	}
}
