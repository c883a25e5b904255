package storage

import (
	"context"
	"testing"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/model"
)

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
		CreatedAtUTC:    "2026-08-31T10:00:00Z",
		Config:          model.RunConfig{PopulationSize: 200, Generations: 300, CostOrder: "bi"},
		BestLayout:      "qwerty",
		BestCost:        120.5,
		BestFitness:     1 / 120.5,
	}
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("save run: %v", err)
	}

	output, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if output.ID != input.ID || output.BestCost != input.BestCost {
		t.Fatalf("unexpected run: %+v", output)
	}
	if output.Config.PopulationSize != 200 {
		t.Fatalf("unexpected config: %+v", output.Config)
	}
}

func TestMemoryStoreGetRunMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	_, ok, err := store.GetRun(ctx, "missing")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if ok {
		t.Fatal("expected missing run")
	}
}

func TestMemoryStoreListRunsOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	runs := []model.RunRecord{
		{ID: "b", CreatedAtUTC: "2026-08-30T10:00:00Z"},
		{ID: "a", CreatedAtUTC: "2026-08-31T10:00:00Z"},
		{ID: "c", CreatedAtUTC: "2026-08-30T10:00:00Z"},
	}
	for _, run := range runs {
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save run %s: %v", run.ID, err)
		}
	}

	listed, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(listed))
	}
	// Newest first, ID ascending within the same timestamp.
	if listed[0].ID != "a" || listed[1].ID != "b" || listed[2].ID != "c" {
		t.Fatalf("unexpected order: %s %s %s", listed[0].ID, listed[1].ID, listed[2].ID)
	}
}

func TestMemoryStoreFitnessHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []float64{0.001, 0.002, 0.004}
	if err := store.SaveFitnessHistory(ctx, "run-1", input); err != nil {
		t.Fatalf("save history: %v", err)
	}
	output, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted fitness history")
	}
	if len(output) != len(input) || output[2] != input[2] {
		t.Fatalf("unexpected history: %+v", output)
	}

	// Mutating the returned slice must not affect the stored copy.
	output[0] = 99
	again, _, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history again: %v", err)
	}
	if again[0] != input[0] {
		t.Fatalf("stored history was aliased: %+v", again)
	}
}

func TestMemoryStoreFitnessHistoryMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	_, ok, err := store.GetFitnessHistory(ctx, "missing")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if ok {
		t.Fatal("expected missing history")
	}
}
