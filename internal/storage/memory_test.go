package storage

import (
	"context"
	"errors"
	"testing"

	"simplegp/internal/model"
)

func testRun(id, created string) model.RunRecord {
	return Stamp(model.RunRecord{
		ID:             id,
		CreatedAtUTC:   created,
		Target:         "sin",
		PrimitiveSet:   "classic",
		Objectives:     "mse",
		Seed:           7,
		PopulationSize: 50,
		Generations:    10,
		MaxDepth:       6,
		Selection:      "tournament",
		TrainBest:      0.25,
		BestExpression: "(max x x)",
	})
}

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := store.SaveRun(ctx, testRun("b", "2026-01-02T00:00:00Z")); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := store.SaveRun(ctx, testRun("a", "2026-01-01T00:00:00Z")); err != nil {
		t.Fatalf("save run: %v", err)
	}

	run, ok, err := store.GetRun(ctx, "b")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok || run.BestExpression != "(max x x)" || run.Seed != 7 {
		t.Fatalf("unexpected run: ok=%t %+v", ok, run)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "a" || runs[1].ID != "b" {
		t.Fatalf("expected runs ordered oldest first, got %+v", runs)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing run, ok=%t err=%v", ok, err)
	}
}

func TestMemoryStoreRejectsUnversionedRun(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	err := store.SaveRun(ctx, model.RunRecord{ID: "x"})
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	if err := NewMemoryStore().SaveRun(context.Background(), testRun("a", "")); err == nil {
		t.Fatal("expected error before init")
	}
}

func TestMemoryStoreGenerationStatsAreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []model.GenerationStats{{Generation: 1, Phase: "train", BestScore: 2}}
	if err := store.SaveGenerationStats(ctx, "run-1", input); err != nil {
		t.Fatalf("save stats: %v", err)
	}
	input[0].BestScore = 99

	output, ok, err := store.GetGenerationStats(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get stats: ok=%t err=%v", ok, err)
	}
	if len(output) != 1 || output[0].BestScore != 2 {
		t.Fatalf("unexpected stats: %+v", output)
	}
	output[0].BestScore = 42
	again, _, _ := store.GetGenerationStats(ctx, "run-1")
	if again[0].BestScore != 2 {
		t.Fatalf("stored stats were aliased: %+v", again)
	}
}
