package simplegp

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"simplegp/internal/stats"
)

func ref[T any](v T) *T {
	return &v
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{
		StoreKind: "memory",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestClientRunRunsAndStats(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	summary, err := client.Run(ctx, RunRequest{
		Target:        "square",
		Population:    16,
		Generations:   2,
		TestingPoints: 20,
		Seed:          ref[int64](42),
		Workers:       ref(2),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if len(summary.Generations) != 3 {
		t.Fatalf("unexpected generation history length: %d", len(summary.Generations))
	}
	if summary.BestExpression == "" {
		t.Fatal("expected best expression")
	}

	second, err := client.Run(ctx, RunRequest{Population: 8, Generations: 1, TestingPoints: 10, Seed: ref[int64](1)})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	runs, err := client.Runs(ctx, RunsRequest{Limit: 5})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected two runs, got %+v", runs)
	}
	ids := map[string]bool{runs[0].RunID: true, runs[1].RunID: true}
	if !ids[summary.RunID] || !ids[second.RunID] {
		t.Fatalf("runs list missing a run: %+v", runs)
	}

	history, err := client.Stats(ctx, StatsRequest{RunID: summary.RunID, Phase: "train"})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(history) != 2 || history[1].Generation != 2 {
		t.Fatalf("unexpected train stats: %+v", history)
	}

	latest, err := client.Stats(ctx, StatsRequest{Latest: true, Limit: 1})
	if err != nil {
		t.Fatalf("latest stats: %v", err)
	}
	if len(latest) != 1 || latest[0].Phase != "test" {
		t.Fatalf("unexpected latest stats: %+v", latest)
	}
}

func TestClientRunLoadsConfigFile(t *testing.T) {
	client := newTestClient(t)
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("target: abs\npopulation_size: 8\ngenerations: 1\ntesting_points: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	summary, err := client.Run(context.Background(), RunRequest{ConfigPath: path, Seed: ref[int64](3)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Target != "abs" || summary.Seed != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestClientRunRejectsUnknownTargetAndSelection(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.Run(context.Background(), RunRequest{Target: "tan"}); err == nil {
		t.Fatal("expected unknown target error")
	}
	if _, err := client.Run(context.Background(), RunRequest{Selection: "roulette", Population: 4, Generations: 1}); err == nil {
		t.Fatal("expected unknown selection error")
	}
	if _, err := client.Run(context.Background(), RunRequest{MutationProbability: ref(1.5)}); err == nil {
		t.Fatal("expected mutation probability error")
	}
}

func TestClientStatsRequiresRun(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.Stats(context.Background(), StatsRequest{}); err == nil {
		t.Fatal("expected missing run id error")
	}
	if _, err := client.Stats(context.Background(), StatsRequest{Latest: true}); err == nil {
		t.Fatal("expected no runs error")
	}
	if _, err := client.Stats(context.Background(), StatsRequest{RunID: "missing"}); err == nil {
		t.Fatal("expected missing stats error")
	}
}

func TestClientProblems(t *testing.T) {
	available := newTestClient(t).Problems()
	if len(available.Targets) == 0 || len(available.PrimitiveSets) == 0 {
		t.Fatalf("unexpected problems: %+v", available)
	}
}

func TestClientExport(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	summary, err := client.Run(ctx, RunRequest{Population: 8, Generations: 1, TestingPoints: 10, Seed: ref[int64](5)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	runDir, err := client.Export(ctx, ExportRequest{Latest: true, OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	artifacts, err := stats.ReadRunArtifacts(runDir)
	if err != nil {
		t.Fatalf("read artifacts: %v", err)
	}
	if artifacts.Run.ID != summary.RunID || len(artifacts.History) != 2 {
		t.Fatalf("unexpected artifacts: %+v", artifacts)
	}

	if _, err := client.Export(ctx, ExportRequest{RunID: "missing", OutDir: t.TempDir()}); err == nil {
		t.Fatal("expected missing run error")
	}
	if _, err := client.Export(ctx, ExportRequest{RunID: summary.RunID}); err == nil {
		t.Fatal("expected missing output directory error")
	}
}

func TestConfigFromRequestAppliesExplicitZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("seed: 9\nmax_depth: 4\nworkers: 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	kept, err := configFromRequest(RunRequest{ConfigPath: path})
	if err != nil {
		t.Fatalf("config without overrides: %v", err)
	}
	if kept.Seed != 9 || kept.MaxDepth != 4 || kept.Workers != 3 {
		t.Fatalf("file values not kept: seed=%d max_depth=%d workers=%d", kept.Seed, kept.MaxDepth, kept.Workers)
	}

	cfg, err := configFromRequest(RunRequest{
		ConfigPath:          path,
		Seed:                ref[int64](0),
		MaxDepth:            ref(0),
		Workers:             ref(0),
		MutationProbability: ref(0.0),
	})
	if err != nil {
		t.Fatalf("config with zero overrides: %v", err)
	}
	if cfg.Seed != 0 || cfg.MaxDepth != 0 || cfg.Workers != 0 {
		t.Fatalf("zero overrides ignored: seed=%d max_depth=%d workers=%d", cfg.Seed, cfg.MaxDepth, cfg.Workers)
	}
	if len(cfg.Operators) != 2 || cfg.Operators[0].Probability != 0 || cfg.Operators[1].Probability != 1 {
		t.Fatalf("unexpected operators: %+v", cfg.Operators)
	}
}
