package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"simplegp/internal/model"
	"simplegp/internal/storage"
)

type Options struct {
	Store  storage.Store
	Logger *slog.Logger
}

// Platform runs experiments and keeps their summaries in a store.
type Platform struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	started bool
}

func New(opts Options) *Platform {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Platform{
		store:  opts.Store,
		logger: logger.With("component", "platform"),
		now:    time.Now,
	}
}

func (p *Platform) Init(ctx context.Context) error {
	if p.store == nil {
		return errors.New("store is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := p.store.Init(ctx); err != nil {
		return err
	}
	p.started = true
	return nil
}

func (p *Platform) Started() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started
}

// RunResult is the outcome of one run.
type RunResult struct {
	Record      model.RunRecord
	Generations []model.GenerationStats
}

// Run executes one evolutionary run and persists its summary.
func (p *Platform) Run(ctx context.Context, cfg Config) (RunResult, error) {
	if !p.Started() {
		return RunResult{}, errors.New("platform is not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return RunResult{}, fmt.Errorf("invalid config: %w", err)
	}

	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	started := p.now()
	logger.InfoContext(ctx, "run started",
		"target", cfg.Target,
		"primitive_set", cfg.PrimitiveSet,
		"objectives", cfg.Objectives,
		"population", cfg.PopulationSize,
		"generations", cfg.Generations,
		"seed", cfg.Seed,
	)

	out, err := evolve(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "run failed", "error", err)
		return RunResult{}, fmt.Errorf("run %s: %w", runID, err)
	}

	record := storage.Stamp(model.RunRecord{
		ID:             runID,
		CreatedAtUTC:   started.UTC().Format(time.RFC3339Nano),
		Target:         cfg.Target,
		PrimitiveSet:   cfg.PrimitiveSet,
		Objectives:     cfg.Objectives,
		Seed:           cfg.Seed,
		PopulationSize: cfg.PopulationSize,
		Generations:    cfg.Generations,
		MaxDepth:       cfg.MaxDepth,
		Selection:      cfg.Selection,
		Evaluations:    out.evaluations,
		TrainBest:      out.trainBest,
		TestBest:       out.testBest,
		BestExpression: out.bestExpression,
		BestDepth:      out.bestDepth,
		DurationMillis: p.now().Sub(started).Milliseconds(),
	})
	if err := p.store.SaveRun(ctx, record); err != nil {
		return RunResult{}, fmt.Errorf("save run %s: %w", runID, err)
	}
	if err := p.store.SaveGenerationStats(ctx, runID, out.history); err != nil {
		return RunResult{}, fmt.Errorf("save generation stats %s: %w", runID, err)
	}

	logger.InfoContext(ctx, "run finished",
		"train_best", record.TrainBest,
		"test_best", record.TestBest,
		"evaluations", record.Evaluations,
		"best", record.BestExpression,
		"duration_ms", record.DurationMillis,
	)
	return RunResult{Record: record, Generations: out.history}, nil
}

func (p *Platform) Runs(ctx context.Context) ([]model.RunRecord, error) {
	if !p.Started() {
		return nil, errors.New("platform is not initialized")
	}
	return p.store.ListRuns(ctx)
}

func (p *Platform) GetRun(ctx context.Context, id string) (model.RunRecord, bool, error) {
	if !p.Started() {
		return model.RunRecord{}, false, errors.New("platform is not initialized")
	}
	return p.store.GetRun(ctx, id)
}

func (p *Platform) GenerationStats(ctx context.Context, runID string) ([]model.GenerationStats, bool, error) {
	if !p.Started() {
		return nil, false, errors.New("platform is not initialized")
	}
	return p.store.GetGenerationStats(ctx, runID)
}
