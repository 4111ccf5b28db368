package stats

import (
	"context"
	"log/slog"
	"sync"

	"simplegp/internal/fitness"
	"simplegp/internal/model"
)

// Reporter logs generation statistics and keeps them for later storage.
type Reporter struct {
	logger *slog.Logger

	mu          sync.Mutex
	history     []model.GenerationStats
	generations map[string]int
}

func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		logger:      logger.With("component", "stats"),
		generations: make(map[string]int),
	}
}

// Record appends s to the history and logs it.
func (r *Reporter) Record(ctx context.Context, s model.GenerationStats) {
	r.mu.Lock()
	r.history = append(r.history, s)
	r.mu.Unlock()

	r.logger.LogAttrs(ctx, slog.LevelInfo, "generation",
		slog.String("phase", s.Phase),
		slog.Int("generation", s.Generation),
		slog.Int("size", s.Size),
		slog.Float64("best", s.BestScore),
		slog.Float64("mean", s.MeanScore),
		slog.Float64("stddev", s.StdDevScore),
		slog.Float64("min", s.MinScore),
		slog.Float64("max", s.MaxScore),
		slog.Float64("mean_depth", s.MeanDepth),
		slog.Int("distinct", s.Distinct),
		slog.Int("invalid", s.Invalid),
	)
	r.logger.LogAttrs(ctx, slog.LevelDebug, "best expression",
		slog.String("phase", s.Phase),
		slog.Int("generation", s.Generation),
		slog.String("expression", s.BestExpression),
	)
}

// History returns a copy of everything recorded so far, in order.
func (r *Reporter) History() []model.GenerationStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.GenerationStats, len(r.history))
	copy(out, r.history)
	return out
}

// next numbers observations per phase starting at 1.
func (r *Reporter) next(phase string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generations[phase]++
	return r.generations[phase]
}

// Observer returns a pipeline side effect that summarizes and records every
// population it sees under the given phase.
func Observer[C any, F fitness.Fitness[F]](r *Reporter, phase string, score ScoreFunc[F]) func(ctx context.Context, pop model.Population[model.Evaluated[C, F]]) error {
	return func(ctx context.Context, pop model.Population[model.Evaluated[C, F]]) error {
		r.Record(ctx, Summarize(r.next(phase), phase, pop, score))
		return nil
	}
}
