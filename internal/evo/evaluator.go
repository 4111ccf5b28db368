package evo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"simplegp/internal/model"
	"simplegp/internal/parallel"
)

// FitnessFunc scores one individual. It must be safe to call concurrently.
type FitnessFunc[C, F any] func(ctx context.Context, ind model.Individual[C]) (F, error)

// Evaluator scores every member of a population independently, preserving
// order. With a cache, structurally identical trees are scored once.
type Evaluator[C, F any] struct {
	fitness FitnessFunc[C, F]
	workers int
	cache   *lru.Cache[string, F]

	calls atomic.Int64
	hits  atomic.Int64
}

// NewEvaluator builds an evaluator. cacheSize <= 0 disables memoization.
func NewEvaluator[C, F any](fn FitnessFunc[C, F], workers, cacheSize int) (*Evaluator[C, F], error) {
	if fn == nil {
		return nil, errors.New("fitness function is required")
	}
	e := &Evaluator[C, F]{fitness: fn, workers: workers}
	if cacheSize > 0 {
		cache, err := lru.New[string, F](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("fitness cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

func (e *Evaluator[C, F]) Evaluate(ctx context.Context, pop model.Population[model.Individual[C]]) (model.Population[model.Evaluated[C, F]], error) {
	out := make([]model.Evaluated[C, F], pop.Len())
	err := parallel.For(ctx, e.workers, pop.Len(), func(ctx context.Context, i int) error {
		ind := pop.At(i)
		fit, err := e.score(ctx, ind)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", ind.Key(), err)
		}
		out[i] = model.NewEvaluated(ind, fit)
		return nil
	})
	if err != nil {
		return model.Population[model.Evaluated[C, F]]{}, err
	}
	return model.NewPopulation(out), nil
}

func (e *Evaluator[C, F]) score(ctx context.Context, ind model.Individual[C]) (F, error) {
	if e.cache == nil {
		e.calls.Add(1)
		return e.fitness(ctx, ind)
	}
	key := ind.Key()
	if fit, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		return fit, nil
	}
	e.calls.Add(1)
	fit, err := e.fitness(ctx, ind)
	if err != nil {
		return fit, err
	}
	e.cache.Add(key, fit)
	return fit, nil
}

// Evaluations is the number of fitness function calls made so far.
func (e *Evaluator[C, F]) Evaluations() int64 {
	return e.calls.Load()
}

// CacheHits is the number of individuals scored from the cache.
func (e *Evaluator[C, F]) CacheHits() int64 {
	return e.hits.Load()
}
