// Package pipeline chains the steps of an evolutionary run. A Pipeline holds
// either a value or the first error; once an error is recorded every later
// step is skipped and Finish reports it.
package pipeline

import (
	"context"
	"errors"
)

// Step transforms a value. It may fail.
type Step[T, U any] func(ctx context.Context, value T) (U, error)

type Pipeline[T any] struct {
	ctx   context.Context
	value T
	err   error
}

// Start runs supplier to produce the initial value.
func Start[T any](ctx context.Context, supplier func(ctx context.Context) (T, error)) Pipeline[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	if supplier == nil {
		return Pipeline[T]{ctx: ctx, err: errors.New("pipeline supplier is required")}
	}
	if err := ctx.Err(); err != nil {
		return Pipeline[T]{ctx: ctx, err: err}
	}
	value, err := supplier(ctx)
	return Pipeline[T]{ctx: ctx, value: value, err: err}
}

// Of starts a pipeline from a known value.
func Of[T any](ctx context.Context, value T) Pipeline[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return Pipeline[T]{ctx: ctx, value: value}
}

// Then applies a step that may change the value's type.
func Then[T, U any](p Pipeline[T], step Step[T, U]) Pipeline[U] {
	if p.err != nil {
		return Pipeline[U]{ctx: p.ctx, err: p.err}
	}
	if err := p.ctx.Err(); err != nil {
		return Pipeline[U]{ctx: p.ctx, err: err}
	}
	value, err := step(p.ctx, p.value)
	return Pipeline[U]{ctx: p.ctx, value: value, err: err}
}

// Apply is Then for steps that keep the value's type.
func (p Pipeline[T]) Apply(step Step[T, T]) Pipeline[T] {
	return Then(p, step)
}

// Observe runs a side effect on the current value and passes it through
// unchanged.
func (p Pipeline[T]) Observe(effect func(ctx context.Context, value T) error) Pipeline[T] {
	return p.Apply(func(ctx context.Context, value T) (T, error) {
		return value, effect(ctx, value)
	})
}

// Repeat runs block until criterion reports true. The criterion sees the
// 0-based count of completed iterations and the current value before every
// iteration; block receives the 1-based number of the iteration it runs.
func (p Pipeline[T]) Repeat(criterion Criterion[T], block func(iteration int, p Pipeline[T]) Pipeline[T]) Pipeline[T] {
	for done := 0; ; done++ {
		if p.err != nil {
			return p
		}
		if err := p.ctx.Err(); err != nil {
			return Pipeline[T]{ctx: p.ctx, err: err}
		}
		if criterion(done, p.value) {
			return p
		}
		p = block(done+1, p)
	}
}

// Finish returns the final value or the first error.
func (p Pipeline[T]) Finish() (T, error) {
	if p.err != nil {
		var zero T
		return zero, p.err
	}
	return p.value, nil
}

func (p Pipeline[T]) Err() error {
	return p.err
}

func (p Pipeline[T]) Context() context.Context {
	return p.ctx
}
