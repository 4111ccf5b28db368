package evo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"simplegp/internal/fitness"
	"simplegp/internal/model"
	"simplegp/internal/parallel"
	"simplegp/internal/sampling"
)

// Breeder produces the next generation from an evaluated one. Every
// offspring samples an operator, pulls that operator's parents from the
// primed selector, and applies it.
type Breeder[C any, F fitness.Fitness[F]] struct {
	Operators *sampling.Weighted[Operator[C]]
	Mechanism Mechanism[C, F]
	Size      int
	Workers   int
}

func (b Breeder[C, F]) validate() error {
	if b.Operators == nil || b.Operators.Len() == 0 {
		return errors.New("breeder requires at least one operator")
	}
	if b.Mechanism == nil {
		return errors.New("breeder requires a selection mechanism")
	}
	if b.Size <= 0 {
		return fmt.Errorf("offspring count must be > 0, got %d", b.Size)
	}
	return nil
}

// Breed returns exactly Size unevaluated offspring in offspring order. The
// result depends only on rng's state, never on the worker count.
func (b Breeder[C, F]) Breed(ctx context.Context, rng *rand.Rand, pop model.Population[model.Evaluated[C, F]]) (model.Population[model.Individual[C]], error) {
	if err := b.validate(); err != nil {
		return model.Population[model.Individual[C]]{}, err
	}
	if rng == nil {
		return model.Population[model.Individual[C]]{}, errors.New("random source is required")
	}
	selector, err := b.Mechanism.Prime(pop)
	if err != nil {
		return model.Population[model.Individual[C]]{}, fmt.Errorf("prime %s selection: %w", b.Mechanism.Name(), err)
	}

	seeds := sampling.Seeds(rng, b.Size)
	offspring := make([]model.Individual[C], b.Size)
	err = parallel.For(ctx, b.Workers, b.Size, func(ctx context.Context, i int) error {
		child, err := b.breedOne(ctx, sampling.NewRand(seeds[i]), selector)
		if err != nil {
			return fmt.Errorf("offspring %d: %w", i, err)
		}
		offspring[i] = child
		return nil
	})
	if err != nil {
		return model.Population[model.Individual[C]]{}, err
	}
	return model.NewPopulation(offspring), nil
}

func (b Breeder[C, F]) breedOne(ctx context.Context, rng *rand.Rand, selector Selector[model.Evaluated[C, F]]) (model.Individual[C], error) {
	op, err := b.Operators.Sample(rng)
	if err != nil {
		return model.Individual[C]{}, err
	}
	parents := make([]model.Individual[C], op.Arity())
	for j := range parents {
		parent, err := selector.Sample(rng)
		if err != nil {
			return model.Individual[C]{}, err
		}
		parents[j] = parent.Individual()
	}
	child, err := op.Apply(ctx, rng, parents)
	if err != nil {
		return model.Individual[C]{}, fmt.Errorf("%s: %w", op.Name(), err)
	}
	return child, nil
}
