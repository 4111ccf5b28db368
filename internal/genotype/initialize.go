package genotype

import (
	"context"
	"fmt"
	"math/rand"

	"simplegp/internal/model"
	"simplegp/internal/parallel"
	"simplegp/internal/sampling"
	"simplegp/internal/tree"
)

// Initializer builds generation zero. Each individual is built by an
// independent task with its own generator, so the population depends only on
// the master seed, never on the worker count.
type Initializer[C any] struct {
	Constructor Constructor[C]
	Size        int
	Workers     int
	// Ramped cycles the depth limit over 2..MaxDepth and alternates grow and
	// full construction across individuals.
	Ramped bool
}

func (in Initializer[C]) Initialize(ctx context.Context, rng *rand.Rand) (model.Population[model.Individual[C]], error) {
	if in.Size <= 0 {
		return model.Population[model.Individual[C]]{}, fmt.Errorf("population size must be > 0, got %d", in.Size)
	}
	if err := in.Constructor.validate(); err != nil {
		return model.Population[model.Individual[C]]{}, err
	}
	if rng == nil {
		return model.Population[model.Individual[C]]{}, fmt.Errorf("random source is required")
	}

	seeds := sampling.Seeds(rng, in.Size)
	trees := make([]*tree.Node[C], in.Size)
	err := parallel.For(ctx, in.Workers, in.Size, func(_ context.Context, i int) error {
		node, err := in.constructorFor(i).Build(sampling.NewRand(seeds[i]))
		if err != nil {
			return fmt.Errorf("individual %d: %w", i, err)
		}
		trees[i] = node
		return nil
	})
	if err != nil {
		return model.Population[model.Individual[C]]{}, err
	}

	individuals := make([]model.Individual[C], len(trees))
	for i, node := range trees {
		individuals[i] = model.NewIndividual(node)
	}
	return model.NewPopulation(individuals), nil
}

func (in Initializer[C]) constructorFor(i int) Constructor[C] {
	if !in.Ramped {
		return in.Constructor
	}
	c := in.Constructor
	minDepth := 2
	if c.MaxDepth < minDepth {
		minDepth = c.MaxDepth
	}
	span := c.MaxDepth - minDepth + 1
	if span < 1 {
		span = 1
	}
	c.MaxDepth = minDepth + i%span
	if (i/span)%2 == 0 {
		c.Policy = NewGrow(c.Catalog)
	} else {
		c.Policy = Full{}
	}
	return c
}
