package evo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"simplegp/internal/catalog"
	"simplegp/internal/genotype"
	"simplegp/internal/model"
	"simplegp/internal/sampling"
)

const (
	OperatorIdentity        = "identity"
	OperatorSubtreeMutation = "subtree_mutation"
)

// Identity copies its single parent into the next generation unchanged.
type Identity[C any] struct{}

func (Identity[C]) Name() string {
	return OperatorIdentity
}

func (Identity[C]) Arity() int {
	return 1
}

func (op Identity[C]) Apply(_ context.Context, _ *rand.Rand, parents []model.Individual[C]) (model.Individual[C], error) {
	if err := checkParents[C](op, parents); err != nil {
		return model.Individual[C]{}, err
	}
	return parents[0], nil
}

// SubtreeMutation replaces one child of a random non-terminal with a freshly
// grown subtree of the same type. A tree that is a single terminal is
// replaced by another terminal of its type.
//
// The replacement is grown with a depth budget counted from the replaced
// slot, so a parent within MaxDepth always yields an offspring within
// MaxDepth.
type SubtreeMutation[C any] struct {
	Catalog  *catalog.Catalog[C]
	MaxDepth int
	MaxTries int
}

func (SubtreeMutation[C]) Name() string {
	return OperatorSubtreeMutation
}

func (SubtreeMutation[C]) Arity() int {
	return 1
}

func (op SubtreeMutation[C]) Apply(ctx context.Context, rng *rand.Rand, parents []model.Individual[C]) (model.Individual[C], error) {
	if err := checkParents[C](op, parents); err != nil {
		return model.Individual[C]{}, err
	}
	if op.Catalog == nil {
		return model.Individual[C]{}, errors.New("subtree mutation requires a catalog")
	}
	if rng == nil {
		return model.Individual[C]{}, errors.New("random source is required")
	}
	if op.MaxTries <= 0 {
		return model.Individual[C]{}, fmt.Errorf("max tries must be > 0, got %d", op.MaxTries)
	}
	if err := ctx.Err(); err != nil {
		return model.Individual[C]{}, err
	}

	root := parents[0].Tree()
	if root.IsTerminal() {
		t, err := sampling.Uniform(rng, op.Catalog.Terminals(root.Output()))
		if err != nil {
			return model.Individual[C]{}, fmt.Errorf("%w: no %s terminal to replace the root", genotype.ErrConstructionExhausted, root.Output())
		}
		leaf, err := op.Catalog.Leaf(t)
		if err != nil {
			return model.Individual[C]{}, err
		}
		return model.NewIndividual(leaf), nil
	}

	arena := root.Thaw()
	point, err := sampling.Uniform(rng, arena.NonTerminals())
	if err != nil {
		return model.Individual[C]{}, err
	}
	input, _ := arena.InputType(point)
	// The new child sits at Level(point)+1, so this keeps the offspring
	// depth <= MaxDepth.
	budget := op.MaxDepth - arena.Level(point) - 1
	if budget < 0 {
		budget = 0
	}

	sub, err := genotype.Constructor[C]{
		Catalog:  op.Catalog,
		Policy:   genotype.NewGrow(op.Catalog),
		MaxDepth: budget,
		MaxTries: op.MaxTries,
		Output:   input,
	}.Build(rng)
	if err != nil {
		return model.Individual[C]{}, fmt.Errorf("regrow subtree: %w", err)
	}

	slot := rng.Intn(len(arena.Children(point)))
	if err := arena.ReplaceChild(point, slot, sub); err != nil {
		return model.Individual[C]{}, err
	}
	return model.NewIndividual(arena.Freeze()), nil
}
