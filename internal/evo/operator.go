package evo

import (
	"context"
	"fmt"
	"math/rand"

	"simplegp/internal/model"
)

// Operator produces one offspring from Arity parents.
type Operator[C any] interface {
	Name() string
	Arity() int
	Apply(ctx context.Context, rng *rand.Rand, parents []model.Individual[C]) (model.Individual[C], error)
}

func checkParents[C any](op Operator[C], parents []model.Individual[C]) error {
	if len(parents) != op.Arity() {
		return fmt.Errorf("%s expects %d parents, got %d", op.Name(), op.Arity(), len(parents))
	}
	for i, p := range parents {
		if p.Tree() == nil {
			return fmt.Errorf("%s: parent %d has no tree", op.Name(), i)
		}
	}
	return nil
}
