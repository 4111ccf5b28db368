package model

import "simplegp/internal/tree"

// Individual is one candidate program: a single frozen tree.
type Individual[C any] struct {
	tree *tree.Node[C]
}

func NewIndividual[C any](t *tree.Node[C]) Individual[C] {
	return Individual[C]{tree: t}
}

func (i Individual[C]) Tree() *tree.Node[C] {
	return i.tree
}

func (i Individual[C]) Evaluate(ctx C) any {
	return i.tree.Evaluate(ctx)
}

// Key is the rendered expression. Structurally identical trees share a key.
func (i Individual[C]) Key() string {
	return i.tree.String()
}

func (i Individual[C]) Depth() int {
	return i.tree.Depth()
}

func (i Individual[C]) Size() int {
	return i.tree.Size()
}

func (i Individual[C]) String() string {
	return i.tree.String()
}

// Evaluated pairs an individual with the fitness it was assigned.
type Evaluated[C, F any] struct {
	individual Individual[C]
	fitness    F
}

func NewEvaluated[C, F any](ind Individual[C], fit F) Evaluated[C, F] {
	return Evaluated[C, F]{individual: ind, fitness: fit}
}

func (e Evaluated[C, F]) Individual() Individual[C] {
	return e.individual
}

func (e Evaluated[C, F]) Fitness() F {
	return e.fitness
}

func (e Evaluated[C, F]) Evaluate(ctx C) any {
	return e.individual.Evaluate(ctx)
}
