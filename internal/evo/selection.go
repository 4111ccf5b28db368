package evo

import (
	"errors"
	"fmt"
	"math/rand"

	"simplegp/internal/fitness"
	"simplegp/internal/model"
	"simplegp/internal/sampling"
)

var ErrInvalidSelection = errors.New("invalid selection")

const (
	SelectionTournament = "tournament"
	SelectionElitism    = "elitism"
	SelectionUniform    = "uniform"
)

// Selector draws members from a primed population.
type Selector[T any] interface {
	Sample(rng *rand.Rand) (T, error)
}

// Mechanism turns an evaluated population into a selector for it. Primed
// selectors are read-only and may be sampled from many goroutines, each with
// its own random source.
type Mechanism[C any, F fitness.Fitness[F]] interface {
	Name() string
	Prime(pop model.Population[model.Evaluated[C, F]]) (Selector[model.Evaluated[C, F]], error)
}

func fitnessOf[C any, F fitness.Fitness[F]](e model.Evaluated[C, F]) F {
	return e.Fitness()
}

// Tournament samples Size members with replacement and keeps the best,
// preferring the earliest draw on ties.
type Tournament[C any, F fitness.Fitness[F]] struct {
	Size int
}

func (Tournament[C, F]) Name() string {
	return SelectionTournament
}

func (s Tournament[C, F]) Prime(pop model.Population[model.Evaluated[C, F]]) (Selector[model.Evaluated[C, F]], error) {
	if s.Size <= 0 {
		return nil, fmt.Errorf("%w: tournament size must be > 0, got %d", ErrInvalidSelection, s.Size)
	}
	if pop.Len() == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrInvalidSelection)
	}
	return tournamentSelector[C, F]{size: s.Size, members: pop.Items()}, nil
}

type tournamentSelector[C any, F fitness.Fitness[F]] struct {
	size    int
	members []model.Evaluated[C, F]
}

func (s tournamentSelector[C, F]) Sample(rng *rand.Rand) (model.Evaluated[C, F], error) {
	if rng == nil {
		return model.Evaluated[C, F]{}, errors.New("random source is required")
	}
	entrants := make([]model.Evaluated[C, F], s.size)
	for i := range entrants {
		entrants[i] = s.members[rng.Intn(len(s.members))]
	}
	best, _, _ := fitness.Best(entrants, fitnessOf[C, F])
	return best, nil
}

// Elitism always selects the best member of the population.
type Elitism[C any, F fitness.Fitness[F]] struct{}

func (Elitism[C, F]) Name() string {
	return SelectionElitism
}

func (Elitism[C, F]) Prime(pop model.Population[model.Evaluated[C, F]]) (Selector[model.Evaluated[C, F]], error) {
	best, _, ok := fitness.Best(pop.Items(), fitnessOf[C, F])
	if !ok {
		return nil, fmt.Errorf("%w: empty population", ErrInvalidSelection)
	}
	return constantSelector[model.Evaluated[C, F]]{value: best}, nil
}

type constantSelector[T any] struct {
	value T
}

func (s constantSelector[T]) Sample(*rand.Rand) (T, error) {
	return s.value, nil
}

// UniformSelection ignores fitness and draws any member with equal
// probability.
type UniformSelection[C any, F fitness.Fitness[F]] struct{}

func (UniformSelection[C, F]) Name() string {
	return SelectionUniform
}

func (UniformSelection[C, F]) Prime(pop model.Population[model.Evaluated[C, F]]) (Selector[model.Evaluated[C, F]], error) {
	if pop.Len() == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrInvalidSelection)
	}
	return uniformSelector[model.Evaluated[C, F]]{members: pop.Items()}, nil
}

type uniformSelector[T any] struct {
	members []T
}

func (s uniformSelector[T]) Sample(rng *rand.Rand) (T, error) {
	return sampling.Uniform(rng, s.members)
}
