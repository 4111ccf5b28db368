package evo

import (
	"errors"
	"fmt"
	"strings"

	"simplegp/internal/catalog"
	"simplegp/internal/fitness"
	"simplegp/internal/sampling"
)

var (
	ErrOperatorNotFound  = errors.New("operator not found")
	ErrSelectionNotFound = errors.New("selection mechanism not found")
)

// OperatorWeight names an operator and the probability of applying it.
type OperatorWeight struct {
	Name        string  `yaml:"name" toml:"name" json:"name"`
	Probability float64 `yaml:"probability" toml:"probability" json:"probability"`
}

// OperatorSettings carries what the built-in operators need to regrow trees.
type OperatorSettings[C any] struct {
	Catalog  *catalog.Catalog[C]
	MaxDepth int
	MaxTries int
}

// OperatorNames lists the built-in operators.
func OperatorNames() []string {
	return []string{OperatorIdentity, OperatorSubtreeMutation}
}

// SelectionNames lists the built-in selection mechanisms.
func SelectionNames() []string {
	return []string{SelectionTournament, SelectionElitism, SelectionUniform}
}

// NewOperator resolves a built-in operator by name.
func NewOperator[C any](name string, settings OperatorSettings[C]) (Operator[C], error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case OperatorIdentity:
		return Identity[C]{}, nil
	case OperatorSubtreeMutation:
		if settings.Catalog == nil {
			return nil, errors.New("subtree mutation requires a catalog")
		}
		return SubtreeMutation[C]{
			Catalog:  settings.Catalog,
			MaxDepth: settings.MaxDepth,
			MaxTries: settings.MaxTries,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrOperatorNotFound, name)
	}
}

// NewOperatorDistribution builds the weighted operator distribution sampled
// by a breeder.
func NewOperatorDistribution[C any](weights []OperatorWeight, settings OperatorSettings[C]) (*sampling.Weighted[Operator[C]], error) {
	entries := make([]sampling.Entry[Operator[C]], 0, len(weights))
	for _, w := range weights {
		op, err := NewOperator(w.Name, settings)
		if err != nil {
			return nil, err
		}
		entries = append(entries, sampling.Entry[Operator[C]]{Probability: w.Probability, Element: op})
	}
	return sampling.NewWeighted(entries...)
}

// NewMechanism resolves a built-in selection mechanism by name.
func NewMechanism[C any, F fitness.Fitness[F]](name string, tournamentSize int) (Mechanism[C, F], error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SelectionTournament:
		if tournamentSize <= 0 {
			return nil, fmt.Errorf("%w: tournament size must be > 0, got %d", ErrInvalidSelection, tournamentSize)
		}
		return Tournament[C, F]{Size: tournamentSize}, nil
	case SelectionElitism:
		return Elitism[C, F]{}, nil
	case SelectionUniform:
		return UniformSelection[C, F]{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrSelectionNotFound, name)
	}
}
