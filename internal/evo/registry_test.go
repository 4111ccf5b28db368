package evo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simplegp/internal/sampling"
)

func TestNewOperatorResolvesBuiltins(t *testing.T) {
	settings := OperatorSettings[float64]{Catalog: testCatalog(t), MaxDepth: 3, MaxTries: 4}
	for _, name := range OperatorNames() {
		op, err := NewOperator(name, settings)
		require.NoError(t, err)
		require.Equal(t, name, op.Name())
		require.Equal(t, 1, op.Arity())
	}

	_, err := NewOperator("crossover", settings)
	require.ErrorIs(t, err, ErrOperatorNotFound)

	_, err = NewOperator[float64](OperatorSubtreeMutation, OperatorSettings[float64]{})
	require.Error(t, err)
}

func TestNewOperatorDistributionValidatesWeights(t *testing.T) {
	settings := OperatorSettings[float64]{Catalog: testCatalog(t), MaxDepth: 3, MaxTries: 4}
	_, err := NewOperatorDistribution([]OperatorWeight{
		{Name: OperatorIdentity, Probability: 0.5},
		{Name: OperatorSubtreeMutation, Probability: 0.4},
	}, settings)
	require.ErrorIs(t, err, sampling.ErrInvalidDistribution)

	dist, err := NewOperatorDistribution([]OperatorWeight{
		{Name: OperatorSubtreeMutation, Probability: 0.3},
		{Name: OperatorIdentity, Probability: 0.7},
	}, settings)
	require.NoError(t, err)

	op, err := dist.Pick(0.2)
	require.NoError(t, err)
	require.Equal(t, OperatorSubtreeMutation, op.Name())
	op, err = dist.Pick(0.5)
	require.NoError(t, err)
	require.Equal(t, OperatorIdentity, op.Name())
}

func TestNewMechanismResolvesBuiltins(t *testing.T) {
	for _, name := range SelectionNames() {
		m, err := NewMechanism[float64, single](name, 7)
		require.NoError(t, err)
		require.Equal(t, name, m.Name())
	}

	_, err := NewMechanism[float64, single]("tournament", 0)
	require.ErrorIs(t, err, ErrInvalidSelection)

	_, err = NewMechanism[float64, single]("roulette", 3)
	require.ErrorIs(t, err, ErrSelectionNotFound)
}
