package evo

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"simplegp/internal/genotype"
	"simplegp/internal/model"
	"simplegp/internal/tree"
)

func TestIdentityReturnsParent(t *testing.T) {
	cat := testCatalog(t)
	parent := model.NewIndividual(node(t, function(t, cat, "neg"), leaf(t, cat, "x")))

	child, err := Identity[float64]{}.Apply(context.Background(), rand.New(rand.NewSource(1)), []model.Individual[float64]{parent})
	require.NoError(t, err)
	require.Same(t, parent.Tree(), child.Tree())

	_, err = Identity[float64]{}.Apply(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestSubtreeMutationPreservesTypeAndDepth(t *testing.T) {
	cat := testCatalog(t)
	const maxDepth = 4
	for _, out := range []struct {
		name string
		typ  tree.Type
	}{{"float", float64Type}, {"bool", boolType}} {
		t.Run(out.name, func(t *testing.T) {
			build := genotype.Constructor[float64]{
				Catalog:  cat,
				Policy:   genotype.NewGrow(cat),
				MaxDepth: maxDepth,
				MaxTries: 50,
				Output:   out.typ,
			}
			op := SubtreeMutation[float64]{Catalog: cat, MaxDepth: maxDepth, MaxTries: 50}
			rng := rand.New(rand.NewSource(9))
			for i := 0; i < 300; i++ {
				root, err := build.Build(rng)
				require.NoError(t, err)
				child, err := op.Apply(context.Background(), rng, []model.Individual[float64]{model.NewIndividual(root)})
				require.NoError(t, err)
				require.NoError(t, child.Tree().WellTyped(out.typ))
				require.LessOrEqual(t, child.Depth(), maxDepth)
			}
		})
	}
}

func TestSubtreeMutationDoesNotModifyParent(t *testing.T) {
	cat := testCatalog(t)
	parent := model.NewIndividual(node(t, function(t, cat, "max"),
		node(t, function(t, cat, "neg"), leaf(t, cat, "x")),
		leaf(t, cat, "one"),
	))
	before := parent.Key()

	op := SubtreeMutation[float64]{Catalog: cat, MaxDepth: 5, MaxTries: 10}
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		_, err := op.Apply(context.Background(), rng, []model.Individual[float64]{parent})
		require.NoError(t, err)
	}
	require.Equal(t, before, parent.Key())
}

func TestSubtreeMutationReplacesTerminalRoot(t *testing.T) {
	cat := testCatalog(t)
	parent := model.NewIndividual(leaf(t, cat, "x"))
	op := SubtreeMutation[float64]{Catalog: cat, MaxDepth: 3, MaxTries: 5}

	seen := map[string]bool{}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		child, err := op.Apply(context.Background(), rng, []model.Individual[float64]{parent})
		require.NoError(t, err)
		require.True(t, child.Tree().IsTerminal())
		seen[child.Key()] = true
	}
	require.Equal(t, map[string]bool{"x": true, "one": true}, seen)
}

func TestSubtreeMutationAtDepthLimitRegrowsTerminals(t *testing.T) {
	cat := testCatalog(t)
	parent := model.NewIndividual(node(t, function(t, cat, "max"), leaf(t, cat, "x"), leaf(t, cat, "x")))
	op := SubtreeMutation[float64]{Catalog: cat, MaxDepth: 1, MaxTries: 5}

	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 50; i++ {
		child, err := op.Apply(context.Background(), rng, []model.Individual[float64]{parent})
		require.NoError(t, err)
		require.Equal(t, 1, child.Depth())
		require.Equal(t, "max", child.Tree().Name())
	}
}

func TestSubtreeMutationIsDeterministic(t *testing.T) {
	cat := testCatalog(t)
	parent := model.NewIndividual(node(t, function(t, cat, "max"),
		node(t, function(t, cat, "neg"), leaf(t, cat, "x")),
		leaf(t, cat, "one"),
	))
	op := SubtreeMutation[float64]{Catalog: cat, MaxDepth: 5, MaxTries: 10}

	run := func() []string {
		rng := rand.New(rand.NewSource(33))
		out := make([]string, 20)
		for i := range out {
			child, err := op.Apply(context.Background(), rng, []model.Individual[float64]{parent})
			require.NoError(t, err)
			out[i] = child.Key()
		}
		return out
	}
	require.Equal(t, run(), run())
}

func TestSubtreeMutationRejectsNonPositiveMaxTries(t *testing.T) {
	cat := testCatalog(t)
	parent := model.NewIndividual(node(t, function(t, cat, "neg"), leaf(t, cat, "x")))
	for _, tries := range []int{0, -3} {
		op := SubtreeMutation[float64]{Catalog: cat, MaxDepth: 3, MaxTries: tries}
		_, err := op.Apply(context.Background(), rand.New(rand.NewSource(1)), []model.Individual[float64]{parent})
		require.ErrorContains(t, err, "max tries must be > 0")
	}
}
