package evo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"simplegp/internal/catalog"
	"simplegp/internal/fitness"
	"simplegp/internal/model"
	"simplegp/internal/tree"
)

var (
	float64Type = tree.TypeOf[float64]()
	boolType    = tree.TypeOf[bool]()
)

func testCatalog(t *testing.T) *catalog.Catalog[float64] {
	t.Helper()
	cat, err := catalog.New(
		[]*tree.Terminal[float64]{
			tree.NewTerminal("x", func(x float64) float64 { return x }),
			tree.Constant[float64]("one", 1.0),
		},
		[]*tree.Function{
			tree.Binary("max", math.Max),
			tree.Unary("neg", func(v float64) float64 { return -v }),
			tree.Unary("positive", func(v float64) bool { return v > 0 }),
			tree.Binary("and", func(a, b bool) bool { return a && b }),
		},
	)
	require.NoError(t, err)
	return cat
}

func leaf(t *testing.T, cat *catalog.Catalog[float64], name string) *tree.Node[float64] {
	t.Helper()
	for _, typ := range cat.Types() {
		for _, term := range cat.Terminals(typ) {
			if term.Name == name {
				node, err := cat.Leaf(term)
				require.NoError(t, err)
				return node
			}
		}
	}
	t.Fatalf("terminal %q not in catalog", name)
	return nil
}

func function(t *testing.T, cat *catalog.Catalog[float64], name string) *tree.Function {
	t.Helper()
	for _, typ := range cat.Types() {
		for _, f := range cat.Functions(typ) {
			if f.Name == name {
				return f
			}
		}
	}
	t.Fatalf("function %q not in catalog", name)
	return nil
}

func node(t *testing.T, f *tree.Function, children ...*tree.Node[float64]) *tree.Node[float64] {
	t.Helper()
	n, err := tree.NewNonTerminalNode(f, children...)
	require.NoError(t, err)
	return n
}

func scored(goal fitness.Goal, scores ...float64) model.Population[model.Evaluated[float64, fitness.Single]] {
	cat, _ := catalog.New([]*tree.Terminal[float64]{tree.NewTerminal("x", func(x float64) float64 { return x })}, nil)
	x, _ := cat.Leaf(cat.Terminals(float64Type)[0])
	out := make([]model.Evaluated[float64, fitness.Single], len(scores))
	for i, s := range scores {
		out[i] = model.NewEvaluated(model.NewIndividual(x), fitness.Single{Score: s, Goal: goal})
	}
	return model.NewPopulation(out)
}
