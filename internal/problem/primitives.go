package problem

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"simplegp/internal/catalog"
	"simplegp/internal/tree"
)

var ErrUnknownPrimitiveSet = errors.New("unknown primitive set")

const (
	PrimitiveSetClassic    = "classic"
	PrimitiveSetArithmetic = "arithmetic"
)

// divisionEpsilon guards protected division against near-zero divisors.
const divisionEpsilon = 1e-9

func input() *tree.Terminal[float64] {
	return tree.NewTerminal("x", func(x float64) float64 { return x })
}

func classicFunctions() []*tree.Function {
	return []*tree.Function{
		tree.Binary("max", math.Max),
		tree.Binary("min", math.Min),
		tree.Unary("neg", func(v float64) float64 { return -v }),
		tree.Unary("square", func(v float64) float64 { return v * v }),
		tree.Unary("abs", math.Abs),
	}
}

func arithmeticFunctions() []*tree.Function {
	return []*tree.Function{
		tree.Binary("add", func(a, b float64) float64 { return a + b }),
		tree.Binary("sub", func(a, b float64) float64 { return a - b }),
		tree.Binary("mul", func(a, b float64) float64 { return a * b }),
		tree.Binary("div", ProtectedDiv),
	}
}

// ProtectedDiv returns 1 when the divisor is too close to zero.
func ProtectedDiv(a, b float64) float64 {
	if math.Abs(b) < divisionEpsilon {
		return 1
	}
	return a / b
}

var primitiveSets = map[string]func() ([]*tree.Terminal[float64], []*tree.Function){
	PrimitiveSetClassic: func() ([]*tree.Terminal[float64], []*tree.Function) {
		return []*tree.Terminal[float64]{input()}, classicFunctions()
	},
	PrimitiveSetArithmetic: func() ([]*tree.Terminal[float64], []*tree.Function) {
		terminals := []*tree.Terminal[float64]{input(), tree.Constant[float64]("one", 1.0)}
		return terminals, append(classicFunctions(), arithmeticFunctions()...)
	},
}

// NewCatalog builds the catalog for a named primitive set over a single real
// input x.
func NewCatalog(set string) (*catalog.Catalog[float64], error) {
	build, ok := primitiveSets[strings.ToLower(strings.TrimSpace(set))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrimitiveSet, set)
	}
	terminals, functions := build()
	return catalog.New(terminals, functions)
}

func PrimitiveSetNames() []string {
	names := make([]string, 0, len(primitiveSets))
	for name := range primitiveSets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
