package genotype

import (
	"fmt"
	"math/rand"
	"strings"

	"simplegp/internal/catalog"
)

// Policy decides whether construction emits a terminal at the given depth.
type Policy interface {
	Terminate(rng *rand.Rand, depth, maxDepth int) bool
}

type PolicyFunc func(rng *rand.Rand, depth, maxDepth int) bool

func (f PolicyFunc) Terminate(rng *rand.Rand, depth, maxDepth int) bool {
	return f(rng, depth, maxDepth)
}

// Full stops only at the depth limit.
type Full struct{}

func (Full) Terminate(_ *rand.Rand, depth, maxDepth int) bool {
	return depth >= maxDepth
}

// Grow stops at the depth limit, and before it with probability P.
type Grow struct {
	P float64
}

func (g Grow) Terminate(rng *rand.Rand, depth, maxDepth int) bool {
	return depth >= maxDepth || rng.Float64() < g.P
}

// NewGrow weights early termination by the share of terminals among all
// registered primitives.
func NewGrow[C any](cat *catalog.Catalog[C]) Grow {
	terminals, functions := cat.Counts()
	if terminals+functions == 0 {
		return Grow{P: 1}
	}
	return Grow{P: float64(terminals) / float64(terminals+functions)}
}

const (
	MethodGrow   = "grow"
	MethodFull   = "full"
	MethodRamped = "ramped"
)

// PolicyByName resolves "grow" or "full".
func PolicyByName[C any](name string, cat *catalog.Catalog[C]) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MethodGrow:
		return NewGrow(cat), nil
	case MethodFull:
		return Full{}, nil
	default:
		return nil, fmt.Errorf("unsupported construction policy: %s", name)
	}
}
