package genotype

import (
	"errors"
	"fmt"
	"math/rand"

	"simplegp/internal/catalog"
	"simplegp/internal/sampling"
	"simplegp/internal/tree"
)

var ErrConstructionExhausted = errors.New("tree construction exhausted")

// ConstructionError reports that no well-typed tree could be built within the
// retry budget. It always indicates a configuration problem: the catalog
// cannot produce the requested type at the requested depth.
type ConstructionError struct {
	Output   tree.Type
	MaxDepth int
	MaxTries int
	Catalog  string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%v: no %s tree within depth %d after %d attempts; check that this is possible with the given primitives: %s",
		ErrConstructionExhausted, e.Output, e.MaxDepth, e.MaxTries, e.Catalog)
}

func (e *ConstructionError) Unwrap() error {
	return ErrConstructionExhausted
}

// Constructor builds random trees of one output type from a catalog.
type Constructor[C any] struct {
	Catalog  *catalog.Catalog[C]
	Policy   Policy
	MaxDepth int
	MaxTries int
	Output   tree.Type
}

func (c Constructor[C]) validate() error {
	if c.Catalog == nil {
		return errors.New("catalog is required")
	}
	if c.Policy == nil {
		return errors.New("termination policy is required")
	}
	if c.MaxTries <= 0 {
		return fmt.Errorf("max tries must be > 0, got %d", c.MaxTries)
	}
	if c.Output.IsZero() {
		return errors.New("output type is required")
	}
	return nil
}

// Build constructs one tree, restarting from scratch after every failed
// attempt, up to MaxTries attempts.
func (c Constructor[C]) Build(rng *rand.Rand) (*tree.Node[C], error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	for attempt := 0; attempt < c.MaxTries; attempt++ {
		if node, ok := c.subtree(rng, 0, c.Output); ok {
			return node, nil
		}
	}
	return nil, &ConstructionError{
		Output:   c.Output,
		MaxDepth: c.MaxDepth,
		MaxTries: c.MaxTries,
		Catalog:  c.Catalog.Describe(),
	}
}

// subtree builds a tree of typ rooted at depth. A branch with no usable
// primitive fails as a whole; partial trees are never returned.
func (c Constructor[C]) subtree(rng *rand.Rand, depth int, typ tree.Type) (*tree.Node[C], bool) {
	if c.Policy.Terminate(rng, depth, c.MaxDepth) {
		t, err := sampling.Uniform(rng, c.Catalog.Terminals(typ))
		if err != nil {
			return nil, false
		}
		leaf, err := c.Catalog.Leaf(t)
		if err != nil {
			return nil, false
		}
		return leaf, true
	}

	f, err := sampling.Uniform(rng, c.Catalog.Functions(typ))
	if err != nil {
		return nil, false
	}
	children := make([]*tree.Node[C], f.Arity)
	for i := range children {
		child, ok := c.subtree(rng, depth+1, f.Input)
		if !ok {
			return nil, false
		}
		children[i] = child
	}
	node, err := tree.NewNonTerminalNode(f, children...)
	if err != nil {
		return nil, false
	}
	return node, true
}
