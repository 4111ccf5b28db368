package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"simplegp/internal/tree"
)

var ErrDuplicatePrimitive = errors.New("primitive already registered")

type primitiveKey struct {
	name string
	typ  tree.Type
}

// Catalog is the typed registry of primitives available to construction and
// mutation. It is built once and is read-only afterwards, so a single catalog
// may be shared by any number of goroutines.
//
// The catalog also owns the interning table for terminal leaves: every
// terminal is wrapped in exactly one frozen node for the catalog's lifetime.
type Catalog[C any] struct {
	terminals  map[tree.Type][]*tree.Terminal[C]
	functions  map[tree.Type][]*tree.Function
	leaves     map[primitiveKey]*tree.Node[C]
	nTerminals int
	nFunctions int
}

// New validates and indexes the primitives by the type they return.
// Registration order is preserved within each type so that sampling is
// reproducible under a fixed seed.
func New[C any](terminals []*tree.Terminal[C], functions []*tree.Function) (*Catalog[C], error) {
	c := &Catalog[C]{
		terminals: make(map[tree.Type][]*tree.Terminal[C]),
		functions: make(map[tree.Type][]*tree.Function),
		leaves:    make(map[primitiveKey]*tree.Node[C]),
	}

	for _, t := range terminals {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		key := primitiveKey{name: t.Name, typ: t.Output}
		if _, exists := c.leaves[key]; exists {
			return nil, fmt.Errorf("%w: terminal %s", ErrDuplicatePrimitive, t)
		}
		leaf, err := tree.NewTerminalNode(t)
		if err != nil {
			return nil, err
		}
		c.leaves[key] = leaf
		c.terminals[t.Output] = append(c.terminals[t.Output], t)
		c.nTerminals++
	}

	seen := make(map[primitiveKey]struct{}, len(functions))
	for _, f := range functions {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		key := primitiveKey{name: f.Name, typ: f.Output}
		if _, exists := seen[key]; exists {
			return nil, fmt.Errorf("%w: function %s", ErrDuplicatePrimitive, f)
		}
		seen[key] = struct{}{}
		c.functions[f.Output] = append(c.functions[f.Output], f)
		c.nFunctions++
	}
	return c, nil
}

// Terminals returns the terminals that produce exactly typ. The result is
// empty, not an error, when none exist.
func (c *Catalog[C]) Terminals(typ tree.Type) []*tree.Terminal[C] {
	return c.terminals[typ]
}

// Functions returns the non-terminals that produce exactly typ.
func (c *Catalog[C]) Functions(typ tree.Type) []*tree.Function {
	return c.functions[typ]
}

// Leaf returns the interned frozen node for t.
func (c *Catalog[C]) Leaf(t *tree.Terminal[C]) (*tree.Node[C], error) {
	if t == nil {
		return nil, fmt.Errorf("terminal is nil")
	}
	leaf, ok := c.leaves[primitiveKey{name: t.Name, typ: t.Output}]
	if !ok {
		return nil, fmt.Errorf("terminal %s is not registered", t)
	}
	return leaf, nil
}

// Counts returns the total number of registered terminals and functions.
func (c *Catalog[C]) Counts() (terminals, functions int) {
	return c.nTerminals, c.nFunctions
}

// Types lists every type that at least one primitive returns.
func (c *Catalog[C]) Types() []tree.Type {
	set := make(map[tree.Type]struct{})
	for typ := range c.terminals {
		set[typ] = struct{}{}
	}
	for typ := range c.functions {
		set[typ] = struct{}{}
	}
	out := make([]tree.Type, 0, len(set))
	for typ := range set {
		out = append(out, typ)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// Describe renders the catalog contents for diagnostics.
func (c *Catalog[C]) Describe() string {
	var terms, funcs []string
	for _, typ := range c.Types() {
		names := make([]string, 0, len(c.terminals[typ]))
		for _, t := range c.terminals[typ] {
			names = append(names, t.Name)
		}
		if len(names) > 0 {
			terms = append(terms, fmt.Sprintf("%s=[%s]", typ, strings.Join(names, " ")))
		}

		names = names[:0]
		for _, f := range c.functions[typ] {
			names = append(names, fmt.Sprintf("%s/%d(%s)", f.Name, f.Arity, f.Input))
		}
		if len(names) > 0 {
			funcs = append(funcs, fmt.Sprintf("%s=[%s]", typ, strings.Join(names, " ")))
		}
	}
	return fmt.Sprintf("terminals: {%s} non-terminals: {%s}", strings.Join(terms, ", "), strings.Join(funcs, ", "))
}
