package tree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrArityMismatch = errors.New("child count does not match function arity")
	ErrTypeMismatch  = errors.New("node type mismatch")
)

type Kind uint8

const (
	KindTerminal Kind = iota + 1
	KindNonTerminal
)

func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "terminal"
	case KindNonTerminal:
		return "non_terminal"
	default:
		return "unknown"
	}
}

// Node is a frozen tree node. It is never modified after construction, so a
// node (and any subtree under it) may be shared freely between individuals
// and goroutines.
type Node[C any] struct {
	terminal *Terminal[C]
	function *Function
	children []*Node[C]
	depth    int
	size     int
}

// NewTerminalNode wraps a terminal primitive as a leaf. Callers that build
// many trees from one catalog should use the catalog's interned leaves
// instead.
func NewTerminalNode[C any](t *Terminal[C]) (*Node[C], error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Node[C]{terminal: t, size: 1}, nil
}

// NewNonTerminalNode assembles a non-terminal, checking that the number of
// children equals the function's arity and that every child produces the
// function's input type.
func NewNonTerminalNode[C any](f *Function, children ...*Node[C]) (*Node[C], error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if len(children) != f.Arity {
		return nil, fmt.Errorf("%w: %s wants %d, got %d", ErrArityMismatch, f.Name, f.Arity, len(children))
	}
	for i, child := range children {
		if child == nil {
			return nil, fmt.Errorf("%w: %s child %d is nil", ErrTypeMismatch, f.Name, i)
		}
		if child.Output() != f.Input {
			return nil, fmt.Errorf("%w: %s child %d produces %s, want %s", ErrTypeMismatch, f.Name, i, child.Output(), f.Input)
		}
	}
	owned := make([]*Node[C], len(children))
	copy(owned, children)
	return newNonTerminal(f, owned), nil
}

// newNonTerminal takes ownership of children without validation.
func newNonTerminal[C any](f *Function, children []*Node[C]) *Node[C] {
	n := &Node[C]{function: f, children: children, size: 1}
	maxChild := 0
	for _, child := range children {
		if child.depth > maxChild {
			maxChild = child.depth
		}
		n.size += child.size
	}
	n.depth = 1 + maxChild
	return n
}

func (n *Node[C]) Kind() Kind {
	if n.function != nil {
		return KindNonTerminal
	}
	return KindTerminal
}

func (n *Node[C]) IsTerminal() bool {
	return n.function == nil
}

// Terminal returns the leaf primitive, or nil for non-terminals.
func (n *Node[C]) Terminal() *Terminal[C] {
	return n.terminal
}

// Function returns the non-terminal primitive, or nil for leaves.
func (n *Node[C]) Function() *Function {
	return n.function
}

func (n *Node[C]) Name() string {
	if n.function != nil {
		return n.function.Name
	}
	return n.terminal.Name
}

func (n *Node[C]) Output() Type {
	if n.function != nil {
		return n.function.Output
	}
	return n.terminal.Output
}

// Input reports the operand type of a non-terminal.
func (n *Node[C]) Input() (Type, bool) {
	if n.function == nil {
		return Type{}, false
	}
	return n.function.Input, true
}

// Depth is 0 for a leaf and 1 + the deepest child otherwise.
func (n *Node[C]) Depth() int {
	return n.depth
}

// Size is the number of nodes in the subtree.
func (n *Node[C]) Size() int {
	return n.size
}

func (n *Node[C]) NumChildren() int {
	return len(n.children)
}

func (n *Node[C]) Child(i int) *Node[C] {
	return n.children[i]
}

func (n *Node[C]) Children() []*Node[C] {
	out := make([]*Node[C], len(n.children))
	copy(out, n.children)
	return out
}

// Evaluate runs the tree against ctx. Children are evaluated in order before
// the node's own function is applied.
func (n *Node[C]) Evaluate(ctx C) any {
	if n.function == nil {
		return n.terminal.Extract(ctx)
	}
	args := make([]any, len(n.children))
	for i, child := range n.children {
		args[i] = child.Evaluate(ctx)
	}
	return n.function.Apply(args)
}

// Walk visits the subtree in pre-order with each node's distance from n.
// Returning false from fn skips that node's children.
func (n *Node[C]) Walk(fn func(node *Node[C], level int) bool) {
	n.walk(fn, 0)
}

func (n *Node[C]) walk(fn func(node *Node[C], level int) bool, level int) {
	if !fn(n, level) {
		return
	}
	for _, child := range n.children {
		child.walk(fn, level+1)
	}
}

// WellTyped checks that the tree produces want and that every non-terminal's
// children produce its input type.
func (n *Node[C]) WellTyped(want Type) error {
	if n.Output() != want {
		return fmt.Errorf("%w: root produces %s, want %s", ErrTypeMismatch, n.Output(), want)
	}
	var err error
	n.Walk(func(node *Node[C], level int) bool {
		if err != nil || node.function == nil {
			return false
		}
		if len(node.children) != node.function.Arity {
			err = fmt.Errorf("%w: %s at level %d has %d children", ErrArityMismatch, node.function.Name, level, len(node.children))
			return false
		}
		for i, child := range node.children {
			if child.Output() != node.function.Input {
				err = fmt.Errorf("%w: %s at level %d child %d produces %s, want %s",
					ErrTypeMismatch, node.function.Name, level, i, child.Output(), node.function.Input)
				return false
			}
		}
		return true
	})
	return err
}

// String renders the tree as an S-expression, e.g. "(max x (neg x))".
func (n *Node[C]) String() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *Node[C]) render(b *strings.Builder) {
	if n.function == nil {
		b.WriteString(n.terminal.Name)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.function.Name)
	for _, child := range n.children {
		b.WriteByte(' ')
		child.render(b)
	}
	b.WriteByte(')')
}
