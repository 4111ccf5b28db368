package tree

import "fmt"

// Arena is an exclusively owned working copy of a tree. Nodes are addressed by
// index and index 0 is always the root. Children may be replaced in place;
// Freeze copies the reachable nodes back out into a frozen tree.
//
// Replaced subtrees stay in the arena as unreachable slots; every query that
// enumerates nodes starts from the root, so they are never observed.
type Arena[C any] struct {
	slots []arenaSlot[C]
}

type arenaSlot[C any] struct {
	leaf     *Node[C]
	function *Function
	children []int
	parent   int
	level    int
}

// Thaw returns a mutable working copy of the tree rooted at n.
func (n *Node[C]) Thaw() *Arena[C] {
	a := &Arena[C]{slots: make([]arenaSlot[C], 0, n.size)}
	a.load(n, -1, 0)
	return a
}

func (a *Arena[C]) load(n *Node[C], parent, level int) int {
	idx := len(a.slots)
	if n.function == nil {
		// Leaves are immutable and side-effect free, so the frozen pointer
		// is kept as-is.
		a.slots = append(a.slots, arenaSlot[C]{leaf: n, parent: parent, level: level})
		return idx
	}
	a.slots = append(a.slots, arenaSlot[C]{
		function: n.function,
		children: make([]int, len(n.children)),
		parent:   parent,
		level:    level,
	})
	for i, child := range n.children {
		childIdx := a.load(child, idx, level+1)
		a.slots[idx].children[i] = childIdx
	}
	return idx
}

func (a *Arena[C]) Root() int {
	return 0
}

func (a *Arena[C]) valid(i int) bool {
	return i >= 0 && i < len(a.slots)
}

func (a *Arena[C]) IsTerminal(i int) bool {
	return a.slots[i].function == nil
}

func (a *Arena[C]) Output(i int) Type {
	s := a.slots[i]
	if s.function != nil {
		return s.function.Output
	}
	return s.leaf.Output()
}

// InputType reports the operand type of the non-terminal at i.
func (a *Arena[C]) InputType(i int) (Type, bool) {
	s := a.slots[i]
	if s.function == nil {
		return Type{}, false
	}
	return s.function.Input, true
}

// Level is the distance of node i from the root.
func (a *Arena[C]) Level(i int) int {
	return a.slots[i].level
}

// Height is the depth of the subtree rooted at i.
func (a *Arena[C]) Height(i int) int {
	s := a.slots[i]
	if s.function == nil {
		return 0
	}
	maxChild := 0
	for _, child := range s.children {
		if h := a.Height(child); h > maxChild {
			maxChild = h
		}
	}
	return 1 + maxChild
}

func (a *Arena[C]) Children(i int) []int {
	out := make([]int, len(a.slots[i].children))
	copy(out, a.slots[i].children)
	return out
}

// Nodes lists the reachable node indices in pre-order.
func (a *Arena[C]) Nodes() []int {
	out := make([]int, 0, len(a.slots))
	var visit func(i int)
	visit = func(i int) {
		out = append(out, i)
		for _, child := range a.slots[i].children {
			visit(child)
		}
	}
	visit(0)
	return out
}

// NonTerminals lists the reachable non-terminal indices in pre-order,
// including the root when it is a non-terminal.
func (a *Arena[C]) NonTerminals() []int {
	nodes := a.Nodes()
	out := nodes[:0]
	for _, i := range nodes {
		if a.slots[i].function != nil {
			out = append(out, i)
		}
	}
	return out
}

// ReplaceChild swaps the child in the given slot of parent for sub. The new
// subtree must produce the parent's input type.
func (a *Arena[C]) ReplaceChild(parent, slot int, sub *Node[C]) error {
	if !a.valid(parent) {
		return fmt.Errorf("arena index out of range: %d", parent)
	}
	p := a.slots[parent]
	if p.function == nil {
		return fmt.Errorf("%w: node %d is a terminal", ErrArityMismatch, parent)
	}
	if slot < 0 || slot >= len(p.children) {
		return fmt.Errorf("%w: slot %d outside [0,%d)", ErrArityMismatch, slot, len(p.children))
	}
	if sub == nil {
		return fmt.Errorf("%w: replacement subtree is nil", ErrTypeMismatch)
	}
	if sub.Output() != p.function.Input {
		return fmt.Errorf("%w: replacement produces %s, want %s", ErrTypeMismatch, sub.Output(), p.function.Input)
	}
	idx := a.load(sub, parent, p.level+1)
	a.slots[parent].children[slot] = idx
	return nil
}

// Freeze copies the reachable tree out into frozen nodes.
func (a *Arena[C]) Freeze() *Node[C] {
	return a.freeze(0)
}

func (a *Arena[C]) freeze(i int) *Node[C] {
	s := a.slots[i]
	if s.function == nil {
		return s.leaf
	}
	children := make([]*Node[C], len(s.children))
	for j, child := range s.children {
		children[j] = a.freeze(child)
	}
	return newNonTerminal(s.function, children)
}
