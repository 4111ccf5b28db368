package model

import "iter"

// Population is an ordered, fixed-size sequence. It is immutable: every
// transformation yields a new Population.
type Population[T any] struct {
	items []T
}

// NewPopulation copies items into a new population.
func NewPopulation[T any](items []T) Population[T] {
	owned := make([]T, len(items))
	copy(owned, items)
	return Population[T]{items: owned}
}

// adopt wraps items without copying; callers must not keep a reference.
func adopt[T any](items []T) Population[T] {
	return Population[T]{items: items}
}

func (p Population[T]) Len() int {
	return len(p.items)
}

func (p Population[T]) At(i int) T {
	return p.items[i]
}

// Items returns a copy of the members in order.
func (p Population[T]) Items() []T {
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

func (p Population[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range p.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Combine concatenates p and other, preserving order.
func (p Population[T]) Combine(other Population[T]) Population[T] {
	out := make([]T, 0, len(p.items)+len(other.items))
	out = append(out, p.items...)
	out = append(out, other.items...)
	return adopt(out)
}

// Map projects every member through fn.
func Map[T, U any](p Population[T], fn func(T) U) Population[U] {
	out := make([]U, len(p.items))
	for i, item := range p.items {
		out[i] = fn(item)
	}
	return adopt(out)
}
