package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	ErrEmptyCollection     = errors.New("cannot sample from an empty collection")
	ErrInvalidDistribution = errors.New("invalid probability distribution")
	ErrSamplingExhausted   = errors.New("weighted sampling exhausted the distribution")
)

// sumTolerance absorbs the rounding error of adding decimal probabilities
// such as 0.1 + 0.2 + 0.7.
const sumTolerance = 1e-9

// Index draws a uniform index in [0, n).
func Index(rng *rand.Rand, n int) (int, error) {
	if rng == nil {
		return 0, errors.New("random source is required")
	}
	if n <= 0 {
		return 0, ErrEmptyCollection
	}
	return rng.Intn(n), nil
}

// Uniform draws one element of items uniformly at random.
func Uniform[T any](rng *rand.Rand, items []T) (T, error) {
	idx, err := Index(rng, len(items))
	if err != nil {
		var zero T
		return zero, err
	}
	return items[idx], nil
}

// Entry pairs an element with the probability of drawing it.
type Entry[T any] struct {
	Probability float64
	Element     T
}

// Weighted is an immutable discrete distribution.
type Weighted[T any] struct {
	entries []Entry[T]
}

// NewWeighted validates that every probability is finite and in [0, 1] and
// that the probabilities sum to 1.
func NewWeighted[T any](entries ...Entry[T]) (*Weighted[T], error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidDistribution)
	}
	sum := 0.0
	for i, e := range entries {
		if math.IsNaN(e.Probability) || math.IsInf(e.Probability, 0) || e.Probability < 0 || e.Probability > 1 {
			return nil, fmt.Errorf("%w: entry %d has probability %v", ErrInvalidDistribution, i, e.Probability)
		}
		sum += e.Probability
	}
	if math.Abs(sum-1) > sumTolerance {
		return nil, fmt.Errorf("%w: probabilities sum to %v", ErrInvalidDistribution, sum)
	}
	owned := make([]Entry[T], len(entries))
	copy(owned, entries)
	return &Weighted[T]{entries: owned}, nil
}

// Sample draws u uniformly from [0, 1) and picks the matching entry.
func (w *Weighted[T]) Sample(rng *rand.Rand) (T, error) {
	if rng == nil {
		var zero T
		return zero, errors.New("random source is required")
	}
	return w.Pick(rng.Float64())
}

// Pick walks the entries in order, subtracting each probability from u, and
// returns the first entry that drives the running value negative. An entry
// with probability 0 is never returned.
func (w *Weighted[T]) Pick(u float64) (T, error) {
	for _, e := range w.entries {
		u -= e.Probability
		if u < 0 {
			return e.Element, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: residual %v", ErrSamplingExhausted, u)
}

func (w *Weighted[T]) Len() int {
	return len(w.entries)
}

func (w *Weighted[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(w.entries))
	copy(out, w.entries)
	return out
}
