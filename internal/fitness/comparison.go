package fitness

// Comparison is the three-valued result of comparing one fitness with
// another, from the receiver's point of view.
type Comparison int8

const (
	Worse  Comparison = -1
	Equal  Comparison = 0
	Better Comparison = 1
)

func (c Comparison) String() string {
	switch c {
	case Better:
		return "better"
	case Worse:
		return "worse"
	default:
		return "equal"
	}
}

// Flip swaps Better and Worse; Equal is unchanged.
func (c Comparison) Flip() Comparison {
	return -c
}

// Then returns c unless it is Equal, in which case the tie-break is
// evaluated. This composes comparisons lexicographically.
func (c Comparison) Then(next func() Comparison) Comparison {
	if c != Equal {
		return c
	}
	return next()
}

// Compare orders two numbers with the larger one Better.
func Compare(a, b float64) Comparison {
	switch {
	case a > b:
		return Better
	case a < b:
		return Worse
	default:
		return Equal
	}
}

// Fitness is any value that can be ordered against another of its kind.
type Fitness[F any] interface {
	CompareWith(other F) Comparison
}

// Best reduces items to the one with Better-or-equal fitness, keeping the
// earlier element on ties. It reports the winner's index; ok is false for an
// empty slice.
func Best[T any, F Fitness[F]](items []T, fitnessOf func(T) F) (best T, index int, ok bool) {
	if len(items) == 0 {
		return best, -1, false
	}
	best, index = items[0], 0
	bestFit := fitnessOf(best)
	for i := 1; i < len(items); i++ {
		candidate := fitnessOf(items[i])
		if candidate.CompareWith(bestFit) == Better {
			best, index, bestFit = items[i], i, candidate
		}
	}
	return best, index, true
}
