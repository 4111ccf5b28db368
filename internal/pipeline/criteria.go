package pipeline

// Criterion reports whether the loop should terminate, given the number of
// completed iterations and the current value.
type Criterion[T any] func(completed int, value T) bool

// NIters terminates after exactly n iterations.
func NIters[T any](n int) Criterion[T] {
	return func(completed int, _ T) bool {
		return completed >= n
	}
}

// Until terminates once done reports true for the current value.
func Until[T any](done func(value T) bool) Criterion[T] {
	return func(_ int, value T) bool {
		return done(value)
	}
}

// Any terminates as soon as any of the criteria does.
func Any[T any](criteria ...Criterion[T]) Criterion[T] {
	return func(completed int, value T) bool {
		for _, c := range criteria {
			if c(completed, value) {
				return true
			}
		}
		return false
	}
}
