package sampling

import "math/rand"

// NewRand returns a generator seeded deterministically.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Seeds draws n task seeds from the master generator. Parallel tasks each get
// their own generator from one of these seeds, so no generator is ever shared
// between goroutines and results do not depend on scheduling.
func Seeds(rng *rand.Rand, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = rng.Int63()
	}
	return out
}
