package problem

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Point is one sample of the target function.
type Point struct {
	X float64
	Y float64
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("point count must be > 0, got %d", n)
	}
	if hi < lo {
		return nil, fmt.Errorf("invalid range [%v, %v]", lo, hi)
	}
	if n == 1 {
		return []float64{lo}, nil
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// SampleTarget evaluates target at n evenly spaced points in [lo, hi].
func SampleTarget(target Target, lo, hi float64, n int) ([]Point, error) {
	if target.Fn == nil {
		return nil, errors.New("target function is required")
	}
	xs, err := Linspace(lo, hi, n)
	if err != nil {
		return nil, err
	}
	points := make([]Point, len(xs))
	for i, x := range xs {
		points[i] = Point{X: x, Y: target.Fn(x)}
	}
	return points, nil
}
