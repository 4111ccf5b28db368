package problem

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var ErrUnknownTarget = errors.New("unknown target function")

// Target is the function a run tries to approximate.
type Target struct {
	Name        string
	Description string
	Fn          func(float64) float64
}

var targets = map[string]Target{
	"sin":      {Name: "sin", Description: "sin(x)", Fn: math.Sin},
	"cos":      {Name: "cos", Description: "cos(x)", Fn: math.Cos},
	"square":   {Name: "square", Description: "x^2", Fn: func(x float64) float64 { return x * x }},
	"cubic":    {Name: "cubic", Description: "x^3 - x", Fn: func(x float64) float64 { return x*x*x - x }},
	"abs":      {Name: "abs", Description: "|x|", Fn: math.Abs},
	"gaussian": {Name: "gaussian", Description: "exp(-x^2/1000)", Fn: func(x float64) float64 { return math.Exp(-x * x / 1000) }},
}

func LookupTarget(name string) (Target, error) {
	t, ok := targets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
	}
	return t, nil
}

// TargetNames lists the registered targets in lexical order.
func TargetNames() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
