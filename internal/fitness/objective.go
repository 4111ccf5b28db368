package fitness

import (
	"fmt"
	"math"
	"strings"
)

type Goal uint8

const (
	Minimize Goal = iota
	Maximize
)

func (g Goal) String() string {
	if g == Maximize {
		return "maximize"
	}
	return "minimize"
}

func ParseGoal(name string) (Goal, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "min", "minimize":
		return Minimize, nil
	case "max", "maximize":
		return Maximize, nil
	default:
		return 0, fmt.Errorf("unknown goal: %q", name)
	}
}

// Single is a scalar score with an optimization direction.
type Single struct {
	Score float64
	Goal  Goal
}

// CompareWith orders scores numerically using the receiver's goal. A NaN
// score is Worse than any number whichever the goal.
func (s Single) CompareWith(other Single) Comparison {
	sNaN, oNaN := math.IsNaN(s.Score), math.IsNaN(other.Score)
	switch {
	case sNaN && oNaN:
		return Equal
	case sNaN:
		return Worse
	case oNaN:
		return Better
	}

	result := Compare(s.Score, other.Score)
	if s.Goal == Minimize {
		return result.Flip()
	}
	return result
}

func (s Single) String() string {
	return fmt.Sprintf("%g(%s)", s.Score, s.Goal)
}

// Multi is an ordered list of objectives compared by Pareto dominance.
type Multi struct {
	Objectives []Single
}

func NewMulti(objectives ...Single) Multi {
	owned := make([]Single, len(objectives))
	copy(owned, objectives)
	return Multi{Objectives: owned}
}

// CompareWith compares each objective pair. Better means the receiver
// dominates other, Worse means it is dominated, and Equal means the two lie on
// the same front (neither dominates, or they are identical). Fitnesses with a
// different number of objectives are not comparable and report Equal.
func (m Multi) CompareWith(other Multi) Comparison {
	if len(m.Objectives) != len(other.Objectives) {
		return Equal
	}
	anyBetter, anyWorse := false, false
	for i := range m.Objectives {
		switch m.Objectives[i].CompareWith(other.Objectives[i]) {
		case Better:
			anyBetter = true
		case Worse:
			anyWorse = true
		}
	}
	if anyBetter == anyWorse {
		return Equal
	}
	if anyBetter {
		return Better
	}
	return Worse
}

func (m Multi) Dominates(other Multi) bool {
	return m.CompareWith(other) == Better
}

func (m Multi) IsDominatedBy(other Multi) bool {
	return m.CompareWith(other) == Worse
}

// Primary returns the first objective's score, or NaN when there is none.
func (m Multi) Primary() float64 {
	if len(m.Objectives) == 0 {
		return math.NaN()
	}
	return m.Objectives[0].Score
}

func (m Multi) String() string {
	parts := make([]string, len(m.Objectives))
	for i, o := range m.Objectives {
		parts[i] = o.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
