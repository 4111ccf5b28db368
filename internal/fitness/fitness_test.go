package fitness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComparisonFlipAndThen(t *testing.T) {
	require.Equal(t, Worse, Better.Flip())
	require.Equal(t, Better, Worse.Flip())
	require.Equal(t, Equal, Equal.Flip())

	called := false
	tieBreak := func() Comparison {
		called = true
		return Worse
	}
	require.Equal(t, Better, Better.Then(tieBreak))
	require.False(t, called)
	require.Equal(t, Worse, Equal.Then(tieBreak))
	require.True(t, called)
}

func TestSingleObjectiveOrdering(t *testing.T) {
	two := Single{Score: 2, Goal: Minimize}
	five := Single{Score: 5, Goal: Minimize}
	require.Equal(t, Better, two.CompareWith(five))
	require.Equal(t, Worse, five.CompareWith(two))
	require.Equal(t, Equal, two.CompareWith(two))

	two.Goal, five.Goal = Maximize, Maximize
	require.Equal(t, Worse, two.CompareWith(five))
	require.Equal(t, Better, five.CompareWith(two))
}

func TestSingleObjectiveNaNIsAlwaysWorse(t *testing.T) {
	for _, goal := range []Goal{Minimize, Maximize} {
		nan := Single{Score: math.NaN(), Goal: goal}
		finite := Single{Score: 1e300, Goal: goal}
		require.Equal(t, Worse, nan.CompareWith(finite), goal.String())
		require.Equal(t, Better, finite.CompareWith(nan), goal.String())
		require.Equal(t, Equal, nan.CompareWith(nan), goal.String())
	}
}

func TestMultiObjectiveDominance(t *testing.T) {
	a := NewMulti(Single{Score: 1, Goal: Minimize})
	b := NewMulti(Single{Score: 2, Goal: Minimize})
	require.Equal(t, Better, a.CompareWith(b))
	require.True(t, a.Dominates(b))
	require.True(t, b.IsDominatedBy(a))

	c := NewMulti(Single{Score: 1, Goal: Minimize}, Single{Score: 5, Goal: Minimize})
	d := NewMulti(Single{Score: 5, Goal: Minimize}, Single{Score: 1, Goal: Minimize})
	require.Equal(t, Equal, c.CompareWith(d))
	require.False(t, c.Dominates(d))
	require.False(t, d.Dominates(c))

	e := NewMulti(Single{Score: 3, Goal: Maximize}, Single{Score: 3, Goal: Maximize})
	f := NewMulti(Single{Score: 5, Goal: Maximize}, Single{Score: 3, Goal: Maximize})
	require.Equal(t, Better, f.Objectives[0].CompareWith(e.Objectives[0]))
	require.Equal(t, Better, f.CompareWith(e))
	require.Equal(t, Worse, e.CompareWith(f))

	require.Equal(t, Equal, e.CompareWith(e))
}

func TestMultiObjectiveLengthMismatchIsEqual(t *testing.T) {
	a := NewMulti(Single{Score: 1})
	b := NewMulti(Single{Score: 2}, Single{Score: 2})
	require.Equal(t, Equal, a.CompareWith(b))
}

func TestBestKeepsEarlierOnTies(t *testing.T) {
	scores := []Single{{Score: 4}, {Score: 1}, {Score: 9}, {Score: 1}}
	best, idx, ok := Best(scores, func(s Single) Single { return s })
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, 1.0, best.Score)

	_, _, ok = Best([]Single{}, func(s Single) Single { return s })
	require.False(t, ok)
}

func TestParseGoal(t *testing.T) {
	g, err := ParseGoal("MAX")
	require.NoError(t, err)
	require.Equal(t, Maximize, g)
	_, err = ParseGoal("sideways")
	require.Error(t, err)
}
