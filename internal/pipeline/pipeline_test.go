package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func addOne(_ context.Context, v int) (int, error) {
	return v + 1, nil
}

func TestThenChangesType(t *testing.T) {
	p := Then(Of(context.Background(), 21), func(_ context.Context, v int) (string, error) {
		if v*2 == 42 {
			return "answer", nil
		}
		return "", nil
	})
	out, err := p.Finish()
	require.NoError(t, err)
	require.Equal(t, "answer", out)
}

func TestNItersRunsExactlyN(t *testing.T) {
	var iterations []int
	out, err := Of(context.Background(), 0).
		Repeat(NIters[int](5), func(i int, p Pipeline[int]) Pipeline[int] {
			iterations = append(iterations, i)
			return p.Apply(addOne)
		}).
		Finish()
	require.NoError(t, err)
	require.Equal(t, 5, out)
	require.Equal(t, []int{1, 2, 3, 4, 5}, iterations)
}

func TestHandWrittenCriterionTerminatesWhenTrue(t *testing.T) {
	atThree := Criterion[int](func(completed int, _ int) bool { return completed >= 3 })
	iterations := 0
	out, err := Of(context.Background(), 0).
		Repeat(atThree, func(_ int, p Pipeline[int]) Pipeline[int] {
			iterations++
			return p.Apply(addOne)
		}).
		Finish()
	require.NoError(t, err)
	require.Equal(t, 3, iterations)
	require.Equal(t, 3, out)
}

func TestCriterionTrueBeforeFirstIterationSkipsBlock(t *testing.T) {
	out, err := Of(context.Background(), 5).
		Repeat(func(int, int) bool { return true }, func(int, Pipeline[int]) Pipeline[int] {
			t.Fatal("block must not run")
			return Pipeline[int]{}
		}).
		Finish()
	require.NoError(t, err)
	require.Equal(t, 5, out)
}

func TestNItersZeroSkipsBlock(t *testing.T) {
	out, err := Of(context.Background(), 7).
		Repeat(NIters[int](0), func(int, Pipeline[int]) Pipeline[int] {
			t.Fatal("block must not run")
			return Pipeline[int]{}
		}).
		Finish()
	require.NoError(t, err)
	require.Equal(t, 7, out)
}

func TestUntilSeesCurrentValue(t *testing.T) {
	out, err := Of(context.Background(), 1).
		Repeat(Until(func(v int) bool { return v >= 100 }), func(_ int, p Pipeline[int]) Pipeline[int] {
			return p.Apply(func(_ context.Context, v int) (int, error) { return v * 3, nil })
		}).
		Finish()
	require.NoError(t, err)
	require.Equal(t, 243, out)
}

func TestAnyStopsOnFirstCriterion(t *testing.T) {
	criterion := Any(NIters[int](10), Until(func(v int) bool { return v == 4 }))
	out, err := Of(context.Background(), 0).
		Repeat(criterion, func(_ int, p Pipeline[int]) Pipeline[int] { return p.Apply(addOne) }).
		Finish()
	require.NoError(t, err)
	require.Equal(t, 4, out)
}

func TestErrorShortCircuitsLaterSteps(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	p := Start(context.Background(), func(context.Context) (int, error) { return 1, nil }).
		Apply(func(context.Context, int) (int, error) { return 0, boom }).
		Apply(func(_ context.Context, v int) (int, error) { calls++; return v, nil }).
		Observe(func(context.Context, int) error { calls++; return nil }).
		Repeat(NIters[int](3), func(_ int, p Pipeline[int]) Pipeline[int] { calls++; return p })

	_, err := p.Finish()
	require.ErrorIs(t, err, boom)
	require.Zero(t, calls)
}

func TestRepeatStopsAtFailingIteration(t *testing.T) {
	boom := errors.New("boom")
	runs := 0
	_, err := Of(context.Background(), 0).
		Repeat(NIters[int](10), func(i int, p Pipeline[int]) Pipeline[int] {
			runs++
			if i == 3 {
				return p.Apply(func(context.Context, int) (int, error) { return 0, boom })
			}
			return p.Apply(addOne)
		}).
		Finish()
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, runs)
}

func TestObservePassesValueThrough(t *testing.T) {
	var seen []int
	out, err := Of(context.Background(), 2).
		Observe(func(_ context.Context, v int) error { seen = append(seen, v); return nil }).
		Apply(addOne).
		Observe(func(_ context.Context, v int) error { seen = append(seen, v); return nil }).
		Finish()
	require.NoError(t, err)
	require.Equal(t, 3, out)
	require.Equal(t, []int{2, 3}, seen)
}

func TestCanceledContextStopsRepeat(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	_, err := Of(ctx, 0).
		Repeat(NIters[int](100), func(_ int, p Pipeline[int]) Pipeline[int] {
			runs++
			if runs == 2 {
				cancel()
			}
			return p
		}).
		Finish()
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, runs)
}

func TestStartRequiresSupplier(t *testing.T) {
	_, err := Start[int](context.Background(), nil).Finish()
	require.Error(t, err)
}
