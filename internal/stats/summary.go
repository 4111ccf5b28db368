package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"simplegp/internal/fitness"
	"simplegp/internal/model"
)

// ScoreFunc projects a fitness onto the number that is summarized.
type ScoreFunc[F any] func(F) float64

// Summarize describes one evaluated population. Score statistics cover finite
// scores only; non-finite scores are counted as invalid. The best member is
// chosen by fitness comparison, not by score, and its score is clamped with
// Finite.
func Summarize[C any, F fitness.Fitness[F]](generation int, phase string, pop model.Population[model.Evaluated[C, F]], score ScoreFunc[F]) model.GenerationStats {
	out := model.GenerationStats{
		Generation: generation,
		Phase:      phase,
		Size:       pop.Len(),
	}
	if pop.Len() == 0 {
		return out
	}

	items := pop.Items()
	scores := make([]float64, 0, len(items))
	depths := make([]float64, len(items))
	sizes := make([]float64, len(items))
	distinct := make(map[string]struct{}, len(items))
	for i, e := range items {
		s := score(e.Fitness())
		if math.IsNaN(s) || math.IsInf(s, 0) {
			out.Invalid++
		} else {
			scores = append(scores, s)
		}
		ind := e.Individual()
		depths[i] = float64(ind.Depth())
		sizes[i] = float64(ind.Size())
		distinct[ind.Key()] = struct{}{}
	}
	out.Distinct = len(distinct)
	out.MeanDepth = stat.Mean(depths, nil)
	out.MeanSize = stat.Mean(sizes, nil)

	if len(scores) > 0 {
		out.MeanScore, out.StdDevScore = stat.MeanStdDev(scores, nil)
		if len(scores) == 1 {
			out.StdDevScore = 0
		}
		out.MinScore = floats.Min(scores)
		out.MaxScore = floats.Max(scores)
	}

	best, _, _ := fitness.Best(items, func(e model.Evaluated[C, F]) F { return e.Fitness() })
	out.BestScore = Finite(score(best.Fitness()))
	out.BestExpression = best.Individual().String()
	return out
}

// Finite maps infinities to the largest float of the same sign and NaN to
// zero so that reported scores always encode.
func Finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	default:
		return v
	}
}
