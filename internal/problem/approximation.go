package problem

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"simplegp/internal/fitness"
	"simplegp/internal/model"
)

const (
	ObjectivesMSE     = "mse"
	ObjectivesMSESize = "mse+size"
)

// Settings describes a function-approximation problem.
type Settings struct {
	Target         string
	PrimitiveSet   string
	Min            float64
	Max            float64
	TrainingPoints int
	TestingPoints  int
}

// FunctionApproximation holds the sampled train and test data for a target.
type FunctionApproximation struct {
	Target Target
	Train  []Point
	Test   []Point
}

func NewFunctionApproximation(s Settings) (*FunctionApproximation, error) {
	target, err := LookupTarget(s.Target)
	if err != nil {
		return nil, err
	}
	train, err := SampleTarget(target, s.Min, s.Max, s.TrainingPoints)
	if err != nil {
		return nil, fmt.Errorf("training data: %w", err)
	}
	test, err := SampleTarget(target, s.Min, s.Max, s.TestingPoints)
	if err != nil {
		return nil, fmt.Errorf("testing data: %w", err)
	}
	return &FunctionApproximation{Target: target, Train: train, Test: test}, nil
}

// MSE is the mean squared error of ind over points. A non-numeric output
// yields NaN.
func MSE(ind model.Individual[float64], points []Point) (float64, error) {
	if len(points) == 0 {
		return 0, errors.New("mean squared error over no points")
	}
	sum := 0.0
	for _, p := range points {
		out, ok := ind.Evaluate(p.X).(float64)
		if !ok {
			return math.NaN(), nil
		}
		d := out - p.Y
		sum += d * d
	}
	return sum / float64(len(points)), nil
}

// SingleObjective scores by mean squared error, lower is better.
func SingleObjective(points []Point) func(ctx context.Context, ind model.Individual[float64]) (fitness.Single, error) {
	return func(ctx context.Context, ind model.Individual[float64]) (fitness.Single, error) {
		if err := ctx.Err(); err != nil {
			return fitness.Single{}, err
		}
		mse, err := MSE(ind, points)
		if err != nil {
			return fitness.Single{}, err
		}
		return fitness.Single{Score: mse, Goal: fitness.Minimize}, nil
	}
}

// MultiObjective scores by mean squared error and tree size, both minimized.
func MultiObjective(points []Point) func(ctx context.Context, ind model.Individual[float64]) (fitness.Multi, error) {
	single := SingleObjective(points)
	return func(ctx context.Context, ind model.Individual[float64]) (fitness.Multi, error) {
		mse, err := single(ctx, ind)
		if err != nil {
			return fitness.Multi{}, err
		}
		return fitness.NewMulti(mse, fitness.Single{Score: float64(ind.Size()), Goal: fitness.Minimize}), nil
	}
}

// ValidateObjectives normalizes an objectives name.
func ValidateObjectives(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ObjectivesMSE:
		return ObjectivesMSE, nil
	case ObjectivesMSESize:
		return ObjectivesMSESize, nil
	default:
		return "", fmt.Errorf("unsupported objectives: %s", name)
	}
}
