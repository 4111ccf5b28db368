package platform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"simplegp/internal/catalog"
	"simplegp/internal/evo"
	"simplegp/internal/fitness"
	"simplegp/internal/genotype"
	"simplegp/internal/model"
	"simplegp/internal/pipeline"
	"simplegp/internal/problem"
	"simplegp/internal/sampling"
	"simplegp/internal/stats"
	"simplegp/internal/tree"
)

const (
	PhaseTrain = "train"
	PhaseTest  = "test"
)

type outcome struct {
	evaluations    int64
	trainBest      float64
	testBest       float64
	bestExpression string
	bestDepth      int
	history        []model.GenerationStats
}

// objective binds a fitness type to its train and test scorers and to the
// number reported for it.
type objective[F any] struct {
	train evo.FitnessFunc[float64, F]
	test  evo.FitnessFunc[float64, F]
	score stats.ScoreFunc[F]
}

func evolve(ctx context.Context, cfg Config, logger *slog.Logger) (outcome, error) {
	fa, err := problem.NewFunctionApproximation(problem.Settings{
		Target:         cfg.Target,
		PrimitiveSet:   cfg.PrimitiveSet,
		Min:            cfg.RangeMin,
		Max:            cfg.RangeMax,
		TrainingPoints: cfg.TrainingPoints,
		TestingPoints:  cfg.TestingPoints,
	})
	if err != nil {
		return outcome{}, err
	}
	cat, err := problem.NewCatalog(cfg.PrimitiveSet)
	if err != nil {
		return outcome{}, err
	}
	objectives, err := problem.ValidateObjectives(cfg.Objectives)
	if err != nil {
		return outcome{}, err
	}
	reporter := stats.NewReporter(logger)

	switch objectives {
	case problem.ObjectivesMSESize:
		return runEngine(ctx, cfg, cat, reporter, objective[fitness.Multi]{
			train: problem.MultiObjective(fa.Train),
			test:  problem.MultiObjective(fa.Test),
			score: fitness.Multi.Primary,
		})
	default:
		return runEngine(ctx, cfg, cat, reporter, objective[fitness.Single]{
			train: problem.SingleObjective(fa.Train),
			test:  problem.SingleObjective(fa.Test),
			score: func(s fitness.Single) float64 { return s.Score },
		})
	}
}

// runEngine wires the generational loop:
//
//	initialize → repeat(evaluate on train → report → breed) → evaluate on test → report
func runEngine[F fitness.Fitness[F]](ctx context.Context, cfg Config, cat *catalog.Catalog[float64], reporter *stats.Reporter, obj objective[F]) (outcome, error) {
	rng := sampling.NewRand(cfg.Seed)

	initializer, err := newInitializer(cfg, cat)
	if err != nil {
		return outcome{}, err
	}
	trainEval, err := evo.NewEvaluator(obj.train, cfg.Workers, cfg.FitnessCache)
	if err != nil {
		return outcome{}, err
	}
	testEval, err := evo.NewEvaluator(obj.test, cfg.Workers, 0)
	if err != nil {
		return outcome{}, err
	}
	mechanism, err := evo.NewMechanism[float64, F](cfg.Selection, cfg.TournamentSize)
	if err != nil {
		return outcome{}, err
	}
	operators, err := evo.NewOperatorDistribution(cfg.Operators, evo.OperatorSettings[float64]{
		Catalog:  cat,
		MaxDepth: cfg.MaxDepth,
		MaxTries: cfg.MaxTries,
	})
	if err != nil {
		return outcome{}, fmt.Errorf("operators: %w", err)
	}
	breeder := evo.Breeder[float64, F]{
		Operators: operators,
		Mechanism: mechanism,
		Size:      cfg.PopulationSize,
		Workers:   cfg.Workers,
	}

	var lastTrain model.Population[model.Evaluated[float64, F]]
	keepTrain := func(_ context.Context, pop model.Population[model.Evaluated[float64, F]]) error {
		lastTrain = pop
		return nil
	}
	breed := func(ctx context.Context, pop model.Population[model.Evaluated[float64, F]]) (model.Population[model.Individual[float64]], error) {
		return breeder.Breed(ctx, rng, pop)
	}

	trained := pipeline.Start(ctx, func(ctx context.Context) (model.Population[model.Individual[float64]], error) {
		return initializer.Initialize(ctx, rng)
	}).Repeat(
		pipeline.NIters[model.Population[model.Individual[float64]]](cfg.Generations),
		func(_ int, p pipeline.Pipeline[model.Population[model.Individual[float64]]]) pipeline.Pipeline[model.Population[model.Individual[float64]]] {
			evaluated := pipeline.Then(p, trainEval.Evaluate).
				Observe(stats.Observer[float64](reporter, PhaseTrain, obj.score)).
				Observe(keepTrain)
			return pipeline.Then(evaluated, breed)
		},
	)
	tested, err := pipeline.Then(trained, testEval.Evaluate).
		Observe(stats.Observer[float64](reporter, PhaseTest, obj.score)).
		Finish()
	if err != nil {
		return outcome{}, err
	}

	fitnessOf := func(e model.Evaluated[float64, F]) F { return e.Fitness() }
	bestTrain, _, _ := fitness.Best(lastTrain.Items(), fitnessOf)
	bestTest, _, ok := fitness.Best(tested.Items(), fitnessOf)
	if !ok {
		return outcome{}, fmt.Errorf("empty final population")
	}
	return outcome{
		evaluations:    trainEval.Evaluations() + testEval.Evaluations(),
		trainBest:      stats.Finite(obj.score(bestTrain.Fitness())),
		testBest:       stats.Finite(obj.score(bestTest.Fitness())),
		bestExpression: bestTest.Individual().String(),
		bestDepth:      bestTest.Individual().Depth(),
		history:        reporter.History(),
	}, nil
}

func newInitializer(cfg Config, cat *catalog.Catalog[float64]) (genotype.Initializer[float64], error) {
	constructor := genotype.Constructor[float64]{
		Catalog:  cat,
		MaxDepth: cfg.MaxDepth,
		MaxTries: cfg.MaxTries,
		Output:   tree.TypeOf[float64](),
	}
	ramped := strings.EqualFold(cfg.InitMethod, genotype.MethodRamped)
	if ramped {
		constructor.Policy = genotype.NewGrow(cat)
	} else {
		policy, err := genotype.PolicyByName(cfg.InitMethod, cat)
		if err != nil {
			return genotype.Initializer[float64]{}, err
		}
		constructor.Policy = policy
	}
	return genotype.Initializer[float64]{
		Constructor: constructor,
		Size:        cfg.PopulationSize,
		Workers:     cfg.Workers,
		Ramped:      ramped,
	}, nil
}
