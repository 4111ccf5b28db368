package simplegp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"simplegp/internal/evo"
	"simplegp/internal/model"
	"simplegp/internal/platform"
	"simplegp/internal/stats"
	"simplegp/internal/storage"
)

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *slog.Logger
}

type Client struct {
	store    storage.Store
	logger   *slog.Logger
	platform *platform.Platform
}

// RunRequest selects a run configuration. ConfigPath, when set, is loaded on
// top of the defaults; non-zero fields then override it. Fields where zero is
// a valid setting are pointers and override whenever they are non-nil.
type RunRequest struct {
	ConfigPath          string
	Target              string
	PrimitiveSet        string
	Objectives          string
	Population          int
	Generations         int
	MaxDepth            *int
	MaxTries            int
	InitMethod          string
	Selection           string
	TournamentSize      int
	MutationProbability *float64
	TrainingPoints      int
	TestingPoints       int
	Workers             *int
	Seed                *int64
}

type RunSummary struct {
	RunID          string
	Target         string
	Objectives     string
	Seed           int64
	TrainBest      float64
	TestBest       float64
	BestExpression string
	BestDepth      int
	Evaluations    int64
	Duration       time.Duration
	Generations    []model.GenerationStats
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	Target         string
	PrimitiveSet   string
	Objectives     string
	Seed           int64
	Population     int
	Generations    int
	Evaluations    int64
	TrainBest      float64
	TestBest       float64
	BestExpression string
}

type StatsRequest struct {
	RunID  string
	Latest bool
	Phase  string
	Limit  int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = storage.DefaultSQLitePath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store, logger: logger}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensurePlatform(ctx)
	return err
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	cfg, err := configFromRequest(req)
	if err != nil {
		return RunSummary{}, err
	}
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	result, err := p.Run(ctx, cfg)
	if err != nil {
		return RunSummary{}, err
	}
	r := result.Record
	return RunSummary{
		RunID:          r.ID,
		Target:         r.Target,
		Objectives:     r.Objectives,
		Seed:           r.Seed,
		TrainBest:      r.TrainBest,
		TestBest:       r.TestBest,
		BestExpression: r.BestExpression,
		BestDepth:      r.BestDepth,
		Evaluations:    r.Evaluations,
		Duration:       time.Duration(r.DurationMillis) * time.Millisecond,
		Generations:    result.Generations,
	}, nil
}

// Runs lists stored runs, most recent first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return nil, err
	}
	records, err := p.Runs(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(records)
	if len(records) > req.Limit {
		records = records[:req.Limit]
	}

	out := make([]RunItem, 0, len(records))
	for _, r := range records {
		out = append(out, RunItem{
			RunID:          r.ID,
			CreatedAtUTC:   r.CreatedAtUTC,
			Target:         r.Target,
			PrimitiveSet:   r.PrimitiveSet,
			Objectives:     r.Objectives,
			Seed:           r.Seed,
			Population:     r.PopulationSize,
			Generations:    r.Generations,
			Evaluations:    r.Evaluations,
			TrainBest:      r.TrainBest,
			TestBest:       r.TestBest,
			BestExpression: r.BestExpression,
		})
	}
	return out, nil
}

// Stats returns the per-generation statistics of one run, optionally
// filtered by phase and truncated to the last Limit entries.
func (c *Client) Stats(ctx context.Context, req StatsRequest) ([]model.GenerationStats, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return nil, err
	}
	history, ok, err := p.GenerationStats(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("generation stats not found for run %s", runID)
	}
	if req.Phase != "" {
		history = slices.DeleteFunc(history, func(s model.GenerationStats) bool {
			return s.Phase != req.Phase
		})
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[len(history)-req.Limit:]
	}
	return history, nil
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

// Export writes a stored run and its generation history to
// OutDir/<run id> and returns that directory.
func (c *Client) Export(ctx context.Context, req ExportRequest) (string, error) {
	if req.OutDir == "" {
		return "", errors.New("output directory is required")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return "", err
	}
	p, err := c.ensurePlatform(ctx)
	if err != nil {
		return "", err
	}
	record, ok, err := p.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("run not found: %s", runID)
	}
	history, _, err := p.GenerationStats(ctx, runID)
	if err != nil {
		return "", err
	}
	return stats.WriteRunArtifacts(req.OutDir, stats.RunArtifacts{Run: record, History: history})
}

// Problems lists the targets, primitive sets and strategies a run may use.
func (c *Client) Problems() platform.Available {
	return platform.Problems()
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" {
		return runID, nil
	}
	if !latest {
		return "", errors.New("run id is required unless latest is set")
	}
	runs, err := c.Runs(ctx, RunsRequest{Limit: 1})
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("no runs available")
	}
	return runs[0].RunID, nil
}

func (c *Client) ensurePlatform(ctx context.Context) (*platform.Platform, error) {
	if c.platform != nil {
		return c.platform, nil
	}
	p := platform.New(platform.Options{Store: c.store, Logger: c.logger})
	if err := p.Init(ctx); err != nil {
		return nil, err
	}
	c.platform = p
	return c.platform, nil
}

func configFromRequest(req RunRequest) (platform.Config, error) {
	cfg := platform.DefaultConfig()
	if req.ConfigPath != "" {
		loaded, err := platform.LoadConfig(req.ConfigPath)
		if err != nil {
			return platform.Config{}, err
		}
		cfg = loaded
	}
	if req.Target != "" {
		cfg.Target = req.Target
	}
	if req.PrimitiveSet != "" {
		cfg.PrimitiveSet = req.PrimitiveSet
	}
	if req.Objectives != "" {
		cfg.Objectives = req.Objectives
	}
	if req.Population > 0 {
		cfg.PopulationSize = req.Population
	}
	if req.Generations > 0 {
		cfg.Generations = req.Generations
	}
	if req.MaxDepth != nil {
		cfg.MaxDepth = *req.MaxDepth
	}
	if req.MaxTries > 0 {
		cfg.MaxTries = req.MaxTries
	}
	if req.InitMethod != "" {
		cfg.InitMethod = req.InitMethod
	}
	if req.Selection != "" {
		cfg.Selection = req.Selection
	}
	if req.TournamentSize > 0 {
		cfg.TournamentSize = req.TournamentSize
	}
	if req.MutationProbability != nil {
		p := *req.MutationProbability
		if p < 0 || p > 1 {
			return platform.Config{}, fmt.Errorf("mutation probability must be in [0, 1], got %v", p)
		}
		cfg.Operators = []evo.OperatorWeight{
			{Name: evo.OperatorSubtreeMutation, Probability: p},
			{Name: evo.OperatorIdentity, Probability: 1 - p},
		}
	}
	if req.TrainingPoints > 0 {
		cfg.TrainingPoints = req.TrainingPoints
	}
	if req.TestingPoints > 0 {
		cfg.TestingPoints = req.TestingPoints
	}
	if req.Workers != nil {
		cfg.Workers = *req.Workers
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	return cfg, nil
}
