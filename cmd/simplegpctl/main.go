package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"simplegp/internal/stats"
	"simplegp/internal/storage"
	"simplegp/pkg/simplegp"
)

const exportsDir = "exports"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("simplegpctl", flag.ContinueOnError)
	logLevel := global.String("log-level", "info", "log level: debug|info|warn|error")
	logFormat := global.String("log-format", "text", "log format: text|json")
	if err := global.Parse(args); err != nil {
		return err
	}
	logger, err := newLogger(*logLevel, *logFormat, os.Stderr)
	if err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		return usageError("missing command")
	}

	switch rest[0] {
	case "run":
		return runRun(ctx, rest[1:], out, logger)
	case "runs":
		return runRuns(ctx, rest[1:], out, logger)
	case "stats":
		return runStats(ctx, rest[1:], out, logger)
	case "export":
		return runExport(ctx, rest[1:], out, logger)
	case "problems":
		return runProblems(ctx, rest[1:], out)
	default:
		return usageError(fmt.Sprintf("unknown command: %s", rest[0]))
	}
}

func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

func newClient(storeKind, dbPath string, logger *slog.Logger) (*simplegp.Client, error) {
	return simplegp.New(simplegp.Options{StoreKind: storeKind, DBPath: dbPath, Logger: logger})
}

func runRun(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config path (.yaml|.yml|.json|.toml)")
	target := fs.String("target", "sin", "target function name")
	primitiveSet := fs.String("primitives", "classic", "primitive set: classic|arithmetic")
	objectives := fs.String("objectives", "mse", "objectives: mse|mse+size")
	population := fs.Int("pop", 200, "population size")
	generations := fs.Int("gens", 50, "generation count")
	maxDepth := fs.Int("max-depth", 6, "maximum tree depth")
	maxTries := fs.Int("max-tries", 100, "construction attempts before giving up")
	initMethod := fs.String("init", "grow", "initialization method: grow|full|ramped")
	selection := fs.String("selection", "tournament", "selection mechanism: tournament|elitism|uniform")
	tournamentSize := fs.Int("tournament-size", 7, "tournament size")
	mutation := fs.Float64("mutation", 0.3, "subtree mutation probability (identity takes the rest)")
	trainingPoints := fs.Int("train-points", 10, "training sample count")
	testingPoints := fs.Int("test-points", 1000, "testing sample count")
	workers := fs.Int("workers", 4, "worker count")
	seed := fs.Int64("seed", 1, "rng seed")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultSQLitePath, "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit run summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req := simplegp.RunRequest{ConfigPath: *configPath}
	if *configPath == "" {
		req = simplegp.RunRequest{
			Target:              *target,
			PrimitiveSet:        *primitiveSet,
			Objectives:          *objectives,
			Population:          *population,
			Generations:         *generations,
			MaxDepth:            maxDepth,
			MaxTries:            *maxTries,
			InitMethod:          *initMethod,
			Selection:           *selection,
			TournamentSize:      *tournamentSize,
			MutationProbability: mutation,
			TrainingPoints:      *trainingPoints,
			TestingPoints:       *testingPoints,
			Workers:             workers,
			Seed:                seed,
		}
	} else {
		overrideRunRequest(&req, setFlags, runFlagValues{
			target: *target, primitiveSet: *primitiveSet, objectives: *objectives,
			population: *population, generations: *generations, maxDepth: maxDepth, maxTries: *maxTries,
			initMethod: *initMethod, selection: *selection, tournamentSize: *tournamentSize,
			mutation: mutation, trainingPoints: *trainingPoints, testingPoints: *testingPoints,
			workers: workers, seed: seed,
		})
	}

	client, err := newClient(*storeKind, *dbPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			RunID          string  `json:"run_id"`
			Target         string  `json:"target"`
			Objectives     string  `json:"objectives"`
			Seed           int64   `json:"seed"`
			TrainBest      float64 `json:"train_best"`
			TestBest       float64 `json:"test_best"`
			BestExpression string  `json:"best_expression"`
			BestDepth      int     `json:"best_depth"`
			Evaluations    int64   `json:"evaluations"`
			DurationMillis int64   `json:"duration_millis"`
		}{
			RunID:          summary.RunID,
			Target:         summary.Target,
			Objectives:     summary.Objectives,
			Seed:           summary.Seed,
			TrainBest:      summary.TrainBest,
			TestBest:       summary.TestBest,
			BestExpression: summary.BestExpression,
			BestDepth:      summary.BestDepth,
			Evaluations:    summary.Evaluations,
			DurationMillis: summary.Duration.Milliseconds(),
		})
	}

	fmt.Fprintf(out, "run completed run_id=%s target=%s objectives=%s seed=%d\n",
		summary.RunID, summary.Target, summary.Objectives, summary.Seed)
	fmt.Fprintf(out, "train_best=%.6g test_best=%.6g depth=%d evaluations=%s duration=%s\n",
		summary.TrainBest, summary.TestBest, summary.BestDepth,
		humanize.Comma(summary.Evaluations), summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "best=%s\n", summary.BestExpression)
	return nil
}

type runFlagValues struct {
	target, primitiveSet, objectives, initMethod, selection string
	population, generations, maxTries                       int
	tournamentSize, trainingPoints, testingPoints           int
	maxDepth, workers                                       *int
	mutation                                                *float64
	seed                                                    *int64
}

// overrideRunRequest applies only the flags given explicitly on the command
// line, so a config file keeps every value it sets.
func overrideRunRequest(req *simplegp.RunRequest, set map[string]bool, v runFlagValues) {
	if set["target"] {
		req.Target = v.target
	}
	if set["primitives"] {
		req.PrimitiveSet = v.primitiveSet
	}
	if set["objectives"] {
		req.Objectives = v.objectives
	}
	if set["pop"] {
		req.Population = v.population
	}
	if set["gens"] {
		req.Generations = v.generations
	}
	if set["max-depth"] {
		req.MaxDepth = v.maxDepth
	}
	if set["max-tries"] {
		req.MaxTries = v.maxTries
	}
	if set["init"] {
		req.InitMethod = v.initMethod
	}
	if set["selection"] {
		req.Selection = v.selection
	}
	if set["tournament-size"] {
		req.TournamentSize = v.tournamentSize
	}
	if set["mutation"] {
		req.MutationProbability = v.mutation
	}
	if set["train-points"] {
		req.TrainingPoints = v.trainingPoints
	}
	if set["test-points"] {
		req.TestingPoints = v.testingPoints
	}
	if set["workers"] {
		req.Workers = v.workers
	}
	if set["seed"] {
		req.Seed = v.seed
	}
}

func runRuns(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultSQLitePath, "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(*storeKind, *dbPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, simplegp.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	for _, item := range items {
		created := item.CreatedAtUTC
		if ts, err := time.Parse(time.RFC3339Nano, item.CreatedAtUTC); err == nil {
			created = humanize.Time(ts)
		}
		fmt.Fprintf(out, "run_id=%s created=%q target=%s primitives=%s objectives=%s seed=%d pop=%d gens=%d evaluations=%s train_best=%.6g test_best=%.6g\n",
			item.RunID,
			created,
			item.Target,
			item.PrimitiveSet,
			item.Objectives,
			item.Seed,
			item.Population,
			item.Generations,
			humanize.Comma(item.Evaluations),
			item.TrainBest,
			item.TestBest,
		)
	}
	return nil
}

func runStats(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	phase := fs.String("phase", "", "filter by phase: train|test")
	limit := fs.Int("limit", 0, "show only the last N entries (0 shows all)")
	format := fs.String("format", "table", "output format: table|json|csv")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultSQLitePath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" && !*latest {
		return errors.New("stats requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.Stats(ctx, simplegp.StatsRequest{RunID: *runID, Latest: *latest, Phase: *phase, Limit: *limit})
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return stats.WriteJSON(out, history)
	case "csv":
		return stats.WriteCSV(out, history)
	case "table":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "GEN\tPHASE\tSIZE\tBEST\tMEAN\tSTDDEV\tDEPTH\tDISTINCT\tINVALID")
		for _, s := range history {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%.6g\t%.6g\t%.6g\t%.2f\t%d\t%d\n",
				s.Generation, s.Phase, s.Size, s.BestScore, s.MeanScore, s.StdDevScore, s.MeanDepth, s.Distinct, s.Invalid)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported stats format: %s", *format)
	}
}

func runExport(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", exportsDir, "output directory")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultSQLitePath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}

	client, err := newClient(*storeKind, *dbPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	dir, err := client.Export(ctx, simplegp.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "exported run artifacts to %s\n", dir)
	return nil
}

func runProblems(_ context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("problems", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "emit available problems as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient("memory", "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}
	available := client.Problems()
	if *jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(available)
	}

	fmt.Fprintln(out, "targets:")
	for _, t := range available.Targets {
		fmt.Fprintf(out, "  %-10s %s\n", t.Name, t.Description)
	}
	fmt.Fprintf(out, "primitive sets: %s\n", strings.Join(available.PrimitiveSets, ", "))
	fmt.Fprintf(out, "objectives: %s\n", strings.Join(available.Objectives, ", "))
	fmt.Fprintf(out, "init methods: %s\n", strings.Join(available.InitMethods, ", "))
	fmt.Fprintf(out, "selections: %s\n", strings.Join(available.Selections, ", "))
	fmt.Fprintf(out, "operators: %s\n", strings.Join(available.Operators, ", "))
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: simplegpctl [--log-level L] [--log-format text|json] <run|runs|stats|export|problems> [flags]", msg)
}
