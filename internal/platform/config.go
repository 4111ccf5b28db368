package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"simplegp/internal/evo"
	"simplegp/internal/genotype"
	"simplegp/internal/problem"
)

// Config is everything a run needs. It is read from YAML, JSON or TOML files
// and may be overridden from the command line.
type Config struct {
	Target         string               `yaml:"target" toml:"target" json:"target"`
	PrimitiveSet   string               `yaml:"primitive_set" toml:"primitive_set" json:"primitive_set"`
	Objectives     string               `yaml:"objectives" toml:"objectives" json:"objectives"`
	RangeMin       float64              `yaml:"range_min" toml:"range_min" json:"range_min"`
	RangeMax       float64              `yaml:"range_max" toml:"range_max" json:"range_max"`
	TrainingPoints int                  `yaml:"training_points" toml:"training_points" json:"training_points"`
	TestingPoints  int                  `yaml:"testing_points" toml:"testing_points" json:"testing_points"`
	PopulationSize int                  `yaml:"population_size" toml:"population_size" json:"population_size"`
	Generations    int                  `yaml:"generations" toml:"generations" json:"generations"`
	MaxDepth       int                  `yaml:"max_depth" toml:"max_depth" json:"max_depth"`
	MaxTries       int                  `yaml:"max_tries" toml:"max_tries" json:"max_tries"`
	InitMethod     string               `yaml:"init_method" toml:"init_method" json:"init_method"`
	Selection      string               `yaml:"selection" toml:"selection" json:"selection"`
	TournamentSize int                  `yaml:"tournament_size" toml:"tournament_size" json:"tournament_size"`
	Operators      []evo.OperatorWeight `yaml:"operators" toml:"operators" json:"operators"`
	Workers        int                  `yaml:"workers" toml:"workers" json:"workers"`
	Seed           int64                `yaml:"seed" toml:"seed" json:"seed"`
	FitnessCache   int                  `yaml:"fitness_cache" toml:"fitness_cache" json:"fitness_cache"`
}

// DefaultConfig approximates sin(x) over [-100, 100] from 10 training points
// with the classic primitive set, 30% subtree mutation and tournaments of 7.
func DefaultConfig() Config {
	return Config{
		Target:         "sin",
		PrimitiveSet:   problem.PrimitiveSetClassic,
		Objectives:     problem.ObjectivesMSE,
		RangeMin:       -100,
		RangeMax:       100,
		TrainingPoints: 10,
		TestingPoints:  1000,
		PopulationSize: 200,
		Generations:    50,
		MaxDepth:       6,
		MaxTries:       100,
		InitMethod:     genotype.MethodGrow,
		Selection:      evo.SelectionTournament,
		TournamentSize: 7,
		Operators: []evo.OperatorWeight{
			{Name: evo.OperatorSubtreeMutation, Probability: 0.3},
			{Name: evo.OperatorIdentity, Probability: 0.7},
		},
		FitnessCache: 4096,
	}
}

func (c Config) Validate() error {
	if _, err := problem.LookupTarget(c.Target); err != nil {
		return err
	}
	if _, err := problem.NewCatalog(c.PrimitiveSet); err != nil {
		return err
	}
	if _, err := problem.ValidateObjectives(c.Objectives); err != nil {
		return err
	}
	if c.RangeMax < c.RangeMin {
		return fmt.Errorf("invalid range [%v, %v]", c.RangeMin, c.RangeMax)
	}
	if c.TrainingPoints <= 0 || c.TestingPoints <= 0 {
		return fmt.Errorf("training and testing points must be > 0, got %d and %d", c.TrainingPoints, c.TestingPoints)
	}
	if c.PopulationSize <= 0 {
		return fmt.Errorf("population size must be > 0, got %d", c.PopulationSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("generations must be >= 1, got %d", c.Generations)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.MaxTries <= 0 {
		return fmt.Errorf("max tries must be > 0, got %d", c.MaxTries)
	}
	switch strings.ToLower(c.InitMethod) {
	case genotype.MethodGrow, genotype.MethodFull, genotype.MethodRamped:
	default:
		return fmt.Errorf("unsupported init method: %s", c.InitMethod)
	}
	if len(c.Operators) == 0 {
		return errors.New("at least one operator is required")
	}
	if c.FitnessCache < 0 {
		return fmt.Errorf("fitness cache size must be >= 0, got %d", c.FitnessCache)
	}
	return nil
}

// LoadConfig reads a config file on top of DefaultConfig. The format follows
// the extension: .yaml, .yml and .json are decoded as YAML, .toml as TOML.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		err = decodeYAML(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format: %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}
