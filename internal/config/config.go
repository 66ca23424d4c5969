package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"intga/internal/evo"
)

// RunConfig is the full description of one GA run. Zero values of the
// optional fields select the documented defaults.
type RunConfig struct {
	Problem string `json:"problem" yaml:"problem" validate:"required"`
	// Size is the problem size (board width, bit count). 0 uses the
	// problem's default.
	Size int `json:"size" yaml:"size" validate:"gte=0"`

	PopulationSize int    `json:"population_size" yaml:"population_size" validate:"gte=1"`
	InitMode       string `json:"init_mode" yaml:"init_mode" validate:"required"`
	TournamentSize int    `json:"tournament_size" yaml:"tournament_size" validate:"gte=1"`
	Crossover      string `json:"crossover" yaml:"crossover" validate:"required"`
	// Parents overrides ParentsPercentage when positive.
	Parents           int     `json:"parents,omitempty" yaml:"parents,omitempty" validate:"gte=0"`
	ParentsPercentage float64 `json:"parents_percentage" yaml:"parents_percentage" validate:"gte=0,lte=1"`
	// Children defaults to the parent count.
	Children     int     `json:"children,omitempty" yaml:"children,omitempty" validate:"gte=0"`
	Mutation     string  `json:"mutation" yaml:"mutation" validate:"required"`
	MutationRate float64 `json:"mutation_rate" yaml:"mutation_rate" validate:"gte=0,lte=1"`

	Generations int `json:"generations" yaml:"generations" validate:"gte=0"`
	// TargetFitness defaults to the problem optimum.
	TargetFitness *float64 `json:"target_fitness,omitempty" yaml:"target_fitness,omitempty"`
	Epsilon       float64  `json:"epsilon" yaml:"epsilon" validate:"gte=0"`
	TieTolerance  float64  `json:"tie_tolerance,omitempty" yaml:"tie_tolerance,omitempty" validate:"gte=0"`
	// Seed 0 draws a seed from the clock at run time.
	Seed int64 `json:"seed" yaml:"seed"`

	ReportMode  string `json:"report_mode" yaml:"report_mode" validate:"oneof=best indv full complete"`
	ResultsPath string `json:"results_path,omitempty" yaml:"results_path,omitempty"`
	// ArtifactsDir, when set, must name the artifacts directory of the client
	// that runs the config.
	ArtifactsDir string `json:"artifacts_dir,omitempty" yaml:"artifacts_dir,omitempty"`
	// StoreKind empty selects the build's default store.
	StoreKind   string `json:"store,omitempty" yaml:"store,omitempty" validate:"omitempty,oneof=memory sqlite"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty" validate:"required_if=StoreKind sqlite"`
	MetricsPath string `json:"metrics_path,omitempty" yaml:"metrics_path,omitempty"`
}

// Default mirrors the 20-queens driver: 100 individuals, 3-way tournaments,
// two-point crossover on 80% of the population and a 1% swap rate for up to
// 5000 generations.
func Default() RunConfig {
	return RunConfig{
		Problem:           "nqueens",
		Size:              20,
		PopulationSize:    100,
		InitMode:          evo.RandomFill.String(),
		TournamentSize:    3,
		Crossover:         evo.TwoPoint.String(),
		ParentsPercentage: 0.8,
		Mutation:          evo.SwapMutation.String(),
		MutationRate:      0.01,
		Generations:       5000,
		Epsilon:           1e-6,
		ReportMode:        "best",
	}
}

// DefaultDBPath is the sqlite database used when the sqlite store is
// selected without a path.
const DefaultDBPath = "intga.db"

var validate = validator.New()

// Load overlays the file at path on Default. YAML and JSON are chosen by
// extension; unknown keys are rejected. The result is validated.
func Load(path string) (RunConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: unsupported config format %q", evo.ErrConfiguration, filepath.Ext(path))
	}
	cfg.ApplyStoreDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyStoreDefaults fills DBPath when the sqlite store is selected without
// one.
func (c *RunConfig) ApplyStoreDefaults() {
	if c.StoreKind == "sqlite" && c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
}

// Validate checks field ranges, mode names and the relations between counts.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: field %s fails %q (value %v)", evo.ErrConfiguration, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", evo.ErrConfiguration, err)
	}
	if _, err := c.Modes(); err != nil {
		return err
	}
	initMode, _ := evo.ParseInitMode(c.InitMode)
	if initMode == evo.ExternallySupplied {
		return fmt.Errorf("%w: init mode %s needs caller-supplied individuals", evo.ErrConfiguration, initMode)
	}

	parents := c.ParentCount()
	if parents < 2 {
		return fmt.Errorf("%w: at least 2 parents are required, got %d", evo.ErrConfiguration, parents)
	}
	if parents > c.PopulationSize {
		return fmt.Errorf("%w: parents %d exceed population size %d", evo.ErrConfiguration, parents, c.PopulationSize)
	}
	if parents%2 != 0 {
		return fmt.Errorf("%w: parents must be even, got %d", evo.ErrConfiguration, parents)
	}
	if children := c.ChildCount(); children > parents {
		return fmt.Errorf("%w: children %d exceed parents %d", evo.ErrConfiguration, children, parents)
	}
	if c.TournamentSize > c.PopulationSize {
		return fmt.Errorf("%w: tournament size %d exceeds population size %d", evo.ErrConfiguration, c.TournamentSize, c.PopulationSize)
	}
	return nil
}

// ParentCount is Parents when set, otherwise ParentsPercentage of the
// population rounded down to an even number.
func (c RunConfig) ParentCount() int {
	if c.Parents > 0 {
		return c.Parents
	}
	n := int(c.ParentsPercentage * float64(c.PopulationSize))
	return n - n%2
}

func (c RunConfig) ChildCount() int {
	if c.Children > 0 {
		return c.Children
	}
	return c.ParentCount()
}

// Modes is the parsed form of the mode names.
type Modes struct {
	Init      evo.InitMode
	Crossover evo.CrossoverMode
	Mutation  evo.MutationMode
}

func (c RunConfig) Modes() (Modes, error) {
	initMode, err := evo.ParseInitMode(c.InitMode)
	if err != nil {
		return Modes{}, err
	}
	crossover, err := evo.ParseCrossoverMode(c.Crossover)
	if err != nil {
		return Modes{}, err
	}
	mutation, err := evo.ParseMutationMode(c.Mutation)
	if err != nil {
		return Modes{}, err
	}
	return Modes{Init: initMode, Crossover: crossover, Mutation: mutation}, nil
}

// StepConfig translates the run into the per-generation operator settings.
func (c RunConfig) StepConfig() (evo.StepConfig, error) {
	modes, err := c.Modes()
	if err != nil {
		return evo.StepConfig{}, err
	}
	return evo.StepConfig{
		TournamentSize: c.TournamentSize,
		Crossover:      modes.Crossover,
		Parents:        c.ParentCount(),
		Children:       c.ChildCount(),
		Mutation:       modes.Mutation,
		MutationRate:   c.MutationRate,
	}, nil
}

// Target resolves TargetFitness against the problem optimum.
func (c RunConfig) Target(optimum float64) float64 {
	if c.TargetFitness != nil {
		return *c.TargetFitness
	}
	return optimum
}
