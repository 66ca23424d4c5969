package evo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"
)

// GenerationReport summarizes one evaluated generation for observers.
type GenerationReport struct {
	Generation  int
	Best        float64
	BestAllTime float64
	// Improved is set when the all-time best dropped in this generation, and
	// always for generation 0.
	Improved    bool
	Evaluations int
	Duration    time.Duration
}

// Observer receives every evaluated generation. Observers must not mutate the
// population.
type Observer interface {
	ObserveGeneration(pop *Population, report GenerationReport) error
}

type Improvement struct {
	Generation int     `json:"generation"`
	Fitness    float64 `json:"fitness"`
}

type RunResult struct {
	Generations int
	// BestByGeneration[0] is the initial population.
	BestByGeneration       []float64
	Improvements           []Improvement
	BestAllTime            float64
	BestAllTimeIndividuals [][]int
	Evaluations            int
	TargetReached          bool
	Elapsed                time.Duration
}

type MonitorConfig struct {
	Evaluator Evaluator
	Step      StepConfig
	// MaxGenerations bounds the number of steps after the initial population.
	MaxGenerations int
	// The run stops early once BestAllTime - TargetFitness <= Epsilon.
	TargetFitness float64
	Epsilon       float64
	Seed          int64
	// Rand overrides the seeded source, e.g. to share the stream that
	// initialized the population.
	Rand      Source
	Observers []Observer
	Logger    *slog.Logger
}

// PopulationMonitor drives a population through generational steps until the
// generation budget is spent or the target fitness is reached. It owns one
// workspace, reused by every run, released by Close.
type PopulationMonitor struct {
	cfg    MonitorConfig
	rng    Source
	ws     *Workspace
	logger *slog.Logger
}

func NewPopulationMonitor(cfg MonitorConfig) (*PopulationMonitor, error) {
	if cfg.Evaluator.Objective == nil {
		return nil, fmt.Errorf("%w: objective function is required", ErrConfiguration)
	}
	if cfg.MaxGenerations < 0 {
		return nil, fmt.Errorf("%w: generations must be >= 0", ErrConfiguration)
	}
	if cfg.Epsilon < 0 || math.IsNaN(cfg.Epsilon) {
		return nil, fmt.Errorf("%w: epsilon must be >= 0", ErrConfiguration)
	}
	for i, obs := range cfg.Observers {
		if obs == nil {
			return nil, fmt.Errorf("%w: observer %d is nil", ErrConfiguration, i)
		}
	}
	rng := cfg.Rand
	if rng == nil {
		rng = NewSource(cfg.Seed)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PopulationMonitor{cfg: cfg, rng: rng, logger: logger}, nil
}

// Run evaluates pop if needed, reports generation 0 and then steps until a
// stop condition holds. Cancellation is honored between generations.
func (m *PopulationMonitor) Run(ctx context.Context, pop *Population) (RunResult, error) {
	if pop == nil {
		return RunResult{}, fmt.Errorf("%w: population is required", ErrInvalidArgument)
	}
	if err := m.cfg.Step.Validate(pop); err != nil {
		return RunResult{}, err
	}
	if m.ws == nil {
		ws, err := NewWorkspaceFor(pop)
		if err != nil {
			return RunResult{}, err
		}
		m.ws = ws
	}

	start := time.Now()
	evalStart := start
	if !pop.Evaluated() {
		if err := m.cfg.Evaluator.Evaluate(pop); err != nil {
			return RunResult{}, err
		}
	}

	result := RunResult{
		BestByGeneration: make([]float64, 0, m.cfg.MaxGenerations+1),
		Evaluations:      pop.size,
	}
	m.logger.Info("run started",
		"population", pop.size,
		"length", pop.length,
		"crossover", m.cfg.Step.Crossover.String(),
		"mutation", m.cfg.Step.Mutation.String(),
		"max_generations", m.cfg.MaxGenerations,
	)

	bestAllTime := pop.eval.BestAllTime
	if err := m.record(pop, &result, 0, true, time.Since(evalStart)); err != nil {
		return RunResult{}, err
	}

	generation := 0
	for generation < m.cfg.MaxGenerations && !m.reached(pop.eval.BestAllTime) {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		stepStart := time.Now()
		if err := Step(m.rng, pop, m.ws, m.cfg.Evaluator, m.cfg.Step); err != nil {
			return RunResult{}, fmt.Errorf("generation %d: %w", generation+1, err)
		}
		generation++
		result.Evaluations += pop.size

		improved := pop.eval.BestAllTime < bestAllTime
		if improved {
			bestAllTime = pop.eval.BestAllTime
			m.logger.Info("all-time best improved", "generation", generation, "best", bestAllTime)
		}
		if err := m.record(pop, &result, generation, improved, time.Since(stepStart)); err != nil {
			return RunResult{}, err
		}
	}

	result.Generations = generation
	result.BestAllTime = pop.eval.BestAllTime
	result.BestAllTimeIndividuals = cloneRows(pop.eval.BestAllTimeIndividuals)
	result.TargetReached = m.reached(pop.eval.BestAllTime)
	result.Elapsed = time.Since(start)

	m.logger.Info("run finished",
		"generations", result.Generations,
		"best_all_time", result.BestAllTime,
		"target_reached", result.TargetReached,
		"elapsed", result.Elapsed,
	)
	return result, nil
}

func (m *PopulationMonitor) record(pop *Population, result *RunResult, generation int, improved bool, took time.Duration) error {
	result.BestByGeneration = append(result.BestByGeneration, pop.eval.Best)
	if improved {
		result.Improvements = append(result.Improvements, Improvement{Generation: generation, Fitness: pop.eval.BestAllTime})
	}
	m.logger.Debug("generation evaluated", "generation", generation, "best", pop.eval.Best, "best_all_time", pop.eval.BestAllTime)

	report := GenerationReport{
		Generation:  generation,
		Best:        pop.eval.Best,
		BestAllTime: pop.eval.BestAllTime,
		Improved:    improved,
		Evaluations: pop.size,
		Duration:    took,
	}
	for _, obs := range m.cfg.Observers {
		if err := obs.ObserveGeneration(pop, report); err != nil {
			return fmt.Errorf("observe generation %d: %w", generation, err)
		}
	}
	return nil
}

func (m *PopulationMonitor) reached(best float64) bool {
	return best-m.cfg.TargetFitness <= m.cfg.Epsilon
}

// Close releases the monitor's workspace. The monitor cannot run afterwards.
func (m *PopulationMonitor) Close() {
	if m.ws == nil {
		m.ws = &Workspace{state: workspaceReleased}
		return
	}
	m.ws.Release()
}

func cloneRows(rows [][]int) [][]int {
	out := make([][]int, len(rows))
	for i, row := range rows {
		out[i] = append([]int(nil), row...)
	}
	return out
}
