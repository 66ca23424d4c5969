package intga

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"intga/internal/config"
	"intga/internal/evo"
	"intga/internal/metrics"
	"intga/internal/model"
	"intga/internal/problem"
	"intga/internal/stats"
	"intga/internal/storage"
)

const (
	defaultArtifactsDir = "runs"
	defaultExportsDir   = "exports"
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
	Logger       *slog.Logger
}

// Client runs GA problems and reads back their stored outcomes.
type Client struct {
	store       storage.Store
	initialized bool

	artifactsDir string
	exportsDir   string
	logger       *slog.Logger
}

type RunRequest struct {
	Config config.RunConfig
	// Results receives the text report. When nil, Config.ResultsPath is
	// used; when both are empty no report is written.
	Results io.Writer
	// Observers see every generation after the built-in reporter and
	// metrics collector.
	Observers []evo.Observer
}

type RunSummary struct {
	RunID            string
	Problem          string
	Seed             int64
	ArtifactsDir     string
	Generations      int
	Evaluations      int
	BestByGeneration []float64
	Improvements     []evo.Improvement
	FinalBestFitness float64
	BestIndividuals  [][]int
	TargetReached    bool
	Elapsed          time.Duration
}

type RunsRequest struct {
	Limit int
	// FromArtifacts lists the artifact run index instead of the store.
	FromArtifacts bool
}

type RunItem struct {
	RunID            string
	CreatedAt        time.Time
	Problem          string
	Size             int
	Seed             int64
	Population       int
	Generations      int
	Evaluations      int
	FinalBestFitness float64
	TargetReached    bool
}

type FitnessHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

type DescribeRequest struct {
	RunID  string
	Latest bool
}

type RunDetail struct {
	RunID            string
	Config           config.RunConfig
	FinalBestFitness float64
	BestIndividuals  [][]int
	Improvements     []evo.Improvement
}

type ProblemItem struct {
	Name        string
	Description string
	DefaultSize int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
		logger:       logger,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	c.initialized = true
	return nil
}

// Run executes one GA run described by req.Config, reports and records it.
// The population and the monitor workspace are released before Run returns,
// on success and on failure.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return RunSummary{}, err
	}
	if cfg.ArtifactsDir != "" && filepath.Clean(cfg.ArtifactsDir) != filepath.Clean(c.artifactsDir) {
		return RunSummary{}, fmt.Errorf("%w: run artifacts dir %q differs from client artifacts dir %q",
			evo.ErrConfiguration, cfg.ArtifactsDir, c.artifactsDir)
	}
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	inst, err := problem.New(cfg.Problem, cfg.Size)
	if err != nil {
		return RunSummary{}, err
	}
	modes, err := cfg.Modes()
	if err != nil {
		return RunSummary{}, err
	}
	step, err := cfg.StepConfig()
	if err != nil {
		return RunSummary{}, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Size == 0 {
		cfg.Size = inst.Length
	}

	runID := uuid.NewString()
	logger := c.logger.With("run_id", runID, "problem", inst.Name)
	rng := evo.NewSource(cfg.Seed)

	pop, err := evo.NewPopulation(inst.PopulationConfig(modes.Init, cfg.PopulationSize), rng)
	if err != nil {
		return RunSummary{}, err
	}
	defer pop.Release()

	var observers []evo.Observer
	reporter, closeResults, err := openReporter(req.Results, cfg)
	if err != nil {
		return RunSummary{}, err
	}
	defer func() {
		_ = closeResults()
	}()
	if reporter != nil {
		observers = append(observers, reporter)
	}
	var collector *metrics.Collector
	if cfg.MetricsPath != "" {
		collector, err = metrics.NewCollector(inst.Name)
		if err != nil {
			return RunSummary{}, err
		}
		observers = append(observers, collector)
	}
	observers = append(observers, req.Observers...)

	monitor, err := evo.NewPopulationMonitor(evo.MonitorConfig{
		Evaluator:      evo.Evaluator{Objective: inst.Objective, Tolerance: cfg.TieTolerance},
		Step:           step,
		MaxGenerations: cfg.Generations,
		TargetFitness:  cfg.Target(inst.Optimum),
		Epsilon:        cfg.Epsilon,
		Rand:           rng,
		Observers:      observers,
		Logger:         logger,
	})
	if err != nil {
		return RunSummary{}, err
	}
	defer monitor.Close()

	createdAt := time.Now().UTC()
	result, err := monitor.Run(ctx, pop)
	if err != nil {
		return RunSummary{}, fmt.Errorf("run %s: %w", runID, err)
	}

	if reporter != nil {
		if err := reporter.WriteSummary(result); err != nil {
			return RunSummary{}, fmt.Errorf("write results: %w", err)
		}
	}
	if err := closeResults(); err != nil {
		return RunSummary{}, fmt.Errorf("close results: %w", err)
	}
	if collector != nil {
		collector.RecordRun(result)
		if err := os.MkdirAll(filepath.Dir(cfg.MetricsPath), 0o755); err != nil {
			return RunSummary{}, fmt.Errorf("write metrics: %w", err)
		}
		if err := collector.WriteTextfile(cfg.MetricsPath); err != nil {
			return RunSummary{}, fmt.Errorf("write metrics: %w", err)
		}
	}

	summary := RunSummary{
		RunID:            runID,
		Problem:          inst.Name,
		Seed:             cfg.Seed,
		Generations:      result.Generations,
		Evaluations:      result.Evaluations,
		BestByGeneration: result.BestByGeneration,
		Improvements:     result.Improvements,
		FinalBestFitness: result.BestAllTime,
		BestIndividuals:  result.BestAllTimeIndividuals,
		TargetReached:    result.TargetReached,
		Elapsed:          result.Elapsed,
	}
	if err := c.record(ctx, cfg, summary, createdAt); err != nil {
		return RunSummary{}, err
	}

	artifactsDir := c.artifactsDir
	runDir, err := stats.WriteRunArtifacts(artifactsDir, stats.RunArtifacts{
		RunID:            runID,
		Config:           cfg,
		BestByGeneration: summary.BestByGeneration,
		Improvements:     summary.Improvements,
		FinalBestFitness: summary.FinalBestFitness,
		BestIndividuals:  summary.BestIndividuals,
		Summary:          stats.Summarize(summary.BestByGeneration, summary.FinalBestFitness),
	})
	if err != nil {
		return RunSummary{}, fmt.Errorf("write artifacts: %w", err)
	}
	if err := stats.AppendRunIndex(artifactsDir, stats.RunIndexEntry{
		RunID:            runID,
		Problem:          inst.Name,
		Size:             cfg.Size,
		PopulationSize:   cfg.PopulationSize,
		Generations:      summary.Generations,
		Seed:             cfg.Seed,
		FinalBestFitness: summary.FinalBestFitness,
		TargetReached:    summary.TargetReached,
		CreatedAtUTC:     createdAt.Format(time.RFC3339Nano),
	}); err != nil {
		return RunSummary{}, fmt.Errorf("update run index: %w", err)
	}
	summary.ArtifactsDir = filepath.Clean(runDir)
	return summary, nil
}

func (c *Client) record(ctx context.Context, cfg config.RunConfig, summary RunSummary, createdAt time.Time) error {
	improvements := make([]model.ImprovementRecord, len(summary.Improvements))
	for i, imp := range summary.Improvements {
		improvements[i] = model.ImprovementRecord{Generation: imp.Generation, Fitness: imp.Fitness}
	}
	run := storage.Stamp(model.RunRecord{
		ID:              summary.RunID,
		Problem:         summary.Problem,
		Size:            cfg.Size,
		PopulationSize:  cfg.PopulationSize,
		Crossover:       cfg.Crossover,
		Mutation:        cfg.Mutation,
		MutationRate:    cfg.MutationRate,
		Seed:            cfg.Seed,
		Generations:     summary.Generations,
		Evaluations:     summary.Evaluations,
		BestFitness:     summary.FinalBestFitness,
		BestIndividuals: summary.BestIndividuals,
		TargetReached:   summary.TargetReached,
		ElapsedSeconds:  summary.Elapsed.Seconds(),
		CreatedAt:       createdAt,
	})
	if err := c.store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := c.store.SaveFitnessHistory(ctx, summary.RunID, summary.BestByGeneration); err != nil {
		return fmt.Errorf("save fitness history: %w", err)
	}
	if err := c.store.SaveImprovements(ctx, summary.RunID, improvements); err != nil {
		return fmt.Errorf("save improvements: %w", err)
	}
	return nil
}

// createResultsFile opens the results log named by RunConfig.ResultsPath.
var createResultsFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// openReporter returns the reporter for the run and a close function that is
// safe to call more than once. Caller-supplied writers are not closed.
func openReporter(w io.Writer, cfg config.RunConfig) (*stats.Reporter, func() error, error) {
	noop := func() error { return nil }
	if w == nil && cfg.ResultsPath == "" {
		return nil, noop, nil
	}
	mode, err := stats.ParseReportMode(cfg.ReportMode)
	if err != nil {
		return nil, noop, err
	}
	closeFn := noop
	if w == nil {
		if err := os.MkdirAll(filepath.Dir(cfg.ResultsPath), 0o755); err != nil {
			return nil, noop, err
		}
		file, err := createResultsFile(cfg.ResultsPath)
		if err != nil {
			return nil, noop, err
		}
		w = file
		closed := false
		closeFn = func() error {
			if closed {
				return nil
			}
			closed = true
			return file.Close()
		}
	}
	reporter, err := stats.NewReporter(w, mode)
	if err != nil {
		_ = closeFn()
		return nil, noop, err
	}
	return reporter, closeFn, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	var out []RunItem
	if req.FromArtifacts {
		entries, err := stats.ListRunIndex(c.artifactsDir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			created, _ := time.Parse(time.RFC3339Nano, e.CreatedAtUTC)
			out = append(out, RunItem{
				RunID:            e.RunID,
				CreatedAt:        created,
				Problem:          e.Problem,
				Size:             e.Size,
				Seed:             e.Seed,
				Population:       e.PopulationSize,
				Generations:      e.Generations,
				FinalBestFitness: e.FinalBestFitness,
				TargetReached:    e.TargetReached,
			})
		}
	} else {
		if err := c.Init(ctx); err != nil {
			return nil, err
		}
		runs, err := c.store.ListRuns(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range runs {
			out = append(out, RunItem{
				RunID:            r.ID,
				CreatedAt:        r.CreatedAt,
				Problem:          r.Problem,
				Size:             r.Size,
				Seed:             r.Seed,
				Population:       r.PopulationSize,
				Generations:      r.Generations,
				Evaluations:      r.Evaluations,
				FinalBestFitness: r.BestFitness,
				TargetReached:    r.TargetReached,
			})
		}
	}
	if len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

// FitnessHistory returns the best-by-generation series of a run. Runs not in
// the store are looked up in the artifacts directory.
func (c *Client) FitnessHistory(ctx context.Context, req FitnessHistoryRequest) ([]float64, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}

	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		history, ok, err = stats.ReadFitnessSeries(c.artifactsDir, runID)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]float64(nil), history...), nil
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}
	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

// Describe returns the configuration, best individuals and improvement
// history of a run. Stored records take precedence; the artifacts directory
// supplies the config and anything the store does not hold.
func (c *Client) Describe(ctx context.Context, req DescribeRequest) (RunDetail, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return RunDetail{}, err
	}
	cfg, ok, err := stats.ReadRunConfig(c.artifactsDir, runID)
	if err != nil {
		return RunDetail{}, err
	}
	if !ok {
		return RunDetail{}, fmt.Errorf("run config not found for run id: %s", runID)
	}
	detail := RunDetail{RunID: runID, Config: cfg}

	record, stored, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return RunDetail{}, err
	}
	improvements, storedImprovements, err := c.store.GetImprovements(ctx, runID)
	if err != nil {
		return RunDetail{}, err
	}
	var history stats.FitnessHistory
	if !stored || !storedImprovements {
		history, _, err = stats.ReadFitnessHistory(c.artifactsDir, runID)
		if err != nil {
			return RunDetail{}, err
		}
	}

	if stored {
		detail.FinalBestFitness = record.BestFitness
		detail.BestIndividuals = record.BestIndividuals
	} else {
		detail.FinalBestFitness = history.FinalBestFitness
		detail.BestIndividuals, _, err = stats.ReadBestIndividuals(c.artifactsDir, runID)
		if err != nil {
			return RunDetail{}, err
		}
	}
	if storedImprovements {
		detail.Improvements = make([]evo.Improvement, 0, len(improvements))
		for _, imp := range improvements {
			detail.Improvements = append(detail.Improvements, evo.Improvement{Generation: imp.Generation, Fitness: imp.Fitness})
		}
	} else {
		detail.Improvements = history.Improvements
	}
	return detail, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if err := c.Init(ctx); err != nil {
		return "", err
	}
	if !latest {
		if runID == "" {
			return "", errors.New("run id or latest is required")
		}
		return runID, nil
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) > 0 {
		return runs[0].ID, nil
	}
	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs available")
	}
	return entries[0].RunID, nil
}

func Problems() []ProblemItem {
	problems := problem.List()
	out := make([]ProblemItem, 0, len(problems))
	for _, p := range problems {
		out = append(out, ProblemItem{Name: p.Name(), Description: p.Description(), DefaultSize: p.DefaultSize()})
	}
	return out
}
