package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"intga/internal/config"
	"intga/pkg/intga"
)

type runFlags struct {
	configPath string
	cfg        config.RunConfig
	target     float64
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	f := &runFlags{cfg: config.Default()}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evolve a population against a registered problem",
		Long: `run builds a population for the chosen problem and iterates generations
until the target fitness or the generation budget is reached.

Flags override values from --config. Example:
  intgactl run --problem nqueens --size 20 --results RESULTS/nqueens.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return runRun(cmd, opts, cfg)
		},
	}

	d := f.cfg
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML or JSON run config")
	fl.StringVar(&f.cfg.Problem, "problem", d.Problem, "problem name (see 'intgactl problems')")
	fl.IntVar(&f.cfg.Size, "size", d.Size, "problem size, 0 for the problem default")
	fl.IntVar(&f.cfg.PopulationSize, "population", d.PopulationSize, "population size")
	fl.StringVar(&f.cfg.InitMode, "init", d.InitMode, "initial population: random|empty")
	fl.IntVar(&f.cfg.TournamentSize, "tournament", d.TournamentSize, "tournament size")
	fl.StringVar(&f.cfg.Crossover, "crossover", d.Crossover, "crossover: 1kpoint|2kpoints|uniform")
	fl.IntVar(&f.cfg.Parents, "parents", 0, "parents per generation (overrides --parents-pct)")
	fl.Float64Var(&f.cfg.ParentsPercentage, "parents-pct", d.ParentsPercentage, "share of the population selected as parents")
	fl.IntVar(&f.cfg.Children, "children", 0, "children kept per generation, 0 for all")
	fl.StringVar(&f.cfg.Mutation, "mutation", d.Mutation, "mutation: swap|uniform")
	fl.Float64Var(&f.cfg.MutationRate, "rate", d.MutationRate, "per-gene mutation probability")
	fl.IntVar(&f.cfg.Generations, "generations", d.Generations, "maximum generations")
	fl.Float64Var(&f.target, "target", 0, "target fitness (default: problem optimum)")
	fl.Float64Var(&f.cfg.Epsilon, "epsilon", d.Epsilon, "stop once best - target <= epsilon")
	fl.Float64Var(&f.cfg.TieTolerance, "tie-tolerance", 0, "fitness tolerance for best-individual ties")
	fl.Int64Var(&f.cfg.Seed, "seed", 0, "random seed, 0 for time-based")
	fl.StringVar(&f.cfg.ReportMode, "report", d.ReportMode, "results detail: best|full")
	fl.StringVar(&f.cfg.ResultsPath, "results", "", "results log path")
	fl.StringVar(&f.cfg.MetricsPath, "metrics", "", "write Prometheus text metrics to this path")
	return cmd
}

// resolve layers defaults, the config file and explicitly set flags.
func (f *runFlags) resolve(cmd *cobra.Command) (config.RunConfig, error) {
	flagged := f.cfg
	if cmd.Flags().Changed("target") {
		target := f.target
		flagged.TargetFitness = &target
	}
	if f.configPath == "" {
		return flagged, nil
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	overrides := map[string]func(){
		"problem":       func() { cfg.Problem = flagged.Problem },
		"size":          func() { cfg.Size = flagged.Size },
		"population":    func() { cfg.PopulationSize = flagged.PopulationSize },
		"init":          func() { cfg.InitMode = flagged.InitMode },
		"tournament":    func() { cfg.TournamentSize = flagged.TournamentSize },
		"crossover":     func() { cfg.Crossover = flagged.Crossover },
		"parents":       func() { cfg.Parents = flagged.Parents },
		"parents-pct":   func() { cfg.ParentsPercentage = flagged.ParentsPercentage },
		"children":      func() { cfg.Children = flagged.Children },
		"mutation":      func() { cfg.Mutation = flagged.Mutation },
		"rate":          func() { cfg.MutationRate = flagged.MutationRate },
		"generations":   func() { cfg.Generations = flagged.Generations },
		"target":        func() { cfg.TargetFitness = flagged.TargetFitness },
		"epsilon":       func() { cfg.Epsilon = flagged.Epsilon },
		"tie-tolerance": func() { cfg.TieTolerance = flagged.TieTolerance },
		"seed":          func() { cfg.Seed = flagged.Seed },
		"report":        func() { cfg.ReportMode = flagged.ReportMode },
		"results":       func() { cfg.ResultsPath = flagged.ResultsPath },
		"metrics":       func() { cfg.MetricsPath = flagged.MetricsPath },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	return cfg, nil
}

func runRun(cmd *cobra.Command, opts *globalOptions, cfg config.RunConfig) error {
	ctx := cmd.Context()
	if opts.storeKind != "" {
		cfg.StoreKind = opts.storeKind
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	cfg.ApplyStoreDefaults()
	if cmd.Flags().Changed("artifacts-dir") || cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = opts.artifactsDir
	}
	clientOpts := *opts
	clientOpts.artifactsDir = cfg.ArtifactsDir
	client, err := clientOpts.newClient(ctx, cfg.StoreKind, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, intga.RunRequest{Config: cfg})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		return printJSON(out, summary)
	}
	fmt.Fprintf(out, "run_id=%s problem=%s seed=%d\n", summary.RunID, summary.Problem, summary.Seed)
	fmt.Fprintf(out, "generations=%s evaluations=%s elapsed=%s\n",
		humanize.Comma(int64(summary.Generations)),
		humanize.Comma(int64(summary.Evaluations)),
		summary.Elapsed.Round(time.Millisecond),
	)
	fmt.Fprintf(out, "best_fitness=%.8f target_reached=%t best_individuals=%d\n",
		summary.FinalBestFitness, summary.TargetReached, len(summary.BestIndividuals))
	if len(summary.BestIndividuals) > 0 {
		fmt.Fprintf(out, "best=%v\n", summary.BestIndividuals[0])
	}
	fmt.Fprintf(out, "artifacts=%s\n", summary.ArtifactsDir)
	return nil
}
