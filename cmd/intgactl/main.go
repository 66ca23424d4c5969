package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"intga/pkg/intga"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	storeKind    string
	dbPath       string
	artifactsDir string
	exportsDir   string
	logLevel     string
	jsonOut      bool

	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{stderr: stderr}
	root := &cobra.Command{
		Use:   "intgactl",
		Short: "Run integer genetic algorithms and inspect recorded runs",
		Long: `intgactl evolves fixed-length integer individuals against a registered
problem (nqueens, onemax, permutation-sort), writes a results log and run
artifacts, and records every finished run in the configured store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.storeKind, "store", "", "run store backend: memory|sqlite (default depends on build tags)")
	flags.StringVar(&opts.dbPath, "db-path", "", "sqlite database path (default intga.db)")
	flags.StringVar(&opts.artifactsDir, "artifacts-dir", "runs", "directory for run artifacts and the run index")
	flags.StringVar(&opts.exportsDir, "exports-dir", "exports", "directory for exported runs")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	flags.BoolVar(&opts.jsonOut, "json", false, "print machine-readable JSON")

	root.AddCommand(
		newRunCmd(opts),
		newRunsCmd(opts),
		newHistoryCmd(opts),
		newExportCmd(opts),
		newShowCmd(opts),
		newProblemsCmd(opts),
	)
	return root
}

// newLogger writes text logs to terminals and JSON logs everywhere else.
func (o *globalOptions) newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if f, ok := o.stderr.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(f, handlerOpts)), nil
	}
	return slog.New(slog.NewJSONHandler(o.stderr, handlerOpts)), nil
}

// newClient opens the store selected by the persistent flags. storeKind and
// dbPath apply when the corresponding flag is unset.
func (o *globalOptions) newClient(ctx context.Context, storeKind, dbPath string) (*intga.Client, error) {
	logger, err := o.newLogger()
	if err != nil {
		return nil, err
	}
	if o.storeKind != "" {
		storeKind = o.storeKind
	}
	if o.dbPath != "" {
		dbPath = o.dbPath
	}
	client, err := intga.New(intga.Options{
		StoreKind:    storeKind,
		DBPath:       dbPath,
		ArtifactsDir: o.artifactsDir,
		ExportsDir:   o.exportsDir,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
