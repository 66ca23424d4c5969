package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intga/internal/evo"
	"intga/internal/stats"
	"intga/pkg/intga"
)

// chdirTemp keeps the default sqlite database and artifact directories out of
// the package directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRunCommandWritesResultsArtifactsAndMetrics(t *testing.T) {
	dir := chdirTemp(t)
	artifacts := filepath.Join(dir, "runs")
	results := filepath.Join(dir, "RESULTS", "nqueens.txt")
	metricsPath := filepath.Join(dir, "metrics", "intga.prom")

	out, err := execute(t,
		"--artifacts-dir", artifacts,
		"run",
		"--problem", "nqueens",
		"--size", "12",
		"--population", "40",
		"--generations", "300",
		"--seed", "7",
		"--results", results,
		"--metrics", metricsPath,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "run_id=")
	assert.Contains(t, out, "problem=nqueens seed=7")
	assert.Contains(t, out, "best=[")

	report, err := os.ReadFile(results)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(report), "\n===POPULATION GEN 0==="), "report starts with generation 0: %q", report)
	assert.Contains(t, string(report), "The best fo value found through all iters:")

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "intga_generations_total")

	entries, err := stats.ListRunIndex(artifacts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "nqueens", entries[0].Problem)
	assert.Equal(t, 12, entries[0].Size)

	listed, err := execute(t, "--artifacts-dir", artifacts, "runs", "--from-artifacts")
	require.NoError(t, err)
	assert.Contains(t, listed, "run_id="+entries[0].RunID)
	assert.Contains(t, listed, "problem=nqueens size=12")

	history, err := execute(t, "--artifacts-dir", artifacts, "history", "--latest", "--limit", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(history), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "0\t"))
	assert.True(t, strings.HasPrefix(lines[1], "1\t"))

	shown, err := execute(t, "--artifacts-dir", artifacts, "show", "--latest")
	require.NoError(t, err)
	assert.Contains(t, shown, "run_id="+entries[0].RunID+" problem=nqueens size=12 pop=40")
	assert.Contains(t, shown, "improvement generation=0 ")

	exportDir := filepath.Join(dir, "exports")
	exported, err := execute(t, "--artifacts-dir", artifacts, "export", entries[0].RunID, "--out", exportDir)
	require.NoError(t, err)
	assert.Contains(t, exported, "run_id="+entries[0].RunID)
	_, err = os.Stat(filepath.Join(exportDir, entries[0].RunID, "summary.json"))
	require.NoError(t, err)
}

func TestRunCommandFlagsOverrideConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	cfgPath := filepath.Join(dir, "onemax.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`problem: onemax
size: 16
population_size: 20
tournament_size: 2
crossover: uniform
mutation: uniform
mutation_rate: 0.05
generations: 50
seed: 3
`), 0o644))

	out, err := execute(t,
		"--artifacts-dir", filepath.Join(dir, "runs"),
		"--json",
		"run",
		"--config", cfgPath,
		"--generations", "3",
		"--target", "-1",
	)
	require.NoError(t, err)

	var summary intga.RunSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "onemax", summary.Problem)
	assert.Equal(t, int64(3), summary.Seed)
	assert.Equal(t, 3, summary.Generations)
	assert.Len(t, summary.BestByGeneration, 4)
	assert.Equal(t, 4*20, summary.Evaluations)
	assert.False(t, summary.TargetReached)
	for _, best := range summary.BestIndividuals {
		assert.Len(t, best, 16)
	}
}

func TestRunCommandUsesConfigArtifactsDir(t *testing.T) {
	dir := chdirTemp(t)
	artifacts := filepath.Join(dir, "from-config")
	cfgPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`problem: onemax
size: 8
population_size: 10
mutation: uniform
generations: 2
seed: 5
artifacts_dir: `+artifacts+`
`), 0o644))

	_, err := execute(t, "run", "--config", cfgPath, "--target", "-1")
	require.NoError(t, err)

	entries, err := stats.ListRunIndex(artifacts)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, err = os.Stat(filepath.Join(dir, "runs"))
	assert.True(t, os.IsNotExist(err), "default artifacts dir stays unused")

	listed, err := execute(t, "--artifacts-dir", artifacts, "runs", "--from-artifacts")
	require.NoError(t, err)
	assert.Contains(t, listed, "run_id="+entries[0].RunID)

	_, err = execute(t, "--artifacts-dir", artifacts, "export", "--latest", "--out", filepath.Join(dir, "out"))
	require.NoError(t, err)

	// An explicit flag wins over the config file.
	flagDir := filepath.Join(dir, "from-flag")
	_, err = execute(t, "--artifacts-dir", flagDir, "run", "--config", cfgPath, "--target", "-1")
	require.NoError(t, err)
	entries, err = stats.ListRunIndex(flagDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunCommandSameSeedSameHistory(t *testing.T) {
	dir := chdirTemp(t)
	args := func(sub string) []string {
		return []string{
			"--artifacts-dir", filepath.Join(dir, sub),
			"--json",
			"run",
			"--problem", "permutation-sort",
			"--size", "10",
			"--population", "24",
			"--generations", "15",
			"--target", "-1",
			"--seed", "99",
		}
	}
	first, err := execute(t, args("a")...)
	require.NoError(t, err)
	second, err := execute(t, args("b")...)
	require.NoError(t, err)

	var a, b intga.RunSummary
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.BestByGeneration, b.BestByGeneration)
	assert.Equal(t, a.BestIndividuals, b.BestIndividuals)
}

func TestProblemsCommandListsRegistry(t *testing.T) {
	chdirTemp(t)
	out, err := execute(t, "problems")
	require.NoError(t, err)
	for _, name := range []string{"nqueens", "onemax", "permutation-sort"} {
		assert.Contains(t, out, "name="+name+" ")
	}

	out, err = execute(t, "--json", "problems")
	require.NoError(t, err)
	var items []intga.ProblemItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 3)
}

func TestCommandErrors(t *testing.T) {
	dir := chdirTemp(t)
	artifacts := filepath.Join(dir, "runs")

	_, err := execute(t, "--artifacts-dir", artifacts, "run", "--crossover", "bogus", "--generations", "1")
	require.ErrorIs(t, err, evo.ErrConfiguration)

	_, err = execute(t, "--artifacts-dir", artifacts, "run", "--mutation", "uniform", "--generations", "1")
	require.ErrorIs(t, err, evo.ErrConfiguration, "uniform replace is rejected for nqueens")

	_, err = execute(t, "--artifacts-dir", artifacts, "run", "--config", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = execute(t, "--artifacts-dir", artifacts, "history")
	require.ErrorContains(t, err, "run id or latest is required")

	_, err = execute(t, "--artifacts-dir", artifacts, "history", "--latest")
	require.ErrorContains(t, err, "no runs available")

	_, err = execute(t, "--log-level", "loud", "runs")
	require.ErrorContains(t, err, "invalid --log-level")

	_, err = execute(t, "runs", "extra")
	require.Error(t, err)
}
