package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intga/internal/config"
	"intga/internal/evo"
)

func sampleArtifacts(runID string) RunArtifacts {
	cfg := config.Default()
	cfg.Problem = "nqueens"
	cfg.Size = 8
	cfg.Seed = 3
	best := []float64{4, 2, 2, 0}
	return RunArtifacts{
		RunID:            runID,
		Config:           cfg,
		BestByGeneration: best,
		Improvements:     []evo.Improvement{{Generation: 0, Fitness: 4}, {Generation: 1, Fitness: 2}, {Generation: 3, Fitness: 0}},
		FinalBestFitness: 0,
		BestIndividuals:  [][]int{{1, 3, 5, 7, 2, 0, 6, 4}},
		Summary:          Summarize(best, 0),
	}
}

func TestWriteAndReadRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	runDir, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-1"))
	require.NoError(t, err)

	for _, file := range artifactFiles {
		_, err := os.Stat(filepath.Join(runDir, file))
		require.NoError(t, err, file)
	}

	cfg, ok, err := ReadRunConfig(baseDir, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8, cfg.Size)
	assert.Equal(t, int64(3), cfg.Seed)

	history, ok, err := ReadFitnessHistory(baseDir, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{4, 2, 2, 0}, history.BestByGeneration)
	assert.Len(t, history.Improvements, 3)

	series, ok, err := ReadFitnessSeries(baseDir, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, history.BestByGeneration, series)

	best, ok, err := ReadBestIndividuals(baseDir, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [][]int{{1, 3, 5, 7, 2, 0, 6, 4}}, best)

	_, ok, err = ReadRunConfig(baseDir, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	_, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{})
	require.Error(t, err)
}

func TestExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "exports")
	_, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-2"))
	require.NoError(t, err)

	exported, err := ExportRunArtifacts(baseDir, "run-2", outDir)
	require.NoError(t, err)
	series, ok, err := ReadFitnessSeries(outDir, "run-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, series, 4)
	assert.Equal(t, filepath.Join(outDir, "run-2"), exported)

	_, err = ExportRunArtifacts(baseDir, "nope", outDir)
	require.Error(t, err)
}

func TestRunIndexNewestFirstAndReplaces(t *testing.T) {
	baseDir := t.TempDir()
	entries, err := ListRunIndex(baseDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, AppendRunIndex(baseDir, RunIndexEntry{RunID: "a", Problem: "nqueens", CreatedAtUTC: "2026-01-01T00:00:00Z"}))
	require.NoError(t, AppendRunIndex(baseDir, RunIndexEntry{RunID: "b", Problem: "onemax", CreatedAtUTC: "2026-01-02T00:00:00Z"}))
	require.NoError(t, AppendRunIndex(baseDir, RunIndexEntry{RunID: "c", Problem: "onemax", CreatedAtUTC: "2026-01-02T00:00:00Z"}))
	require.NoError(t, AppendRunIndex(baseDir, RunIndexEntry{RunID: "a", Problem: "nqueens", FinalBestFitness: 1, CreatedAtUTC: "2026-01-01T00:00:00Z"}))

	entries, err = ListRunIndex(baseDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{entries[0].RunID, entries[1].RunID, entries[2].RunID})
	assert.Equal(t, 1.0, entries[2].FinalBestFitness)

	require.Error(t, AppendRunIndex(baseDir, RunIndexEntry{}))
}
