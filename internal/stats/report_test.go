package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intga/internal/evo"
)

func evaluatedRows(t *testing.T, rows [][]int) *evo.Population {
	t.Helper()
	pop, err := evo.NewPopulation(evo.PopulationConfig{
		InitMode: evo.ExternallySupplied, Size: len(rows), Length: len(rows[0]), MinValue: 0, MaxValue: 9,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, pop.Attach(rows))
	sum := func(individual []int) float64 {
		total := 0
		for _, v := range individual {
			total += v
		}
		return float64(total)
	}
	require.NoError(t, evo.Evaluator{Objective: sum}.Evaluate(pop))
	return pop
}

func TestReporterBestMode(t *testing.T) {
	pop := evaluatedRows(t, [][]int{{3, 1}, {0, 2}, {1, 1}})
	var buf bytes.Buffer
	reporter, err := NewReporter(&buf, ReportBest)
	require.NoError(t, err)

	require.NoError(t, reporter.ObserveGeneration(pop, evo.GenerationReport{Generation: 4, Improved: true}))
	want := "\n===POPULATION GEN 4===\n" +
		"Best individual(s) found in the population:\n" +
		"[ 0 2 ]\n" +
		"[ 1 1 ]\n" +
		"The best fo for this population is: 2.00000000\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, reporter.ObserveGeneration(pop, evo.GenerationReport{Generation: 5}))
	assert.Empty(t, buf.String(), "generations without improvement are not reported")
}

func TestReporterFullModeListsPopulation(t *testing.T) {
	pop := evaluatedRows(t, [][]int{{3, 1}, {0, 2}})
	var buf bytes.Buffer
	reporter, err := NewReporter(&buf, ReportFull)
	require.NoError(t, err)

	require.NoError(t, reporter.WriteGeneration(pop, 0))
	assert.Contains(t, buf.String(), "===POPULATION GEN 0===\n[ 3 1 ]\n[ 0 2 ]\nBest individual(s)")
}

func TestReporterSummary(t *testing.T) {
	var buf bytes.Buffer
	reporter, err := NewReporter(&buf, ReportBest)
	require.NoError(t, err)

	require.NoError(t, reporter.WriteSummary(evo.RunResult{
		Generations:            12,
		BestAllTime:            0,
		BestAllTimeIndividuals: [][]int{{1, 3, 0, 2}},
		Elapsed:                1500 * time.Millisecond,
	}))
	want := "\n\nAfter 12 iterations this is the best fo found!! Good for you!\n" +
		"Best individual(s) found through all iters:\n" +
		"[ 1 3 0 2 ]\n" +
		"The best fo value found through all iters: 0.00000000\n" +
		"Time taken for the algorithm to complete:\n1.500000 seconds"
	assert.Equal(t, want, buf.String())
}

func TestParseReportMode(t *testing.T) {
	for name, want := range map[string]ReportMode{"best": ReportBest, "indv": ReportBest, "full": ReportFull, "complete": ReportFull} {
		got, err := ParseReportMode(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseReportMode("verbose")
	require.ErrorIs(t, err, evo.ErrConfiguration)

	_, err = NewReporter(nil, ReportBest)
	require.ErrorIs(t, err, evo.ErrInvalidArgument)
}
