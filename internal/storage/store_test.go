package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intga/internal/model"
)

func sampleRun(id string, created time.Time) model.RunRecord {
	return Stamp(model.RunRecord{
		ID:              id,
		Problem:         "nqueens",
		Size:            8,
		PopulationSize:  40,
		Crossover:       "2kpoints",
		Mutation:        "swap",
		MutationRate:    0.01,
		Seed:            5,
		Generations:     12,
		Evaluations:     520,
		BestFitness:     0,
		BestIndividuals: [][]int{{1, 3, 5, 7, 2, 0, 6, 4}},
		TargetReached:   true,
		ElapsedSeconds:  0.25,
		CreatedAt:       created,
	})
}

// exerciseStore runs the behavior every Store implementation shares.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := sampleRun("run-a", base)
	second := sampleRun("run-b", base.Add(time.Minute))
	require.NoError(t, store.SaveRun(ctx, first))
	require.NoError(t, store.SaveRun(ctx, second))

	loaded, ok, err := store.GetRun(ctx, "run-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.BestIndividuals, loaded.BestIndividuals)
	assert.True(t, first.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, first.Evaluations, loaded.Evaluations)

	_, ok, err = store.GetRun(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, "run-a", runs[1].ID)

	require.NoError(t, store.SaveFitnessHistory(ctx, "run-a", []float64{6, 3, 3, 0}))
	history, ok, err := store.GetFitnessHistory(ctx, "run-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{6, 3, 3, 0}, history)

	improvements := []model.ImprovementRecord{{Generation: 0, Fitness: 6}, {Generation: 1, Fitness: 3}, {Generation: 3, Fitness: 0}}
	require.NoError(t, store.SaveImprovements(ctx, "run-a", improvements))
	gotImprovements, ok, err := store.GetImprovements(ctx, "run-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, improvements, gotImprovements)

	require.NoError(t, store.DeleteRun(ctx, "run-a"))
	_, ok, err = store.GetRun(ctx, "run-a")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.GetFitnessHistory(ctx, "run-a")
	require.NoError(t, err)
	assert.False(t, ok)
}
