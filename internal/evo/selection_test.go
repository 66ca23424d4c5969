package evo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluatedPopulation(t *testing.T, cfg PopulationConfig, seed int64, objective Objective) (*Population, *Workspace, Source) {
	t.Helper()
	pop, rng := newTestPopulation(t, cfg, seed)
	require.NoError(t, Evaluator{Objective: objective}.Evaluate(pop))
	ws, err := NewWorkspaceFor(pop)
	require.NoError(t, err)
	return pop, ws, rng
}

func TestTournamentOverWholePopulationPicksBest(t *testing.T) {
	pop, ws, rng := evaluatedPopulation(t, PopulationConfig{
		InitMode: RandomFill, Size: 12, Length: 4, MaxValue: 20,
	}, 9, sumObjective)

	winner, err := TournamentSelector{Size: pop.Size()}.Select(rng, pop, ws)
	require.NoError(t, err)
	assert.Equal(t, pop.Evaluation().Best, sumObjective(winner))
}

func TestTournamentCompetitorsAreDistinct(t *testing.T) {
	pop, ws, rng := evaluatedPopulation(t, PopulationConfig{
		InitMode: RandomFill, Size: 6, Length: 3, MaxValue: 9,
	}, 4, sumObjective)
	selector := TournamentSelector{Size: 5}

	for i := 0; i < 200; i++ {
		_, err := selector.Select(rng, pop, ws)
		require.NoError(t, err)
		seen := map[int]bool{}
		for _, idx := range ws.competitorIndexes[:selector.Size] {
			require.False(t, seen[idx], "competitor %d drawn twice", idx)
			seen[idx] = true
			require.Equal(t, pop.Individual(idx), ws.competitors[len(seen)-1])
		}
	}
}

func TestTournamentFirstSeenWinsTies(t *testing.T) {
	pop := attachedPopulation(t, [][]int{{1, 1}, {0, 2}, {2, 0}, {5, 5}}, 0, 5)
	require.NoError(t, Evaluator{Objective: sumObjective}.Evaluate(pop))
	ws, err := NewWorkspaceFor(pop)
	require.NoError(t, err)

	// Draw order 3, 2, 1, 0: competitors 2, 1 and 0 tie on fitness 2.
	rng := &scriptedSource{t: t, ints: []int{3, 2, 1, 0}}
	winner, err := TournamentSelector{Size: 4}.Select(rng, pop, ws)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, winner)
}

func TestTournamentRedrawsRepeatedIndexes(t *testing.T) {
	pop := attachedPopulation(t, [][]int{{1}, {0}, {2}}, 0, 2)
	require.NoError(t, Evaluator{Objective: sumObjective}.Evaluate(pop))
	ws, err := NewWorkspaceFor(pop)
	require.NoError(t, err)

	rng := &scriptedSource{t: t, ints: []int{0, 0, 0, 2}}
	winner, err := TournamentSelector{Size: 2}.Select(rng, pop, ws)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, ws.competitorIndexes[:2])
	assert.Equal(t, []int{1}, winner)
	assert.Empty(t, rng.ints)
}

func TestTournamentWinnerBufferIsShared(t *testing.T) {
	pop, ws, rng := evaluatedPopulation(t, PopulationConfig{
		InitMode: RandomFill, Size: 10, Length: 3, MaxValue: 9,
	}, 1, sumObjective)
	selector := TournamentSelector{Size: 3}

	first, err := selector.Select(rng, pop, ws)
	require.NoError(t, err)
	second, err := selector.Select(rng, pop, ws)
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0])
}

func TestTournamentRejectsInvalidUse(t *testing.T) {
	pop, rng := newTestPopulation(t, PopulationConfig{InitMode: RandomFill, Size: 4, Length: 2, MaxValue: 3}, 1)
	ws, err := NewWorkspaceFor(pop)
	require.NoError(t, err)

	_, err = TournamentSelector{Size: 2}.Select(rng, pop, ws)
	require.ErrorIs(t, err, ErrNotEvaluated)

	require.NoError(t, Evaluator{Objective: sumObjective}.Evaluate(pop))
	_, err = TournamentSelector{Size: 0}.Select(rng, pop, ws)
	require.ErrorIs(t, err, ErrConfiguration)
	_, err = TournamentSelector{Size: 5}.Select(rng, pop, ws)
	require.ErrorIs(t, err, ErrConfiguration)

	other, err := NewWorkspace(3, 4)
	require.NoError(t, err)
	_, err = TournamentSelector{Size: 2}.Select(rng, pop, other)
	require.ErrorIs(t, err, ErrConfiguration)

	ws.Release()
	_, err = TournamentSelector{Size: 2}.Select(rng, pop, ws)
	require.ErrorIs(t, err, ErrWorkspaceReleased)
}
