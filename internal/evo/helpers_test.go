package evo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws so tests can pin cut points and coin
// flips. Shuffle is the identity.
type scriptedSource struct {
	t      *testing.T
	ints   []int
	floats []float64
}

func (s *scriptedSource) Intn(n int) int {
	s.t.Helper()
	require.NotEmpty(s.t, s.ints, "scripted source ran out of ints")
	v := s.ints[0]
	s.ints = s.ints[1:]
	require.True(s.t, v >= 0 && v < n, "scripted int %d outside [0, %d)", v, n)
	return v
}

func (s *scriptedSource) Float64() float64 {
	s.t.Helper()
	require.NotEmpty(s.t, s.floats, "scripted source ran out of floats")
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Shuffle(int, func(i, j int)) {}

// countingSource wraps a seeded generator and counts draws.
type countingSource struct {
	*rand.Rand
	intCalls   int
	floatCalls int
}

func (s *countingSource) Intn(n int) int {
	s.intCalls++
	return s.Rand.Intn(n)
}

func (s *countingSource) Float64() float64 {
	s.floatCalls++
	return s.Rand.Float64()
}

func sumObjective(individual []int) float64 {
	total := 0
	for _, gene := range individual {
		total += gene
	}
	return float64(total)
}

// queensObjective counts diagonal attacks of a board encoded as one queen
// row per column.
func queensObjective(board []int) float64 {
	attacks := 0
	for i := range board {
		for j := i + 1; j < len(board); j++ {
			if board[j] == board[i]+j-i || board[j] == board[i]-j+i {
				attacks++
			}
		}
	}
	return float64(attacks)
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

func reversed(values []int) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

func newTestPopulation(t *testing.T, cfg PopulationConfig, seed int64) (*Population, *rand.Rand) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	pop, err := NewPopulation(cfg, rng)
	require.NoError(t, err)
	return pop, rng
}

func requirePermutationSubset(t *testing.T, pop *Population, individual []int) {
	t.Helper()
	require.Len(t, individual, pop.Length())
	seen := make(map[int]bool, len(individual))
	for _, gene := range individual {
		require.GreaterOrEqual(t, gene, pop.MinValue())
		require.LessOrEqual(t, gene, pop.MaxValue())
		require.False(t, seen[gene], "duplicate gene %d in %v", gene, individual)
		seen[gene] = true
	}
}
