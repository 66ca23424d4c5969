package evo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairBuffers(length int, parents ...[]int) ([][]int, [][]int) {
	children := make([][]int, len(parents))
	for i := range children {
		children[i] = make([]int, length)
	}
	return parents, children
}

func TestSinglePointCrossoverSwapsPrefix(t *testing.T) {
	pop, err := NewPopulation(PopulationConfig{InitMode: ZeroFill, Size: 2, Length: 10, MinValue: 0, MaxValue: 9}, nil)
	require.NoError(t, err)
	p0, p1 := seq(0, 9), reversed(seq(0, 9))
	parents, children := pairBuffers(10, p0, p1)

	// k1 = 1 + Intn(9) = 4
	rng := &scriptedSource{t: t, ints: []int{3}}
	require.NoError(t, Crossover(rng, SinglePoint, pop, parents, children, 2, nil))

	assert.Equal(t, append(append([]int{}, p1[:4]...), p0[4:]...), children[0])
	assert.Equal(t, append(append([]int{}, p0[:4]...), p1[4:]...), children[1])
	assert.Equal(t, []int{9, 8, 7, 6, 4, 5, 6, 7, 8, 9}, children[0])
	assert.Equal(t, []int{0, 1, 2, 3, 5, 4, 3, 2, 1, 0}, children[1])
}

func TestSinglePointCrossoverNeverCutsAtZero(t *testing.T) {
	pop, err := NewPopulation(PopulationConfig{InitMode: ZeroFill, Size: 2, Length: 2, MaxValue: 9}, nil)
	require.NoError(t, err)
	parents, children := pairBuffers(2, []int{1, 2}, []int{3, 4})

	rng := NewSource(5)
	for i := 0; i < 50; i++ {
		require.NoError(t, Crossover(rng, SinglePoint, pop, parents, children, 2, nil))
		assert.Equal(t, []int{3, 2}, children[0])
		assert.Equal(t, []int{1, 4}, children[1])
	}
}

func TestTwoPointCrossoverSwapsInnerSegment(t *testing.T) {
	pop, err := NewPopulation(PopulationConfig{InitMode: ZeroFill, Size: 2, Length: 8, MaxValue: 20}, nil)
	require.NoError(t, err)
	p0 := []int{0, 1, 2, 3, 4, 5, 6, 7}
	p1 := []int{10, 11, 12, 13, 14, 15, 16, 17}
	parents, children := pairBuffers(8, p0, p1)

	// First draw k1=6, k2=1+2=3 is invalid and redrawn as k1=2, k2=1+4=5.
	rng := &scriptedSource{t: t, ints: []int{6, 2, 2, 4}}
	require.NoError(t, Crossover(rng, TwoPoint, pop, parents, children, 2, nil))

	assert.Equal(t, []int{0, 1, 12, 13, 14, 5, 6, 7}, children[0])
	assert.Equal(t, []int{10, 11, 2, 3, 4, 15, 16, 17}, children[1])
	assert.Empty(t, rng.ints)
}

func TestUniformCrossoverFollowsCoinFlips(t *testing.T) {
	pop, err := NewPopulation(PopulationConfig{InitMode: ZeroFill, Size: 2, Length: 4, MaxValue: 9}, nil)
	require.NoError(t, err)
	parents, children := pairBuffers(4, []int{1, 2, 3, 4}, []int{5, 6, 7, 8})

	rng := &scriptedSource{t: t, floats: []float64{0.1, 0.9, 0.49, 0.5}}
	require.NoError(t, Crossover(rng, UniformCrossover, pop, parents, children, 2, nil))

	assert.Equal(t, []int{5, 2, 7, 4}, children[0])
	assert.Equal(t, []int{1, 6, 3, 8}, children[1])
}

func TestCrossoverRejectsOddParents(t *testing.T) {
	pop, err := NewPopulation(PopulationConfig{InitMode: ZeroFill, Size: 3, Length: 4, MaxValue: 9}, nil)
	require.NoError(t, err)
	parents, children := pairBuffers(4, make([]int, 4), make([]int, 4), make([]int, 4))

	for _, mode := range []CrossoverMode{SinglePoint, TwoPoint, UniformCrossover} {
		err := Crossover(NewSource(1), mode, pop, parents, children, 3, nil)
		require.ErrorIs(t, err, ErrConfiguration, mode.String())
	}
	require.ErrorIs(t, Crossover(NewSource(1), CrossoverMode(42), pop, parents, children, 2, nil), ErrConfiguration)
}

func TestCrossoverRepairsNonRepeatableChildren(t *testing.T) {
	for _, mode := range []CrossoverMode{SinglePoint, TwoPoint, UniformCrossover} {
		t.Run(mode.String(), func(t *testing.T) {
			pop, rng := newTestPopulation(t, PopulationConfig{
				InitMode: RandomFill, Size: 20, Length: 9, MinValue: 1, MaxValue: 12, Uniqueness: NonRepeatable,
			}, 21)
			ws, err := NewWorkspaceFor(pop)
			require.NoError(t, err)
			require.NoError(t, ws.Ensure())

			for round := 0; round < 25; round++ {
				require.NoError(t, Crossover(rng, mode, pop, pop.Individuals(), ws.Children(), 20, ws))
				for _, child := range ws.Children()[:20] {
					requirePermutationSubset(t, pop, child)
				}
			}
		})
	}
}
