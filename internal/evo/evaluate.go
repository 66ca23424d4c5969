package evo

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Objective scores one individual. Lower is better. It must be pure: the
// evaluator may call it any number of times per generation.
type Objective func(individual []int) float64

// Evaluation is the bookkeeping of the most recent Evaluate call. Slices are
// views over storage sized to the population capacity and are overwritten by
// the next evaluation.
type Evaluation struct {
	// Fitness holds one value per individual of the current generation.
	Fitness []float64
	Best    float64
	// BestIndexes lists every individual whose fitness ties Best.
	BestIndexes []int
	// SortedFitness is Fitness in ascending order; SortedIndexes maps each
	// rank back to its individual. Equal fitness keeps ascending index order.
	SortedFitness []float64
	SortedIndexes []int

	BestAllTime            float64
	BestAllTimeIndividuals [][]int

	fitness       []float64
	bestIndexes   []int
	sortedFitness []float64
	sortedIndexes []int
	allTimeRows   [][]int
}

func newEvaluation(capacity, length int) *Evaluation {
	_, rows := newRows(capacity, length)
	return &Evaluation{
		fitness:       make([]float64, capacity),
		bestIndexes:   make([]int, 0, capacity),
		sortedFitness: make([]float64, capacity),
		sortedIndexes: make([]int, capacity),
		allTimeRows:   rows,
	}
}

// Evaluator scores populations with an objective function.
type Evaluator struct {
	Objective Objective
	// Tolerance widens tie detection for BestIndexes. Zero means exact
	// equality, which suits objectives built from integer arithmetic.
	Tolerance float64
}

// Evaluate scores every individual of the current generation and refreshes
// best, sorted and all-time-best bookkeeping. The first call allocates the
// bookkeeping; later calls reuse it. A NaN objective value fails the call and
// leaves the population unevaluated for the current generation.
func (e Evaluator) Evaluate(pop *Population) error {
	if e.Objective == nil {
		return fmt.Errorf("%w: objective function is required", ErrInvalidArgument)
	}
	if e.Tolerance < 0 || math.IsNaN(e.Tolerance) {
		return fmt.Errorf("%w: tie tolerance must be >= 0", ErrConfiguration)
	}
	if pop == nil {
		return fmt.Errorf("%w: population is required", ErrInvalidArgument)
	}
	if err := pop.ready(); err != nil {
		return err
	}

	first := pop.eval == nil
	if first {
		pop.eval = newEvaluation(pop.capacity, pop.length)
	}
	ev := pop.eval
	n := pop.size

	fitness := ev.fitness[:n]
	best := 0.0
	for i := 0; i < n; i++ {
		fo := e.Objective(pop.individuals[i])
		if math.IsNaN(fo) {
			ev.invalidate()
			if first {
				pop.eval = nil
			}
			return fmt.Errorf("%w: objective returned %v for individual %d", ErrInvalidArgument, fo, i)
		}
		fitness[i] = fo
		if i == 0 || fo < best {
			best = fo
		}
	}

	bestIndexes := ev.bestIndexes[:0]
	for i, fo := range fitness {
		if e.ties(fo, best) {
			bestIndexes = append(bestIndexes, i)
		}
	}

	sortedIndexes := ev.sortedIndexes[:n]
	for i := range sortedIndexes {
		sortedIndexes[i] = i
	}
	slices.SortStableFunc(sortedIndexes, func(a, b int) int {
		return cmp.Compare(fitness[a], fitness[b])
	})
	sortedFitness := ev.sortedFitness[:n]
	for k, idx := range sortedIndexes {
		sortedFitness[k] = fitness[idx]
	}

	ev.Fitness = fitness
	ev.Best = best
	ev.bestIndexes = bestIndexes
	ev.BestIndexes = bestIndexes
	ev.SortedFitness = sortedFitness
	ev.SortedIndexes = sortedIndexes

	if first || best < ev.BestAllTime {
		ev.BestAllTime = best
		for i, idx := range bestIndexes {
			copy(ev.allTimeRows[i], pop.individuals[idx])
		}
		ev.BestAllTimeIndividuals = ev.allTimeRows[:len(bestIndexes)]
	}
	return nil
}

// invalidate drops the current-generation views after a failed evaluation
// overwrote part of their storage. The all-time best is kept.
func (ev *Evaluation) invalidate() {
	ev.Fitness = nil
	ev.BestIndexes = nil
	ev.SortedFitness = nil
	ev.SortedIndexes = nil
}

func (e Evaluator) ties(a, b float64) bool {
	if e.Tolerance == 0 {
		return a == b
	}
	return math.Abs(a-b) <= e.Tolerance
}
