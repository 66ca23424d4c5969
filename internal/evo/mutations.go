package evo

import (
	"fmt"
	"math"
)

// Mutate perturbs the first count targets in place. Every gene mutates
// independently with probability rate.
//
// SwapMutation exchanges the gene with another position of the same
// individual and keeps the value multiset, so it is valid under both
// uniqueness modes. UniformReplace draws a different value from the domain
// and is rejected for NonRepeatable populations, where it could reintroduce
// duplicates.
func Mutate(rng Source, mode MutationMode, pop *Population, targets [][]int, count int, rate float64) error {
	if rng == nil {
		return fmt.Errorf("%w: random source is required", ErrInvalidArgument)
	}
	if pop == nil {
		return fmt.Errorf("%w: population is required", ErrInvalidArgument)
	}
	if pop.released {
		return ErrReleased
	}
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return fmt.Errorf("%w: mutation rate %v outside [0, 1]", ErrConfiguration, rate)
	}
	if count < 0 || count > len(targets) {
		return fmt.Errorf("%w: mutation of %d individuals got %d rows", ErrInvalidArgument, count, len(targets))
	}
	for i := 0; i < count; i++ {
		if len(targets[i]) != pop.length {
			return fmt.Errorf("%w: mutation target %d has length %d, want %d", ErrInvalidArgument, i, len(targets[i]), pop.length)
		}
	}

	switch mode {
	case SwapMutation:
		if rate > 0 && pop.length < 2 {
			return fmt.Errorf("%w: mutation %s needs individuals of length >= 2", ErrConfiguration, mode)
		}
		for _, individual := range targets[:count] {
			swapGenes(rng, individual, rate)
		}
	case UniformReplace:
		if pop.uniqueness == NonRepeatable {
			return fmt.Errorf("%w: mutation %s cannot be applied to non-repeatable individuals", ErrConfiguration, mode)
		}
		if rate > 0 && pop.valueRange < 2 {
			return fmt.Errorf("%w: mutation %s needs at least 2 domain values", ErrConfiguration, mode)
		}
		for _, individual := range targets[:count] {
			replaceGenes(rng, individual, rate, pop.minValue, pop.valueRange)
		}
	default:
		return fmt.Errorf("%w: unknown mutation mode %d", ErrConfiguration, int(mode))
	}
	return nil
}

func swapGenes(rng Source, individual []int, rate float64) {
	n := len(individual)
	for j := range individual {
		if !coinFlip(rng, rate) {
			continue
		}
		p := rng.Intn(n)
		for p == j {
			p = rng.Intn(n)
		}
		individual[j], individual[p] = individual[p], individual[j]
	}
}

func replaceGenes(rng Source, individual []int, rate float64, minValue, valueRange int) {
	for j, gene := range individual {
		if !coinFlip(rng, rate) {
			continue
		}
		v := minValue + rng.Intn(valueRange)
		for v == gene {
			v = minValue + rng.Intn(valueRange)
		}
		individual[j] = v
	}
}
