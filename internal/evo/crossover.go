package evo

import "fmt"

// Crossover recombines consecutive pairs of parents into the same number of
// children. Under NonRepeatable the children are repaired before returning.
// parents and children must each hold at least nParents rows of the
// population's length; nParents must be even for every mode.
func Crossover(rng Source, mode CrossoverMode, pop *Population, parents, children [][]int, nParents int, ws *Workspace) error {
	if rng == nil {
		return fmt.Errorf("%w: random source is required", ErrInvalidArgument)
	}
	if pop == nil {
		return fmt.Errorf("%w: population is required", ErrInvalidArgument)
	}
	if pop.released {
		return ErrReleased
	}
	switch mode {
	case SinglePoint, TwoPoint, UniformCrossover:
	default:
		return fmt.Errorf("%w: unknown crossover mode %d", ErrConfiguration, int(mode))
	}
	if nParents < 0 || nParents%2 != 0 {
		return fmt.Errorf("%w: crossover %s needs an even number of parents, got %d", ErrConfiguration, mode, nParents)
	}
	if mode == SinglePoint && pop.length < 2 {
		return fmt.Errorf("%w: crossover %s needs individuals of length >= 2", ErrConfiguration, mode)
	}
	if len(parents) < nParents || len(children) < nParents {
		return fmt.Errorf("%w: crossover of %d parents got %d parent rows and %d child rows",
			ErrInvalidArgument, nParents, len(parents), len(children))
	}
	for i := 0; i < nParents; i++ {
		if len(parents[i]) != pop.length || len(children[i]) != pop.length {
			return fmt.Errorf("%w: crossover row %d length mismatch, want %d", ErrInvalidArgument, i, pop.length)
		}
	}

	for i := 0; i < nParents; i += 2 {
		p0, p1 := parents[i], parents[i+1]
		c0, c1 := children[i], children[i+1]
		switch mode {
		case SinglePoint:
			// k1 in [1, length) so every pair exchanges at least one gene.
			k1 := 1 + rng.Intn(pop.length-1)
			exchangeSegment(p0, p1, c0, c1, 0, k1)
		case TwoPoint:
			k1, k2 := rng.Intn(pop.length), 1+rng.Intn(pop.length)
			for k1 >= k2 {
				k1, k2 = rng.Intn(pop.length), 1+rng.Intn(pop.length)
			}
			exchangeSegment(p0, p1, c0, c1, k1, k2)
		case UniformCrossover:
			for j := range c0 {
				if coinFlip(rng, 0.5) {
					c0[j], c1[j] = p1[j], p0[j]
				} else {
					c0[j], c1[j] = p0[j], p1[j]
				}
			}
		}
	}

	if pop.uniqueness == NonRepeatable {
		return Repair(rng, pop, children, nParents, ws)
	}
	return nil
}

// exchangeSegment writes children that swap genes in [from, to) between the
// two parents and keep every other gene.
func exchangeSegment(p0, p1, c0, c1 []int, from, to int) {
	for j := range c0 {
		if j >= from && j < to {
			c0[j], c1[j] = p1[j], p0[j]
		} else {
			c0[j], c1[j] = p0[j], p1[j]
		}
	}
}
