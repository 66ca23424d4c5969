package evo

import "fmt"

// Selector picks one parent from an evaluated population. The returned row
// belongs to the workspace and is overwritten by the next call.
type Selector interface {
	Name() string
	Select(rng Source, pop *Population, ws *Workspace) ([]int, error)
}

// TournamentSelector draws Size distinct individuals and returns the one with
// the lowest fitness.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) Select(rng Source, pop *Population, ws *Workspace) ([]int, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidArgument)
	}
	if pop == nil || ws == nil {
		return nil, fmt.Errorf("%w: population and workspace are required", ErrInvalidArgument)
	}
	if err := pop.ready(); err != nil {
		return nil, err
	}
	if pop.eval == nil {
		return nil, ErrNotEvaluated
	}
	if s.Size <= 0 || s.Size > pop.size {
		return nil, fmt.Errorf("%w: tournament size %d outside [1, %d]", ErrConfiguration, s.Size, pop.size)
	}
	if err := ws.fits(pop); err != nil {
		return nil, err
	}

	indexes := ws.competitorIndexes[:s.Size]
	winnerFitness := 0.0
	for i := range indexes {
		idx := rng.Intn(pop.size)
		for contains(indexes[:i], idx) {
			idx = rng.Intn(pop.size)
		}
		indexes[i] = idx

		copy(ws.competitors[i], pop.individuals[idx])
		ws.competitorFitness[i] = pop.eval.Fitness[idx]

		// Draw order is already random, so the first of tied competitors wins.
		if i == 0 || ws.competitorFitness[i] < winnerFitness {
			copy(ws.winner, ws.competitors[i])
			winnerFitness = ws.competitorFitness[i]
		}
	}
	return ws.winner, nil
}

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
