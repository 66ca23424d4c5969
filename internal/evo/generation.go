package evo

import "fmt"

// StepConfig parameterizes one generational step.
type StepConfig struct {
	// Selector defaults to TournamentSelector{Size: TournamentSize}.
	Selector       Selector
	TournamentSize int
	Crossover      CrossoverMode
	// Parents is the number of tournament winners recombined; Children is how
	// many of the resulting children enter the next generation. The rest of
	// the generation is filled with the best individuals of the current one.
	Parents      int
	Children     int
	Mutation     MutationMode
	MutationRate float64
}

// Validate checks cfg against pop without touching either.
func (c StepConfig) Validate(pop *Population) error {
	if pop == nil {
		return fmt.Errorf("%w: population is required", ErrInvalidArgument)
	}
	if c.Parents <= 0 || c.Parents%2 != 0 {
		return fmt.Errorf("%w: parents must be a positive even number, got %d", ErrConfiguration, c.Parents)
	}
	if c.Parents > pop.capacity {
		return fmt.Errorf("%w: parents %d exceed population capacity %d", ErrConfiguration, c.Parents, pop.capacity)
	}
	if c.Children < 0 || c.Children > c.Parents {
		return fmt.Errorf("%w: children %d outside [0, parents=%d]", ErrConfiguration, c.Children, c.Parents)
	}
	if c.Children > pop.size {
		return fmt.Errorf("%w: children %d exceed population size %d", ErrConfiguration, c.Children, pop.size)
	}
	if c.Selector == nil && (c.TournamentSize <= 0 || c.TournamentSize > pop.size) {
		return fmt.Errorf("%w: tournament size %d outside [1, %d]", ErrConfiguration, c.TournamentSize, pop.size)
	}
	switch c.Crossover {
	case SinglePoint, TwoPoint, UniformCrossover:
	default:
		return fmt.Errorf("%w: unknown crossover mode %d", ErrConfiguration, int(c.Crossover))
	}
	switch c.Mutation {
	case SwapMutation:
	case UniformReplace:
		if pop.uniqueness == NonRepeatable {
			return fmt.Errorf("%w: mutation %s cannot be applied to non-repeatable individuals", ErrConfiguration, c.Mutation)
		}
	default:
		return fmt.Errorf("%w: unknown mutation mode %d", ErrConfiguration, int(c.Mutation))
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate %v outside [0, 1]", ErrConfiguration, c.MutationRate)
	}
	return nil
}

func (c StepConfig) selector() Selector {
	if c.Selector != nil {
		return c.Selector
	}
	return TournamentSelector{Size: c.TournamentSize}
}

// Step advances pop by one generation: tournament selection into the parents
// buffer, crossover (with repair) into the children buffer, mutation of the
// children, elitist fill of the staging buffer, replacement and
// re-evaluation. pop must already be evaluated.
func Step(rng Source, pop *Population, ws *Workspace, evaluator Evaluator, cfg StepConfig) error {
	if rng == nil {
		return fmt.Errorf("%w: random source is required", ErrInvalidArgument)
	}
	if pop == nil || ws == nil {
		return fmt.Errorf("%w: population and workspace are required", ErrInvalidArgument)
	}
	if err := pop.ready(); err != nil {
		return err
	}
	if pop.eval == nil {
		return ErrNotEvaluated
	}
	if len(pop.eval.SortedIndexes) != pop.size {
		return fmt.Errorf("%w: population resized to %d since last evaluation of %d", ErrNotEvaluated, pop.size, len(pop.eval.SortedIndexes))
	}
	if err := cfg.Validate(pop); err != nil {
		return err
	}
	if err := ws.fits(pop); err != nil {
		return err
	}

	selector := cfg.selector()
	for i := 0; i < cfg.Parents; i++ {
		winner, err := selector.Select(rng, pop, ws)
		if err != nil {
			return fmt.Errorf("select parent %d: %w", i, err)
		}
		copy(ws.parents[i], winner)
	}

	if err := Crossover(rng, cfg.Crossover, pop, ws.parents, ws.children, cfg.Parents, ws); err != nil {
		return err
	}
	if err := Mutate(rng, cfg.Mutation, pop, ws.children, cfg.Children, cfg.MutationRate); err != nil {
		return err
	}

	elite := 0
	for i := 0; i < pop.size; i++ {
		if i < cfg.Children {
			copy(ws.staging[i], ws.children[i])
			continue
		}
		copy(ws.staging[i], pop.individuals[pop.eval.SortedIndexes[elite]])
		elite++
	}
	for i := 0; i < pop.size; i++ {
		copy(pop.individuals[i], ws.staging[i])
	}

	return evaluator.Evaluate(pop)
}
