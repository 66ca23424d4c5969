package evo

import "fmt"

// PopulationConfig describes the solution boundaries and the initial fill of
// a Population.
type PopulationConfig struct {
	InitMode   InitMode
	Size       int
	Length     int
	MinValue   int
	MaxValue   int
	Uniqueness Uniqueness
}

// Population owns a fixed-capacity set of integer individuals together with
// their evaluation bookkeeping. The logical size may shrink below the
// allocated capacity; storage is never reallocated.
type Population struct {
	length     int
	minValue   int
	maxValue   int
	valueRange int
	uniqueness Uniqueness
	initMode   InitMode

	// reference holds [minValue..maxValue] under NonRepeatable only.
	reference []int
	shuffled  []int

	size        int
	capacity    int
	individuals [][]int
	arena       []int

	eval     *Evaluation
	released bool
}

// NewPopulation validates cfg and builds a population. RandomFill draws every
// individual with InitSolution, ZeroFill leaves them at zero and
// ExternallySupplied allocates nothing: the caller must Attach storage.
func NewPopulation(cfg PopulationConfig, rng Source) (*Population, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("%w: population size must be > 0, got %d", ErrConfiguration, cfg.Size)
	}
	if cfg.Length <= 0 {
		return nil, fmt.Errorf("%w: individual length must be > 0, got %d", ErrConfiguration, cfg.Length)
	}
	if cfg.MaxValue < cfg.MinValue {
		return nil, fmt.Errorf("%w: max value %d below min value %d", ErrConfiguration, cfg.MaxValue, cfg.MinValue)
	}
	valueRange := cfg.MaxValue - cfg.MinValue + 1
	switch cfg.Uniqueness {
	case Repeatable:
	case NonRepeatable:
		if valueRange < cfg.Length {
			return nil, fmt.Errorf("%w: cannot build non-repeatable individuals of length %d from %d values",
				ErrConfiguration, cfg.Length, valueRange)
		}
	default:
		return nil, fmt.Errorf("%w: unknown uniqueness mode %d", ErrConfiguration, int(cfg.Uniqueness))
	}
	if cfg.InitMode == RandomFill && rng == nil {
		return nil, fmt.Errorf("%w: random source is required for random fill", ErrInvalidArgument)
	}

	pop := &Population{
		length:     cfg.Length,
		minValue:   cfg.MinValue,
		maxValue:   cfg.MaxValue,
		valueRange: valueRange,
		uniqueness: cfg.Uniqueness,
		initMode:   cfg.InitMode,
		size:       cfg.Size,
		capacity:   cfg.Size,
	}
	if cfg.Uniqueness == NonRepeatable {
		pop.reference = make([]int, valueRange)
		for i := range pop.reference {
			pop.reference[i] = cfg.MinValue + i
		}
		pop.shuffled = make([]int, valueRange)
	}

	switch cfg.InitMode {
	case RandomFill:
		pop.arena, pop.individuals = newRows(pop.capacity, pop.length)
		for _, individual := range pop.individuals {
			pop.fillSolution(rng, individual)
		}
	case ZeroFill:
		pop.arena, pop.individuals = newRows(pop.capacity, pop.length)
	case ExternallySupplied:
	default:
		return nil, fmt.Errorf("%w: unknown init mode %d", ErrConfiguration, int(cfg.InitMode))
	}
	return pop, nil
}

// newRows carves capacity rows of length ints out of a single arena.
func newRows(capacity, length int) ([]int, [][]int) {
	arena := make([]int, capacity*length)
	rows := make([][]int, capacity)
	for i := range rows {
		rows[i] = arena[i*length : (i+1)*length : (i+1)*length]
	}
	return arena, rows
}

// InitSolution fills dst with a random individual inside the population's
// boundaries. Under NonRepeatable the reference set is shuffled and its
// prefix taken, so no rejection sampling is needed.
func (p *Population) InitSolution(rng Source, dst []int) error {
	if p.released {
		return ErrReleased
	}
	if rng == nil {
		return fmt.Errorf("%w: random source is required", ErrInvalidArgument)
	}
	if len(dst) != p.length {
		return fmt.Errorf("%w: individual length %d, want %d", ErrInvalidArgument, len(dst), p.length)
	}
	p.fillSolution(rng, dst)
	return nil
}

func (p *Population) fillSolution(rng Source, dst []int) {
	if p.uniqueness == NonRepeatable {
		copy(p.shuffled, p.reference)
		Shuffle(rng, p.shuffled)
		copy(dst, p.shuffled[:p.length])
		return
	}
	for j := range dst {
		dst[j] = p.minValue + rng.Intn(p.valueRange)
	}
}

// Attach binds caller-owned rows to an ExternallySupplied population. Exactly
// Capacity rows of Length genes are required. The population never releases
// or reallocates them.
func (p *Population) Attach(rows [][]int) error {
	if p.released {
		return ErrReleased
	}
	if p.initMode != ExternallySupplied {
		return fmt.Errorf("%w: attach requires init mode %s, population is %s", ErrInvalidArgument, ExternallySupplied, p.initMode)
	}
	if len(rows) != p.capacity {
		return fmt.Errorf("%w: attach got %d rows, want %d", ErrInvalidArgument, len(rows), p.capacity)
	}
	for i, row := range rows {
		if len(row) != p.length {
			return fmt.Errorf("%w: attached row %d has length %d, want %d", ErrInvalidArgument, i, len(row), p.length)
		}
	}
	p.individuals = rows
	return nil
}

// Resize changes the logical population size within the allocated capacity.
// Evaluation bookkeeping is left untouched until the next Evaluate.
func (p *Population) Resize(n int) error {
	if p.released {
		return ErrReleased
	}
	if n <= 0 || n > p.capacity {
		return fmt.Errorf("%w: population size %d outside [1, %d]", ErrInvalidArgument, n, p.capacity)
	}
	p.size = n
	return nil
}

// Release drops owned individuals, evaluation bookkeeping and the reference
// set. Externally supplied rows are detached but never cleared. Release is
// idempotent.
func (p *Population) Release() {
	if p.released {
		return
	}
	if p.initMode != ExternallySupplied {
		p.arena = nil
	}
	p.individuals = nil
	p.eval = nil
	p.reference = nil
	p.shuffled = nil
	p.released = true
}

func (p *Population) Released() bool { return p.released }

// ready reports whether the population can be read or mutated.
func (p *Population) ready() error {
	if p.released {
		return ErrReleased
	}
	if p.individuals == nil {
		return ErrNotAttached
	}
	return nil
}

func (p *Population) Length() int            { return p.length }
func (p *Population) MinValue() int          { return p.minValue }
func (p *Population) MaxValue() int          { return p.maxValue }
func (p *Population) Range() int             { return p.valueRange }
func (p *Population) Uniqueness() Uniqueness { return p.uniqueness }
func (p *Population) InitMode() InitMode     { return p.initMode }
func (p *Population) Size() int              { return p.size }
func (p *Population) Capacity() int          { return p.capacity }

// Reference returns the domain reference set, nil unless NonRepeatable. The
// slice is shared and must not be modified.
func (p *Population) Reference() []int { return p.reference }

// Individuals returns the rows of the current generation. Rows are shared
// with the population.
func (p *Population) Individuals() [][]int {
	if p.individuals == nil {
		return nil
	}
	return p.individuals[:p.size]
}

func (p *Population) Individual(i int) []int {
	return p.individuals[i]
}

// Evaluation returns the bookkeeping of the last Evaluate, or nil when the
// population has never been evaluated.
func (p *Population) Evaluation() *Evaluation { return p.eval }

// Evaluated reports whether the current generation at its current size has
// been scored.
func (p *Population) Evaluated() bool {
	return p.eval != nil && len(p.eval.SortedIndexes) == p.size
}

// Valid reports whether individual respects the population's boundaries and,
// under NonRepeatable, holds pairwise distinct genes.
func (p *Population) Valid(individual []int) bool {
	if len(individual) != p.length {
		return false
	}
	var seen map[int]struct{}
	if p.uniqueness == NonRepeatable {
		seen = make(map[int]struct{}, len(individual))
	}
	for _, gene := range individual {
		if gene < p.minValue || gene > p.maxValue {
			return false
		}
		if seen != nil {
			if _, dup := seen[gene]; dup {
				return false
			}
			seen[gene] = struct{}{}
		}
	}
	return true
}
