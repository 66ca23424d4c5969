package evo

import (
	"fmt"
	"strings"
)

// InitMode records how a population's individuals were populated.
type InitMode int

const (
	RandomFill InitMode = iota
	ZeroFill
	// ExternallySupplied populations never own their individuals' storage.
	ExternallySupplied
)

func (m InitMode) String() string {
	switch m {
	case RandomFill:
		return "random"
	case ZeroFill:
		return "empty"
	case ExternallySupplied:
		return "unalloc"
	default:
		return fmt.Sprintf("init_mode(%d)", int(m))
	}
}

func ParseInitMode(name string) (InitMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random", "random_fill":
		return RandomFill, nil
	case "empty", "zero", "zero_fill":
		return ZeroFill, nil
	case "unalloc", "external", "externally_supplied":
		return ExternallySupplied, nil
	default:
		return 0, fmt.Errorf("%w: unknown init mode %q (supported: random, empty, unalloc)", ErrConfiguration, name)
	}
}

// Uniqueness controls whether genes of one individual may repeat.
type Uniqueness int

const (
	Repeatable Uniqueness = iota
	NonRepeatable
)

func (u Uniqueness) String() string {
	switch u {
	case Repeatable:
		return "repeatable"
	case NonRepeatable:
		return "non_repeatable"
	default:
		return fmt.Sprintf("uniqueness(%d)", int(u))
	}
}

func ParseUniqueness(name string) (Uniqueness, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "repeatable":
		return Repeatable, nil
	case "non_repeatable", "non-repeatable", "unique":
		return NonRepeatable, nil
	default:
		return 0, fmt.Errorf("%w: unknown uniqueness mode %q (supported: repeatable, non_repeatable)", ErrConfiguration, name)
	}
}

// CrossoverMode is the closed set of recombination schemes.
type CrossoverMode int

const (
	SinglePoint CrossoverMode = iota
	TwoPoint
	UniformCrossover
)

func (m CrossoverMode) String() string {
	switch m {
	case SinglePoint:
		return "1kpoint"
	case TwoPoint:
		return "2kpoints"
	case UniformCrossover:
		return "uniform"
	default:
		return fmt.Sprintf("crossover(%d)", int(m))
	}
}

func ParseCrossoverMode(name string) (CrossoverMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "1kpoint", "single_point", "single-point":
		return SinglePoint, nil
	case "2kpoints", "two_point", "two-point":
		return TwoPoint, nil
	case "uniform":
		return UniformCrossover, nil
	default:
		return 0, fmt.Errorf("%w: unknown crossover mode %q (supported: 1kpoint, 2kpoints, uniform)", ErrConfiguration, name)
	}
}

// MutationMode is the closed set of perturbation schemes.
type MutationMode int

const (
	SwapMutation MutationMode = iota
	UniformReplace
)

func (m MutationMode) String() string {
	switch m {
	case SwapMutation:
		return "swap"
	case UniformReplace:
		return "uniform"
	default:
		return fmt.Sprintf("mutation(%d)", int(m))
	}
}

func ParseMutationMode(name string) (MutationMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "swap":
		return SwapMutation, nil
	case "uniform", "uniform_replace", "uniform-replace":
		return UniformReplace, nil
	default:
		return 0, fmt.Errorf("%w: unknown mutation mode %q (supported: swap, uniform)", ErrConfiguration, name)
	}
}
