package problem

import (
	"errors"
	"fmt"
	"sort"

	"intga/internal/evo"
)

var ErrUnknownProblem = errors.New("unknown problem")

// Instance is a sized problem ready to seed a population.
type Instance struct {
	Name       string
	Length     int
	MinValue   int
	MaxValue   int
	Uniqueness evo.Uniqueness
	Objective  evo.Objective
	// Optimum is the best reachable fitness; runs use it as the default
	// target.
	Optimum float64
}

// PopulationConfig returns the population shape for this instance.
func (i Instance) PopulationConfig(init evo.InitMode, size int) evo.PopulationConfig {
	return evo.PopulationConfig{
		InitMode:   init,
		Size:       size,
		Length:     i.Length,
		MinValue:   i.MinValue,
		MaxValue:   i.MaxValue,
		Uniqueness: i.Uniqueness,
	}
}

type Problem interface {
	Name() string
	Description() string
	DefaultSize() int
	// Instance sizes the problem; n <= 0 selects DefaultSize.
	Instance(n int) (Instance, error)
}

var registry = map[string]Problem{}

func register(p Problem) {
	if p == nil || p.Name() == "" {
		panic("problem: register requires a named problem")
	}
	if _, exists := registry[p.Name()]; exists {
		panic("problem: duplicate registration " + p.Name())
	}
	registry[p.Name()] = p
}

func init() {
	register(NQueens{})
	register(OneMax{})
	register(PermutationSort{})
}

func Lookup(name string) (Problem, error) {
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProblem, name)
	}
	return p, nil
}

// New looks up name and sizes it in one call.
func New(name string, n int) (Instance, error) {
	p, err := Lookup(name)
	if err != nil {
		return Instance{}, err
	}
	return p.Instance(n)
}

// List returns every registered problem sorted by name.
func List() []Problem {
	out := make([]Problem, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func Names() []string {
	problems := List()
	names := make([]string, len(problems))
	for i, p := range problems {
		names[i] = p.Name()
	}
	return names
}

func resolveSize(p Problem, n, minimum int) (int, error) {
	if n <= 0 {
		n = p.DefaultSize()
	}
	if n < minimum {
		return 0, fmt.Errorf("%w: %s needs size >= %d, got %d", evo.ErrConfiguration, p.Name(), minimum, n)
	}
	return n, nil
}
