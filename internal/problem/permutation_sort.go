package problem

import "intga/internal/evo"

// PermutationSort asks for the identity permutation of 1..n. Fitness is the
// total displacement of every value from its sorted position.
type PermutationSort struct{}

func (PermutationSort) Name() string { return "permutation-sort" }

func (PermutationSort) Description() string {
	return "permutations of 1..n; fitness sums |value - position|"
}

func (PermutationSort) DefaultSize() int { return 30 }

func (p PermutationSort) Instance(n int) (Instance, error) {
	n, err := resolveSize(p, n, 2)
	if err != nil {
		return Instance{}, err
	}
	return Instance{
		Name:       p.Name(),
		Length:     n,
		MinValue:   1,
		MaxValue:   n,
		Uniqueness: evo.NonRepeatable,
		Objective:  Displacement,
	}, nil
}

func Displacement(perm []int) float64 {
	total := 0
	for i, v := range perm {
		d := v - (i + 1)
		if d < 0 {
			d = -d
		}
		total += d
	}
	return float64(total)
}
