package problem

import "intga/internal/evo"

// OneMax is the classic bit-string warmup: maximize the number of ones,
// expressed here as minimizing the number of zeros.
type OneMax struct{}

func (OneMax) Name() string        { return "onemax" }
func (OneMax) Description() string { return "bit strings; fitness counts zero bits" }
func (OneMax) DefaultSize() int    { return 64 }

func (o OneMax) Instance(n int) (Instance, error) {
	n, err := resolveSize(o, n, 1)
	if err != nil {
		return Instance{}, err
	}
	return Instance{
		Name:       o.Name(),
		Length:     n,
		MinValue:   0,
		MaxValue:   1,
		Uniqueness: evo.Repeatable,
		Objective:  ZeroBits,
	}, nil
}

func ZeroBits(bits []int) float64 {
	zeros := 0
	for _, b := range bits {
		if b == 0 {
			zeros++
		}
	}
	return float64(zeros)
}
