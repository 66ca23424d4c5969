package problem

import "intga/internal/evo"

// NQueens places one queen per column; gene i is the row of the queen in
// column i. Rows are a permutation, so only diagonal attacks are possible
// and the fitness is the number of attacking pairs.
type NQueens struct{}

func (NQueens) Name() string { return "nqueens" }

func (NQueens) Description() string {
	return "place n non-attacking queens; fitness counts diagonal attacks"
}

func (NQueens) DefaultSize() int { return 20 }

func (q NQueens) Instance(n int) (Instance, error) {
	n, err := resolveSize(q, n, 4)
	if err != nil {
		return Instance{}, err
	}
	return Instance{
		Name:       q.Name(),
		Length:     n,
		MinValue:   0,
		MaxValue:   n - 1,
		Uniqueness: evo.NonRepeatable,
		Objective:  DiagonalAttacks,
	}, nil
}

// DiagonalAttacks counts queen pairs that share a diagonal.
func DiagonalAttacks(board []int) float64 {
	attacks := 0
	for i := range board {
		for j := i + 1; j < len(board); j++ {
			d := j - i
			if board[j] == board[i]+d || board[j] == board[i]-d {
				attacks++
			}
		}
	}
	return float64(attacks)
}
