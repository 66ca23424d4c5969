package evo

import "math/rand"

// Source is the stream of random draws every operator consumes. *rand.Rand
// satisfies it; tests substitute scripted sources to pin cut points.
type Source interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a deterministic source. A zero seed is replaced by 1 so
// that the default configuration is reproducible.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// Shuffle permutes values in place.
func Shuffle(rng Source, values []int) {
	if len(values) < 2 {
		return
	}
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
}

// coinFlip reports whether a draw lands strictly under p. p=1 always fires,
// p=0 never does.
func coinFlip(rng Source, p float64) bool {
	return rng.Float64() < p
}
