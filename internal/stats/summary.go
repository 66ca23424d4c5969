package stats

import "math"

// SeriesSummary condenses a best-by-generation series. Fitness is minimized,
// so Improvement is InitialBest - FinalBest and never negative for an
// elitist run.
type SeriesSummary struct {
	Generations int     `json:"generations"`
	InitialBest float64 `json:"initial_best"`
	FinalBest   float64 `json:"final_best"`
	BestMean    float64 `json:"best_mean"`
	BestStd     float64 `json:"best_std"`
	BestMax     float64 `json:"best_max"`
	BestMin     float64 `json:"best_min"`
	Improvement float64 `json:"improvement"`
}

func Summarize(bestByGeneration []float64, finalBest float64) SeriesSummary {
	if len(bestByGeneration) == 0 {
		return SeriesSummary{FinalBest: finalBest}
	}
	mean, std, max, min := bestSeriesStats(bestByGeneration)
	initial := bestByGeneration[0]
	return SeriesSummary{
		Generations: len(bestByGeneration) - 1,
		InitialBest: initial,
		FinalBest:   finalBest,
		BestMean:    mean,
		BestStd:     std,
		BestMax:     max,
		BestMin:     min,
		Improvement: initial - finalBest,
	}
}

func bestSeriesStats(values []float64) (mean, std, max, min float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	min = values[0]
	max = values[0]
	total := 0.0
	for _, value := range values {
		total += value
		if value > max {
			max = value
		}
		if value < min {
			min = value
		}
	}
	mean = total / float64(len(values))
	sumSq := 0.0
	for _, value := range values {
		diff := mean - value
		sumSq += diff * diff
	}
	std = math.Sqrt(sumSq / float64(len(values)))
	return mean, std, max, min
}
