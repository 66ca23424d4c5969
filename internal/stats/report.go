package stats

import (
	"bufio"
	"fmt"
	"io"

	"intga/internal/evo"
)

type ReportMode int

const (
	// ReportBest prints the best individuals and best fitness of a
	// generation.
	ReportBest ReportMode = iota + 1
	// ReportFull also prints every individual of the generation.
	ReportFull
)

func (m ReportMode) String() string {
	switch m {
	case ReportBest:
		return "best"
	case ReportFull:
		return "full"
	default:
		return fmt.Sprintf("ReportMode(%d)", int(m))
	}
}

func ParseReportMode(name string) (ReportMode, error) {
	switch name {
	case "best", "indv":
		return ReportBest, nil
	case "full", "complete":
		return ReportFull, nil
	default:
		return 0, fmt.Errorf("%w: unknown report mode %q", evo.ErrConfiguration, name)
	}
}

// Reporter writes the plain-text results log of a run. As an evo.Observer
// it prints generation 0 and every generation that improved the all-time
// best.
type Reporter struct {
	w    *bufio.Writer
	mode ReportMode
}

func NewReporter(w io.Writer, mode ReportMode) (*Reporter, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: report writer is required", evo.ErrInvalidArgument)
	}
	if mode != ReportBest && mode != ReportFull {
		return nil, fmt.Errorf("%w: unknown report mode %d", evo.ErrConfiguration, int(mode))
	}
	return &Reporter{w: bufio.NewWriter(w), mode: mode}, nil
}

func (r *Reporter) ObserveGeneration(pop *evo.Population, report evo.GenerationReport) error {
	if !report.Improved {
		return nil
	}
	return r.WriteGeneration(pop, report.Generation)
}

// WriteGeneration prints the generation header, the population in full mode,
// and the best individuals with the best fitness.
func (r *Reporter) WriteGeneration(pop *evo.Population, generation int) error {
	ev := pop.Evaluation()
	if ev == nil {
		return evo.ErrNotEvaluated
	}
	fmt.Fprintf(r.w, "\n===POPULATION GEN %d===\n", generation)
	if r.mode == ReportFull {
		for _, individual := range pop.Individuals() {
			writeRow(r.w, individual)
		}
	}
	fmt.Fprintf(r.w, "Best individual(s) found in the population:\n")
	for _, idx := range ev.BestIndexes {
		writeRow(r.w, pop.Individual(idx))
	}
	fmt.Fprintf(r.w, "The best fo for this population is: %.8f\n", ev.Best)
	return r.w.Flush()
}

// WriteSummary prints the all-time best of a finished run and its wall time.
func (r *Reporter) WriteSummary(result evo.RunResult) error {
	fmt.Fprintf(r.w, "\n\nAfter %d iterations this is the best fo found!! Good for you!\n", result.Generations)
	fmt.Fprintf(r.w, "Best individual(s) found through all iters:\n")
	for _, individual := range result.BestAllTimeIndividuals {
		writeRow(r.w, individual)
	}
	fmt.Fprintf(r.w, "The best fo value found through all iters: %.8f\n", result.BestAllTime)
	fmt.Fprintf(r.w, "Time taken for the algorithm to complete:\n%f seconds", result.Elapsed.Seconds())
	return r.w.Flush()
}

func writeRow(w io.Writer, individual []int) {
	fmt.Fprint(w, "[ ")
	for _, gene := range individual {
		fmt.Fprintf(w, "%d ", gene)
	}
	fmt.Fprint(w, "]\n")
}
