package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"intga/internal/evo"
)

const namespace = "intga"

// Collector exports run progress as Prometheus metrics on its own registry.
// It is an evo.Observer; labels carry the problem name so several runs can
// share one collector.
type Collector struct {
	registry *prometheus.Registry

	generations  *prometheus.CounterVec
	evaluations  *prometheus.CounterVec
	improvements *prometheus.CounterVec
	best         *prometheus.GaugeVec
	bestAllTime  *prometheus.GaugeVec
	stepDuration *prometheus.HistogramVec
	runs         *prometheus.CounterVec

	problem string
}

func NewCollector(problem string) (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		problem:  problem,
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Evaluated generations, including each initial population.",
		}, []string{"problem"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Objective function calls.",
		}, []string{"problem"}),
		improvements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "improvements_total",
			Help:      "Generations that lowered the all-time best fitness.",
		}, []string{"problem"}),
		best: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness",
			Help:      "Best fitness of the latest generation.",
		}, []string{"problem"}),
		bestAllTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness_all_time",
			Help:      "Best fitness seen in the current run.",
		}, []string{"problem"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Wall time of one generational step including evaluation.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"problem"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs by outcome.",
		}, []string{"problem", "outcome"}),
	}
	for _, collector := range []prometheus.Collector{
		c.generations, c.evaluations, c.improvements, c.best, c.bestAllTime, c.stepDuration, c.runs,
	} {
		if err := c.registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return c, nil
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) ObserveGeneration(_ *evo.Population, report evo.GenerationReport) error {
	c.generations.WithLabelValues(c.problem).Inc()
	c.evaluations.WithLabelValues(c.problem).Add(float64(report.Evaluations))
	c.best.WithLabelValues(c.problem).Set(report.Best)
	c.bestAllTime.WithLabelValues(c.problem).Set(report.BestAllTime)
	if report.Improved {
		c.improvements.WithLabelValues(c.problem).Inc()
	}
	if report.Generation > 0 {
		c.stepDuration.WithLabelValues(c.problem).Observe(report.Duration.Seconds())
	}
	return nil
}

// RecordRun counts a finished run as "target" or "budget" depending on
// whether it reached the target fitness.
func (c *Collector) RecordRun(result evo.RunResult) {
	outcome := "budget"
	if result.TargetReached {
		outcome = "target"
	}
	c.runs.WithLabelValues(c.problem, outcome).Inc()
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
