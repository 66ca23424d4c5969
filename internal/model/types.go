package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the stored outcome of one GA run. Populations themselves are
// never persisted.
type RunRecord struct {
	VersionedRecord
	ID              string    `json:"id"`
	Problem         string    `json:"problem"`
	Size            int       `json:"size"`
	PopulationSize  int       `json:"population_size"`
	Crossover       string    `json:"crossover"`
	Mutation        string    `json:"mutation"`
	MutationRate    float64   `json:"mutation_rate"`
	Seed            int64     `json:"seed"`
	Generations     int       `json:"generations"`
	Evaluations     int       `json:"evaluations"`
	BestFitness     float64   `json:"best_fitness"`
	BestIndividuals [][]int   `json:"best_individuals"`
	TargetReached   bool      `json:"target_reached"`
	ElapsedSeconds  float64   `json:"elapsed_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

// ImprovementRecord marks a generation where the all-time best dropped.
type ImprovementRecord struct {
	Generation int     `json:"generation"`
	Fitness    float64 `json:"fitness"`
}
