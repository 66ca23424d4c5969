package storage

import (
	"context"

	"intga/internal/model"
)

// Store persists run outcomes. Implementations are safe for concurrent use.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns every stored run, newest first.
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	DeleteRun(ctx context.Context, id string) error
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveImprovements(ctx context.Context, runID string, improvements []model.ImprovementRecord) error
	GetImprovements(ctx context.Context, runID string) ([]model.ImprovementRecord, bool, error)
}
