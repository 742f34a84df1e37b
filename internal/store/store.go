// Package store persists analysis runs and usage metering.
package store

import (
	"context"

	"github.com/aire-labs/aire/internal/model"
)

// AnalysisFilter specifies criteria for listing analysis runs.
type AnalysisFilter struct {
	Email  string      `json:"email,omitempty"`
	Grade  model.Grade `json:"grade,omitempty"`
	Limit  int         `json:"limit,omitempty"`
	Offset int         `json:"offset,omitempty"`
}

// Store defines the persistence interface for the underwriting app.
type Store interface {
	// Analyses
	SaveAnalysis(ctx context.Context, email string, analysis *model.Analysis) (*model.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, id string) (*model.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.AnalysisRecord, error)

	// Users (usage metering)
	GetOrCreateUser(ctx context.Context, email string) (*model.User, error)
	IncrementUsage(ctx context.Context, email string) error
	SetPaid(ctx context.Context, email string, paid bool) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
