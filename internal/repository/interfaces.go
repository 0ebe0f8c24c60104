package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// ErrNotFound is returned when a session or export does not exist
var ErrNotFound = errors.New("not found")

// SessionRepository defines the interface for simulation session operations
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	List(ctx context.Context, limit int) ([]*models.Session, error)
	UpdatePeaks(ctx context.Context, id string, peaks []models.Peak) error
	Delete(ctx context.Context, id string) error
}

// ExportRepository defines the interface for export bookkeeping
type ExportRepository interface {
	StoreExport(ctx context.Context, record *models.ExportRecord) error
	ListExports(ctx context.Context, sessionID string) ([]*models.ExportRecord, error)
}

// Store is the full persistence surface used by the simulation service
type Store interface {
	SessionRepository
	ExportRepository
}
