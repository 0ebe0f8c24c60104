package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RMahshie/nmrsim/internal/repository"
	"github.com/RMahshie/nmrsim/migrations"
	"github.com/RMahshie/nmrsim/pkg/models"
)

// PostgresSessionRepository implements repository.Store for PostgreSQL
type PostgresSessionRepository struct {
	db *sql.DB
}

// NewPostgresSessionRepository creates a new PostgreSQL session repository
func NewPostgresSessionRepository(db *sql.DB) repository.Store {
	return &PostgresSessionRepository{db: db}
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	scripts, err := migrations.Up()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	for i, script := range scripts {
		if _, err := db.ExecContext(ctx, script); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

const sessionColumns = `id, title, nucleus, field_strength, ppm_min, ppm_max, resolution, noise_level,
	seed, grouping_mode, source_text, skipped_lines, peaks, created_at, updated_at`

// Create inserts a new session
func (r *PostgresSessionRepository) Create(ctx context.Context, s *models.Session) error {
	peaks, err := repository.EncodePeaks(s.Peaks)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.Title,
		string(s.Nucleus),
		s.FieldStrength,
		s.PPMRange.Min,
		s.PPMRange.Max,
		s.Resolution,
		s.NoiseLevel,
		s.Seed,
		s.GroupingMode,
		s.SourceText,
		s.SkippedLines,
		peaks,
		s.CreatedAt,
		s.UpdatedAt)

	return err
}

// GetByID retrieves a session by ID
func (r *PostgresSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return s, err
}

// List returns the most recent sessions, newest first
func (r *PostgresSessionRepository) List(ctx context.Context, limit int) ([]*models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpdatePeaks replaces the peak list of a session
func (r *PostgresSessionRepository) UpdatePeaks(ctx context.Context, id string, peaks []models.Peak) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	encoded, err := repository.EncodePeaks(peaks)
	if err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET peaks = $1, updated_at = NOW()
		WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, encoded, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a session and, through the foreign key, its exports
func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// StoreExport records an export written to object storage
func (r *PostgresSessionRepository) StoreExport(ctx context.Context, e *models.ExportRecord) error {
	query := `
		INSERT INTO exports (id, session_id, format, object_key, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.SessionID,
		e.Format,
		e.ObjectKey,
		e.ContentType,
		e.SizeBytes,
		e.CreatedAt)

	return err
}

// ListExports retrieves the exports of a session, newest first
func (r *PostgresSessionRepository) ListExports(ctx context.Context, sessionID string) ([]*models.ExportRecord, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, repository.ErrNotFound
	}

	query := `
		SELECT id, session_id, format, object_key, content_type, size_bytes, created_at
		FROM exports
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.ExportRecord{}
	for rows.Next() {
		var e models.ExportRecord
		err := rows.Scan(
			&e.ID,
			&e.SessionID,
			&e.Format,
			&e.ObjectKey,
			&e.ContentType,
			&e.SizeBytes,
			&e.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, &e)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*models.Session, error) {
	var s models.Session
	var nucleus, peaks string

	err := row.Scan(
		&s.ID,
		&s.Title,
		&nucleus,
		&s.FieldStrength,
		&s.PPMRange.Min,
		&s.PPMRange.Max,
		&s.Resolution,
		&s.NoiseLevel,
		&s.Seed,
		&s.GroupingMode,
		&s.SourceText,
		&s.SkippedLines,
		&peaks,
		&s.CreatedAt,
		&s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.Nucleus = models.Nucleus(nucleus)
	if s.Peaks, err = repository.DecodePeaks(peaks); err != nil {
		return nil, err
	}
	return &s, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
