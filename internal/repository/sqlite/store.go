// Package sqlite provides a single-file session store for local use
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/RMahshie/nmrsim/internal/repository"
	"github.com/RMahshie/nmrsim/pkg/models"
)

// Store implements repository.Store on top of a SQLite database file
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and ensures the schema.
// ":memory:" gives a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		nucleus TEXT NOT NULL,
		field_strength DOUBLE NOT NULL,
		ppm_min DOUBLE NOT NULL,
		ppm_max DOUBLE NOT NULL,
		resolution INTEGER NOT NULL,
		noise_level DOUBLE NOT NULL DEFAULT 0,
		seed INTEGER NOT NULL DEFAULT 0,
		grouping_mode TEXT NOT NULL DEFAULT '',
		source_text TEXT NOT NULL DEFAULT '',
		skipped_lines INTEGER NOT NULL DEFAULT 0,
		peaks TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exports (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		format TEXT NOT NULL,
		object_key TEXT NOT NULL,
		content_type TEXT NOT NULL,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exports_session_id ON exports (session_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Create inserts a new session
func (s *Store) Create(ctx context.Context, sess *models.Session) error {
	peaks, err := repository.EncodePeaks(sess.Peaks)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, title, nucleus, field_strength, ppm_min, ppm_max, resolution, noise_level,
			seed, grouping_mode, source_text, skipped_lines, peaks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Title, string(sess.Nucleus), sess.FieldStrength,
		sess.PPMRange.Min, sess.PPMRange.Max, sess.Resolution, sess.NoiseLevel,
		sess.Seed, sess.GroupingMode, sess.SourceText, sess.SkippedLines, peaks,
		sess.CreatedAt.UTC(), sess.UpdatedAt.UTC())
	return err
}

const selectSession = `
	SELECT id, title, nucleus, field_strength, ppm_min, ppm_max, resolution, noise_level,
		seed, grouping_mode, source_text, skipped_lines, peaks, created_at, updated_at
	FROM sessions`

// GetByID retrieves a session by ID
func (s *Store) GetByID(ctx context.Context, id string) (*models.Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx, selectSession+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return sess, err
}

// List returns the most recent sessions, newest first
func (s *Store) List(ctx context.Context, limit int) ([]*models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectSession+` ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// UpdatePeaks replaces the peak list of a session
func (s *Store) UpdatePeaks(ctx context.Context, id string, peaks []models.Peak) error {
	encoded, err := repository.EncodePeaks(peaks)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET peaks = ?, updated_at = ? WHERE id = ?`, encoded, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a session and its exports
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exports WHERE session_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

// StoreExport records an export
func (s *Store) StoreExport(ctx context.Context, e *models.ExportRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exports (id, session_id, format, object_key, content_type, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Format, e.ObjectKey, e.ContentType, e.SizeBytes, e.CreatedAt.UTC())
	return err
}

// ListExports retrieves the exports of a session, newest first
func (s *Store) ListExports(ctx context.Context, sessionID string) ([]*models.ExportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, format, object_key, content_type, size_bytes, created_at
		FROM exports WHERE session_id = ? ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.ExportRecord{}
	for rows.Next() {
		var e models.ExportRecord
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Format, &e.ObjectKey, &e.ContentType, &e.SizeBytes, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*models.Session, error) {
	var sess models.Session
	var nucleus, peaks string

	err := row.Scan(&sess.ID, &sess.Title, &nucleus, &sess.FieldStrength,
		&sess.PPMRange.Min, &sess.PPMRange.Max, &sess.Resolution, &sess.NoiseLevel,
		&sess.Seed, &sess.GroupingMode, &sess.SourceText, &sess.SkippedLines, &peaks,
		&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}

	sess.Nucleus = models.Nucleus(nucleus)
	if sess.Peaks, err = repository.DecodePeaks(peaks); err != nil {
		return nil, err
	}
	return &sess, nil
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

var _ repository.Store = (*Store)(nil)
