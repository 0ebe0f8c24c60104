package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/RMahshie/nmrsim/internal/repository"
	"github.com/RMahshie/nmrsim/pkg/models"
)

// setupDatabase starts a PostgreSQL container and applies the schema
func setupDatabase(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("nmrsim_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db))
	// a second run must be a no-op
	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestPostgresSessionRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupDatabase(t)
	repo := NewPostgresSessionRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	session := &models.Session{
		ID:            uuid.New().String(),
		Title:         "ethyl acetate",
		Nucleus:       models.Proton,
		FieldStrength: 400,
		PPMRange:      models.PPMRange{Min: 0, Max: 12},
		Resolution:    8192,
		GroupingMode:  "non_destructive",
		SkippedLines:  2,
		Peaks: []models.Peak{
			{ChemicalShift: 4.12, Intensity: 2, Width: 0.002, Multiplicity: models.Quartet, Integration: 2, CouplingConstants: []float64{7.1}},
			{ChemicalShift: 1.26, Intensity: 3, Width: 0.002, Multiplicity: models.Triplet, Integration: 3, CouplingConstants: []float64{7.1}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, session))

		got, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.Title, got.Title)
		assert.Equal(t, session.PPMRange, got.PPMRange)
		assert.Equal(t, session.Peaks, got.Peaks)
		assert.True(t, session.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New().String())
		assert.ErrorIs(t, err, repository.ErrNotFound)

		_, err = repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		assert.ErrorIs(t, repo.UpdatePeaks(ctx, uuid.New().String(), nil), repository.ErrNotFound)
	})

	t.Run("update peaks", func(t *testing.T) {
		require.NoError(t, repo.UpdatePeaks(ctx, session.ID, nil))
		got, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Peaks)
		assert.NotNil(t, got.Peaks)
	})

	t.Run("exports", func(t *testing.T) {
		rec := &models.ExportRecord{
			ID:          uuid.New().String(),
			SessionID:   session.ID,
			Format:      "peaks",
			ObjectKey:   "exports/" + session.ID + "/table.csv",
			ContentType: "text/csv",
			SizeBytes:   64,
			CreatedAt:   time.Now().UTC(),
		}
		require.NoError(t, repo.StoreExport(ctx, rec))

		records, err := repo.ListExports(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, rec.ObjectKey, records[0].ObjectKey)
	})

	t.Run("list and delete", func(t *testing.T) {
		sessions, err := repo.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, sessions, 1)

		require.NoError(t, repo.Delete(ctx, session.ID))
		records, err := repo.ListExports(ctx, session.ID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
