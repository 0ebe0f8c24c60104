package processing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// MockStore implements repository.Store for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*models.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) List(ctx context.Context, limit int) ([]*models.Session, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockStore) UpdatePeaks(ctx context.Context, id string, peaks []models.Peak) error {
	args := m.Called(ctx, id, peaks)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) StoreExport(ctx context.Context, record *models.ExportRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStore) ListExports(ctx context.Context, sessionID string) ([]*models.ExportRecord, error) {
	args := m.Called(ctx, sessionID)
	if r, ok := args.Get(0).([]*models.ExportRecord); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockExportStore implements storage.ExportStore for testing
type MockExportStore struct {
	mock.Mock
}

func (m *MockExportStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockExportStore) Upload(ctx context.Context, key, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockExportStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockExportStore) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockExportStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
