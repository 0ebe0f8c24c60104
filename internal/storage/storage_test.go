package storage

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		contentType string
		wantErr     bool
	}{
		{"text/csv", false},
		{"text/plain", false},
		{"application/json", false},
		{"audio/wav", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			err := validateContentType(tt.contentType)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := Config{Bucket: "exports", Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}

	s, err := New("s3", cfg)
	require.NoError(t, err)
	assert.IsType(t, &s3Service{}, s)

	m, err := New("minio", cfg)
	require.NoError(t, err)
	assert.IsType(t, &minioService{}, m)

	_, err = New("gcs", cfg)
	assert.Error(t, err)

	_, err = New("s3", Config{})
	assert.ErrorIs(t, err, ErrBucketRequired)

	_, err = New("minio", Config{Bucket: "exports"})
	assert.Error(t, err, "minio needs an endpoint")
}

func TestUploadRejectsUnsupportedContentType(t *testing.T) {
	s, err := NewS3Service(Config{Bucket: "exports", Endpoint: "localhost:1", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)

	err = s.Upload(context.Background(), "exports/x.wav", "audio/wav", []byte("x"))
	assert.ErrorContains(t, err, "invalid content type")
}

func TestExportStores_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	for _, backend := range []string{"s3", "minio"} {
		t.Run(backend, func(t *testing.T) {
			store, err := New(backend, Config{
				Bucket:    "nmrsim-test-" + uuid.New().String()[:8],
				Endpoint:  endpoint,
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			})
			require.NoError(t, err)
			require.NoError(t, store.EnsureBucket(ctx))
			require.NoError(t, store.EnsureBucket(ctx))

			key := "exports/session/spectrum.csv"
			body := []byte("Chemical_Shift_ppm,Intensity\n0.000000,0.000000\n")
			require.NoError(t, store.Upload(ctx, key, "text/csv", body))

			got, err := store.Download(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, body, got)

			link, err := store.GenerateDownloadURL(ctx, key)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(link, "http://"))

			resp, err := http.Get(link)
			require.NoError(t, err)
			fetched, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, body, fetched)

			require.NoError(t, store.Delete(ctx, key))
			_, err = store.Download(ctx, key)
			assert.Error(t, err)
		})
	}
}
