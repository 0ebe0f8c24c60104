package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ExportStore holds generated export files and hands out download links
type ExportStore interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key, contentType string, data []byte) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// DownloadURLExpiry is how long a presigned export link stays valid
const DownloadURLExpiry = 24 * time.Hour

// ErrBucketRequired is returned when no bucket is configured
var ErrBucketRequired = errors.New("S3_BUCKET is required")

// Config holds the settings shared by both backends
type Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// New builds the backend named by backend: "s3" or "minio"
func New(backend string, cfg Config) (ExportStore, error) {
	switch backend {
	case "", "s3":
		return NewS3Service(cfg)
	case "minio":
		return NewMinioService(cfg)
	}
	return nil, fmt.Errorf("unknown storage backend: %s", backend)
}

// validateContentType validates that the content type is one exports produce
func validateContentType(contentType string) error {
	validTypes := map[string]bool{
		"text/csv":         true,
		"text/plain":       true,
		"application/json": true,
	}

	if !validTypes[contentType] {
		return fmt.Errorf("invalid content type: %s. Supported types: text/csv, text/plain, application/json", contentType)
	}

	return nil
}
