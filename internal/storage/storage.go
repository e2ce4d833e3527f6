// Package storage persists uploaded post images.
package storage

import (
	"context"
	"fmt"
	"io"

	"instawinx/internal/config"
)

// Store writes uploaded objects under a caller-chosen key.
// Writing an existing key replaces the object.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// LocalDir is the directory objects are served from, or "" when the
	// store is remote.
	LocalDir() string
}

// New builds the store selected by UPLOAD_BACKEND.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.UploadBackend {
	case "", "local":
		return NewLocal(cfg.UploadDir)
	case "s3":
		s, err := NewS3(S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			Bucket:    cfg.S3Bucket,
		})
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket %s: %w", cfg.S3Bucket, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported upload backend %q", cfg.UploadBackend)
	}
}
