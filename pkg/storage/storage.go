package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kamazuxa/tender/pkg/logger"
	"github.com/kamazuxa/tender/pkg/storage/local"
	"github.com/kamazuxa/tender/pkg/storage/minio"
)

// StorageType selects a backend implementation.
type StorageType string

const (
	StorageTypeMinio StorageType = "minio"
	StorageTypeLocal StorageType = "local"
)

// Storage persists analysis reports and downloaded attachments.
type Storage interface {
	// Store writes the object and returns its key.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	// Get opens the object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object.
	Delete(ctx context.Context, key string) error
	// CleanupBefore removes objects last modified before the threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewStorage is the backend factory. The local backend needs no external
// service and is the default for single-node deployments.
func NewStorage(storageType StorageType, log logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeMinio:
		return minio.GetClient(log)
	case StorageTypeLocal:
		return local.GetClient(log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
