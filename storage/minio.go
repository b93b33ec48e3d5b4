package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string // e.g., "localhost:9000"
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIO is a Store holding index files as objects of a single bucket.
type MinIO struct {
	client     *minio.Client
	bucketName string
}

// NewMinIO connects to MinIO and checks that the bucket exists. Index files
// are only read and removed, so a missing bucket is an error.
func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	return &MinIO{
		client:     client,
		bucketName: cfg.Bucket,
	}, nil
}

// Open streams the named object.
func (m *MinIO) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucketName, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from minio: %w", name, err)
	}
	// GetObject is lazy; Stat surfaces a missing object before the first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s in minio: %w", name, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to stat %s in minio: %w", name, err)
	}
	return obj, nil
}

// Remove deletes the named object.
func (m *MinIO) Remove(ctx context.Context, name string) error {
	if err := m.client.RemoveObject(ctx, m.bucketName, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s from minio: %w", name, err)
	}
	return nil
}
