package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps blobs in an object-storage bucket via the S3-compatible
// MinIO client. Selected when object-storage credentials are fully
// configured.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// MinioConfig carries the credentials and bucket for the object-storage
// backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, id string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, keyPrefix+id, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", id, err)
	}
	return nil
}

func (s *MinioStore) Get(ctx context.Context, id string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, keyPrefix+id, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blob %s: %w", id, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		// GetObject is lazy; a missing key surfaces here as NoSuchKey.
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", id, err)
	}
	return buf.Bytes(), nil
}

func (s *MinioStore) Delete(ctx context.Context, id string) error {
	// RemoveObject on an absent key succeeds, which matches the
	// idempotent-delete contract.
	err := s.client.RemoveObject(ctx, s.bucket, keyPrefix+id, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", id, err)
	}
	return nil
}
