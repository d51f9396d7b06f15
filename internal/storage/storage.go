// Package storage provides the blob side of the service: opaque file
// content addressed by identifier, with interchangeable backends.
package storage

import (
	"context"
	"errors"
	"io"
)

// keyPrefix namespaces every blob key so the bucket or data directory can
// be shared with other tooling without clashes.
const keyPrefix = "temp/"

// ErrBlobNotFound is returned by Get when no blob exists for the id.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore stores file content addressed by identifier alone. Both
// backends satisfy the same contract: Put overwrites an existing blob,
// Get returns the exact bytes previously put, and Delete of an absent
// blob is not an error.
type BlobStore interface {
	Put(ctx context.Context, id string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}
