// Package metadata persists file records and enforces expiry on reads.
package metadata

import (
	"context"
	"errors"

	"github.com/tempdrop/tempdrop/internal/models"
)

var (
	// ErrDuplicateID is returned by Create when the id already exists.
	// The uploader reacts by generating a fresh id and retrying.
	ErrDuplicateID = errors.New("file id already exists")
	// ErrNotFound is returned by Get for absent or expired records.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("file record not found")
)

// Store is the durable record of uploaded files. Get never returns an
// expired record even if the sweep has not removed it yet.
type Store interface {
	Create(ctx context.Context, record *models.FileRecord) error
	Get(ctx context.Context, id string) (*models.FileRecord, error)
	// Delete removes the record regardless of expiry and reports whether
	// a row was actually removed.
	Delete(ctx context.Context, id string) (bool, error)
	// SweepExpired removes every record whose expiry has passed and
	// returns the swept ids so their blobs can be reclaimed.
	SweepExpired(ctx context.Context) ([]string, error)
}
