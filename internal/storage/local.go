package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs as plain files under dataDir. It is the fallback
// backend when no object-storage credentials are configured. Content type
// is not persisted here; the caller re-derives it from the file record.
type LocalStore struct {
	dataDir string
}

// NewLocalStore creates the blob directory if needed.
func NewLocalStore(dataDir string) (*LocalStore, error) {
	dir := filepath.Join(dataDir, keyPrefix)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &LocalStore{dataDir: dataDir}, nil
}

func (s *LocalStore) path(id string) string {
	return filepath.Join(s.dataDir, keyPrefix, id)
}

// Put writes to a temp file and renames it into place so readers never
// observe a partially written blob.
func (s *LocalStore) Put(ctx context.Context, id string, r io.Reader, size int64, contentType string) error {
	dst := s.path(id)
	tmp := dst + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file for blob %s: %w", id, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write blob %s: %w", id, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync blob %s: %w", id, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close blob %s: %w", id, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename blob %s into place: %w", id, err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", id, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(ctx context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob %s: %w", id, err)
	}
	return nil
}
