package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/tempdrop/tempdrop/internal/cache"
	"github.com/tempdrop/tempdrop/internal/id"
	"github.com/tempdrop/tempdrop/internal/metadata"
	"github.com/tempdrop/tempdrop/internal/models"
	"github.com/tempdrop/tempdrop/internal/retention"
	"github.com/tempdrop/tempdrop/internal/storage"
)

// maxIDAttempts bounds how often an upload regenerates its id after a
// duplicate-key collision before giving up.
const maxIDAttempts = 3

// FileService composes the stores into the user-facing upload, download,
// info and delete operations. It is stateless apart from the injected
// store and cache handles, so any number of requests may run through it
// concurrently.
type FileService struct {
	meta    metadata.Store
	blobs   storage.BlobStore
	cache   *cache.Cache
	baseURL string
	logger  *log.Logger
}

// NewFileService wires the orchestrator to its collaborators. baseURL is
// used verbatim to construct access URLs as {baseURL}/{id}.
func NewFileService(meta metadata.Store, blobs storage.BlobStore, c *cache.Cache, baseURL string, logger *log.Logger) *FileService {
	return &FileService{
		meta:    meta,
		blobs:   blobs,
		cache:   c,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// UploadInput carries one file upload into the service. Data is consumed
// exactly once.
type UploadInput struct {
	Filename string
	MimeType string
	Size     int64
	Data     io.Reader
	Password string
}

// UploadResult is returned to the uploader.
type UploadResult struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	ExpiresAt     time.Time `json:"expires_at"`
	RetentionDays int       `json:"retention_days"`
}

// DownloadResult carries the blob bytes plus the response metadata the
// HTTP layer needs.
type DownloadResult struct {
	Data     []byte
	MimeType string
	Filename string
}

// FileInfo is the metadata view of a file. The password hash itself is
// never exposed, only whether one is set.
type FileInfo struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	MimeType    string    `json:"mime_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	HasPassword bool      `json:"has_password"`
}

// Upload stores the file content and its metadata record. The blob write
// strictly precedes the metadata write so a record never references a
// missing blob; if the metadata write fails the orphaned blob is deleted
// before the error is returned. An id collision at insert time is retried
// with a fresh id up to maxIDAttempts times.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if in.Size > retention.MaxSize {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(in.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > retention.MaxSize {
		return nil, ErrTooLarge
	}

	mimeType := in.MimeType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}

	var passwordHash string
	if in.Password != "" {
		passwordHash, err = HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	now := time.Now().UTC()
	expiresAt := retention.ExpiresAt(int64(len(data)), now)

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		fileID, err := id.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate file id: %w", err)
		}

		if err := s.blobs.Put(ctx, fileID, bytes.NewReader(data), int64(len(data)), mimeType); err != nil {
			return nil, fmt.Errorf("failed to store blob: %w", err)
		}

		record := &models.FileRecord{
			ID:           fileID,
			Filename:     in.Filename,
			Size:         int64(len(data)),
			MimeType:     mimeType,
			UploadedAt:   now,
			ExpiresAt:    expiresAt,
			PasswordHash: passwordHash,
		}

		err = s.meta.Create(ctx, record)
		if err == nil {
			s.logger.Info("file uploaded",
				"id", fileID,
				"size", humanize.Bytes(uint64(len(data))),
				"mime", mimeType,
				"retention_days", retention.Days(record.Size))
			return &UploadResult{
				ID:            fileID,
				URL:           s.baseURL + "/" + fileID,
				ExpiresAt:     expiresAt,
				RetentionDays: retention.Days(record.Size),
			}, nil
		}

		// The blob under this id is now orphaned; reclaim it before
		// retrying or surfacing the error. A failed rollback only leaves
		// unreferenced garbage, so it is logged rather than escalated.
		if rbErr := s.blobs.Delete(ctx, fileID); rbErr != nil {
			s.logger.Error("failed to roll back orphaned blob", "id", fileID, "err", rbErr)
		}

		if errors.Is(err, metadata.ErrDuplicateID) {
			s.logger.Warn("file id collision, retrying", "id", fileID, "attempt", attempt+1)
			continue
		}
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	return nil, fmt.Errorf("failed to allocate a unique file id after %d attempts", maxIDAttempts)
}

// Download returns the file content for the id. A missing record, an
// expired record and a missing blob all surface as ErrNotFound.
func (s *FileService) Download(ctx context.Context, fileID string) (*DownloadResult, error) {
	record, err := s.resolve(ctx, fileID)
	if err != nil {
		return nil, err
	}

	data, err := s.blobs.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			// Metadata without a blob means a crash between the two
			// writes; treat it as gone rather than a server error.
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch blob: %w", err)
	}

	return &DownloadResult{
		Data:     data,
		MimeType: record.MimeType,
		Filename: record.Filename,
	}, nil
}

// Info returns the metadata view of a file without touching blob storage.
func (s *FileService) Info(ctx context.Context, fileID string) (*FileInfo, error) {
	record, err := s.resolve(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		ID:          record.ID,
		Filename:    record.Filename,
		Size:        record.Size,
		MimeType:    record.MimeType,
		UploadedAt:  record.UploadedAt,
		ExpiresAt:   record.ExpiresAt,
		HasPassword: record.HasPassword(),
	}, nil
}

// Delete removes the file from blob storage, the metadata store and the
// cache. The record is fetched from the store directly, never from the
// cache, since deletion is consistency-sensitive. If the record carries a
// password hash, the caller must supply the matching password: a missing
// password yields ErrUnauthorized, a wrong one ErrForbidden.
func (s *FileService) Delete(ctx context.Context, fileID, password string) error {
	record, err := s.meta.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch file record: %w", err)
	}

	if record.HasPassword() {
		if password == "" {
			return ErrUnauthorized
		}
		if !VerifyPassword(password, record.PasswordHash) {
			return ErrForbidden
		}
	}

	// Blob and metadata deletion are independent; run them in parallel
	// and join before reporting success.
	blobErrCh := make(chan error, 1)
	metaErrCh := make(chan error, 1)

	go func() {
		blobErrCh <- s.blobs.Delete(ctx, fileID)
	}()
	go func() {
		_, err := s.meta.Delete(ctx, fileID)
		metaErrCh <- err
	}()

	blobErr := <-blobErrCh
	metaErr := <-metaErrCh
	s.cache.Invalidate(fileID)

	if blobErr != nil {
		return fmt.Errorf("failed to delete blob: %w", blobErr)
	}
	if metaErr != nil {
		return fmt.Errorf("failed to delete file record: %w", metaErr)
	}

	s.logger.Info("file deleted", "id", fileID)
	return nil
}

// resolve looks up a record cache-first and populates the cache on a
// store hit. The cache is only a latency optimization; correctness comes
// from the store's expiry-filtered read.
func (s *FileService) resolve(ctx context.Context, fileID string) (*models.FileRecord, error) {
	if record := s.cache.Get(fileID); record != nil {
		return record, nil
	}

	record, err := s.meta.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch file record: %w", err)
	}

	s.cache.Put(record)
	return record, nil
}
