package services

import (
	"context"
	"time"

	"github.com/tempdrop/tempdrop/internal/utils"
)

// sweepWorkers bounds how many blob deletions a single sweep issues
// concurrently.
const sweepWorkers = 8

// SweepExpired removes every expired metadata record and reclaims the
// corresponding blobs, so expiry does not leak blob storage. Returns the
// number of swept records. Safe to run concurrently with in-flight
// requests and with itself: the store deletes by expiry predicate, and a
// blob deletion racing a concurrent explicit delete is idempotent.
func (s *FileService) SweepExpired(ctx context.Context) (int, error) {
	ids, err := s.meta.SweepExpired(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pool := utils.NewWorkerPool(sweepWorkers)
	defer pool.Close()
	for _, fileID := range ids {
		fileID := fileID
		pool.AddTask(func() {
			if err := s.blobs.Delete(ctx, fileID); err != nil {
				// The metadata row is already gone, so the blob is
				// unreachable garbage either way; log and move on.
				s.logger.Error("failed to reclaim expired blob", "id", fileID, "err", err)
			}
			s.cache.Invalidate(fileID)
		})
	}
	pool.Wait()

	return len(ids), nil
}

// RunSweeper runs the expiry sweep on a fixed interval until the context
// is cancelled. Intended to be started once from main as a background
// goroutine.
func (s *FileService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.SweepExpired(ctx)
			if err != nil {
				s.logger.Error("expiry sweep failed", "err", err)
				continue
			}
			if count > 0 {
				s.logger.Info("cleaned up expired files", "count", count)
			}
		}
	}
}
