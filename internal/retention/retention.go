// Package retention maps file size to how long the file is kept.
// Larger files get shorter retention so storage pressure stays bounded.
package retention

import (
	"math"
	"time"
)

const (
	// MinDays is the retention floor, applied to files at MaxSize.
	MinDays = 30
	// MaxDays is the retention ceiling, applied to empty files.
	MaxDays = 365
	// MaxSize is the upload size limit in bytes (512 MiB).
	MaxSize int64 = 512 * 1024 * 1024
)

// Days computes the retention period for a file of the given size using
// days = floor(MinDays + (MaxDays-MinDays) * (1-ratio)^2), clamped to
// [MinDays, MaxDays]. The quadratic shape decays fastest for small files,
// matching the policy that only genuinely small files earn long retention.
func Days(size int64) int {
	ratio := float64(size) / float64(MaxSize)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	days := int(math.Floor(MinDays + (MaxDays-MinDays)*(1-ratio)*(1-ratio)))
	if days < MinDays {
		days = MinDays
	}
	if days > MaxDays {
		days = MaxDays
	}
	return days
}

// ExpiresAt returns the expiry timestamp for a file of the given size
// uploaded at now. Uses the same formula and rounding as Days so the
// value reported at upload time matches what info displays later.
func ExpiresAt(size int64, now time.Time) time.Time {
	return now.AddDate(0, 0, Days(size))
}
