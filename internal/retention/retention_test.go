package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDays_Bounds(t *testing.T) {
	assert.Equal(t, MaxDays, Days(0), "empty file gets maximum retention")
	assert.Equal(t, MinDays, Days(MaxSize), "maximum-size file gets minimum retention")
	assert.Equal(t, MinDays, Days(MaxSize+1), "oversize clamps to minimum")
	assert.Equal(t, MaxDays, Days(-1), "negative size clamps to maximum")
}

func TestDays_Monotone(t *testing.T) {
	// Retention must never increase as size grows.
	step := MaxSize / 1000
	prev := Days(0)
	for size := step; size <= MaxSize; size += step {
		cur := Days(size)
		assert.LessOrEqual(t, cur, prev, "retention increased between %d and %d bytes", size-step, size)
		assert.GreaterOrEqual(t, cur, MinDays)
		assert.LessOrEqual(t, cur, MaxDays)
		prev = cur
	}
}

func TestDays_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want int
	}{
		{"empty", 0, 365},
		{"half of max", MaxSize / 2, 30 + (365-30)/4}, // (1-0.5)^2 = 0.25
		{"full", MaxSize, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Days(tt.size))
		})
	}
}

func TestExpiresAt_ConsistentWithDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sizes := []int64{0, 1, 1024, MaxSize / 3, MaxSize}
	for _, size := range sizes {
		want := now.AddDate(0, 0, Days(size))
		assert.Equal(t, want, ExpiresAt(size, now))
		assert.True(t, ExpiresAt(size, now).After(now), "expiry must be in the future")
	}
}
