package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LengthAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		got, err := New()
		require.NoError(t, err)
		assert.Len(t, got, Length)
		for _, r := range got {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected symbol %q in id %q", r, got)
		}
	}
}

func TestNew_UniformSymbolDistribution(t *testing.T) {
	// Draw enough symbols that a modulo-biased draw (8/256 for the
	// symbols below 256%36 vs 7/256 for the rest, ~12% excess) would
	// land far outside the tolerance, while uniform sampling stays
	// comfortably inside it.
	const draws = 20000
	counts := make(map[rune]int, len(alphabet))
	for i := 0; i < draws; i++ {
		got, err := New()
		require.NoError(t, err)
		for _, r := range got {
			counts[r]++
		}
	}

	expected := float64(draws*Length) / float64(len(alphabet))
	for _, r := range alphabet {
		assert.InDelta(t, expected, float64(counts[r]), expected*0.08,
			"symbol %q drawn %d times, expected ~%.0f", r, counts[r], expected)
	}
}

func TestNew_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		got, err := New()
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate id %q after %d generations", got, i)
		seen[got] = true
	}
}
