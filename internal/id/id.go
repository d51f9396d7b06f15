package id

import (
	"crypto/rand"
	"fmt"
)

// alphabet is the 36-symbol set file identifiers are drawn from. Lowercase
// alphanumerics keep the ids URL-safe and case-insensitive friendly.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Length of a generated identifier. 36^8 combinations make accidental
// collisions rare but not impossible; callers must retry an insert that
// hits a duplicate key.
const Length = 8

// maxUnbiased is the largest multiple of len(alphabet) that fits in a
// byte. Bytes at or above it are rejected so every symbol is drawn with
// equal probability.
const maxUnbiased = 256 - 256%len(alphabet)

// New generates a random file identifier. The only failure mode is the
// crypto random source itself, which callers should treat as fatal.
func New() (string, error) {
	id := make([]byte, 0, Length)
	buf := make([]byte, Length*2)
	for len(id) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			id = append(id, alphabet[int(b)%len(alphabet)])
			if len(id) == Length {
				break
			}
		}
	}
	return string(id), nil
}
