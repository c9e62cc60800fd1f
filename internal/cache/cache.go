// Package cache holds parsed OCR artifacts so repeated grading runs over
// the same files skip re-decoding.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from an identity string (typically path plus
// modification time, so edited files never hit a stale entry).
func Key(identity string) string {
	hash := sha256.Sum256([]byte(identity))
	return "gradetool:v1:" + hex.EncodeToString(hash[:])
}
