// Package cache provides the byte cache used by the fetch layer and the
// pipeline's dedup lookups, with memory, disk, and layered backends.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a stable cache key from a URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "veridex:v1:" + hex.EncodeToString(hash[:])
}
