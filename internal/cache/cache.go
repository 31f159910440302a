// Package cache stores serialized puzzles and rating profiles in memory, on
// disk, or both.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/veritas/internal/model"
)

// Cache defines the interface for caching. A zero ttl uses the cache's
// default; a negative ttl never expires.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "veritas:v1:"

// NoExpiration as a Set ttl keeps the entry until it is deleted
const NoExpiration time.Duration = -1

// PuzzleKey returns the cache key for a generated puzzle
func PuzzleKey(id string) string {
	return key("puzzle", id)
}

// ProfileKey returns the cache key for a player's rating profile
func ProfileKey(playerID string) string {
	return key("profile", playerID)
}

// key hashes the id so arbitrary player IDs are safe as file names
func key(kind, id string) string {
	hash := sha256.Sum256([]byte(id))
	return keyPrefix + kind + "-" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg: memory only, or memory over disk when a directory is set
func New(cfg model.CacheConfig) Cache {
	memoryTTL := cfg.MemoryTTL
	if memoryTTL <= 0 {
		memoryTTL = 2 * time.Hour
	}
	if !cfg.Enabled || cfg.Dir == "" {
		return NewMemoryCache(memoryTTL, 10*time.Minute)
	}
	diskTTL := cfg.DiskTTL
	if diskTTL <= 0 {
		diskTTL = 7 * 24 * time.Hour
	}
	return NewLayeredCache(memoryTTL, cfg.Dir, diskTTL)
}
