// Package cache is a small file-based response cache with TTL. Only the
// one-shot CLI commands use it; the refresh daemon always fetches live.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores entries as JSON files keyed by the hash of the URL.
type FileCache struct {
	dir string
	ttl time.Duration
}

type entry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/echtzeitinfo, falling back to
// ~/.cache/echtzeitinfo.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "echtzeitinfo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "echtzeitinfo-cache")
	}
	return filepath.Join(home, ".cache", "echtzeitinfo")
}

func (c *FileCache) filename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}

// Get returns the cached value for key, or false when missing or expired.
// Expired and unreadable entries are removed on the way.
func (c *FileCache) Get(key string) ([]byte, bool) {
	filename := c.filename(key)

	data, err := os.ReadFile(filename) // #nosec G304 -- name is a hash, not user input
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(filename)
		return nil, false
	}
	if time.Now().After(e.ExpiresAt) {
		_ = os.Remove(filename)
		return nil, false
	}

	return e.Data, true
}

// Set stores value under key with the cache's TTL.
func (c *FileCache) Set(key string, value []byte) error {
	data, err := json.Marshal(entry{Data: value, ExpiresAt: time.Now().Add(c.ttl)})
	if err != nil {
		return err
	}
	return os.WriteFile(c.filename(key), data, 0600)
}

// Clear removes all cache entries.
func (c *FileCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			_ = os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
	return nil
}
