package cache

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"
)

// schemaVersion is bumped whenever the entry layout or a cached report type
// changes shape.
const schemaVersion uint16 = 1

const entryExt = ".mp"

// Cache stores analysis reports on disk, keyed by file path and validated
// by a content hash. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is the on-disk form of a cached value.
type Entry struct {
	Schema    uint16
	Hash      string
	Timestamp time.Time
	Data      []byte
}

// New creates a cache rooted at dir. A disabled cache misses every lookup
// and drops every write.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Enabled reports whether the cache reads and writes entries.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Key is the cache key of a source file: its absolute path, so relative
// and absolute spellings share an entry.
func Key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// HashFile computes a BLAKE3 hash of a file's contents.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get returns the data stored under key if its hash matches and it has not
// expired. Expired and stale-schema entries are removed.
func (c *Cache) Get(key, hash string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.keyPath(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := msgpack.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if entry.Schema != schemaVersion || (c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl) {
		_ = os.Remove(path)
		return nil, false
	}
	if entry.Hash != hash {
		return nil, false
	}

	return entry.Data, true
}

// Set stores data under key with the hash it was computed from. The entry
// is written to a temp file and renamed into place.
func (c *Cache) Set(key, hash string, data []byte) error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := msgpack.Marshal(&Entry{
		Schema:    schemaVersion,
		Hash:      hash,
		Timestamp: time.Now(),
		Data:      data,
	})
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, c.keyPath(key))
}

// GetValue decodes the value stored under key into out.
func GetValue[T any](c *Cache, key, hash string, out *T) bool {
	data, ok := c.Get(key, hash)
	if !ok {
		return false
	}
	return msgpack.Unmarshal(data, out) == nil
}

// SetValue encodes v and stores it under key.
func SetValue[T any](c *Cache, key, hash string, v T) error {
	if !c.enabled {
		return nil
	}
	data, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, hash, data)
}

// Invalidate removes a cache entry.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return os.RemoveAll(c.dir)
}

// keyPath converts a key to a filesystem path.
func (c *Cache) keyPath(key string) string {
	hash := blake3.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+entryExt)
}

// Stats returns cache statistics.
type Stats struct {
	Entries   int           `json:"entries" toon:"entries"`
	TotalSize int64         `json:"total_size" toon:"total_size"`
	OldestAge time.Duration `json:"oldest_age" toon:"oldest_age"`
	NewestAge time.Duration `json:"newest_age" toon:"newest_age"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := &Stats{}
	var oldest, newest time.Time

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != entryExt {
			return nil
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = time.Since(newest)
	}

	return stats, nil
}
