// Package cache implements the on-disk, content-addressed result
// cache: entries are files named by their hex key plus one sidecar
// index recording size and last-access time for LRU eviction. No
// example in the reference corpus ships a persistent content-
// addressed LRU cache, so this is hand-rolled on the standard
// library's os/path/filepath/encoding-json rather than adapted from
// an existing implementation — the write-to-temp-then-rename and
// bounded-eviction rules come directly from the engine's cache
// contract, not from a borrowed design.
package cache

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/internal/elog"
)

// DefaultMaxSize is the default total on-disk budget before LRU
// eviction kicks in.
const DefaultMaxSize int64 = 1 << 30 // 1 GiB

// MaxEvictionsPerPut bounds the eviction loop in Put so a single call
// can never iterate unboundedly even if the cache is wildly over its
// size limit.
const MaxEvictionsPerPut = 1000

// Entry is one cached optimization result.
type Entry struct {
	Key        Key
	Format     pyjamaz.FormatTag
	Data       []byte
	Diff       float64
	LastAccess time.Time
}

// Cache is a single on-disk cache instance. It may be shared across
// goroutines: a mutex serializes index mutation the way the engine
// facade would otherwise have to serialize cache access itself.
type Cache struct {
	mu        sync.Mutex
	dir       string
	indexPath string
	maxSize   int64
	entries   map[string]entryRecord // keyed by hex key
}

// Open creates or loads a cache rooted at dir. maxSize <= 0 selects
// DefaultMaxSize.
func Open(dir string, maxSize int64) (*Cache, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pyjamaz.WrapError(pyjamaz.KindCache, "create cache dir", err)
	}

	indexPath := filepath.Join(dir, "index.json")
	records := loadIndex(indexPath)
	entries := make(map[string]entryRecord, len(records))
	for _, r := range records {
		entries[r.Key] = r
	}

	return &Cache{dir: dir, indexPath: indexPath, maxSize: maxSize, entries: entries}, nil
}

// Lookup returns the cached entry for key, updating its last-access
// time, or (nil, false) on a miss. Any on-disk error degrades to a
// miss rather than propagating, per the "cache error never alters
// optimization correctness" invariant.
func (c *Cache) Lookup(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hexKey := key.String()
	rec, ok := c.entries[hexKey]
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(c.entryPath(hexKey))
	if err != nil {
		delete(c.entries, hexKey)
		return nil, false
	}

	tag, err := pyjamaz.FormatTagFromByte(rec.Format)
	if err != nil {
		delete(c.entries, hexKey)
		return nil, false
	}

	rec.LastAccessNS = time.Now().UnixNano()
	c.entries[hexKey] = rec
	_ = c.persistIndexLocked()

	return &Entry{
		Key:        key,
		Format:     tag,
		Data:       data,
		Diff:       rec.Diff,
		LastAccess: time.Unix(0, rec.LastAccessNS),
	}, true
}

// Put stores data under key, evicting LRU entries first if the total
// size would otherwise exceed maxSize. Eviction is bounded to
// MaxEvictionsPerPut entries; if the cache is still over budget after
// that many evictions, the put proceeds anyway and the overage
// persists until the next Put.
func (c *Cache) Put(key Key, format pyjamaz.FormatTag, data []byte, diff float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	hexKey := key.String()
	if err := writeAtomic(c.entryPath(hexKey), data); err != nil {
		return pyjamaz.WrapError(pyjamaz.KindCache, "write cache entry", err)
	}

	c.entries[hexKey] = entryRecord{
		Key:          hexKey,
		Format:       format.Byte(),
		Size:         int64(len(data)),
		Diff:         diff,
		LastAccessNS: time.Now().UnixNano(),
	}

	c.evictLocked()
	return c.persistIndexLocked()
}

// Clear removes every entry. Idempotent: clearing an already-empty
// cache succeeds.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for hexKey := range c.entries {
		_ = os.Remove(c.entryPath(hexKey))
	}
	c.entries = make(map[string]entryRecord)
	return c.persistIndexLocked()
}

func (c *Cache) entryPath(hexKey string) string {
	return filepath.Join(c.dir, hexKey)
}

func (c *Cache) totalSizeLocked() int64 {
	var total int64
	for _, r := range c.entries {
		total += r.Size
	}
	return total
}

// evictLocked removes entries in strict LRU order (smallest
// LastAccessNS first) until the cache is under maxSize or
// MaxEvictionsPerPut entries have been removed, whichever comes
// first. Ties on LastAccessNS (plausible: multiple Puts can land in
// the same nanosecond) break on the lexicographic order of the hex
// cache key, so eviction order never depends on Go's randomized map
// iteration.
func (c *Cache) evictLocked() {
	if c.totalSizeLocked() <= c.maxSize {
		return
	}

	ordered := make([]entryRecord, 0, len(c.entries))
	for _, r := range c.entries {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].LastAccessNS != ordered[j].LastAccessNS {
			return ordered[i].LastAccessNS < ordered[j].LastAccessNS
		}
		return ordered[i].Key < ordered[j].Key
	})

	evicted := 0
	for _, r := range ordered {
		if c.totalSizeLocked() <= c.maxSize || evicted >= MaxEvictionsPerPut {
			break
		}
		delete(c.entries, r.Key)
		_ = os.Remove(c.entryPath(r.Key))
		evicted++
	}

	if c.totalSizeLocked() > c.maxSize {
		elog.L.Warn().Int64("size", c.totalSizeLocked()).Int64("max_size", c.maxSize).Int("evicted", evicted).
			Msg("cache still over budget after eviction cap")
	}
}

func (c *Cache) persistIndexLocked() error {
	records := make([]entryRecord, 0, len(c.entries))
	for _, r := range c.entries {
		records = append(records, r)
	}
	if err := saveIndex(c.indexPath, records); err != nil {
		return pyjamaz.WrapError(pyjamaz.KindCache, "persist cache index", err)
	}
	return nil
}
