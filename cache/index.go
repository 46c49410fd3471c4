package cache

import (
	"encoding/json"
	"os"

	"github.com/shamspias/pyjamaz"
)

// indexVersion lets a future on-disk layout change without breaking
// readers of an older index file: unknown versions are treated as
// empty rather than causing a hard failure.
const indexVersion = 1

// entryRecord is one cache entry's metadata, persisted alongside the
// index. Every field is bounds-checked on load per §4.7's "malformed
// metadata must cause that entry to be skipped, not panic" rule.
type entryRecord struct {
	Key          string `json:"key"`
	Format       byte   `json:"format"`
	Size         int64  `json:"size"`
	Diff         float64 `json:"diff"`
	LastAccessNS int64  `json:"last_access_ns"`
}

func (r entryRecord) valid() bool {
	if len(r.Key) != 64 { // 32 bytes hex-encoded
		return false
	}
	if _, err := pyjamaz.FormatTagFromByte(r.Format); err != nil {
		return false
	}
	if r.Size < 0 || r.LastAccessNS < 0 {
		return false
	}
	return true
}

type indexFile struct {
	Version int           `json:"version"`
	Entries []entryRecord `json:"entries"`
}

// loadIndex reads the sidecar index file at path. A missing file is
// not an error — it means an empty cache. A malformed file degrades
// to an empty index rather than failing the caller, per the cache's
// "never alters optimization correctness" invariant.
func loadIndex(path string) []entryRecord {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var idx indexFile
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil
	}
	if idx.Version != indexVersion {
		return nil
	}

	out := make([]entryRecord, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		if e.valid() {
			out = append(out, e)
		}
	}
	return out
}

// saveIndex writes entries to path via write-to-temp-then-rename so a
// crash mid-write never leaves a half-written index behind.
func saveIndex(path string, entries []entryRecord) error {
	idx := indexFile{Version: indexVersion, Entries: entries}
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
