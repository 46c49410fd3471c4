package cache

import (
	"path/filepath"
	"testing"

	"github.com/shamspias/pyjamaz"
)

func TestDeriveKeyIsDeterministic(t *testing.T) {
	formats := []pyjamaz.FormatTag{pyjamaz.WebP, pyjamaz.AVIF}
	k1 := DeriveKey([]byte("hello"), 1000, 0.01, pyjamaz.DSSIM, formats)
	k2 := DeriveKey([]byte("hello"), 1000, 0.01, pyjamaz.DSSIM, formats)
	if k1 != k2 {
		t.Fatalf("DeriveKey must be deterministic for identical inputs")
	}
	k3 := DeriveKey([]byte("hello"), 1001, 0.01, pyjamaz.DSSIM, formats)
	if k1 == k3 {
		t.Fatalf("DeriveKey must vary with max_bytes")
	}
}

func TestKeyStringIsLowercaseHex(t *testing.T) {
	k := DeriveKey([]byte("x"), 0, 0, pyjamaz.DSSIM, []pyjamaz.FormatTag{pyjamaz.JPEG})
	s := k.String()
	if len(s) != 64 {
		t.Fatalf("expected a 64-char hex string, got %d chars", len(s))
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			t.Fatalf("unexpected character %q in hex key", r)
		}
	}
}

func TestPutLookupRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	key := DeriveKey([]byte("input"), 100, 0.01, pyjamaz.DSSIM, []pyjamaz.FormatTag{pyjamaz.WebP})
	data := []byte{0x52, 0x49, 0x46, 0x46} // RIFF...
	if err := c.Put(key, pyjamaz.WebP, data, 0.005); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok := c.Lookup(key)
	if !ok {
		t.Fatalf("expected a hit after Put")
	}
	if entry.Format != pyjamaz.WebP || string(entry.Data) != string(data) || entry.Diff != 0.005 {
		t.Fatalf("entry mismatch: %+v", entry)
	}

	reopened, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok := reopened.Lookup(key); !ok {
		t.Fatalf("expected the index to survive a reopen")
	}
}

func TestLookupMissReturnsFalse(t *testing.T) {
	c, err := Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var missing Key
	if _, ok := c.Lookup(missing); ok {
		t.Fatalf("expected a miss on an empty cache")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	c, err := Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear on empty cache: %v", err)
	}

	key := DeriveKey([]byte("a"), 0, 0, pyjamaz.NoMetric, []pyjamaz.FormatTag{pyjamaz.PNG})
	_ = c.Put(key, pyjamaz.PNG, []byte{1, 2, 3}, 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear after Put: %v", err)
	}
	if _, ok := c.Lookup(key); ok {
		t.Fatalf("expected a miss after Clear")
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("second Clear must also succeed: %v", err)
	}
}

func TestPutEvictsUnderSizePressure(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, 10) // tiny budget forces eviction
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	k1 := DeriveKey([]byte("1"), 0, 0, pyjamaz.NoMetric, []pyjamaz.FormatTag{pyjamaz.PNG})
	k2 := DeriveKey([]byte("2"), 0, 0, pyjamaz.NoMetric, []pyjamaz.FormatTag{pyjamaz.PNG})

	if err := c.Put(k1, pyjamaz.PNG, make([]byte, 8), 0); err != nil {
		t.Fatalf("Put k1: %v", err)
	}
	if err := c.Put(k2, pyjamaz.PNG, make([]byte, 8), 0); err != nil {
		t.Fatalf("Put k2: %v", err)
	}

	if _, ok := c.Lookup(k1); ok {
		t.Fatalf("expected k1 to be evicted in favor of the more recently put k2")
	}
	if _, ok := c.Lookup(k2); !ok {
		t.Fatalf("expected k2 to survive eviction")
	}
}

func TestLoadIndexRejectsMalformedEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	_ = saveIndex(path, []entryRecord{
		{Key: "short", Format: 0, Size: 1, LastAccessNS: 1},
		{Key: "0000000000000000000000000000000000000000000000000000000000000a", Format: 9, Size: 1, LastAccessNS: 1},
	})
	records := loadIndex(path)
	if len(records) != 0 {
		t.Fatalf("expected both malformed entries to be skipped, got %d", len(records))
	}
}
