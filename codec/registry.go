package codec

import (
	"sync"

	"github.com/shamspias/pyjamaz"
)

// Registry maps FormatTags to their Codec implementation. Reads and
// writes are both expected at steady state (registration happens once
// at startup, lookups happen on every candidate-generation call), so a
// RWMutex keeps concurrent lookups cheap.
type Registry struct {
	mu     sync.RWMutex
	byTag  map[pyjamaz.FormatTag]Codec
	byName map[string]Codec
}

var defaultRegistry = &Registry{
	byTag:  make(map[pyjamaz.FormatTag]Codec),
	byName: make(map[string]Codec),
}

// Register adds c to the default registry, keyed by both its
// FormatTag and its name.
func Register(c Codec) { defaultRegistry.Register(c) }

// Get retrieves the codec registered for tag.
func Get(tag pyjamaz.FormatTag) (Codec, error) { return defaultRegistry.Get(tag) }

// GetByName retrieves the codec registered under name.
func GetByName(name string) (Codec, error) { return defaultRegistry.GetByName(name) }

// All returns every registered codec in FormatTag order (JPEG, PNG,
// WebP, AVIF), so callers that iterate "every format" get a
// deterministic, reproducible order — required for deterministic
// candidate generation and tie-breaking.
func All() []Codec { return defaultRegistry.All() }

// SniffFormat returns the codec whose magic bytes match data, or
// ErrUnsupportedFormat if none do.
func SniffFormat(data []byte) (Codec, error) { return defaultRegistry.SniffFormat(data) }

func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTag[c.Format()] = c
	r.byName[c.Name()] = c
}

func (r *Registry) Get(tag pyjamaz.FormatTag) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byTag[tag]
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	return c, nil
}

func (r *Registry) GetByName(name string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	return c, nil
}

func (r *Registry) All() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Codec, 0, len(r.byTag))
	for tag := pyjamaz.JPEG; tag <= pyjamaz.AVIF; tag++ {
		if c, ok := r.byTag[tag]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) SniffFormat(data []byte) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for tag := pyjamaz.JPEG; tag <= pyjamaz.AVIF; tag++ {
		if c, ok := r.byTag[tag]; ok && c.Sniff(data) {
			return c, nil
		}
	}
	return nil, ErrUnsupportedFormat
}
