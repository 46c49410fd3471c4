package cache

import (
	"encoding/binary"
	"math"

	"github.com/shamspias/pyjamaz"
	"github.com/zeebo/blake3"
)

// Key is a 256-bit content-addressed cache key.
type Key [32]byte

// DeriveKey hashes the ordered concatenation of inputBytes, maxBytes,
// maxDiff, the metric tag, and a format-tag-set bitmask, using
// BLAKE3. The encoding is fixed-width and big-endian throughout so the
// key is deterministic across runs and stable across process
// restarts, independent of host endianness.
func DeriveKey(inputBytes []byte, maxBytes int, maxDiff float64, metricTag pyjamaz.Metric, formats []pyjamaz.FormatTag) Key {
	h := blake3.New()
	h.Write(inputBytes)

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], uint32(maxBytes))
	h.Write(u32[:])

	var f64 [8]byte
	binary.BigEndian.PutUint64(f64[:], math.Float64bits(maxDiff))
	h.Write(f64[:])

	h.Write([]byte{metricTag.Byte()})
	h.Write([]byte{formatSetBitmask(formats)})

	var out Key
	copy(out[:], h.Sum(nil))
	return out
}

func formatSetBitmask(formats []pyjamaz.FormatTag) byte {
	var mask byte
	for _, f := range formats {
		mask |= 1 << uint(f.Byte())
	}
	return mask
}

// String returns the key's hex encoding, used as the cache entry's
// on-disk filename.
func (k Key) String() string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(k)*2)
	for i, b := range k {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return string(out)
}
