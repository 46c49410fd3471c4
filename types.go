// Package pyjamaz provides a budget-and-quality-aware image optimizer.
//
// Given one or more input images and a pair of constraints — an upper
// bound on output byte size and an upper bound on perceptual difference
// from the input — it produces the smallest possible output that
// satisfies both constraints, choosing between several codecs (JPEG,
// PNG, WebP, AVIF).
//
// pyjamaz — wear something light to bed. Smaller pictures, same dreams.
//
// The root package holds the shared data model (PixelBuffer, FormatTag,
// error kinds) used by every sub-package. The optimization pipeline
// itself lives in the engine, codec, metric, candidate, search, and
// cache sub-packages; the root package re-exports nothing beyond these
// shared types so that codec/metric/cache implementations can depend on
// it without a cycle.
package pyjamaz

import "fmt"

// FormatTag discriminates the codec families the engine knows about.
// The set is closed and compile-time known — new formats require a new
// FormatTag constant plus a matching codec.Codec registration.
type FormatTag int

const (
	JPEG FormatTag = iota
	PNG
	WebP
	AVIF
)

// String returns the human-readable codec name.
func (f FormatTag) String() string {
	switch f {
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	case WebP:
		return "WebP"
	case AVIF:
		return "AVIF"
	default:
		return "Unknown"
	}
}

// Extension returns the conventional file extension for the format,
// without a leading dot, as used by the CLI's default output filename.
// Cache entry files do not carry it; they are named by the bare hex key.
func (f FormatTag) Extension() string {
	switch f {
	case JPEG:
		return "jpg"
	case PNG:
		return "png"
	case WebP:
		return "webp"
	case AVIF:
		return "avif"
	default:
		return "bin"
	}
}

// Byte returns the wire encoding used by the C ABI and the cache key
// bitmask (format 0=JPEG, 1=PNG, 2=WebP, 3=AVIF).
func (f FormatTag) Byte() byte { return byte(f) }

// FormatTagFromByte decodes a FormatTag from its ABI wire value.
func FormatTagFromByte(b byte) (FormatTag, error) {
	switch b {
	case 0:
		return JPEG, nil
	case 1:
		return PNG, nil
	case 2:
		return WebP, nil
	case 3:
		return AVIF, nil
	default:
		return 0, NewError(KindInvalidArgument, fmt.Sprintf("unknown format tag %d", b))
	}
}

// Metric discriminates the perceptual-difference algorithms.
type Metric int

const (
	DSSIM Metric = iota
	SSIMULACRA2
	NoMetric
)

// Byte returns the wire encoding used by the C ABI (0=DSSIM,
// 1=SSIMULACRA2, 2=none).
func (m Metric) Byte() byte { return byte(m) }

// MetricFromByte decodes a Metric from its ABI wire value.
func MetricFromByte(b byte) (Metric, error) {
	switch b {
	case 0:
		return DSSIM, nil
	case 1:
		return SSIMULACRA2, nil
	case 2:
		return NoMetric, nil
	default:
		return 0, NewError(KindInvalidArgument, fmt.Sprintf("unknown metric tag %d", b))
	}
}

func (m Metric) String() string {
	switch m {
	case DSSIM:
		return "DSSIM"
	case SSIMULACRA2:
		return "SSIMULACRA2"
	case NoMetric:
		return "none"
	default:
		return "unknown"
	}
}
