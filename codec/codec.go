// Package codec defines the common interface every image codec
// (JPEG, PNG, WebP, AVIF) implements, plus a name-keyed registry so
// the engine can iterate "every registered format" without a switch
// statement. The interface shape and registry pattern are grounded on
// a DICOM transfer-syntax codec registry; the domain is repointed from
// DICOM transfer syntaxes to web image formats.
package codec

import "github.com/shamspias/pyjamaz"

// EncodeParams carries everything a codec needs to produce one
// candidate at one quality setting.
type EncodeParams struct {
	Image   *pyjamaz.PixelBuffer
	Quality int // 1-100, meaning is codec-specific (JPEG quality, WebP quality, AVIF CQ-ish quality)
	Options Options
}

// Options is implemented by codec-specific option structs so each
// codec can accept extra knobs (e.g. WebP method, AVIF speed) without
// widening the shared interface.
type Options interface {
	Validate() error
}

// Codec is the interface every format implementation satisfies.
// Decode is part of the interface (not just Encode) so the engine's
// decode step can dispatch through the same registry used for
// candidate generation, keeping format knowledge in exactly one place.
type Codec interface {
	// Encode compresses params.Image at params.Quality, returning the
	// encoded bytes.
	Encode(params EncodeParams) ([]byte, error)

	// Decode parses encoded bytes back into a PixelBuffer.
	Decode(data []byte) (*pyjamaz.PixelBuffer, error)

	// Format identifies which FormatTag this codec implements.
	Format() pyjamaz.FormatTag

	// Name returns a human-readable codec name.
	Name() string

	// Sniff reports whether data's magic bytes identify this codec's
	// format, used by format detection during decode.
	Sniff(data []byte) bool

	// SupportsAlpha reports whether the format can carry an alpha
	// channel; the candidate generator skips the flatten step for
	// codecs that answer true.
	SupportsAlpha() bool
}

// BaseOptions is embedded by codec-specific Options implementations
// that have nothing beyond quality to validate.
type BaseOptions struct{}

// Validate always succeeds for BaseOptions; codecs with real knobs
// override it with their own Options type.
func (BaseOptions) Validate() error { return nil }
