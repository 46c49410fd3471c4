package search

import (
	"bytes"
	"testing"

	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/codec"
)

// fakeCodec encodes quality as a single repeated byte, so byte size is
// exactly proportional to quality and the binary search's convergence
// can be checked without a real image codec.
type fakeCodec struct {
	tag      pyjamaz.FormatTag
	fixedLen bool
	oversize bool
}

func (f fakeCodec) Encode(params codec.EncodeParams) ([]byte, error) {
	n := params.Quality
	if f.fixedLen {
		n = 1
	}
	if f.oversize {
		n = 1000
	}
	return bytes.Repeat([]byte{byte(params.Quality)}, n), nil
}
func (f fakeCodec) Decode(data []byte) (*pyjamaz.PixelBuffer, error) { return nil, nil }
func (f fakeCodec) Format() pyjamaz.FormatTag                        { return f.tag }
func (f fakeCodec) Name() string                                    { return f.tag.String() }
func (f fakeCodec) Sniff(data []byte) bool                          { return false }
func (f fakeCodec) SupportsAlpha() bool                              { return true }

func TestRunConvergesUnderBudget(t *testing.T) {
	c := fakeCodec{tag: pyjamaz.JPEG}
	result, err := Run(c, nil, codec.BaseOptions{}, 50)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Data) > 50 {
		t.Fatalf("result exceeds budget: %d bytes", len(result.Data))
	}
	if result.OverBudget {
		t.Fatalf("expected a fit under budget")
	}
	if result.Iterations > MaxIterations {
		t.Fatalf("iterations %d exceeds MaxIterations %d", result.Iterations, MaxIterations)
	}
	// The highest quality whose size (== quality) fits 50 is 50 itself.
	if result.Quality != 50 {
		t.Fatalf("expected quality 50, got %d", result.Quality)
	}
}

func TestRunOverBudgetReturnsSmallest(t *testing.T) {
	c := fakeCodec{tag: pyjamaz.JPEG, oversize: true}
	result, err := Run(c, nil, codec.BaseOptions{}, 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.OverBudget {
		t.Fatalf("expected OverBudget since every encode exceeds the 10-byte budget")
	}
	if len(result.Data) != 1000 {
		t.Fatalf("expected the smallest-seen (still oversize) encode, got %d bytes", len(result.Data))
	}
}

func TestRunUnboundedUsesDefaultQuality(t *testing.T) {
	c := fakeCodec{tag: pyjamaz.WebP}
	result, err := Run(c, nil, codec.BaseOptions{}, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Quality != DefaultQuality(pyjamaz.WebP) {
		t.Fatalf("expected default quality %d, got %d", DefaultQuality(pyjamaz.WebP), result.Quality)
	}
	if result.Iterations != 1 {
		t.Fatalf("expected exactly one encode, got %d iterations", result.Iterations)
	}
}

func TestRunPNGIsSinglePoint(t *testing.T) {
	c := fakeCodec{tag: pyjamaz.PNG, fixedLen: true}
	result, err := Run(c, nil, codec.BaseOptions{}, 100)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Iterations != 1 {
		t.Fatalf("PNG must be single-point, got %d iterations", result.Iterations)
	}
	if result.Quality != 100 {
		t.Fatalf("PNG quality must be 100, got %d", result.Quality)
	}
}

func TestRunNeverExceedsIterationCeiling(t *testing.T) {
	c := fakeCodec{tag: pyjamaz.AVIF}
	result, err := Run(c, nil, codec.BaseOptions{}, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Iterations > MaxIterations {
		t.Fatalf("iterations %d exceeds ceiling %d", result.Iterations, MaxIterations)
	}
}
