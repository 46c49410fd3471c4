package candidate

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/shamspias/pyjamaz"
	_ "github.com/shamspias/pyjamaz/codec"
)

func samplePixelBuffer(t *testing.T, w, h int) (*pyjamaz.PixelBuffer, []byte) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: byte(x * 5), G: byte(y * 5), B: 0x30, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	pb, err := pyjamaz.FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	return pb, buf.Bytes()
}

func TestGenerateIncludesOriginalAndRequestedFormats(t *testing.T) {
	pb, data := samplePixelBuffer(t, 24, 24)
	candidates, diagnostics := Generate(Request{
		Reference:      pb,
		OriginalData:   data,
		OriginalFormat: pyjamaz.PNG,
		Formats:        []pyjamaz.FormatTag{pyjamaz.PNG, pyjamaz.JPEG},
		MetricTag:      pyjamaz.DSSIM,
		Concurrency:    2,
	})
	if len(diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diagnostics)
	}
	// original + PNG + JPEG
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	sawOriginal := false
	for _, c := range candidates {
		if c.Original {
			sawOriginal = true
			if c.Diff != 0.0 {
				t.Fatalf("the original candidate must have diff 0.0, got %v", c.Diff)
			}
		}
	}
	if !sawOriginal {
		t.Fatalf("expected an original candidate to be present")
	}
}

func TestGenerateDiffsAreNonNegative(t *testing.T) {
	pb, data := samplePixelBuffer(t, 16, 16)
	candidates, _ := Generate(Request{
		Reference:      pb,
		OriginalData:   data,
		OriginalFormat: pyjamaz.PNG,
		Formats:        []pyjamaz.FormatTag{pyjamaz.JPEG},
		MetricTag:      pyjamaz.DSSIM,
	})
	for _, c := range candidates {
		if c.Err != nil {
			t.Fatalf("unexpected candidate error: %v", c.Err)
		}
		if c.Diff < 0 {
			t.Fatalf("diff must be non-negative, got %v for %v", c.Diff, c.Format)
		}
	}
}
