package engine

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/cache"
	_ "github.com/shamspias/pyjamaz/codec"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: byte(x * 3), G: byte(y * 3), B: 0x55, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestOptimizeRejectsEmptyFormats(t *testing.T) {
	res := Optimize(Request{Bytes: []byte("x"), Formats: nil})
	if res.Err == nil {
		t.Fatalf("expected an error for an empty formats list")
	}
}

func TestOptimizeRejectsMissingInput(t *testing.T) {
	res := Optimize(Request{Formats: []pyjamaz.FormatTag{pyjamaz.PNG}})
	if res.Err == nil {
		t.Fatalf("expected an error when neither Path nor Bytes is set")
	}
}

func TestOptimizeUnboundedPNGSelectsOriginalOrSmaller(t *testing.T) {
	data := samplePNG(t, 20, 20)
	res := Optimize(Request{
		Bytes:   data,
		Formats: []pyjamaz.FormatTag{pyjamaz.PNG},
		Metric:  pyjamaz.NoMetric,
	})
	if res.Err != nil {
		t.Fatalf("Optimize: %v", res.Err)
	}
	if res.Selected == nil {
		t.Fatalf("expected a selection with no constraints")
	}
	if res.Selected.ByteSize() > len(data) {
		t.Fatalf("optimizer must never enlarge the input: got %d bytes from a %d byte input", res.Selected.ByteSize(), len(data))
	}
}

func TestOptimizeUsesCacheOnSecondCall(t *testing.T) {
	data := samplePNG(t, 16, 16)
	c, err := cache.Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}

	req := Request{
		Bytes:   data,
		Formats: []pyjamaz.FormatTag{pyjamaz.PNG},
		Metric:  pyjamaz.NoMetric,
		Cache:   c,
	}

	first := Optimize(req)
	if first.Err != nil {
		t.Fatalf("first Optimize: %v", first.Err)
	}
	if first.CacheHit {
		t.Fatalf("first call must be a cache miss")
	}

	second := Optimize(req)
	if second.Err != nil {
		t.Fatalf("second Optimize: %v", second.Err)
	}
	if !second.CacheHit {
		t.Fatalf("second identical call must be a cache hit")
	}
}

func TestOptimizeNoPassingCandidateIsNotAnError(t *testing.T) {
	data := samplePNG(t, 64, 64)
	res := Optimize(Request{
		Bytes:    data,
		Formats:  []pyjamaz.FormatTag{pyjamaz.PNG},
		Metric:   pyjamaz.NoMetric,
		MaxBytes: 1, // unreachable for any real PNG encode
	})
	if res.Err != nil {
		t.Fatalf("NoPassingCandidate must not be a hard error, got %v", res.Err)
	}
	if res.Selected != nil {
		t.Fatalf("expected no selection under an unreachable budget")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	Shutdown()
	Shutdown()
}
