package pyjamaz

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: byte(x), G: byte(y), B: 0x20, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormatPNG(t *testing.T) {
	data := encodePNG(t, 4, 4)
	tag, err := DetectFormat(data)
	if err != nil {
		t.Fatalf("DetectFormat: %v", err)
	}
	if tag != PNG {
		t.Fatalf("expected PNG, got %v", tag)
	}
}

func TestDetectFormatUnrecognized(t *testing.T) {
	if _, err := DetectFormat([]byte("garbage")); !IsKind(err, KindDecode) {
		t.Fatalf("expected a KindDecode error, got %v", err)
	}
}

func TestDecodeProducesValidBuffer(t *testing.T) {
	data := encodePNG(t, 10, 8)
	pb, tag, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tag != PNG {
		t.Fatalf("expected PNG, got %v", tag)
	}
	if pb.Width != 10 || pb.Height != 8 {
		t.Fatalf("unexpected dimensions %dx%d", pb.Width, pb.Height)
	}
	if err := pb.Validate(); err != nil {
		t.Fatalf("decoded buffer failed validation: %v", err)
	}
}
