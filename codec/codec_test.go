package codec

import (
	"testing"

	"github.com/shamspias/pyjamaz"
)

func solidImage(t *testing.T, w, h, channels int) *pyjamaz.PixelBuffer {
	t.Helper()
	pb, err := pyjamaz.NewPixelBuffer(w, h, channels)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*pb.Stride + x*channels
			pb.Pix[off] = byte(x * 7)
			pb.Pix[off+1] = byte(y * 7)
			pb.Pix[off+2] = 0x80
			if channels == 4 {
				pb.Pix[off+3] = 0xff
			}
		}
	}
	return pb
}

func TestPNGRoundTrip(t *testing.T) {
	img := solidImage(t, 16, 12, 3)
	data, err := PNGCodec.Encode(EncodeParams{Image: img, Quality: 100, Options: PNGOptions{}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !PNGCodec.Sniff(data) {
		t.Fatalf("encoded PNG bytes must sniff as PNG")
	}
	decoded, err := PNGCodec.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Width != img.Width || decoded.Height != img.Height {
		t.Fatalf("dimension mismatch after round trip: got %dx%d want %dx%d",
			decoded.Width, decoded.Height, img.Width, img.Height)
	}
}

func TestJPEGSniff(t *testing.T) {
	if !JPEGCodec.Sniff([]byte{0xFF, 0xD8, 0xFF, 0xE0}) {
		t.Fatalf("expected JPEG magic bytes to sniff as JPEG")
	}
	if JPEGCodec.Sniff([]byte{0x00, 0x00}) {
		t.Fatalf("non-JPEG bytes must not sniff as JPEG")
	}
}

func TestJPEGFlattensAlpha(t *testing.T) {
	img := solidImage(t, 8, 8, 4)
	img.Pix[3] = 0x00 // transparent corner pixel

	data, err := JPEGCodec.Encode(EncodeParams{Image: img, Quality: 90, Options: JPEGOptions{}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty encoded output")
	}
	if !JPEGCodec.Sniff(data) {
		t.Fatalf("encoded bytes must sniff as JPEG")
	}
}

func TestSniffFormatDispatchesByMagic(t *testing.T) {
	png := mustEncodePNG(t)
	c, err := SniffFormat(png)
	if err != nil {
		t.Fatalf("SniffFormat: %v", err)
	}
	if c.Format() != pyjamaz.PNG {
		t.Fatalf("expected PNG, got %v", c.Format())
	}
}

func TestSniffFormatUnrecognized(t *testing.T) {
	if _, err := SniffFormat([]byte("not an image")); err != ErrUnsupportedFormat {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRegistryAllIsInFormatTagOrder(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Format() > all[i].Format() {
			t.Fatalf("All() must be sorted by FormatTag, got %v before %v", all[i-1].Format(), all[i].Format())
		}
	}
}

func mustEncodePNG(t *testing.T) []byte {
	t.Helper()
	img := solidImage(t, 4, 4, 3)
	data, err := PNGCodec.Encode(EncodeParams{Image: img, Quality: 100, Options: PNGOptions{}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}
