package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/shamspias/pyjamaz"
)

// JPEGOptions controls JPEG-specific encode knobs beyond quality.
type JPEGOptions struct {
	BaseOptions
}

type jpegCodec struct{}

// JPEGCodec is the registered JPEG implementation, a thin adapter over
// the standard library's image/jpeg — the teacher encodes JPEG the
// same way (encodeJPEG in compress.go), just against a fixed *image.NRGBA
// instead of the generic PixelBuffer.
var JPEGCodec Codec = jpegCodec{}

func (jpegCodec) Format() pyjamaz.FormatTag { return pyjamaz.JPEG }
func (jpegCodec) Name() string              { return "jpeg" }
func (jpegCodec) SupportsAlpha() bool       { return false }

func (jpegCodec) Sniff(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8
}

func (jpegCodec) Encode(params EncodeParams) ([]byte, error) {
	if params.Quality < 1 || params.Quality > 100 {
		return nil, ErrInvalidQuality
	}

	// JPEG has no alpha channel; flatten onto opaque white first, as
	// the engine's candidate generator does for every non-alpha codec,
	// but guard here too since jpegCodec may be called directly.
	src := params.Image
	var img image.Image
	if src.Channels == 4 {
		img = src.FlattenAlpha(whiteBackground).ToNRGBA()
	} else if src.IsOpaque() {
		nrgba := src.ToNRGBA()
		img = &image.RGBA{Pix: nrgba.Pix, Stride: nrgba.Stride, Rect: nrgba.Rect}
	} else {
		img = src.ToNRGBA()
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: params.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (jpegCodec) Decode(data []byte) (*pyjamaz.PixelBuffer, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return pyjamaz.FromImage(img)
}

var whiteBackground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
