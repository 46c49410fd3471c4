package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/shamspias/pyjamaz"
)

// PNGOptions controls PNG-specific encode knobs. PNG is lossless, so
// "quality" doesn't apply: Encode ignores params.Quality and always
// tries the same reductions (palette, grayscale) before falling back
// to full RGBA.
type PNGOptions struct {
	BaseOptions
}

type pngCodec struct{}

// PNGCodec is the registered PNG implementation, grounded on the
// teacher's compressPNG: try palette, then grayscale, then full RGBA,
// always at png.BestCompression.
var PNGCodec Codec = pngCodec{}

func (pngCodec) Format() pyjamaz.FormatTag { return pyjamaz.PNG }
func (pngCodec) Name() string              { return "png" }
func (pngCodec) SupportsAlpha() bool       { return true }

func (pngCodec) Sniff(data []byte) bool {
	sig := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(data) >= len(sig) && bytes.Equal(data[:len(sig)], sig)
}

func (pngCodec) Encode(params EncodeParams) ([]byte, error) {
	nrgba := params.Image.ToNRGBA()
	encoder := png.Encoder{CompressionLevel: png.BestCompression}

	var buf bytes.Buffer
	if paletted := tryPalettize(nrgba, 256); paletted != nil {
		if err := encoder.Encode(&buf, paletted); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if params.Image.IsOpaque() && isGrayscale(nrgba) {
		if err := encoder.Encode(&buf, toGray(nrgba)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if err := encoder.Encode(&buf, nrgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pngCodec) Decode(data []byte) (*pyjamaz.PixelBuffer, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return pyjamaz.FromImage(img)
}

// tryPalettize converts img to an indexed palette if it has at most
// maxColors distinct colors, else returns nil.
func tryPalettize(img *image.NRGBA, maxColors int) *image.Paletted {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	colorCounts := make(map[[4]uint8]int)

	for y := 0; y < h; y++ {
		off := y * img.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			key := [4]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
			colorCounts[key]++
			if len(colorCounts) > maxColors {
				return nil
			}
		}
	}

	palette := make([]color.Color, 0, len(colorCounts))
	colorIndex := make(map[[4]uint8]uint8, len(colorCounts))
	for c := range colorCounts {
		idx := uint8(len(palette))
		colorIndex[c] = idx
		palette = append(palette, color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]})
	}

	paletted := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	for y := 0; y < h; y++ {
		srcOff := y * img.Stride
		dstOff := y * paletted.Stride
		for x := 0; x < w; x++ {
			i := srcOff + x*4
			key := [4]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
			paletted.Pix[dstOff+x] = colorIndex[key]
		}
	}
	return paletted
}

// isGrayscale reports whether every pixel has R==G==B.
func isGrayscale(img *image.NRGBA) bool {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 0; y < h; y++ {
		off := y * img.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			if img.Pix[i] != img.Pix[i+1] || img.Pix[i+1] != img.Pix[i+2] {
				return false
			}
		}
	}
	return true
}

// toGray converts img to an 8-bit grayscale image, preserving alpha by
// keeping the caller responsible for calling this only when alpha is
// fully opaque (checked upstream in Encode via IsOpaque).
func toGray(img *image.NRGBA) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcOff := y * img.Stride
		dstOff := y * gray.Stride
		for x := 0; x < w; x++ {
			gray.Pix[dstOff+x] = img.Pix[srcOff+x*4]
		}
	}
	return gray
}
