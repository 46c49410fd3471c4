package codec

import (
	"bytes"
	"image"

	"github.com/gen2brain/avif"
	"github.com/shamspias/pyjamaz"
)

// AVIFOptions exposes AVIF's speed/quality trade-off beyond the shared
// Quality field.
type AVIFOptions struct {
	BaseOptions
	Speed int // 1 (slowest, smallest) to 10 (fastest); 0 selects speed 6
}

func (o AVIFOptions) Validate() error { return nil }

type avifCodec struct{}

// AVIFCodec wraps gen2brain/avif, a wazero/WASM binding over libavif.
var AVIFCodec Codec = avifCodec{}

func (avifCodec) Format() pyjamaz.FormatTag { return pyjamaz.AVIF }
func (avifCodec) Name() string              { return "avif" }
func (avifCodec) SupportsAlpha() bool       { return true }

func (avifCodec) Sniff(data []byte) bool {
	return len(data) >= 12 && string(data[4:8]) == "ftyp" &&
		(string(data[8:12]) == "avif" || string(data[8:12]) == "avis")
}

func (avifCodec) Encode(params EncodeParams) ([]byte, error) {
	if params.Quality < 1 || params.Quality > 100 {
		return nil, ErrInvalidQuality
	}

	speed := 6
	if ao, ok := params.Options.(AVIFOptions); ok && ao.Speed > 0 {
		speed = ao.Speed
	}

	opts := avif.Options{
		Quality:           params.Quality,
		QualityAlpha:      params.Quality,
		Speed:             speed,
		ChromaSubsampling: image.YCbCrSubsampleRatio444,
	}

	var buf bytes.Buffer
	if err := avif.Encode(&buf, params.Image.ToNRGBA(), opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (avifCodec) Decode(data []byte) (*pyjamaz.PixelBuffer, error) {
	img, err := avif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return pyjamaz.FromImage(img)
}
