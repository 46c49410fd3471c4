package codec

import (
	"bytes"

	"github.com/deepteams/webp"
	"github.com/shamspias/pyjamaz"
)

// WebPOptions exposes the encoder knobs worth varying beyond quality;
// zero values fall back to the library's own defaults.
type WebPOptions struct {
	BaseOptions
	Method      int // 1-6, encoder effort; 6 is smallest; 0 keeps the library default
	UseSharpYUV bool
}

func (o WebPOptions) Validate() error { return nil }

type webpCodec struct{}

// WebPCodec wraps the pure-Go WebP encoder/decoder.
var WebPCodec Codec = webpCodec{}

func (webpCodec) Format() pyjamaz.FormatTag { return pyjamaz.WebP }
func (webpCodec) Name() string              { return "webp" }
func (webpCodec) SupportsAlpha() bool       { return true }

func (webpCodec) Sniff(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

func (webpCodec) Encode(params EncodeParams) ([]byte, error) {
	if params.Quality < 1 || params.Quality > 100 {
		return nil, ErrInvalidQuality
	}

	opts := webp.DefaultOptions()
	opts.Quality = float32(params.Quality)
	if wo, ok := params.Options.(WebPOptions); ok {
		if wo.Method > 0 {
			opts.Method = wo.Method
		}
		opts.UseSharpYUV = wo.UseSharpYUV
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, params.Image.ToNRGBA(), opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (webpCodec) Decode(data []byte) (*pyjamaz.PixelBuffer, error) {
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return pyjamaz.FromImage(img)
}
