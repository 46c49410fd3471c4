package pyjamaz

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shamspias/pyjamaz/codec"
	"github.com/shamspias/pyjamaz/internal/effects"
)

// DetectFormat identifies a FormatTag from magic bytes, trying each
// registered codec's Sniff in FormatTag order (JPEG, PNG, WebP, AVIF)
// so detection is deterministic when a malformed buffer happens to
// satisfy more than one sniff.
func DetectFormat(data []byte) (FormatTag, error) {
	c, err := codec.SniffFormat(data)
	if err != nil {
		return 0, WrapError(KindDecode, "unrecognized image format", err)
	}
	return c.Format(), nil
}

// Decode turns a byte buffer into a canonical PixelBuffer and its
// source FormatTag: 8-bit sRGB, EXIF orientation baked into the
// pixels, 4 channels iff the source carries non-opaque alpha.
func Decode(data []byte) (*PixelBuffer, FormatTag, error) {
	tag, err := DetectFormat(data)
	if err != nil {
		return nil, 0, err
	}

	c, err := codec.Get(tag)
	if err != nil {
		return nil, 0, WrapError(KindDecode, "no codec registered for detected format", err)
	}

	pb, err := c.Decode(data)
	if err != nil {
		return nil, 0, WrapError(KindDecode, fmt.Sprintf("%s decode failed", tag), err)
	}

	if tag == JPEG {
		orient := effects.ReadOrientation(bytes.NewReader(data))
		if orient != effects.OrientNormal {
			pb = effects.ApplyOrientation(pb, orient)
		}
	}

	if err := pb.Validate(); err != nil {
		return nil, 0, err
	}
	return pb, tag, nil
}

// DecodeFile reads and decodes the image at path. Source resolution
// (path vs. in-memory bytes) is the only difference from Decode; once
// bytes are in hand the two paths are identical.
func DecodeFile(path string) (*PixelBuffer, FormatTag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, WrapError(KindDecode, fmt.Sprintf("read %q", path), err)
	}
	return Decode(data)
}
