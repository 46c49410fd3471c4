package pyjamaz

import (
	"image"
	"image/color"
)

// ToNRGBA adapts a PixelBuffer to the standard library's image.Image
// interface — codecs hand this directly to image/jpeg, image/png, and
// the WebP/AVIF encoders, all of which only read through the
// image.Image interface during Encode.
//
// For 4-channel buffers it aliases Pix directly, without copying. For
// 3-channel buffers it allocates a new *image.NRGBA and copies the
// pixels into it with a synthesized fully-opaque alpha channel, since
// Go's image package has no native 3-channel RGB type.
func (p *PixelBuffer) ToNRGBA() *image.NRGBA {
	if p.Channels == 4 {
		return &image.NRGBA{
			Pix:    p.Pix,
			Stride: p.Stride,
			Rect:   image.Rect(0, 0, p.Width, p.Height),
		}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		srcOff := y * p.Stride
		dstOff := y * dst.Stride
		for x := 0; x < p.Width; x++ {
			si := srcOff + x*3
			di := dstOff + x*4
			dst.Pix[di] = p.Pix[si]
			dst.Pix[di+1] = p.Pix[si+1]
			dst.Pix[di+2] = p.Pix[si+2]
			dst.Pix[di+3] = 0xff
		}
	}
	return dst
}

// FromImage converts an arbitrary decoded image.Image into a PixelBuffer,
// choosing 4 channels iff the source has non-opaque alpha anywhere, else
// 3, per spec §4.1's "Channel count is 4 iff the source has non-opaque
// alpha; else 3." Premultiplied-alpha sources are un-premultiplied,
// mirroring fennec's convertToNRGBA.
func FromImage(img image.Image) (*PixelBuffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if err := validateDimensions(w, h); err != nil {
		return nil, err
	}

	// First pass into a working NRGBA buffer, un-premultiplying alpha.
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	hasAlpha := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			off := (y-bounds.Min.Y)*nrgba.Stride + (x-bounds.Min.X)*4
			switch {
			case a == 0:
				nrgba.Pix[off], nrgba.Pix[off+1], nrgba.Pix[off+2], nrgba.Pix[off+3] = 0, 0, 0, 0
				hasAlpha = true
			case a == 0xffff:
				nrgba.Pix[off] = uint8(r >> 8)
				nrgba.Pix[off+1] = uint8(g >> 8)
				nrgba.Pix[off+2] = uint8(b >> 8)
				nrgba.Pix[off+3] = 0xff
			default:
				nrgba.Pix[off] = uint8(((r * 0xffff) / a) >> 8)
				nrgba.Pix[off+1] = uint8(((g * 0xffff) / a) >> 8)
				nrgba.Pix[off+2] = uint8(((b * 0xffff) / a) >> 8)
				nrgba.Pix[off+3] = uint8(a >> 8)
				hasAlpha = true
			}
		}
	}

	if hasAlpha {
		return &PixelBuffer{Width: w, Height: h, Channels: 4, Stride: nrgba.Stride, Pix: nrgba.Pix}, nil
	}

	pb, err := NewPixelBuffer(w, h, 3)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		srcOff := y * nrgba.Stride
		dstOff := y * pb.Stride
		for x := 0; x < w; x++ {
			si := srcOff + x*4
			di := dstOff + x*3
			pb.Pix[di] = nrgba.Pix[si]
			pb.Pix[di+1] = nrgba.Pix[si+1]
			pb.Pix[di+2] = nrgba.Pix[si+2]
		}
	}
	return pb, nil
}

// FlattenAlpha composites a 4-channel buffer onto a solid background
// color and returns a new 3-channel buffer, per spec §4.2's "For JPEG
// with a 4-channel buffer: composites onto the configured flatten
// color." A no-op (returns p unchanged) when p is already 3-channel.
func (p *PixelBuffer) FlattenAlpha(bg color.NRGBA) *PixelBuffer {
	if p.Channels == 3 {
		return p
	}
	dst, _ := NewPixelBuffer(p.Width, p.Height, 3)
	for y := 0; y < p.Height; y++ {
		srcOff := y * p.Stride
		dstOff := y * dst.Stride
		for x := 0; x < p.Width; x++ {
			si := srcOff + x*4
			di := dstOff + x*3
			a := float64(p.Pix[si+3]) / 255.0
			dst.Pix[di] = blendChannel(p.Pix[si], bg.R, a)
			dst.Pix[di+1] = blendChannel(p.Pix[si+1], bg.G, a)
			dst.Pix[di+2] = blendChannel(p.Pix[si+2], bg.B, a)
		}
	}
	return dst
}

func blendChannel(fg, bg byte, alpha float64) byte {
	v := float64(fg)*alpha + float64(bg)*(1-alpha)
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return byte(v + 0.5)
}
