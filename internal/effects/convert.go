package effects

import "github.com/shamspias/pyjamaz"

// ApplyOrientation applies an EXIF orientation to a PixelBuffer,
// producing a correctly-oriented buffer equivalent to orientation 1.
// A no-op for OrientNormal, since the decoder already hands back
// upright pixels in the common case.
func ApplyOrientation(img *pyjamaz.PixelBuffer, orient Orientation) *pyjamaz.PixelBuffer {
	switch orient {
	case OrientNormal, 0:
		return img
	case OrientFlipH:
		return flipHorizontal(img)
	case OrientRotate180:
		return rotate180(img)
	case OrientFlipV:
		return flipVertical(img)
	case OrientTranspose:
		return rotate270CW(flipHorizontal(img))
	case OrientRotate90CW:
		return rotate90CW(img)
	case OrientTransverse:
		return rotate90CW(flipHorizontal(img))
	case OrientRotate270CW:
		return rotate270CW(img)
	default:
		return img
	}
}

func rotate90CW(img *pyjamaz.PixelBuffer) *pyjamaz.PixelBuffer {
	dst, _ := pyjamaz.NewPixelBuffer(img.Height, img.Width, img.Channels)
	ch := img.Channels
	ParallelDo(0, img.Height, func(y int) {
		for x := 0; x < img.Width; x++ {
			srcOff := y*img.Stride + x*ch
			dstX := img.Height - 1 - y
			dstY := x
			dstOff := dstY*dst.Stride + dstX*ch
			copy(dst.Pix[dstOff:dstOff+ch], img.Pix[srcOff:srcOff+ch])
		}
	})
	return dst
}

func rotate270CW(img *pyjamaz.PixelBuffer) *pyjamaz.PixelBuffer {
	dst, _ := pyjamaz.NewPixelBuffer(img.Height, img.Width, img.Channels)
	ch := img.Channels
	ParallelDo(0, img.Height, func(y int) {
		for x := 0; x < img.Width; x++ {
			srcOff := y*img.Stride + x*ch
			dstX := y
			dstY := img.Width - 1 - x
			dstOff := dstY*dst.Stride + dstX*ch
			copy(dst.Pix[dstOff:dstOff+ch], img.Pix[srcOff:srcOff+ch])
		}
	})
	return dst
}

func rotate180(img *pyjamaz.PixelBuffer) *pyjamaz.PixelBuffer {
	dst, _ := pyjamaz.NewPixelBuffer(img.Width, img.Height, img.Channels)
	ch := img.Channels
	ParallelDo(0, img.Height, func(y int) {
		for x := 0; x < img.Width; x++ {
			srcOff := y*img.Stride + x*ch
			dstX := img.Width - 1 - x
			dstY := img.Height - 1 - y
			dstOff := dstY*dst.Stride + dstX*ch
			copy(dst.Pix[dstOff:dstOff+ch], img.Pix[srcOff:srcOff+ch])
		}
	})
	return dst
}

func flipHorizontal(img *pyjamaz.PixelBuffer) *pyjamaz.PixelBuffer {
	dst, _ := pyjamaz.NewPixelBuffer(img.Width, img.Height, img.Channels)
	ch := img.Channels
	ParallelDo(0, img.Height, func(y int) {
		rowOff := y * img.Stride
		for x := 0; x < img.Width; x++ {
			srcOff := rowOff + x*ch
			dstOff := rowOff + (img.Width-1-x)*ch
			copy(dst.Pix[dstOff:dstOff+ch], img.Pix[srcOff:srcOff+ch])
		}
	})
	return dst
}

func flipVertical(img *pyjamaz.PixelBuffer) *pyjamaz.PixelBuffer {
	dst, _ := pyjamaz.NewPixelBuffer(img.Width, img.Height, img.Channels)
	ParallelDo(0, img.Height, func(y int) {
		srcOff := y * img.Stride
		dstOff := (img.Height - 1 - y) * dst.Stride
		copy(dst.Pix[dstOff:dstOff+img.Stride], img.Pix[srcOff:srcOff+img.Stride])
	})
	return dst
}
