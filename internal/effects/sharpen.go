package effects

import (
	"math"

	"github.com/shamspias/pyjamaz"
)

// Sharpen applies uniform unsharp-mask sharpening, typically right
// after a downscale, to compensate for the softening resize
// introduces. strength is clamped to [0,1]; 0 is a no-op.
func Sharpen(img *pyjamaz.PixelBuffer, strength float64) *pyjamaz.PixelBuffer {
	if strength <= 0 {
		return img
	}
	if strength > 1 {
		strength = 1
	}
	if img.Width < 3 || img.Height < 3 {
		return img
	}

	blurred := gaussianBlur3x3(img)
	dst, _ := pyjamaz.NewPixelBuffer(img.Width, img.Height, img.Channels)
	amount := 1.0 + strength*1.5
	ch := img.Channels
	colorChannels := 3

	ParallelDo(0, img.Height, func(y int) {
		for x := 0; x < img.Width; x++ {
			srcOff := y*img.Stride + x*ch
			blurOff := y*blurred.Stride + x*ch
			dstOff := y*dst.Stride + x*ch

			for c := 0; c < colorChannels; c++ {
				orig := float64(img.Pix[srcOff+c])
				blur := float64(blurred.Pix[blurOff+c])
				dst.Pix[dstOff+c] = clampF(orig + amount*(orig-blur))
			}
			if ch == 4 {
				dst.Pix[dstOff+3] = img.Pix[srcOff+3]
			}
		}
	})

	return dst
}

// AdaptiveSharpen sharpens only near edges, scaling the unsharp-mask
// amount by local Sobel edge strength so smooth gradients aren't
// amplified into banding.
func AdaptiveSharpen(img *pyjamaz.PixelBuffer, strength float64) *pyjamaz.PixelBuffer {
	if strength <= 0 {
		return img
	}
	if strength > 1 {
		strength = 1
	}
	if img.Width < 3 || img.Height < 3 {
		return img
	}

	blurred := gaussianBlur3x3(img)
	dst, _ := pyjamaz.NewPixelBuffer(img.Width, img.Height, img.Channels)
	amount := 1.0 + strength*2.0
	ch := img.Channels

	ParallelDo(1, img.Height-1, func(y int) {
		for x := 1; x < img.Width-1; x++ {
			srcOff := y*img.Stride + x*ch
			edgeStr := localEdgeStrength(img, x, y)
			localAmount := amount * edgeStr

			blurOff := y*blurred.Stride + x*ch
			dstOff := y*dst.Stride + x*ch

			for c := 0; c < 3; c++ {
				orig := float64(img.Pix[srcOff+c])
				blur := float64(blurred.Pix[blurOff+c])
				dst.Pix[dstOff+c] = clampF(orig + localAmount*(orig-blur))
			}
			if ch == 4 {
				dst.Pix[dstOff+3] = img.Pix[srcOff+3]
			}
		}
	})

	copy(dst.Pix[0:img.Width*ch], img.Pix[0:img.Width*ch])
	lastRow := (img.Height - 1) * img.Stride
	copy(dst.Pix[lastRow:lastRow+img.Width*ch], img.Pix[lastRow:lastRow+img.Width*ch])
	for y := 0; y < img.Height; y++ {
		off := y * img.Stride
		copy(dst.Pix[off:off+ch], img.Pix[off:off+ch])
		lastCol := off + (img.Width-1)*ch
		copy(dst.Pix[lastCol:lastCol+ch], img.Pix[lastCol:lastCol+ch])
	}

	return dst
}

// localEdgeStrength computes Sobel gradient magnitude at (x,y),
// normalized to roughly [0,1].
func localEdgeStrength(img *pyjamaz.PixelBuffer, x, y int) float64 {
	ch := img.Channels
	getLum := func(px, py int) float64 {
		off := py*img.Stride + px*ch
		return 0.299*float64(img.Pix[off]) + 0.587*float64(img.Pix[off+1]) + 0.114*float64(img.Pix[off+2])
	}

	gx := -getLum(x-1, y-1) + getLum(x+1, y-1) -
		2*getLum(x-1, y) + 2*getLum(x+1, y) -
		getLum(x-1, y+1) + getLum(x+1, y+1)

	gy := -getLum(x-1, y-1) - 2*getLum(x, y-1) - getLum(x+1, y-1) +
		getLum(x-1, y+1) + 2*getLum(x, y+1) + getLum(x+1, y+1)

	mag := math.Sqrt(gx*gx + gy*gy)
	normalized := mag / 400.0
	if normalized > 1 {
		normalized = 1
	}
	return normalized
}

// gaussianBlur3x3 applies a fast 3x3 Gaussian blur with kernel
// [1 2 1; 2 4 2; 1 2 1] / 16, leaving the one-pixel border untouched.
func gaussianBlur3x3(img *pyjamaz.PixelBuffer) *pyjamaz.PixelBuffer {
	dst, _ := pyjamaz.NewPixelBuffer(img.Width, img.Height, img.Channels)
	copy(dst.Pix, img.Pix)
	ch := img.Channels

	ParallelDo(1, img.Height-1, func(y int) {
		for x := 1; x < img.Width-1; x++ {
			for c := 0; c < ch; c++ {
				var sum float64
				sum += float64(img.Pix[(y-1)*img.Stride+(x-1)*ch+c]) * 1
				sum += float64(img.Pix[(y-1)*img.Stride+(x)*ch+c]) * 2
				sum += float64(img.Pix[(y-1)*img.Stride+(x+1)*ch+c]) * 1
				sum += float64(img.Pix[(y)*img.Stride+(x-1)*ch+c]) * 2
				sum += float64(img.Pix[(y)*img.Stride+(x)*ch+c]) * 4
				sum += float64(img.Pix[(y)*img.Stride+(x+1)*ch+c]) * 2
				sum += float64(img.Pix[(y+1)*img.Stride+(x-1)*ch+c]) * 1
				sum += float64(img.Pix[(y+1)*img.Stride+(x)*ch+c]) * 2
				sum += float64(img.Pix[(y+1)*img.Stride+(x+1)*ch+c]) * 1

				dst.Pix[y*dst.Stride+x*ch+c] = clampF(sum / 16.0)
			}
		}
	})

	return dst
}

// GaussianBlur applies a separable Gaussian blur of the given sigma.
// The perceptual metrics do not call it; they build their own kernel.
func GaussianBlur(img *pyjamaz.PixelBuffer, sigma float64) *pyjamaz.PixelBuffer {
	if sigma <= 0 {
		return img
	}

	ch := img.Channels
	radius := int(math.Ceil(sigma * 3))
	kernelSize := radius*2 + 1
	kernel := make([]float64, kernelSize)
	var sum float64
	for i := 0; i < kernelSize; i++ {
		x := float64(i - radius)
		kernel[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	tmp, _ := pyjamaz.NewPixelBuffer(img.Width, img.Height, ch)
	ParallelDo(0, img.Height, func(y int) {
		for x := 0; x < img.Width; x++ {
			acc := make([]float64, ch)
			for k := 0; k < kernelSize; k++ {
				sx := x + k - radius
				if sx < 0 {
					sx = 0
				} else if sx >= img.Width {
					sx = img.Width - 1
				}
				off := y*img.Stride + sx*ch
				wt := kernel[k]
				for c := 0; c < ch; c++ {
					acc[c] += float64(img.Pix[off+c]) * wt
				}
			}
			off := y*tmp.Stride + x*ch
			for c := 0; c < ch; c++ {
				tmp.Pix[off+c] = clampF(acc[c])
			}
		}
	})

	dst, _ := pyjamaz.NewPixelBuffer(img.Width, img.Height, ch)
	ParallelDo(0, img.Width, func(x int) {
		for y := 0; y < img.Height; y++ {
			acc := make([]float64, ch)
			for k := 0; k < kernelSize; k++ {
				sy := y + k - radius
				if sy < 0 {
					sy = 0
				} else if sy >= img.Height {
					sy = img.Height - 1
				}
				off := sy*tmp.Stride + x*ch
				wt := kernel[k]
				for c := 0; c < ch; c++ {
					acc[c] += float64(tmp.Pix[off+c]) * wt
				}
			}
			off := y*dst.Stride + x*ch
			for c := 0; c < ch; c++ {
				dst.Pix[off+c] = clampF(acc[c])
			}
		}
	})

	return dst
}
