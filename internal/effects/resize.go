// Package effects implements the image transforms: EXIF
// auto-orientation (applied by pyjamaz.Decode), resize, and sharpen.
// The engine's pipeline does not apply resize or sharpen; BoxDownsample
// is used by the perceptual metrics. The algorithms are lifted from fennec's image-processing core and
// generalized from fennec's fixed *image.NRGBA representation to
// pyjamaz's explicit 3-or-4-channel PixelBuffer.
package effects

import (
	"math"
	"runtime"
	"sync"

	"github.com/shamspias/pyjamaz"
)

const lanczosA = 3.0 // Lanczos-3 kernel support, same as fennec's resize.go.

func lanczosKernel(x float64) float64 {
	if x == 0 {
		return 1.0
	}
	if x < 0 {
		x = -x
	}
	if x >= lanczosA {
		return 0.0
	}
	xpi := x * math.Pi
	return (lanczosA * math.Sin(xpi) * math.Sin(xpi/lanczosA)) / (xpi * xpi)
}

func clampF(x float64) byte {
	v := int64(math.Round(x))
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return byte(v)
}

// SmartResize resizes img to fit within maxW x maxH while preserving
// aspect ratio, or returns img unchanged if it already fits. Mirrors
// fennec's smartResize.
func SmartResize(img *pyjamaz.PixelBuffer, maxW, maxH int) *pyjamaz.PixelBuffer {
	if maxW <= 0 {
		maxW = img.Width
	}
	if maxH <= 0 {
		maxH = img.Height
	}
	if img.Width <= maxW && img.Height <= maxH {
		return img
	}

	ratio := math.Min(float64(maxW)/float64(img.Width), float64(maxH)/float64(img.Height))
	dstW := int(math.Max(1, math.Round(float64(img.Width)*ratio)))
	dstH := int(math.Max(1, math.Round(float64(img.Height)*ratio)))
	return LanczosResize(img, dstW, dstH)
}

// LanczosResize performs two-pass separable Lanczos-3 interpolation,
// with pre-multiplied-alpha handling for 4-channel buffers to avoid
// color fringing at transparency edges (fennec's resizeH/resizeV).
func LanczosResize(img *pyjamaz.PixelBuffer, dstW, dstH int) *pyjamaz.PixelBuffer {
	if img.Width <= 0 || img.Height <= 0 || dstW <= 0 || dstH <= 0 {
		out, _ := pyjamaz.NewPixelBuffer(1, 1, img.Channels)
		return out
	}
	if img.Width == dstW && img.Height == dstH {
		return img.Clone()
	}

	tmp := resizeH(img, dstW, img.Height)
	return resizeV(tmp, dstW, dstH)
}

type weightEntry struct {
	index  int
	weight float64
}

func buildWeights(srcLen, dstLen int) [][]weightEntry {
	ratio := float64(srcLen) / float64(dstLen)
	support := lanczosA
	if ratio > 1 {
		support = lanczosA * ratio
	}

	weights := make([][]weightEntry, dstLen)
	for d := 0; d < dstLen; d++ {
		center := (float64(d)+0.5)*ratio - 0.5
		left := int(math.Ceil(center - support))
		right := int(math.Floor(center + support))
		if left < 0 {
			left = 0
		}
		if right >= srcLen {
			right = srcLen - 1
		}

		var wsum float64
		entries := make([]weightEntry, 0, right-left+1)
		for s := left; s <= right; s++ {
			w := lanczosKernel((float64(s) - center) / math.Max(ratio, 1.0))
			if w != 0 {
				wsum += w
				entries = append(entries, weightEntry{s, w})
			}
		}
		if wsum != 0 {
			for i := range entries {
				entries[i].weight /= wsum
			}
		}
		weights[d] = entries
	}
	return weights
}

func resizeH(src *pyjamaz.PixelBuffer, dstW, dstH int) *pyjamaz.PixelBuffer {
	dst, _ := pyjamaz.NewPixelBuffer(dstW, dstH, src.Channels)
	weights := buildWeights(src.Width, dstW)

	ParallelDo(0, dstH, func(y int) {
		for dx := 0; dx < dstW; dx++ {
			resamplePixel(src, dst, weights[dx], func(we weightEntry) int { return y*src.Stride + we.index*src.Channels }, y*dst.Stride+dx*src.Channels)
		}
	})
	return dst
}

func resizeV(src *pyjamaz.PixelBuffer, dstW, dstH int) *pyjamaz.PixelBuffer {
	dst, _ := pyjamaz.NewPixelBuffer(dstW, dstH, src.Channels)
	weights := buildWeights(src.Height, dstH)

	ParallelDo(0, dstW, func(x int) {
		for dy := 0; dy < dstH; dy++ {
			resamplePixel(src, dst, weights[dy], func(we weightEntry) int { return we.index*src.Stride + x*src.Channels }, dy*dst.Stride+x*src.Channels)
		}
	})
	return dst
}

// resamplePixel accumulates the weighted sum of channel values across
// the given filter taps, pre-multiplying by alpha for 4-channel
// buffers so transparent neighbors don't darken opaque edges.
func resamplePixel(src, dst *pyjamaz.PixelBuffer, taps []weightEntry, srcOffset func(weightEntry) int, dstOff int) {
	if src.Channels == 4 {
		var r, g, b, a float64
		for _, we := range taps {
			off := srcOffset(we)
			sa := float64(src.Pix[off+3])
			aw := sa * we.weight
			r += float64(src.Pix[off]) * aw
			g += float64(src.Pix[off+1]) * aw
			b += float64(src.Pix[off+2]) * aw
			a += aw
		}
		if a != 0 {
			inv := 1.0 / a
			dst.Pix[dstOff] = clampF(r * inv)
			dst.Pix[dstOff+1] = clampF(g * inv)
			dst.Pix[dstOff+2] = clampF(b * inv)
			dst.Pix[dstOff+3] = clampF(a)
		}
		return
	}

	var r, g, b float64
	for _, we := range taps {
		off := srcOffset(we)
		w := we.weight
		r += float64(src.Pix[off]) * w
		g += float64(src.Pix[off+1]) * w
		b += float64(src.Pix[off+2]) * w
	}
	dst.Pix[dstOff] = clampF(r)
	dst.Pix[dstOff+1] = clampF(g)
	dst.Pix[dstOff+2] = clampF(b)
}

// BoxDownsample performs fast box-filter downsampling, used by the
// perceptual metrics for cheap multi-scale pyramids (fennec's
// boxDownsample in ssim.go).
func BoxDownsample(img *pyjamaz.PixelBuffer, dstW, dstH int) *pyjamaz.PixelBuffer {
	if img.Width <= 0 || img.Height <= 0 || dstW <= 0 || dstH <= 0 {
		out, _ := pyjamaz.NewPixelBuffer(1, 1, img.Channels)
		return out
	}
	dst, _ := pyjamaz.NewPixelBuffer(dstW, dstH, img.Channels)
	xRatio := float64(img.Width) / float64(dstW)
	yRatio := float64(img.Height) / float64(dstH)
	ch := img.Channels

	for dy := 0; dy < dstH; dy++ {
		sy0, sy1 := boxRange(dy, yRatio, img.Height)
		for dx := 0; dx < dstW; dx++ {
			sx0, sx1 := boxRange(dx, xRatio, img.Width)

			sums := make([]float64, ch)
			var count float64
			for sy := sy0; sy < sy1; sy++ {
				for sx := sx0; sx < sx1; sx++ {
					off := sy*img.Stride + sx*ch
					for c := 0; c < ch; c++ {
						sums[c] += float64(img.Pix[off+c])
					}
					count++
				}
			}
			if count > 0 {
				inv := 1.0 / count
				off := dy*dst.Stride + dx*ch
				for c := 0; c < ch; c++ {
					dst.Pix[off+c] = clampF(sums[c] * inv)
				}
			}
		}
	}
	return dst
}

func boxRange(d int, ratio float64, srcLen int) (int, int) {
	s0 := int(float64(d) * ratio)
	s1 := int(float64(d+1) * ratio)
	if s1 > srcLen {
		s1 = srcLen
	}
	if s0 >= s1 {
		s0 = s1 - 1
	}
	if s0 < 0 {
		s0 = 0
	}
	return s0, s1
}

// ParallelDo executes fn(i) for i in [start, stop) across GOMAXPROCS
// goroutines, mirroring fennec's parallelDo in resize.go.
func ParallelDo(start, stop int, fn func(i int)) {
	count := stop - start
	if count <= 0 {
		return
	}

	procs := runtime.GOMAXPROCS(0)
	if procs > count {
		procs = count
	}
	if procs <= 1 {
		for i := start; i < stop; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	batchSize := (count + procs - 1) / procs
	for p := 0; p < procs; p++ {
		batchStart := start + p*batchSize
		batchEnd := batchStart + batchSize
		if batchEnd > stop {
			batchEnd = stop
		}
		if batchStart >= batchEnd {
			continue
		}
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for i := from; i < to; i++ {
				fn(i)
			}
		}(batchStart, batchEnd)
	}
	wg.Wait()
}
