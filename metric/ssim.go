package metric

import (
	"math"
	"runtime"
	"sync"

	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/internal/effects"
)

// SSIM constants from the original Wang et al. paper, matching
// fennec's ssim.go.
const (
	ssimK1 = 0.01
	ssimK2 = 0.03
	ssimL  = 255.0
	ssimC1 = (ssimK1 * ssimL) * (ssimK1 * ssimL)
	ssimC2 = (ssimK2 * ssimL) * (ssimK2 * ssimL)
)

// ssimFast computes single-scale SSIM between two buffers already
// known to share dimensions, downsampling large images to a capped
// dimension first so the windowed pass stays fast.
func ssimFast(a, b *pyjamaz.PixelBuffer) float64 {
	w, h := a.Width, a.Height

	const maxDim = 512
	if w > maxDim || h > maxDim {
		scale := float64(maxDim) / math.Max(float64(w), float64(h))
		newW := int(math.Max(8, math.Round(float64(w)*scale)))
		newH := int(math.Max(8, math.Round(float64(h)*scale)))
		a = effects.BoxDownsample(a, newW, newH)
		b = effects.BoxDownsample(b, newW, newH)
		w, h = newW, newH
	}

	if w < 8 || h < 8 {
		return pixelSSIM(a, b)
	}

	lumA := toLuminance(a)
	lumB := toLuminance(b)
	return windowedSSIM(lumA, lumB, w, h)
}

func windowedSSIM(lumA, lumB []float64, w, h int) float64 {
	const windowSize = 8
	half := windowSize / 2

	kernel := gaussianKernel(windowSize, 1.5)

	type ssimResult struct {
		sum   float64
		count int
	}

	procs := runtime.GOMAXPROCS(0)
	rows := h - windowSize + 1
	if procs > rows {
		procs = rows
	}
	if procs < 1 {
		procs = 1
	}

	results := make([]ssimResult, procs)
	rowsPerProc := (rows + procs - 1) / procs

	var wg sync.WaitGroup
	for p := 0; p < procs; p++ {
		wg.Add(1)
		go func(proc int) {
			defer wg.Done()
			startY := half + proc*rowsPerProc
			endY := startY + rowsPerProc
			if endY > h-half {
				endY = h - half
			}

			var localSum float64
			var localCount int

			for y := startY; y < endY; y++ {
				for x := half; x < w-half; x++ {
					var muA, muB float64

					ki := 0
					for wy := -half; wy < half; wy++ {
						for wx := -half; wx < half; wx++ {
							idx := (y+wy)*w + (x + wx)
							weight := kernel[ki]
							muA += lumA[idx] * weight
							muB += lumB[idx] * weight
							ki++
						}
					}

					var sigAA, sigBB, sigAB float64
					ki = 0
					for wy := -half; wy < half; wy++ {
						for wx := -half; wx < half; wx++ {
							idx := (y+wy)*w + (x + wx)
							weight := kernel[ki]
							da := lumA[idx] - muA
							db := lumB[idx] - muB
							sigAA += da * da * weight
							sigBB += db * db * weight
							sigAB += da * db * weight
							ki++
						}
					}

					num := (2*muA*muB + ssimC1) * (2*sigAB + ssimC2)
					den := (muA*muA + muB*muB + ssimC1) * (sigAA + sigBB + ssimC2)

					localSum += num / den
					localCount++
				}
			}

			results[proc] = ssimResult{localSum, localCount}
		}(p)
	}
	wg.Wait()

	var totalSum float64
	var totalCount int
	for _, r := range results {
		totalSum += r.sum
		totalCount += r.count
	}

	if totalCount == 0 {
		return 1.0
	}
	return totalSum / float64(totalCount)
}

func pixelSSIM(a, b *pyjamaz.PixelBuffer) float64 {
	n := float64(a.Width * a.Height)
	if n == 0 {
		return 1.0
	}
	ch := a.Channels

	lum := func(pix []byte, off int) float64 {
		return 0.299*float64(pix[off]) + 0.587*float64(pix[off+1]) + 0.114*float64(pix[off+2])
	}

	var muA, muB float64
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			off := y*a.Stride + x*ch
			muA += lum(a.Pix, off)
			muB += lum(b.Pix, off)
		}
	}
	muA /= n
	muB /= n

	var sigAA, sigBB, sigAB float64
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			off := y*a.Stride + x*ch
			da := lum(a.Pix, off) - muA
			db := lum(b.Pix, off) - muB
			sigAA += da * da
			sigBB += db * db
			sigAB += da * db
		}
	}
	sigAA /= n
	sigBB /= n
	sigAB /= n

	num := (2*muA*muB + ssimC1) * (2*sigAB + ssimC2)
	den := (muA*muA + muB*muB + ssimC1) * (sigAA + sigBB + ssimC2)
	return num / den
}

func toLuminance(img *pyjamaz.PixelBuffer) []float64 {
	lum := make([]float64, img.Width*img.Height)
	ch := img.Channels
	for y := 0; y < img.Height; y++ {
		off := y * img.Stride
		for x := 0; x < img.Width; x++ {
			i := off + x*ch
			lum[y*img.Width+x] = 0.299*float64(img.Pix[i]) + 0.587*float64(img.Pix[i+1]) + 0.114*float64(img.Pix[i+2])
		}
	}
	return lum
}

func gaussianKernel(size int, sigma float64) []float64 {
	kernel := make([]float64, size*size)
	half := size / 2
	var sum float64

	idx := 0
	for y := -half; y < half; y++ {
		for x := -half; x < half; x++ {
			val := math.Exp(-float64(x*x+y*y) / (2 * sigma * sigma))
			kernel[idx] = val
			sum += val
			idx++
		}
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
