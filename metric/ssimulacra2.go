package metric

import (
	"math"

	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/internal/effects"
)

// ssimulacra2Metric is a multi-scale perceptual-difference score in
// the spirit of SSIMULACRA2: finer-grained than single-scale DSSIM
// near the "visually identical" end of the range, which is the
// property the selector's tight default thresholds rely on. This is
// an approximation built from fennec's MSSSIM (multi-scale SSIM with
// the standard 5-level Wang/Bovik weighting), not a port of the real
// SSIMULACRA2 reference implementation, reframed from similarity to
// difference the same way dssimMetric reframes single-scale SSIM.
type ssimulacra2Metric struct{}

func (ssimulacra2Metric) Name() string { return "ssimulacra2" }

var msssimWeights = []float64{0.0448, 0.2856, 0.3001, 0.2363, 0.1333}

func (ssimulacra2Metric) Compute(reference, candidate *pyjamaz.PixelBuffer) (float64, error) {
	if err := validateShapes(reference, candidate); err != nil {
		return 0, err
	}

	a, b := reference, candidate
	w, h := a.Width, a.Height

	weights := append([]float64(nil), msssimWeights...)
	for i := 0; i < len(weights)-1; i++ {
		minDim := int(math.Min(float64(w), float64(h)))
		if minDim < 8 {
			weights = weights[:i+1]
			normalizeWeights(weights)
			break
		}
		w /= 2
		h /= 2
	}

	var logSum float64
	for i, wt := range weights {
		ssim := ssimFast(a, b)
		logSum += wt * math.Log(math.Max(ssim, 1e-10))

		if i < len(weights)-1 {
			nw, nh := a.Width/2, a.Height/2
			if nw < 8 || nh < 8 {
				break
			}
			a = effects.BoxDownsample(a, nw, nh)
			b = effects.BoxDownsample(b, nw, nh)
		}
	}

	msssim := math.Exp(logSum)
	diff := 1 - msssim
	if diff < 0 {
		diff = 0
	}
	return diff, nil
}

func normalizeWeights(weights []float64) {
	var sum float64
	for _, wt := range weights {
		sum += wt
	}
	if sum == 0 {
		return
	}
	for i := range weights {
		weights[i] /= sum
	}
}
