package metric

import "github.com/shamspias/pyjamaz"

// dssimMetric implements DSSIM as the standard transform of SSIM:
// dssim = (1 - ssim) / 2, which maps SSIM's [-1,1] similarity range
// onto DSSIM's [0,1] difference range with 0 meaning identical. Built
// on fennec's ssimFast single-scale windowed SSIM.
type dssimMetric struct{}

func (dssimMetric) Name() string { return "dssim" }

func (dssimMetric) Compute(reference, candidate *pyjamaz.PixelBuffer) (float64, error) {
	if err := validateShapes(reference, candidate); err != nil {
		return 0, err
	}
	ssim := ssimFast(reference, candidate)
	dssim := (1 - ssim) / 2
	if dssim < 0 {
		dssim = 0
	}
	return dssim, nil
}
