// Package metric implements the perceptual-difference scorers the
// selector uses to reject visually-damaging candidates. All three
// variants are grounded on fennec's windowed-SSIM machinery in
// ssim.go, adapted from fennec's fixed *image.NRGBA to the generic
// PixelBuffer and reframed as "difference" (higher is worse) rather
// than fennec's "similarity" (higher is better).
package metric

import (
	"fmt"

	"github.com/shamspias/pyjamaz"
)

// Metric computes a scalar perceptual difference between a reference
// and a candidate buffer. Implementations must be pure: no I/O, no
// shared mutable state, safe for concurrent calls across goroutines.
type Metric interface {
	// Compute returns a non-negative score where 0 means identical.
	// reference and candidate must share dimensions and channel count;
	// Compute returns a KindMetric error otherwise.
	Compute(reference, candidate *pyjamaz.PixelBuffer) (float64, error)

	// Name identifies the metric for logging and the C ABI.
	Name() string
}

// New returns the Metric implementation for tag. NoMetric's
// implementation always returns 0 without touching its arguments,
// letting candidate generation skip the decode-back step entirely
// (checked by the caller via tag == pyjamaz.NoMetric, not by calling
// Compute).
func New(tag pyjamaz.Metric) (Metric, error) {
	switch tag {
	case pyjamaz.DSSIM:
		return dssimMetric{}, nil
	case pyjamaz.SSIMULACRA2:
		return ssimulacra2Metric{}, nil
	case pyjamaz.NoMetric:
		return noneMetric{}, nil
	default:
		return nil, pyjamaz.NewError(pyjamaz.KindMetric, fmt.Sprintf("unknown metric %d", tag))
	}
}

func validateShapes(reference, candidate *pyjamaz.PixelBuffer) error {
	if reference.Width != candidate.Width || reference.Height != candidate.Height {
		return pyjamaz.NewError(pyjamaz.KindMetric, fmt.Sprintf(
			"dimension mismatch: reference %dx%d vs candidate %dx%d",
			reference.Width, reference.Height, candidate.Width, candidate.Height))
	}
	if reference.Channels != candidate.Channels {
		return pyjamaz.NewError(pyjamaz.KindMetric, fmt.Sprintf(
			"channel mismatch: reference %d vs candidate %d", reference.Channels, candidate.Channels))
	}
	return nil
}

type noneMetric struct{}

func (noneMetric) Compute(reference, candidate *pyjamaz.PixelBuffer) (float64, error) { return 0.0, nil }
func (noneMetric) Name() string                                                        { return "none" }
