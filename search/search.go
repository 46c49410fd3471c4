// Package search implements the quality-to-size binary search every
// codec is driven through: find the highest quality whose encoded
// size still fits a byte budget, in a bounded number of encode
// attempts. Grounded on fennec's jpegQualitySearchOpt binary search
// over JPEG quality, generalized to any codec.Codec and given a fixed
// iteration ceiling instead of fennec's data-dependent quality-range
// heuristics.
package search

import (
	"time"

	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/codec"
	"github.com/shamspias/pyjamaz/internal/elog"
)

// MaxIterations bounds every search, regardless of a codec's quality
// range, so a pathological codec can never make one format's search
// dominate the candidate generator's wall-clock budget.
const MaxIterations = 7

// EncodeTimeCeiling is the default per-encode time budget. An encode
// that runs past it still returns its bytes — the ceiling only
// triggers a caller-visible warning, never a timeout.
const EncodeTimeCeiling = 5 * time.Second

// Result is one search's outcome.
type Result struct {
	Data       []byte
	Quality    int
	Iterations int
	OverBudget bool // true iff no encode observed fit within maxBytes
	SlowEncode bool // true iff any single encode exceeded EncodeTimeCeiling
}

// QualityRange reports the [min,max] quality a codec searches over.
// PNG has no quality axis — it is single-point at 100 — so its range
// collapses to {100}.
func QualityRange(tag pyjamaz.FormatTag) (int, int) {
	if tag == pyjamaz.PNG {
		return 100, 100
	}
	return 1, 100
}

// DefaultQuality is used when maxBytes == 0 (unbounded): the search
// degenerates to exactly one encode at this quality.
func DefaultQuality(tag pyjamaz.FormatTag) int {
	switch tag {
	case pyjamaz.JPEG:
		return 85
	case pyjamaz.WebP:
		return 85
	case pyjamaz.AVIF:
		return 50
	case pyjamaz.PNG:
		return 100
	default:
		return 85
	}
}

// Run drives c's Encode across at most MaxIterations quality
// midpoints, converging to the highest quality whose output fits
// maxBytes. maxBytes == 0 means unbounded and short-circuits to a
// single encode at DefaultQuality.
func Run(c codec.Codec, img *pyjamaz.PixelBuffer, opts codec.Options, maxBytes int) (Result, error) {
	tag := c.Format()

	if maxBytes == 0 {
		q := DefaultQuality(tag)
		data, slow, err := timedEncode(c, img, opts, q)
		if err != nil {
			return Result{}, err
		}
		return Result{Data: data, Quality: q, Iterations: 1, SlowEncode: slow}, nil
	}

	qMin, qMax := QualityRange(tag)

	if qMin == qMax {
		// Single-point codec (PNG): one encode, no search, flagged
		// over-budget only if it doesn't fit.
		data, slow, err := timedEncode(c, img, opts, qMin)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Data:       data,
			Quality:    qMin,
			Iterations: 1,
			OverBudget: len(data) > maxBytes,
			SlowEncode: slow,
		}, nil
	}

	var best []byte
	bestQuality := 0
	var smallestSeen []byte
	smallestQuality := 0
	iterations := 0
	slowAny := false

	for i := 0; i < MaxIterations && qMin <= qMax; i++ {
		iterations++
		mid := qMin + (qMax-qMin)/2

		data, slow, err := timedEncode(c, img, opts, mid)
		if err != nil {
			return Result{}, err
		}
		if slow {
			slowAny = true
		}

		if smallestSeen == nil || len(data) < len(smallestSeen) {
			smallestSeen = data
			smallestQuality = mid
		}

		if len(data) <= maxBytes {
			best = data
			bestQuality = mid
			qMin = mid + 1
		} else {
			qMax = mid - 1
		}
	}

	if best != nil {
		return Result{Data: best, Quality: bestQuality, Iterations: iterations, SlowEncode: slowAny}, nil
	}

	return Result{
		Data:       smallestSeen,
		Quality:    smallestQuality,
		Iterations: iterations,
		OverBudget: true,
		SlowEncode: slowAny,
	}, nil
}

func timedEncode(c codec.Codec, img *pyjamaz.PixelBuffer, opts codec.Options, quality int) ([]byte, bool, error) {
	start := time.Now()
	data, err := c.Encode(codec.EncodeParams{Image: img, Quality: quality, Options: opts})
	if err != nil {
		return nil, false, err
	}
	elapsed := time.Since(start)
	slow := elapsed > EncodeTimeCeiling
	if slow {
		elog.L.Warn().Str("format", c.Format().String()).Int("quality", quality).Dur("duration", elapsed).Msg("encode exceeded time ceiling")
	}
	return data, slow, nil
}
