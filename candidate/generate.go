package candidate

import (
	"image/color"
	"runtime"
	"sync"
	"time"

	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/arena"
	"github.com/shamspias/pyjamaz/codec"
	"github.com/shamspias/pyjamaz/internal/elog"
	"github.com/shamspias/pyjamaz/metric"
	"github.com/shamspias/pyjamaz/search"
)

// Diagnostic records a format that failed to contribute a candidate,
// per the "a codec or metric failure on one format does not abort the
// pipeline" failure policy.
type Diagnostic struct {
	Format pyjamaz.FormatTag
	Err    error
}

// Request bundles everything the generator needs, independent of the
// engine's OptimizationRequest wire shape so this package stays
// importable without pulling in the engine.
type Request struct {
	Reference      *pyjamaz.PixelBuffer
	OriginalData   []byte
	OriginalFormat pyjamaz.FormatTag
	Formats        []pyjamaz.FormatTag
	MaxBytes       int
	MetricTag      pyjamaz.Metric
	Concurrency    int
}

var flattenWhite = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Generate produces the original-file candidate plus one searched
// candidate per requested format, run with bounded parallelism over a
// channel-of-indices worker pool (fennec's CompressBatch shape,
// repointed at "one format per worker" instead of "one file per
// worker"). Each worker owns one arena for the decode-back scratch
// buffer used by the metric step; the arena is reset between formats
// so a worker's scratch memory is released in one batch per task
// instead of relying on piecemeal garbage collection.
func Generate(req Request) ([]EncodedCandidate, []Diagnostic) {
	var m metric.Metric
	if req.MetricTag != pyjamaz.NoMetric {
		var err error
		m, err = metric.New(req.MetricTag)
		if err != nil {
			m = nil
		}
	}

	candidates := make([]EncodedCandidate, 0, len(req.Formats)+1)
	candidates = append(candidates, EncodedCandidate{
		Format:   req.OriginalFormat,
		Data:     req.OriginalData,
		Quality:  100,
		Diff:     0.0,
		Original: true,
	})

	searched := make([]EncodedCandidate, len(req.Formats))

	workers := req.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(req.Formats) {
		workers = len(req.Formats)
	}
	if workers < 1 {
		workers = 1
	}

	workCh := make(chan int, len(req.Formats))
	for i := range req.Formats {
		workCh <- i
	}
	close(workCh)

	diagsCh := make(chan Diagnostic, len(req.Formats))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := arena.New(64 * 1024)
			for idx := range workCh {
				tag := req.Formats[idx]
				c, diag := generateOne(req, tag, m, a)
				searched[idx] = c
				if diag != nil {
					diagsCh <- *diag
				}
				a.Reset()
			}
		}()
	}
	wg.Wait()
	close(diagsCh)

	var diagnostics []Diagnostic
	for d := range diagsCh {
		elog.L.Warn().Str("format", d.Format.String()).Err(d.Err).Msg("format contributed no candidate")
		diagnostics = append(diagnostics, d)
	}

	for _, c := range searched {
		if c.Err == nil {
			candidates = append(candidates, c)
		}
	}

	return candidates, diagnostics
}

func generateOne(req Request, tag pyjamaz.FormatTag, m metric.Metric, a *arena.Arena) (EncodedCandidate, *Diagnostic) {
	c, err := codec.Get(tag)
	if err != nil {
		return EncodedCandidate{Format: tag, Err: err}, &Diagnostic{Format: tag, Err: err}
	}

	image := req.Reference
	if !c.SupportsAlpha() && image.Channels == 4 {
		image = image.FlattenAlpha(flattenWhite)
	}

	start := time.Now()
	result, err := search.Run(c, image, codecOptionsFor(tag), req.MaxBytes)
	elapsed := time.Since(start)
	if err != nil {
		return EncodedCandidate{Format: tag, Err: err}, &Diagnostic{Format: tag, Err: err}
	}

	diff := 0.0
	if m != nil {
		diff, err = decodeBackAndScore(image, c, result.Data, m, a)
		if err != nil {
			return EncodedCandidate{Format: tag, Err: err}, &Diagnostic{Format: tag, Err: err}
		}
	}

	return EncodedCandidate{
		Format:     tag,
		Data:       result.Data,
		Quality:    result.Quality,
		Diff:       diff,
		EncodeTime: elapsed.Nanoseconds(),
	}, nil
}

// decodeBackAndScore decodes encoded back into pixels, copies them
// into arena-owned scratch, scores the copy against reference, and
// leaves the scratch for the caller's subsequent a.Reset() to
// release. The decoded buffer itself is never retained past this call.
func decodeBackAndScore(reference *pyjamaz.PixelBuffer, c codec.Codec, encoded []byte, m metric.Metric, a *arena.Arena) (float64, error) {
	decoded, err := c.Decode(encoded)
	if err != nil {
		return 0, err
	}

	scratch := a.Alloc(len(decoded.Pix))
	copy(scratch, decoded.Pix)
	scratchBuf := &pyjamaz.PixelBuffer{
		Width:    decoded.Width,
		Height:   decoded.Height,
		Channels: decoded.Channels,
		Stride:   decoded.Stride,
		Pix:      scratch,
	}

	return m.Compute(reference, scratchBuf)
}

func codecOptionsFor(tag pyjamaz.FormatTag) codec.Options {
	switch tag {
	case pyjamaz.WebP:
		return codec.WebPOptions{}
	case pyjamaz.AVIF:
		return codec.AVIFOptions{}
	default:
		return codec.BaseOptions{}
	}
}
