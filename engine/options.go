// Package engine implements the facade that orchestrates decode,
// cache lookup, candidate generation, and selection into the single
// blocking optimize(request) -> result entry point, mirroring
// fennec's CompressFile/CompressBytes/Compress trio at the top of
// fennec.go but widened to the multi-codec, dual-constraint pipeline.
package engine

import (
	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/cache"
	"github.com/shamspias/pyjamaz/candidate"
)

// Request mirrors the OptimizationRequest entity: either Path or
// Bytes must be set (Path wins if both are). Formats must be
// non-empty; Concurrency 0 defaults to runtime.NumCPU() the same way
// candidate.Generate does, and a negative Concurrency is rejected.
type Request struct {
	Path        string
	Bytes       []byte
	MaxBytes    int
	MaxDiff     float64
	Metric      pyjamaz.Metric
	Formats     []pyjamaz.FormatTag
	Concurrency int

	// Cache is optional; a nil Cache disables lookup/put entirely
	// rather than treating every call as a miss that still pays
	// index-persistence overhead.
	Cache *cache.Cache
}

// Timings breaks down wall-clock spent in each pipeline stage, in
// nanoseconds, for diagnostics.
type Timings struct {
	DecodeNS    int64
	CacheNS     int64
	GenerateNS  int64
	SelectNS    int64
	TotalNS     int64
}

// Result mirrors the OptimizationResult entity.
type Result struct {
	Selected    *candidate.EncodedCandidate
	Candidates  []candidate.EncodedCandidate
	Diagnostics []candidate.Diagnostic
	Reason      candidate.Reason
	CacheHit    bool
	Timings     Timings
	Err         error
}

func validate(req Request) error {
	if req.Path == "" && len(req.Bytes) == 0 {
		return pyjamaz.NewError(pyjamaz.KindInvalidArgument, "request has neither path nor bytes")
	}
	if len(req.Formats) == 0 {
		return pyjamaz.NewError(pyjamaz.KindInvalidArgument, "formats list is empty")
	}
	if req.Concurrency < 0 {
		return pyjamaz.NewError(pyjamaz.KindInvalidArgument, "concurrency must be >= 0")
	}
	return nil
}
