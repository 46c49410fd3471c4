// Package candidate builds and selects the set of encoded candidates
// for one optimization request: one per requested format plus the
// verbatim original, each scored for byte size and perceptual
// difference. The worker-pool shape is grounded on fennec's
// CompressBatch in batch.go, repointed from "one file per worker" to
// "one format per worker" against a single shared reference image.
package candidate

import "github.com/shamspias/pyjamaz"

// EncodedCandidate is one codec's proposed output for a request.
type EncodedCandidate struct {
	Format     pyjamaz.FormatTag
	Data       []byte
	Quality    int     // 0-100, or 100 for the verbatim original
	Diff       float64 // perceptual difference score, >= 0
	Passed     bool    // satisfies the request's byte/diff constraints
	EncodeTime int64   // nanoseconds
	Original   bool    // true for the verbatim-input candidate
	Err        error   // non-nil if this format failed to produce a candidate
}

// ByteSize is the candidate's encoded size, the quantity the selector
// minimizes over.
func (c EncodedCandidate) ByteSize() int { return len(c.Data) }
