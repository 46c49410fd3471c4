package candidate

import "github.com/shamspias/pyjamaz"

// Reason names why no candidate was selected, per §4.6 step 2's three
// named outcomes.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonBudget
	ReasonDiffCeiling
	ReasonBoth
)

func (r Reason) String() string {
	switch r {
	case ReasonBudget:
		return "budget"
	case ReasonDiffCeiling:
		return "diff ceiling"
	case ReasonBoth:
		return "both"
	default:
		return "none"
	}
}

// formatPriority gives the tie-break order AVIF > WebP > JPEG > PNG;
// lower is preferred.
func formatPriority(f pyjamaz.FormatTag) int {
	switch f {
	case pyjamaz.AVIF:
		return 0
	case pyjamaz.WebP:
		return 1
	case pyjamaz.JPEG:
		return 2
	case pyjamaz.PNG:
		return 3
	default:
		return 4
	}
}

// Select works over the candidate list with no side effect beyond
// recording each candidate's Passed flag in place: filter by the
// request's constraints, then pick the smallest byte_size, breaking
// ties by format priority with the original candidate winning any
// true tie because it is first in the slice and Go's sort/scan below
// only replaces the incumbent on a strictly better candidate.
func Select(candidates []EncodedCandidate, maxBytes int, maxDiff float64) (*EncodedCandidate, Reason) {
	var passing []int
	sawBudgetFailure := false
	sawDiffFailure := false

	for i := range candidates {
		c := &candidates[i]
		withinBudget := maxBytes == 0 || c.ByteSize() <= maxBytes
		withinDiff := maxDiff == 0 || c.Diff <= maxDiff
		c.Passed = withinBudget && withinDiff

		if c.Passed {
			passing = append(passing, i)
			continue
		}
		if !withinBudget {
			sawBudgetFailure = true
		}
		if !withinDiff {
			sawDiffFailure = true
		}
	}

	if len(passing) == 0 {
		switch {
		case sawBudgetFailure && sawDiffFailure:
			return nil, ReasonBoth
		case sawBudgetFailure:
			return nil, ReasonBudget
		case sawDiffFailure:
			return nil, ReasonDiffCeiling
		default:
			return nil, ReasonNone
		}
	}

	bestIdx := passing[0]
	for _, idx := range passing[1:] {
		if candidates[idx].Original {
			continue // the original, if it passed, was already first and wins ties.
		}
		if isBetter(candidates[idx], candidates[bestIdx]) {
			bestIdx = idx
		}
	}

	return &candidates[bestIdx], ReasonNone
}

func isBetter(a, b EncodedCandidate) bool {
	if a.ByteSize() != b.ByteSize() {
		return a.ByteSize() < b.ByteSize()
	}
	if b.Original {
		return false // original wins a true (equal-size) tie; never displaced by a same-size alternative.
	}
	return formatPriority(a.Format) < formatPriority(b.Format)
}
