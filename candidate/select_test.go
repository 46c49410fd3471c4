package candidate

import (
	"testing"

	"github.com/shamspias/pyjamaz"
)

func mk(format pyjamaz.FormatTag, size int, diff float64, original bool) EncodedCandidate {
	return EncodedCandidate{Format: format, Data: make([]byte, size), Diff: diff, Original: original}
}

func TestSelectPicksSmallestUnderBudget(t *testing.T) {
	cands := []EncodedCandidate{
		mk(pyjamaz.JPEG, 100, 0, true),
		mk(pyjamaz.WebP, 40, 0.001, false),
		mk(pyjamaz.AVIF, 30, 0.001, false),
	}
	sel, reason := Select(cands, 50, 0.01)
	if sel == nil {
		t.Fatalf("expected a selection, got reason %v", reason)
	}
	if sel.Format != pyjamaz.AVIF {
		t.Fatalf("expected AVIF (smallest), got %v", sel.Format)
	}
}

func TestSelectTieBreaksByFormatPriority(t *testing.T) {
	cands := []EncodedCandidate{
		mk(pyjamaz.JPEG, 100, 0, true),
		mk(pyjamaz.JPEG, 40, 0.001, false),
		mk(pyjamaz.WebP, 40, 0.001, false),
		mk(pyjamaz.AVIF, 40, 0.001, false),
	}
	sel, _ := Select(cands, 0, 0)
	if sel.Format != pyjamaz.AVIF {
		t.Fatalf("expected AVIF to win the equal-size tie, got %v", sel.Format)
	}
}

func TestSelectOriginalWinsTrueTie(t *testing.T) {
	cands := []EncodedCandidate{
		mk(pyjamaz.JPEG, 40, 0, true),
		mk(pyjamaz.AVIF, 40, 0, false),
	}
	sel, _ := Select(cands, 0, 0)
	if !sel.Original {
		t.Fatalf("expected the original to win the true tie, got %v", sel.Format)
	}
}

func TestSelectNoPassingCandidateReasons(t *testing.T) {
	cands := []EncodedCandidate{
		mk(pyjamaz.JPEG, 100, 0.5, true),
	}
	if _, reason := Select(cands, 50, 0); reason != ReasonBudget {
		t.Fatalf("expected ReasonBudget, got %v", reason)
	}
	if _, reason := Select(cands, 0, 0.01); reason != ReasonDiffCeiling {
		t.Fatalf("expected ReasonDiffCeiling, got %v", reason)
	}
	if _, reason := Select(cands, 50, 0.01); reason != ReasonBoth {
		t.Fatalf("expected ReasonBoth, got %v", reason)
	}
}

func TestSelectSmallerAlternativeDisplacesLargerOriginal(t *testing.T) {
	cands := []EncodedCandidate{
		mk(pyjamaz.PNG, 5000, 0, true),
		mk(pyjamaz.WebP, 1200, 0.001, false),
	}
	sel, _ := Select(cands, 0, 0)
	if sel.Original {
		t.Fatalf("expected the smaller WebP candidate to win, got the original")
	}
	if sel.Format != pyjamaz.WebP {
		t.Fatalf("expected WebP, got %v", sel.Format)
	}
}

func TestSelectNeverEnlargesBeyondOriginal(t *testing.T) {
	cands := []EncodedCandidate{
		mk(pyjamaz.JPEG, 100, 0, true),
		mk(pyjamaz.PNG, 500, 0, false),
	}
	sel, _ := Select(cands, 0, 0)
	if sel.ByteSize() != 100 {
		t.Fatalf("expected the original (smaller) to be picked over a larger alternative, got %d bytes", sel.ByteSize())
	}
}
