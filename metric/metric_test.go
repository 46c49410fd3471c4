package metric

import (
	"testing"

	"github.com/shamspias/pyjamaz"
)

func solidBuffer(t *testing.T, w, h, channels int, fill byte) *pyjamaz.PixelBuffer {
	t.Helper()
	pb, err := pyjamaz.NewPixelBuffer(w, h, channels)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	for i := range pb.Pix {
		pb.Pix[i] = fill
	}
	return pb
}

func TestNewUnknownMetric(t *testing.T) {
	if _, err := New(pyjamaz.Metric(99)); err == nil {
		t.Fatalf("expected an error for an unknown metric tag")
	}
}

func TestNoneMetricAlwaysZero(t *testing.T) {
	m, err := New(pyjamaz.NoMetric)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := solidBuffer(t, 8, 8, 3, 0x00)
	b := solidBuffer(t, 8, 8, 3, 0xff)
	diff, err := m.Compute(a, b)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if diff != 0.0 {
		t.Fatalf("none metric must always return 0, got %v", diff)
	}
}

func TestDSSIMIdenticalIsZero(t *testing.T) {
	m := dssimMetric{}
	a := solidBuffer(t, 16, 16, 3, 0x80)
	b := a.Clone()
	diff, err := m.Compute(a, b)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if diff != 0 {
		t.Fatalf("identical buffers must score 0, got %v", diff)
	}
}

func TestDSSIMDimensionMismatch(t *testing.T) {
	m := dssimMetric{}
	a := solidBuffer(t, 16, 16, 3, 0x80)
	b := solidBuffer(t, 8, 8, 3, 0x80)
	if _, err := m.Compute(a, b); !pyjamaz.IsKind(err, pyjamaz.KindMetric) {
		t.Fatalf("expected a KindMetric error for dimension mismatch, got %v", err)
	}
}

func TestDSSIMChannelMismatch(t *testing.T) {
	m := dssimMetric{}
	a := solidBuffer(t, 16, 16, 3, 0x80)
	b := solidBuffer(t, 16, 16, 4, 0x80)
	if _, err := m.Compute(a, b); !pyjamaz.IsKind(err, pyjamaz.KindMetric) {
		t.Fatalf("expected a KindMetric error for channel mismatch, got %v", err)
	}
}

func TestSSIMULACRA2IdenticalIsZero(t *testing.T) {
	m := ssimulacra2Metric{}
	a := solidBuffer(t, 32, 32, 3, 0x40)
	b := a.Clone()
	diff, err := m.Compute(a, b)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if diff != 0 {
		t.Fatalf("identical buffers must score 0, got %v", diff)
	}
}

func TestDSSIMDivergesOnDifference(t *testing.T) {
	m := dssimMetric{}
	a := solidBuffer(t, 32, 32, 3, 0x00)
	b := solidBuffer(t, 32, 32, 3, 0xff)
	diff, err := m.Compute(a, b)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if diff <= 0 {
		t.Fatalf("fully opposite buffers must score > 0, got %v", diff)
	}
}
