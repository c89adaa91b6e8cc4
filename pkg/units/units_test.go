package units

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestRoundTrip(t *testing.T) {
	values := []float64{0, 0.25, 1, 3.7, 40, 80.5}
	for _, v := range values {
		if got := PxToMm(MmToPx(v)); !scalar.EqualWithinAbs(got, v, 1e-9) {
			t.Errorf("PxToMm(MmToPx(%v)) = %v", v, got)
		}
		if got := MmToPx(PxToMm(v)); !scalar.EqualWithinAbs(got, v, 1e-9) {
			t.Errorf("MmToPx(PxToMm(%v)) = %v", v, got)
		}
	}
}

func TestMmToPxRatio(t *testing.T) {
	if got := MmToPx(10); got != 40 {
		t.Errorf("MmToPx(10) = %v, want 40", got)
	}
}

func TestBaselineOffset(t *testing.T) {
	// 32 * 0.353 * 0.75 = 8.472
	if got := BaselineOffset(32); !scalar.EqualWithinAbs(got, 8.472, 1e-9) {
		t.Errorf("BaselineOffset(32) = %v, want 8.472", got)
	}
	if got := BaselineOffset(0); got != 0 {
		t.Errorf("BaselineOffset(0) = %v, want 0", got)
	}
}
