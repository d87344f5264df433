package testutil

import (
	"math"
	"testing"
)

// RequireNear fails t unless got lies within eps of want (absolute).
func RequireNear(t *testing.T, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("got %v, want %v (|diff| %v > eps %v)", got, want, math.Abs(got-want), eps)
	}
}

// RequireNearRel fails t unless got lies within tol relative error of want.
func RequireNearRel(t *testing.T, got, want, tol float64) {
	t.Helper()
	if want == 0 {
		t.Fatalf("relative tolerance against zero reference; use RequireNear")
	}
	rel := math.Abs(got-want) / math.Abs(want)
	if rel > tol {
		t.Fatalf("got %v, want %v (relative error %v > tol %v)", got, want, rel, tol)
	}
}

// RequireSameSignal fails t if the buffers differ in length or any sample
// pair differs by more than eps.
func RequireSameSignal(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Fatalf("sample %d: got %v, want %v (eps %v)", i, got[i], want[i], eps)
		}
	}
}

// RequireFinite fails t if any sample is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d: non-finite value %v", i, v)
		}
	}
}
