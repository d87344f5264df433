package pitch

import (
	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// fftDifferenceMinWindow is the window size from which the FFT-based
// difference function outperforms the direct form.
const fftDifferenceMinWindow = 1024

// differenceDirect computes the YIN difference function
//
//	d(tau) = sum_{j<half} (x[j] - x[j+tau])^2
//
// for tau in [0, half) via the energy/correlation expansion
// d(tau) = e0 + e(tau) - 2*r(tau), which vectorizes the inner products.
// This is the O(windowSize²) reference form.
func differenceDirect(win, dst []float64) {
	half := len(dst)
	e0 := vecmath.DotProduct(win[:half], win[:half])

	energy := e0
	for tau := range half {
		if tau > 0 {
			energy += win[half+tau-1]*win[half+tau-1] - win[tau-1]*win[tau-1]
		}
		d := e0 + energy - 2*vecmath.DotProduct(win[:half], win[tau:tau+half])
		if d < 0 {
			d = 0
		}
		dst[tau] = d
	}
}

// fftDifference computes the same difference function through an FFT
// cross-correlation, reducing the per-frame cost from O(W²) to O(W log W).
type fftDifference struct {
	plan *algofft.Plan[complex128]
	size int

	full     []complex128
	head     []complex128
	specFull []complex128
	specHead []complex128
	corr     []complex128
}

func newFFTDifference(windowSize int) (*fftDifference, error) {
	size := nextPowerOf2(windowSize)
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, err
	}
	return &fftDifference{
		plan:     plan,
		size:     size,
		full:     make([]complex128, size),
		head:     make([]complex128, size),
		specFull: make([]complex128, size),
		specHead: make([]complex128, size),
		corr:     make([]complex128, size),
	}, nil
}

// compute fills dst with d(tau) for tau in [0, len(dst)).
//
// With r(tau) = sum_{j<half} x[j]*x[j+tau] obtained from
// IFFT(FFT(x) * conj(FFT(x[:half]))), the difference function is
// d(tau) = e0 + e(tau) - 2*r(tau). FFT errors fall back to the direct form.
func (f *fftDifference) compute(win, dst []float64) {
	half := len(dst)

	for i := range f.full {
		f.full[i] = 0
		f.head[i] = 0
	}
	for i, v := range win {
		f.full[i] = complex(v, 0)
	}
	for i := 0; i < half; i++ {
		f.head[i] = complex(win[i], 0)
	}

	if err := f.plan.Forward(f.specFull, f.full); err != nil {
		differenceDirect(win, dst)
		return
	}
	if err := f.plan.Forward(f.specHead, f.head); err != nil {
		differenceDirect(win, dst)
		return
	}
	for i := range f.corr {
		a := f.specFull[i]
		b := f.specHead[i]
		f.corr[i] = a * complex(real(b), -imag(b))
	}
	if err := f.plan.Inverse(f.corr, f.corr); err != nil {
		differenceDirect(win, dst)
		return
	}

	e0 := vecmath.DotProduct(win[:half], win[:half])
	energy := e0
	for tau := range half {
		if tau > 0 {
			energy += win[half+tau-1]*win[half+tau-1] - win[tau-1]*win[tau-1]
		}
		d := e0 + energy - 2*real(f.corr[tau])
		if d < 0 {
			d = 0
		}
		dst[tau] = d
	}
}

// cumulativeMeanNormalize converts a difference function into YIN's CMNDF:
// d'(0) = 1 and d'(tau) = d(tau)*tau/sum_{k<=tau} d(k). Lags with a zero
// running sum (flat signal) normalize to 1 so no dip is found there.
func cumulativeMeanNormalize(diff, dst []float64) {
	dst[0] = 1
	sum := 0.0
	for tau := 1; tau < len(diff); tau++ {
		sum += diff[tau]
		if sum == 0 {
			dst[tau] = 1
			continue
		}
		dst[tau] = diff[tau] * float64(tau) / sum
	}
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}
