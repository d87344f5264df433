package pitch

import (
	"testing"

	"github.com/cwbudde/algo-tune/internal/testutil"
)

func benchmarkDetect(b *testing.B, windowSize int) {
	signal := testutil.Sine(440, 44100, 0.8, 44100)
	d, _ := NewDetector(Config{SampleRate: 44100, WindowSize: windowSize})

	b.ResetTimer()

	for range b.N {
		_ = d.Detect(signal)
	}
}

func BenchmarkDetect1sWindow512(b *testing.B)  { benchmarkDetect(b, 512) }
func BenchmarkDetect1sWindow2048(b *testing.B) { benchmarkDetect(b, 2048) }

func BenchmarkDifferenceDirect2048(b *testing.B) {
	win := testutil.Noise(3, 0.8, 2048)
	dst := make([]float64, len(win)/2)

	b.ResetTimer()

	for range b.N {
		differenceDirect(win, dst)
	}
}

func BenchmarkDifferenceFFT2048(b *testing.B) {
	win := testutil.Noise(3, 0.8, 2048)
	dst := make([]float64, len(win)/2)
	fft, err := newFFTDifference(len(win))
	if err != nil {
		b.Fatalf("newFFTDifference() error = %v", err)
	}

	b.ResetTimer()

	for range b.N {
		fft.compute(win, dst)
	}
}
