package psola

import (
	"testing"

	"github.com/cwbudde/algo-tune/internal/testutil"
	"github.com/cwbudde/algo-tune/tune/pitch"
)

const (
	testSampleRate = 44100.0
	testHopSize    = 256
)

func detectFrames(t *testing.T, signal []float64) []pitch.Frame {
	t.Helper()
	track, err := pitch.Detect(signal, pitch.Config{SampleRate: testSampleRate})
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	smoothed, err := pitch.Smooth(track, pitch.DefaultMedianWindow)
	if err != nil {
		t.Fatalf("Smooth() error = %v", err)
	}
	return smoothed
}

func TestMarksOnSteadySine(t *testing.T) {
	signal := testutil.Sine(440, testSampleRate, 0.8, 44100)
	frames := detectFrames(t, signal)

	marks := Marks(signal, frames, testSampleRate, testHopSize)
	if len(marks) < 100 {
		t.Fatalf("marks = %d, want at least 100 for one voiced second", len(marks))
	}

	// Strictly increasing, inside the signal.
	for i := 1; i < len(marks); i++ {
		if marks[i] <= marks[i-1] {
			t.Fatalf("marks not strictly increasing at %d: %d <= %d", i, marks[i], marks[i-1])
		}
	}
	if marks[0] < 0 || marks[len(marks)-1] >= len(signal) {
		t.Fatalf("marks out of bounds: first=%d last=%d", marks[0], marks[len(marks)-1])
	}

	// Mean spacing near one pitch period (44100/440 ≈ 100 samples). Peak
	// refinement moves single marks by up to period/4, but the average must
	// track the period.
	span := float64(marks[len(marks)-1] - marks[0])
	mean := span / float64(len(marks)-1)
	if mean < 75 || mean > 130 {
		t.Fatalf("mean mark spacing = %f, want near 100", mean)
	}
}

func TestMarksEmptyForSilence(t *testing.T) {
	signal := testutil.Silence(44100)
	frames := detectFrames(t, signal)

	if marks := Marks(signal, frames, testSampleRate, testHopSize); marks != nil {
		t.Fatalf("marks = %v, want nil for silence", marks)
	}
}

func TestMarksSkipUnvoicedSpan(t *testing.T) {
	voiced := testutil.Sine(440, testSampleRate, 0.8, 22050)
	signal := testutil.Concat(voiced, testutil.Silence(11025), voiced)
	frames := detectFrames(t, signal)

	marks := Marks(signal, frames, testSampleRate, testHopSize)
	if len(marks) == 0 {
		t.Fatalf("no marks for mostly voiced signal")
	}

	// No marks deep inside the silent gap. Analysis windows straddle the
	// boundaries, so allow one window of slack on each side.
	gapLo := 22050 + pitch.DefaultWindowSize
	gapHi := 33075 - pitch.DefaultWindowSize
	for _, m := range marks {
		if m > gapLo && m < gapHi {
			t.Fatalf("mark %d placed inside unvoiced gap (%d, %d)", m, gapLo, gapHi)
		}
	}
}

func TestMarksDegenerateInputs(t *testing.T) {
	frames := []pitch.Frame{{Frequency: 440, Voiced: true}}

	if marks := Marks(nil, frames, testSampleRate, testHopSize); marks != nil {
		t.Errorf("marks on empty signal = %v, want nil", marks)
	}
	if marks := Marks(testutil.Silence(100), nil, testSampleRate, testHopSize); marks != nil {
		t.Errorf("marks on empty frames = %v, want nil", marks)
	}
	if marks := Marks(testutil.Silence(100), frames, 0, testHopSize); marks != nil {
		t.Errorf("marks with zero sample rate = %v, want nil", marks)
	}
}

func TestRefineToPeakFindsLocalMaximum(t *testing.T) {
	signal := make([]float64, 64)
	signal[30] = -0.9
	signal[34] = 0.5

	if got := refineToPeak(signal, 32, 4); got != 30 {
		t.Fatalf("refineToPeak = %d, want 30 (largest |amplitude|)", got)
	}
	if got := refineToPeak(signal, 32, 0); got != 32 {
		t.Fatalf("refineToPeak with zero radius = %d, want center", got)
	}
}

func TestSeedMarkPicksStrongestPulseInFirstPeriod(t *testing.T) {
	signal := testutil.Silence(4096)
	signal[40] = 0.3
	signal[70] = -0.8
	signal[200] = 1.0 // outside the first period

	frames := []pitch.Frame{{Frequency: 441, Voiced: true}} // period 100
	seed, ok := seedMark(signal, frames, testSampleRate, testHopSize)
	if !ok {
		t.Fatalf("seedMark found nothing")
	}
	if seed != 70 {
		t.Fatalf("seed = %d, want 70", seed)
	}
}
