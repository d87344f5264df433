// Package testutil provides deterministic test signals and tolerance helpers.
package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a constant-frequency sine wave.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// VibratoSine generates a sine whose instantaneous frequency oscillates
// sinusoidally around centerHz. The phase is integrated sample by sample, so
// the waveform stays continuous and fully deterministic.
func VibratoSine(centerHz, depthHz, rateHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	phase := 0.0
	for i := range out {
		t := float64(i) / sampleRate
		freq := centerHz + depthHz*math.Sin(2*math.Pi*rateHz*t)
		out[i] = amplitude * math.Sin(phase)
		phase += 2 * math.Pi * freq / sampleRate
	}
	return out
}

// Chirp generates a linear frequency sweep from f0 to f1 Hz.
func Chirp(f0, f1, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	phase := 0.0
	for i := range out {
		frac := float64(i) / float64(length)
		freq := f0 + (f1-f0)*frac
		out[i] = amplitude * math.Sin(phase)
		phase += 2 * math.Pi * freq / sampleRate
	}
	return out
}

// Noise generates seeded white noise in [-amplitude, amplitude].
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Silence returns an all-zero buffer.
func Silence(length int) []float64 {
	return make([]float64, length)
}

// Concat joins segments into one newly allocated buffer.
func Concat(segments ...[]float64) []float64 {
	total := 0
	for _, s := range segments {
		total += len(s)
	}
	out := make([]float64, 0, total)
	for _, s := range segments {
		out = append(out, s...)
	}
	return out
}
