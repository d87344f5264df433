package psola

import (
	"math"

	"github.com/cwbudde/algo-tune/tune/pitch"
)

// Marks locates pitch-synchronous epoch positions in signal.
//
// The first mark seeds at the sample of maximum absolute amplitude within the
// first voiced frame's first pitch period. Each following mark lies one local
// pitch period past the previous one, refined to the amplitude peak within
// ±period/4 so the marks stay aligned to glottal pulses as the frequency
// drifts. Unvoiced spans are skipped without placing marks. The returned
// indices are strictly increasing.
func Marks(signal []float64, frames []pitch.Frame, sampleRate float64, hopSize int) []int {
	if len(signal) == 0 || len(frames) == 0 || sampleRate <= 0 || hopSize < 1 {
		return nil
	}

	seed, ok := seedMark(signal, frames, sampleRate, hopSize)
	if !ok {
		return nil
	}

	marks := []int{seed}
	pos := seed
	for pos < len(signal) {
		f := coveringFrame(frames, pos, hopSize)
		if !f.Voiced || f.Frequency <= 0 {
			pos += hopSize
			continue
		}

		period := int(math.Round(sampleRate / f.Frequency))
		if period < 1 {
			period = 1
		}

		next := pos + period
		if next >= len(signal) {
			break
		}
		next = refineToPeak(signal, next, period/4)
		if next <= pos {
			// Peak refinement may pull backwards near a louder earlier
			// pulse; keep the nominal step to preserve strict ordering.
			next = pos + period
		}
		if next >= len(signal) {
			break
		}

		marks = append(marks, next)
		pos = next
	}
	return marks
}

// seedMark finds the strongest pulse within the first voiced frame's first
// pitch period.
func seedMark(signal []float64, frames []pitch.Frame, sampleRate float64, hopSize int) (int, bool) {
	for i, f := range frames {
		if !f.Voiced || f.Frequency <= 0 {
			continue
		}

		start := i * hopSize
		if start >= len(signal) {
			return 0, false
		}
		period := int(math.Round(sampleRate / f.Frequency))
		if period < 1 {
			period = 1
		}
		end := start + period
		if end > len(signal) {
			end = len(signal)
		}

		best := start
		for j := start + 1; j < end; j++ {
			if math.Abs(signal[j]) > math.Abs(signal[best]) {
				best = j
			}
		}
		return best, true
	}
	return 0, false
}

// refineToPeak returns the index of maximum absolute amplitude within
// ±radius of center, clamped to the signal bounds.
func refineToPeak(signal []float64, center, radius int) int {
	if radius <= 0 {
		return center
	}

	lo := center - radius
	if lo < 0 {
		lo = 0
	}
	hi := center + radius
	if hi >= len(signal) {
		hi = len(signal) - 1
	}

	best := center
	for j := lo; j <= hi; j++ {
		if math.Abs(signal[j]) > math.Abs(signal[best]) {
			best = j
		}
	}
	return best
}

// coveringFrame returns the frame whose hop span contains sample position
// pos, clamping to the last frame past the analyzed range.
func coveringFrame(frames []pitch.Frame, pos, hopSize int) pitch.Frame {
	idx := pos / hopSize
	if idx >= len(frames) {
		idx = len(frames) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return frames[idx]
}
