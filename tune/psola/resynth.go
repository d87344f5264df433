package psola

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/cwbudde/algo-tune/tune/pitch"
)

// envelopeEpsilon separates grain-covered output samples from gaps that fall
// back to the input.
const envelopeEpsilon = 1e-9

// Resynthesize regenerates signal at the per-frame target pitch.
//
// Output marks start at the first input mark and advance by the target period
// of the covering frame; spans whose target is 0 advance by hopSize without
// emitting marks, leaving them untouched. For each output mark the nearest
// input mark contributes a grain of two local pitch periods, Hann windowed
// and accumulated together with the window itself. Dividing by the
// accumulated envelope removes the window gain; samples with no grain
// coverage keep their input value. With fewer than two marks there is not
// enough voicing to resynthesize and the input is returned as a copy.
//
// targets must align 1:1 with frames. The output has the input's length.
func Resynthesize(signal []float64, marks []int, frames []pitch.Frame, targets []float64, sampleRate float64, hopSize int) []float64 {
	out := make([]float64, len(signal))
	if len(marks) < 2 || len(frames) == 0 || len(targets) != len(frames) ||
		sampleRate <= 0 || hopSize < 1 {
		copy(out, signal)
		return out
	}

	outMarks := outputMarks(len(signal), marks[0], targets, sampleRate, hopSize)
	if len(outMarks) == 0 {
		copy(out, signal)
		return out
	}

	envelope := make([]float64, len(signal))
	windows := map[int][]float64{}
	src := 0
	for _, outMark := range outMarks {
		src = nearestMark(marks, outMark, src)

		f := coveringFrame(frames, marks[src], hopSize)
		if f.Frequency <= 0 {
			continue
		}
		period := int(math.Round(sampleRate / f.Frequency))
		if period < 2 {
			period = 2
		}

		coeffs, ok := windows[period]
		if !ok {
			coeffs = window.Generate(window.TypeHann, 2*period)
			windows[period] = coeffs
		}
		addGrain(out, envelope, signal, coeffs, marks[src], outMark, period)
	}

	for i := range out {
		if envelope[i] > envelopeEpsilon {
			out[i] /= envelope[i]
		} else {
			out[i] = signal[i]
		}
	}
	return out
}

// outputMarks walks the output timeline from start, stepping by the target
// period where the covering frame is voiced and by hopSize (mark-free)
// where it is not.
func outputMarks(length, start int, targets []float64, sampleRate float64, hopSize int) []int {
	var out []int
	pos := float64(start)
	for pos < float64(length) {
		idx := int(pos) / hopSize
		if idx >= len(targets) {
			idx = len(targets) - 1
		}

		target := targets[idx]
		if target <= 0 {
			pos += float64(hopSize)
			continue
		}

		out = append(out, int(math.Round(pos)))
		pos += sampleRate / target
	}
	return out
}

// nearestMark returns the index of the mark closest to pos, scanning forward
// from the previous match. Marks ascend, so the scan stops as soon as the
// distance starts increasing.
func nearestMark(marks []int, pos, from int) int {
	i := from
	for i+1 < len(marks) && intAbs(marks[i+1]-pos) <= intAbs(marks[i]-pos) {
		i++
	}
	return i
}

// addGrain overlap-adds one windowed grain centered at inMark into out at
// outMark, accumulating the window into envelope for later normalization.
func addGrain(out, envelope, signal, coeffs []float64, inMark, outMark, period int) {
	for j, w := range coeffs {
		si := inMark - period + j
		oi := outMark - period + j
		if si < 0 || si >= len(signal) || oi < 0 || oi >= len(out) {
			continue
		}
		out[oi] += signal[si] * w
		envelope[oi] += w
	}
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
