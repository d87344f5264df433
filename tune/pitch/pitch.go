// Package pitch estimates the fundamental frequency of mono signals.
//
// Detection uses the YIN algorithm (de Cheveigné & Kawahara 2002): a
// cumulative mean normalized difference function scanned for its first dip
// below an absolute threshold, refined by parabolic interpolation. The
// package also provides a non-causal median smoother that suppresses octave
// errors in the resulting track.
package pitch

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-tune/tune/note"
)

// Frame holds the pitch estimate for one analysis hop.
type Frame struct {
	Time       float64 // Window start time in seconds.
	Frequency  float64 // Fundamental in Hz, 0 when unvoiced.
	Confidence float64 // Estimator confidence in [0, 1], 0 when unvoiced.
	MIDINote   int     // Nearest MIDI note number.
	CentsOff   float64 // Deviation from MIDINote in cents, in [-50, 50].
	NoteName   string  // Note name with octave, e.g. "A4".
	Voiced     bool
}

// Track is an ordered sequence of frames analyzed over one signal.
type Track struct {
	Frames      []Frame
	SampleRate  float64
	HopSize     int
	MedianPitch float64 // Median frequency over voiced frames, 0 if none.
}

// annotate fills the note-derived fields of a voiced frame from its frequency.
func annotate(f *Frame) {
	midi := note.FrequencyToMIDI(f.Frequency)
	f.MIDINote = note.Nearest(midi)
	f.CentsOff = note.Cents(midi)
	f.NoteName = note.Name(f.MIDINote)
}

// medianFrequency returns the middle element of the sorted voiced
// frequencies, or 0 when no frame is voiced.
func medianFrequency(frames []Frame) float64 {
	freqs := make([]float64, 0, len(frames))
	for _, f := range frames {
		if f.Voiced && f.Frequency > 0 {
			freqs = append(freqs, f.Frequency)
		}
	}
	if len(freqs) == 0 {
		return 0
	}
	sort.Float64s(freqs)
	return freqs[len(freqs)/2]
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
