// Package note converts between frequencies, MIDI note numbers, and note names.
//
// All conversions use equal temperament with A4 = 440 Hz = MIDI 69.
package note

import (
	"fmt"
	"math"
)

const (
	// ReferenceFrequency is the tuning reference A4 in Hz.
	ReferenceFrequency = 440.0
	// ReferenceMIDI is the MIDI note number of A4.
	ReferenceMIDI = 69.0
)

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FrequencyToMIDI converts a frequency in Hz to a fractional MIDI note number.
// Returns 0 for non-positive frequencies.
func FrequencyToMIDI(freq float64) float64 {
	if freq <= 0 {
		return 0
	}
	return ReferenceMIDI + 12*math.Log2(freq/ReferenceFrequency)
}

// MIDIToFrequency converts a fractional MIDI note number to a frequency in Hz.
func MIDIToFrequency(midi float64) float64 {
	return ReferenceFrequency * math.Pow(2, (midi-ReferenceMIDI)/12)
}

// Nearest returns the nearest integer MIDI note number to midi.
func Nearest(midi float64) int {
	return int(math.Round(midi))
}

// Cents returns the deviation of midi from its nearest semitone in cents.
// The result lies in [-50, 50].
func Cents(midi float64) float64 {
	return (midi - math.Round(midi)) * 100
}

// Name returns the note name with octave for a MIDI note number, e.g. "A4" for 69.
func Name(midi int) string {
	octave := midi/12 - 1
	idx := midi % 12
	if idx < 0 {
		idx += 12
		octave--
	}
	return fmt.Sprintf("%s%d", names[idx], octave)
}
