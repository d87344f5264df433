package note

import (
	"math"
	"testing"
)

func TestFrequencyToMIDIKnownValues(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		want float64
	}{
		{name: "A4", freq: 440, want: 69},
		{name: "A5", freq: 880, want: 81},
		{name: "A3", freq: 220, want: 57},
		{name: "C4", freq: 261.6255653005986, want: 60},
		{name: "non-positive", freq: 0, want: 0},
		{name: "negative", freq: -10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrequencyToMIDI(tt.freq)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("FrequencyToMIDI(%f) = %f, want %f", tt.freq, got, tt.want)
			}
		})
	}
}

func TestMIDIRoundTrip(t *testing.T) {
	for freq := 20.0; freq < 8000; freq *= 1.07 {
		got := MIDIToFrequency(FrequencyToMIDI(freq))
		if math.Abs(got-freq)/freq > 1e-6 {
			t.Fatalf("round trip %f Hz -> %f Hz exceeds 1e-6 relative error", freq, got)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		midi int
		want string
	}{
		{69, "A4"},
		{60, "C4"},
		{61, "C#4"},
		{0, "C-1"},
		{11, "B-1"},
		{127, "G9"},
		{-1, "B-2"},
	}

	for _, tt := range tests {
		if got := Name(tt.midi); got != tt.want {
			t.Errorf("Name(%d) = %q, want %q", tt.midi, got, tt.want)
		}
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		midi float64
		want float64
	}{
		{69, 0},
		{69.2, 20},
		{68.8, -20},
		{69.495, 49.5},
	}

	for _, tt := range tests {
		if got := Cents(tt.midi); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Cents(%f) = %f, want %f", tt.midi, got, tt.want)
		}
	}
}

func TestCentsRange(t *testing.T) {
	for midi := -10.0; midi < 140; midi += 0.013 {
		c := Cents(midi)
		if c < -50 || c > 50 {
			t.Fatalf("Cents(%f) = %f out of [-50, 50]", midi, c)
		}
	}
}
