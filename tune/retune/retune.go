// Package retune maps a smoothed pitch track to per-frame target frequencies.
//
// Each voiced frame is quantized to its nearest semitone; a one-pole
// recurrence slews the running corrected pitch toward that quantized value at
// a user-controlled retune speed, and an optional deterministic "humanize"
// stage reintroduces vibrato and drift so the result does not sound robotic.
package retune

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tune/tune/note"
	"github.com/cwbudde/algo-tune/tune/pitch"
)

const (
	// Vibrato rate scales from the base by the span as humanize rises.
	vibratoBaseRateHz = 4.5
	vibratoRateSpanHz = 2.0
	// Depths in semitones at humanize = 100%: 15 cents of vibrato,
	// 30 cents of drift.
	vibratoFullDepth = 0.15
	driftFullDepth   = 0.30
)

// Config holds target computation parameters.
type Config struct {
	SampleRate    float64
	HopSize       int
	RetuneSpeedMs float64 // Convergence time constant in ms; 0 snaps instantly.
	Humanize      float64 // Vibrato/drift amount in percent, [0, 100].
}

// TargetFrequencies returns one target frequency in Hz per input frame,
// aligned by index. Unvoiced frames map to 0, which downstream stages treat
// as "no correction".
//
// The convergence recurrence carries state across frames (an IIR filter), so
// frames are processed strictly in time order. The humanize offsets are pure
// functions of frame time and index; identical inputs always produce
// identical targets.
func TargetFrequencies(frames []pitch.Frame, cfg Config) ([]float64, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	targets := make([]float64, len(frames))

	alpha := 1.0
	if cfg.RetuneSpeedMs > 0 {
		hopDur := float64(cfg.HopSize) / cfg.SampleRate
		alpha = 1 - math.Exp(-hopDur/(cfg.RetuneSpeedMs*0.001))
	}

	corrected := 0.0
	initialized := false
	for i, f := range frames {
		if !f.Voiced || f.Frequency <= 0 {
			continue
		}

		quantized := math.Round(note.FrequencyToMIDI(f.Frequency))
		if !initialized {
			corrected = quantized
			initialized = true
		} else {
			corrected += alpha * (quantized - corrected)
		}

		midi := corrected
		if cfg.Humanize > 0 {
			midi += vibratoOffset(f.Time, cfg.Humanize) + driftOffset(i, cfg.Humanize)
		}
		targets[i] = note.MIDIToFrequency(midi)
	}
	return targets, nil
}

// vibratoOffset is a sinusoidal pitch modulation in semitones. Rate and depth
// both scale with the humanize amount.
func vibratoOffset(timeSec, humanize float64) float64 {
	amount := humanize / 100
	rate := vibratoBaseRateHz + vibratoRateSpanHz*amount
	return math.Sin(2*math.Pi*rate*timeSec) * vibratoFullDepth * amount
}

// driftOffset is a slow pseudo-random pitch wander in semitones, derived
// from the frame index alone so runs are reproducible.
func driftOffset(frameIndex int, humanize float64) float64 {
	i := float64(frameIndex)
	return math.Sin(i*0.1) * math.Cos(i*0.037) * driftFullDepth * (humanize / 100)
}

func validate(cfg Config) error {
	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return fmt.Errorf("retune sample rate must be positive and finite: %f", cfg.SampleRate)
	}
	if cfg.HopSize < 1 {
		return fmt.Errorf("retune hop size must be >= 1: %d", cfg.HopSize)
	}
	if math.IsNaN(cfg.RetuneSpeedMs) || cfg.RetuneSpeedMs < 0 {
		return fmt.Errorf("retune speed must be >= 0 ms: %f", cfg.RetuneSpeedMs)
	}
	if math.IsNaN(cfg.Humanize) || cfg.Humanize < 0 || cfg.Humanize > 100 {
		return fmt.Errorf("retune humanize must be in [0, 100]: %f", cfg.Humanize)
	}
	return nil
}
