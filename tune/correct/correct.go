// Package correct provides the monophonic pitch-correction pipeline.
//
// CorrectPitch runs detection, track smoothing, target computation, epoch
// marking, and PSOLA resynthesis over a complete mono buffer, then blends the
// corrected signal with the original according to the tune amount. HardTune
// is the fixed instant/fully-wet preset. All stages degrade to identity on
// in-range input; only out-of-range parameters or non-finite samples error.
package correct

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tune/tune/pitch"
	"github.com/cwbudde/algo-tune/tune/psola"
	"github.com/cwbudde/algo-tune/tune/retune"
)

const smoothWindow = pitch.DefaultMedianWindow

// Params holds the user-facing correction controls.
type Params struct {
	RetuneSpeed float64 // Convergence time constant in ms, [0, 100]; 0 snaps instantly.
	Humanize    float64 // Vibrato/drift amount in percent, [0, 100].
	TuneAmount  float64 // Wet/dry mix in percent, [0, 100]; 0 bypasses entirely.
}

// DefaultParams returns moderate, natural-sounding correction settings.
func DefaultParams() Params {
	return Params{RetuneSpeed: 50, Humanize: 20, TuneAmount: 100}
}

// HardTuneParams returns the robotic hard-tune preset: instant retune, no
// humanize, fully wet.
func HardTuneParams() Params {
	return Params{RetuneSpeed: 0, Humanize: 0, TuneAmount: 100}
}

// Corrector runs the correction pipeline for one sample rate.
type Corrector struct {
	sampleRate float64
	detector   *pitch.Detector
}

// New creates a pitch corrector. Detection runs with the package defaults
// (hop 256, window 2048, YIN threshold 0.15, band 60–1200 Hz).
func New(sampleRate float64) (*Corrector, error) {
	detector, err := pitch.NewDetector(pitch.Config{SampleRate: sampleRate})
	if err != nil {
		return nil, fmt.Errorf("pitch corrector: %w", err)
	}
	return &Corrector{sampleRate: sampleRate, detector: detector}, nil
}

// SampleRate returns the corrector's sample rate in Hz.
func (c *Corrector) SampleRate() float64 { return c.sampleRate }

// Process corrects the pitch of signal and returns a new buffer of the same
// length. A TuneAmount of 0 returns an unmodified copy without running any
// detection work.
func (c *Corrector) Process(signal []float64, params Params) ([]float64, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if err := validateSignal(signal); err != nil {
		return nil, err
	}

	out := make([]float64, len(signal))
	copy(out, signal)
	if params.TuneAmount <= 0 {
		return out, nil
	}

	cfg := c.detector.Config()
	track := c.detector.Detect(signal)

	smoothed, err := pitch.Smooth(track, smoothWindow)
	if err != nil {
		return nil, fmt.Errorf("pitch corrector: %w", err)
	}

	targets, err := retune.TargetFrequencies(smoothed, retune.Config{
		SampleRate:    c.sampleRate,
		HopSize:       cfg.HopSize,
		RetuneSpeedMs: params.RetuneSpeed,
		Humanize:      params.Humanize,
	})
	if err != nil {
		return nil, fmt.Errorf("pitch corrector: %w", err)
	}

	marks := psola.Marks(signal, smoothed, c.sampleRate, cfg.HopSize)
	corrected := psola.Resynthesize(signal, marks, smoothed, targets, c.sampleRate, cfg.HopSize)

	wet := params.TuneAmount / 100
	if wet >= 1 {
		return corrected, nil
	}
	for i := range out {
		out[i] = corrected[i]*wet + signal[i]*(1-wet)
	}
	return out, nil
}

// CorrectPitch is a one-shot correction of signal at the given sample rate.
func CorrectPitch(signal []float64, sampleRate float64, params Params) ([]float64, error) {
	c, err := New(sampleRate)
	if err != nil {
		return nil, err
	}
	return c.Process(signal, params)
}

// HardTune applies instant, fully-wet, non-humanized correction.
func HardTune(signal []float64, sampleRate float64) ([]float64, error) {
	return CorrectPitch(signal, sampleRate, HardTuneParams())
}

func validateParams(params Params) error {
	if math.IsNaN(params.RetuneSpeed) || params.RetuneSpeed < 0 || params.RetuneSpeed > 100 {
		return fmt.Errorf("pitch corrector retune speed must be in [0, 100] ms: %f", params.RetuneSpeed)
	}
	if math.IsNaN(params.Humanize) || params.Humanize < 0 || params.Humanize > 100 {
		return fmt.Errorf("pitch corrector humanize must be in [0, 100]: %f", params.Humanize)
	}
	if math.IsNaN(params.TuneAmount) || params.TuneAmount < 0 || params.TuneAmount > 100 {
		return fmt.Errorf("pitch corrector tune amount must be in [0, 100]: %f", params.TuneAmount)
	}
	return nil
}

func validateSignal(signal []float64) error {
	for i, v := range signal {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("pitch corrector signal sample %d is not finite: %f", i, v)
		}
	}
	return nil
}
