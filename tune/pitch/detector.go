package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

const (
	// DefaultHopSize is the analysis hop in samples.
	DefaultHopSize = 256
	// DefaultWindowSize is the analysis window in samples.
	DefaultWindowSize = 2048
	// DefaultThreshold is the YIN absolute dip threshold.
	DefaultThreshold = 0.15
	// DefaultMinFreq is the lower edge of the search band in Hz.
	DefaultMinFreq = 60.0
	// DefaultMaxFreq is the upper edge of the search band in Hz.
	DefaultMaxFreq = 1200.0

	// voicingFactor scales the threshold for the voiced/unvoiced decision:
	// a frame is voiced iff its chosen CMNDF minimum is below
	// voicingFactor*threshold.
	voicingFactor = 2.0
)

// Config holds YIN detector parameters. Zero values select defaults, except
// SampleRate which is mandatory.
type Config struct {
	SampleRate float64
	HopSize    int
	WindowSize int
	Threshold  float64
	MinFreq    float64
	MaxFreq    float64
}

func normalizeConfig(cfg Config) Config {
	if cfg.HopSize == 0 {
		cfg.HopSize = DefaultHopSize
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.MinFreq == 0 {
		cfg.MinFreq = DefaultMinFreq
	}
	if cfg.MaxFreq == 0 {
		cfg.MaxFreq = DefaultMaxFreq
	}
	return cfg
}

// Detector estimates per-frame fundamental frequency and voicing.
//
// Detection cost is dominated by the per-frame difference function:
// O(windowSize²) in the direct form. For windows of at least
// fftDifferenceMinWindow samples the detector switches to an FFT-based
// correlation that computes the same values within rounding error.
type Detector struct {
	cfg Config

	fft   *fftDifference // nil selects the direct path
	cmndf []float64
	diff  []float64
}

// NewDetector creates a YIN pitch detector. Zero-valued config fields other
// than SampleRate fall back to package defaults.
func NewDetector(cfg Config) (*Detector, error) {
	cfg = normalizeConfig(cfg)

	if !isFinitePositive(cfg.SampleRate) {
		return nil, fmt.Errorf("pitch detector sample rate must be positive and finite: %f", cfg.SampleRate)
	}
	if cfg.HopSize < 1 {
		return nil, fmt.Errorf("pitch detector hop size must be >= 1: %d", cfg.HopSize)
	}
	if cfg.WindowSize < 4 {
		return nil, fmt.Errorf("pitch detector window size must be >= 4: %d", cfg.WindowSize)
	}
	if math.IsNaN(cfg.Threshold) || cfg.Threshold <= 0 || cfg.Threshold >= 1 {
		return nil, fmt.Errorf("pitch detector threshold must be in (0, 1): %f", cfg.Threshold)
	}
	if !isFinitePositive(cfg.MinFreq) || !isFinitePositive(cfg.MaxFreq) || cfg.MinFreq >= cfg.MaxFreq {
		return nil, fmt.Errorf("pitch detector search band invalid: [%f, %f] Hz", cfg.MinFreq, cfg.MaxFreq)
	}

	d := &Detector{
		cfg:   cfg,
		cmndf: make([]float64, cfg.WindowSize/2),
		diff:  make([]float64, cfg.WindowSize/2),
	}
	if cfg.WindowSize >= fftDifferenceMinWindow {
		// Plan creation can fail for unsupported sizes; the direct path
		// remains available in that case.
		if fft, err := newFFTDifference(cfg.WindowSize); err == nil {
			d.fft = fft
		}
	}
	return d, nil
}

// Config returns the normalized detector configuration.
func (d *Detector) Config() Config { return d.cfg }

// Detect analyzes signal and returns its pitch track. Signals shorter than
// the window produce a track with zero frames and MedianPitch 0.
func (d *Detector) Detect(signal []float64) *Track {
	track := &Track{
		SampleRate: d.cfg.SampleRate,
		HopSize:    d.cfg.HopSize,
	}

	w := d.cfg.WindowSize
	if len(signal) < w {
		return track
	}

	n := (len(signal)-w)/d.cfg.HopSize + 1
	track.Frames = make([]Frame, 0, n)
	for c := 0; c+w <= len(signal); c += d.cfg.HopSize {
		frame := d.analyzeFrame(signal[c : c+w])
		frame.Time = float64(c) / d.cfg.SampleRate
		track.Frames = append(track.Frames, frame)
	}
	track.MedianPitch = medianFrequency(track.Frames)
	return track
}

// Detect is a one-shot detection with the given configuration.
func Detect(signal []float64, cfg Config) (*Track, error) {
	d, err := NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	return d.Detect(signal), nil
}

func (d *Detector) analyzeFrame(win []float64) Frame {
	half := len(win) / 2

	if d.fft != nil {
		d.fft.compute(win, d.diff[:half])
	} else {
		differenceDirect(win, d.diff[:half])
	}
	cumulativeMeanNormalize(d.diff[:half], d.cmndf[:half])

	minPeriod := int(d.cfg.SampleRate / d.cfg.MaxFreq)
	maxPeriod := int(d.cfg.SampleRate / d.cfg.MinFreq)
	tauLo := minPeriod
	if tauLo < 2 {
		tauLo = 2
	}
	tauHi := maxPeriod
	if tauHi > half-1 {
		tauHi = half - 1
	}
	if tauLo >= tauHi {
		return Frame{}
	}

	tau, minVal := findDip(d.cmndf[:half], tauLo, tauHi, d.cfg.Threshold)
	refined := refinePeriod(d.cmndf[:half], tau)

	if minVal >= voicingFactor*d.cfg.Threshold || refined <= 0 {
		return Frame{}
	}

	frame := Frame{
		Frequency:  d.cfg.SampleRate / refined,
		Confidence: core.Clamp(1-minVal, 0, 1),
		Voiced:     true,
	}
	annotate(&frame)
	return frame
}

// findDip scans tau in [lo, hi) for the first value below threshold, walks
// forward to the bottom of that dip, and returns its position and value.
// When no value dips below threshold it returns the global minimum instead.
func findDip(cmndf []float64, lo, hi int, threshold float64) (int, float64) {
	for tau := lo; tau < hi; tau++ {
		if cmndf[tau] < threshold {
			for tau+1 < hi && cmndf[tau+1] < cmndf[tau] {
				tau++
			}
			return tau, cmndf[tau]
		}
	}

	best := lo
	for tau := lo + 1; tau < hi; tau++ {
		if cmndf[tau] < cmndf[best] {
			best = tau
		}
	}
	return best, cmndf[best]
}

// refinePeriod applies parabolic interpolation through the CMNDF values
// around tau. The adjustment is applied only when its magnitude stays below
// one sample; otherwise the integer lag is kept.
func refinePeriod(cmndf []float64, tau int) float64 {
	refined := float64(tau)
	if tau <= 0 || tau >= len(cmndf)-1 {
		return refined
	}

	s0 := cmndf[tau-1]
	s1 := cmndf[tau]
	s2 := cmndf[tau+1]
	denom := s0 - 2*s1 + s2
	if denom == 0 {
		return refined
	}
	adjust := (s0 - s2) / (2 * denom)
	if math.Abs(adjust) < 1 {
		refined += adjust
	}
	return refined
}
