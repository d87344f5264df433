package pitch

import (
	"fmt"
	"sort"
)

const (
	// DefaultMedianWindow is the default smoothing neighborhood size.
	DefaultMedianWindow = 5

	// Frequencies further than these ratios from the neighborhood median
	// are treated as octave errors.
	octaveHighRatio = 1.5
	octaveLowRatio  = 0.67
)

// Smooth returns a new frame sequence with octave jumps suppressed.
//
// For each voiced frame the frequencies of the voiced frames within
// ±medianWindow/2 positions form a neighborhood; frames with fewer than 3
// voiced neighbors pass through unchanged. A frame more than an octave ratio
// away from the neighborhood median is halved or doubled back toward it and
// its note fields are recomputed. The filter is non-causal: it reads both
// past and future frames of the immutable input.
func Smooth(track *Track, medianWindow int) ([]Frame, error) {
	if track == nil {
		return nil, fmt.Errorf("pitch smoother track must not be nil")
	}
	if medianWindow < 1 || medianWindow%2 == 0 {
		return nil, fmt.Errorf("pitch smoother window must be positive and odd: %d", medianWindow)
	}

	out := append([]Frame(nil), track.Frames...)
	half := medianWindow / 2
	neighborhood := make([]float64, 0, medianWindow)

	for i, f := range track.Frames {
		if !f.Voiced || f.Frequency <= 0 {
			continue
		}

		neighborhood = neighborhood[:0]
		for j := i - half; j <= i+half; j++ {
			if j < 0 || j >= len(track.Frames) || j == i {
				continue
			}
			n := track.Frames[j]
			if n.Voiced && n.Frequency > 0 {
				neighborhood = append(neighborhood, n.Frequency)
			}
		}
		if len(neighborhood) < 3 {
			continue
		}

		sort.Float64s(neighborhood)
		median := neighborhood[len(neighborhood)/2]
		if median <= 0 {
			continue
		}

		ratio := f.Frequency / median
		switch {
		case ratio > octaveHighRatio:
			out[i].Frequency = f.Frequency / 2
		case ratio < octaveLowRatio:
			out[i].Frequency = f.Frequency * 2
		default:
			continue
		}
		annotate(&out[i])
	}
	return out, nil
}
