// Package psola implements pitch-synchronous overlap-add resynthesis.
//
// Marks locates glottal-pulse-aligned epoch positions in voiced regions of
// the input. Resynthesize then extracts two-period Hann-windowed grains at
// those input marks and overlap-adds them at output marks spaced by the
// per-frame target period, shifting the perceived pitch while keeping the
// local waveform shape. Unvoiced spans carry no marks and pass through
// unchanged.
package psola
