package dsp

import (
	"fmt"
	"math"
	"strings"

	"mouthshape/internal/loaderr"
)

// Basis selects the unit target frequencies are expressed in.
type Basis int

const (
	// BasisWindow treats a frequency as cycles across the analysed buffer,
	// evaluating |Σ x[t]·e^{-j2πft/S}| for a buffer of S samples.
	BasisWindow Basis = iota
	// BasisSampleRate treats a frequency as Hz at the waveform's sample rate.
	BasisSampleRate
)

func (b Basis) String() string {
	switch b {
	case BasisWindow:
		return "window"
	case BasisSampleRate:
		return "sample_rate"
	}
	return fmt.Sprintf("basis(%d)", int(b))
}

// ParseBasis accepts "window" (the default when empty) or "sample_rate".
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "window", "cycles":
		return BasisWindow, nil
	case "sample_rate", "hz":
		return BasisSampleRate, nil
	}
	return BasisWindow, fmt.Errorf("unknown frequency basis %q", s)
}

// Extractor reduces a waveform to one DFT magnitude per target frequency.
type Extractor struct {
	Frequencies []float64
	Basis       Basis
	Window      Window
}

// ValidateFrequencies checks the set is non-empty and every entry positive.
func ValidateFrequencies(freqs []float64) error {
	if len(freqs) == 0 {
		return loaderr.New(loaderr.NoTargetFrequencies, "", "no target frequencies", nil)
	}
	for i, f := range freqs {
		if !(f > 0) || math.IsInf(f, 0) {
			return loaderr.New(loaderr.ConfigMalformed, fmt.Sprint(f),
				fmt.Sprintf("target frequency %d must be positive", i), nil)
		}
	}
	return nil
}

// Extract returns the fingerprint of x, indexed like e.Frequencies.
// sampleRate is only consulted on the sample-rate basis.
func (e *Extractor) Extract(x []float64, sampleRate int) ([]float64, error) {
	if len(e.Frequencies) == 0 {
		return nil, loaderr.New(loaderr.NoTargetFrequencies, "", "no target frequencies", nil)
	}
	period := float64(len(x))
	if e.Basis == BasisSampleRate {
		if sampleRate <= 0 {
			return nil, fmt.Errorf("sample-rate basis needs a sample rate, got %d", sampleRate)
		}
		period = float64(sampleRate)
	}
	if _, ok := windowFuncs[e.Window]; ok {
		x = e.Window.Apply(x)
	}
	return TargetMagnitudes(x, e.Frequencies, period), nil
}

// TargetMagnitudes evaluates the DFT of x at each frequency only, by direct
// summation. A frequency f completes f cycles every period samples.
func TargetMagnitudes(x []float64, freqs []float64, period float64) []float64 {
	out := make([]float64, len(freqs))
	if len(x) == 0 || period <= 0 {
		return out
	}
	for i, f := range freqs {
		step := -2 * math.Pi * f / period
		var re, im float64
		for t, v := range x {
			s, c := math.Sincos(step * float64(t))
			re += v * c
			im += v * s
		}
		out[i] = math.Hypot(re, im)
	}
	return out
}
