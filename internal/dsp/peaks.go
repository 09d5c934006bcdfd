package dsp

import (
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Peak is one strong bin of a magnitude spectrum.
type Peak struct {
	Frequency float64 `json:"frequency"`
	Magnitude float64 `json:"magnitude"`
}

// Peaks runs a full FFT over x and returns the n strongest local maxima of
// the positive half spectrum, strongest first. Frequencies are in Hz when
// sampleRate is positive and in cycles per buffer otherwise.
func Peaks(x []float64, sampleRate, n int) []Peak {
	if len(x) < 2 || n <= 0 {
		return nil
	}
	spectrum := fft.FFTReal(x)
	half := len(spectrum) / 2
	mags := make([]float64, half+1)
	for i := range mags {
		mags[i] = cmplx.Abs(spectrum[i])
	}

	binHz := 1.0
	if sampleRate > 0 {
		binHz = float64(sampleRate) / float64(len(x))
	}

	var peaks []Peak
	for i := 1; i < len(mags); i++ {
		left := mags[i-1]
		right := 0.0
		if i+1 < len(mags) {
			right = mags[i+1]
		}
		if mags[i] > left && mags[i] >= right {
			peaks = append(peaks, Peak{Frequency: float64(i) * binHz, Magnitude: mags[i]})
		}
	}
	sort.SliceStable(peaks, func(a, b int) bool { return peaks[a].Magnitude > peaks[b].Magnitude })
	if len(peaks) > n {
		peaks = peaks[:n]
	}
	return peaks
}

// SilenceThreshold is the energy below which a waveform counts as silent.
const SilenceThreshold = 1e-6

// Energy returns the L2 norm of x.
func Energy(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, 2)
}

// Silent reports whether x carries no usable signal.
func Silent(x []float64) bool { return Energy(x) < SilenceThreshold }
