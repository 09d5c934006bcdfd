// Package dsp holds the signal transforms used to fingerprint phoneme
// recordings.
package dsp

import (
	"gonum.org/v1/gonum/floats"
)

// SmoothForward applies a forward-looking box filter: each output sample is
// the mean of itself and the next window-1 input samples. Near the end of the
// buffer the window shrinks to whatever samples remain. A window of 1 or less
// returns an unmodified copy. The input is never mutated.
func SmoothForward(x []float64, window int) []float64 {
	out := make([]float64, len(x))
	if window <= 1 {
		copy(out, x)
		return out
	}
	for i := range x {
		end := min(i+window, len(x))
		out[i] = floats.Sum(x[i:end]) / float64(end-i)
	}
	return out
}
