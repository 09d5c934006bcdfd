package dsp

import (
	"fmt"
	"strings"

	"github.com/mjibson/go-dsp/window"
)

// Window names a taper applied to the waveform before extraction.
type Window string

const (
	WindowNone     Window = "none"
	WindowHann     Window = "hann"
	WindowHamming  Window = "hamming"
	WindowBlackman Window = "blackman"
	WindowBartlett Window = "bartlett"
	WindowFlatTop  Window = "flattop"
)

var windowFuncs = map[Window]func(int) []float64{
	WindowHann:     window.Hann,
	WindowHamming:  window.Hamming,
	WindowBlackman: window.Blackman,
	WindowBartlett: window.Bartlett,
	WindowFlatTop:  window.FlatTop,
}

// ParseWindow maps a configuration value to a Window; empty means none.
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	if w == "" || w == WindowNone || w == "rectangular" {
		return WindowNone, nil
	}
	if _, ok := windowFuncs[w]; ok {
		return w, nil
	}
	return WindowNone, fmt.Errorf("unknown analysis window %q", s)
}

// Apply returns a tapered copy of x. Buffers shorter than two samples are
// returned as-is.
func (w Window) Apply(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	if fn, ok := windowFuncs[w]; ok && len(x) > 1 {
		window.Apply(out, fn)
	}
	return out
}
