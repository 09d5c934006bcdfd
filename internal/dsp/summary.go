package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the level of a normalized waveform.
type Summary struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	RMS     float64 `json:"rms"`
	Peak    float64 `json:"peak"`
}

// Summarize computes level statistics for x.
func Summarize(x []float64) Summary {
	s := Summary{Samples: len(x)}
	if len(x) == 0 {
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		s.StdDev = 0
	}
	s.RMS = floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
	s.Peak = math.Max(math.Abs(floats.Max(x)), math.Abs(floats.Min(x)))
	return s
}
