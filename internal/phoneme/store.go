// Package phoneme builds the reference database of per-phoneme frequency
// fingerprints. A Store is filled once while loading and is read-only after
// Freeze; concurrent readers need no locking.
package phoneme

import (
	"slices"

	"mouthshape/internal/dsp"
	"mouthshape/internal/loaderr"
	"mouthshape/internal/logging"
	"mouthshape/internal/pcm"

	"github.com/sirupsen/logrus"
)

// DefaultMovingAverageFilter disables smoothing.
const DefaultMovingAverageFilter = 1

// Analysis configures how waveforms are reduced to fingerprints.
type Analysis struct {
	MovingAverageFilter int
	TargetFrequencies   []float64
	Basis               dsp.Basis
	Window              dsp.Window
}

// Store maps phonetic symbols to fingerprints.
type Store struct {
	analysis     Analysis
	extractor    *dsp.Extractor
	rootDir      string
	fingerprints map[string][]float64
	frozen       bool
	logger       logrus.FieldLogger
}

// NewStore returns an empty store. rootDir is the directory waveform paths
// are resolved against; an empty rootDir marks the store as unconfigured.
func NewStore(analysis Analysis, rootDir string, logger logrus.FieldLogger) *Store {
	if analysis.MovingAverageFilter < 1 {
		analysis.MovingAverageFilter = DefaultMovingAverageFilter
	}
	if analysis.Window == "" {
		analysis.Window = dsp.WindowNone
	}
	analysis.TargetFrequencies = slices.Clone(analysis.TargetFrequencies)
	return &Store{
		analysis: analysis,
		extractor: &dsp.Extractor{
			Frequencies: analysis.TargetFrequencies,
			Basis:       analysis.Basis,
			Window:      analysis.Window,
		},
		rootDir:      rootDir,
		fingerprints: make(map[string][]float64),
		logger:       logging.OrDiscard(logger),
	}
}

// AddFingerprint normalizes, smooths and fingerprints buf, then stores the
// result under symbol.
func (s *Store) AddFingerprint(symbol string, buf pcm.Buffer) error {
	if err := s.checkInsert(symbol); err != nil {
		return err
	}
	wave, err := pcm.Normalize(buf)
	if err != nil {
		return err
	}
	return s.AddNormalized(symbol, wave.Data, wave.Format.SampleRate)
}

// AddNormalized fingerprints a waveform already scaled to [-1, 1].
func (s *Store) AddNormalized(symbol string, waveform []float64, sampleRate int) error {
	if err := s.checkInsert(symbol); err != nil {
		return err
	}
	fp, err := s.fingerprint(waveform, sampleRate)
	if err != nil {
		return err
	}
	s.fingerprints[symbol] = fp
	fields := logrus.Fields{
		"symbol":  symbol,
		"samples": len(waveform),
		"energy":  dsp.Energy(waveform),
	}
	if dsp.Silent(waveform) {
		s.logger.WithFields(fields).Warn("silent recording; fingerprint is all zeros")
	}
	s.logger.WithFields(fields).Debug("fingerprint added")
	return nil
}

// Measure runs the fingerprint pipeline over buf without storing the
// result. It works on frozen stores.
func (s *Store) Measure(buf pcm.Buffer) ([]float64, error) {
	if len(s.analysis.TargetFrequencies) == 0 {
		return nil, loaderr.New(loaderr.NoTargetFrequencies, buf.Source, "no target frequencies", nil)
	}
	wave, err := pcm.Normalize(buf)
	if err != nil {
		return nil, err
	}
	return s.fingerprint(wave.Data, wave.Format.SampleRate)
}

func (s *Store) fingerprint(waveform []float64, sampleRate int) ([]float64, error) {
	if s.analysis.MovingAverageFilter > 1 {
		waveform = dsp.SmoothForward(waveform, s.analysis.MovingAverageFilter)
	}
	return s.extractor.Extract(waveform, sampleRate)
}

func (s *Store) checkInsert(symbol string) error {
	if s.frozen {
		return loaderr.New(loaderr.StoreFrozen, symbol, "phoneme store is frozen", nil)
	}
	if _, ok := s.fingerprints[symbol]; ok {
		return loaderr.New(loaderr.DuplicateSymbol, symbol, "duplicate phonetic symbol", nil)
	}
	if len(s.analysis.TargetFrequencies) == 0 {
		return loaderr.New(loaderr.NoTargetFrequencies, symbol, "no target frequencies", nil)
	}
	return nil
}

// Freeze ends the load phase; later insertions fail with StoreFrozen.
func (s *Store) Freeze() { s.frozen = true }

// Frozen reports whether Freeze has been called.
func (s *Store) Frozen() bool { return s.frozen }

// Contains reports whether symbol has a fingerprint.
func (s *Store) Contains(symbol string) bool {
	_, ok := s.fingerprints[symbol]
	return ok
}

// IsReady is true once the store holds fingerprints, has target frequencies
// and knows where its waveforms live.
func (s *Store) IsReady() bool {
	return len(s.fingerprints) > 0 &&
		len(s.analysis.TargetFrequencies) > 0 &&
		s.rootDir != ""
}

// Fingerprint returns a copy of the fingerprint for symbol.
func (s *Store) Fingerprint(symbol string) ([]float64, bool) {
	fp, ok := s.fingerprints[symbol]
	if !ok {
		return nil, false
	}
	return slices.Clone(fp), true
}

// Fingerprints returns a copy of the whole symbol → fingerprint mapping.
func (s *Store) Fingerprints() map[string][]float64 {
	out := make(map[string][]float64, len(s.fingerprints))
	for sym, fp := range s.fingerprints {
		out[sym] = slices.Clone(fp)
	}
	return out
}

// Symbols returns the stored symbols in sorted order.
func (s *Store) Symbols() []string {
	out := make([]string, 0, len(s.fingerprints))
	for sym := range s.fingerprints {
		out = append(out, sym)
	}
	slices.Sort(out)
	return out
}

func (s *Store) Len() int { return len(s.fingerprints) }

func (s *Store) TargetFrequencies() []float64 { return slices.Clone(s.analysis.TargetFrequencies) }

func (s *Store) MovingAverageFilter() int { return s.analysis.MovingAverageFilter }

func (s *Store) Analysis() Analysis {
	a := s.analysis
	a.TargetFrequencies = slices.Clone(a.TargetFrequencies)
	return a
}

func (s *Store) RootDir() string { return s.rootDir }
