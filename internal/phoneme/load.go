package phoneme

import (
	"errors"
	"fmt"
	"path/filepath"

	"mouthshape/internal/document"
	"mouthshape/internal/dsp"
	"mouthshape/internal/loaderr"
	"mouthshape/internal/logging"
	"mouthshape/internal/pcm"

	"github.com/sirupsen/logrus"
)

// Database is the on-disk layout of a phoneme database document:
//
//	{ "analysis": { "moving_average_filter": 5, "target_frequencies": [80.0, 85.0] },
//	  "phonemes": [ { "symbol": "a", "file_path": "English/a.wav" } ] }
type Database struct {
	Analysis *AnalysisSection `json:"analysis,omitempty" toml:"analysis,omitempty" yaml:"analysis,omitempty"`
	Phonemes []Entry          `json:"phonemes,omitempty" toml:"phonemes,omitempty" yaml:"phonemes,omitempty"`
}

// AnalysisSection is the "analysis" block of a database document.
type AnalysisSection struct {
	MovingAverageFilter *int      `json:"moving_average_filter,omitempty" toml:"moving_average_filter,omitempty" yaml:"moving_average_filter,omitempty"`
	LegacyMovingAverage *int      `json:"moving_avarage_filter,omitempty" toml:"moving_avarage_filter,omitempty" yaml:"moving_avarage_filter,omitempty"`
	TargetFrequencies   []float64 `json:"target_frequencies" toml:"target_frequencies" yaml:"target_frequencies"`
	FrequencyBasis      string    `json:"frequency_basis,omitempty" toml:"frequency_basis,omitempty" yaml:"frequency_basis,omitempty"`
	Window              string    `json:"window,omitempty" toml:"window,omitempty" yaml:"window,omitempty"`
}

// Entry names one phoneme recording. Encoding, Channels and SampleRate only
// apply to headerless .raw/.pcm files.
type Entry struct {
	Symbol     string `json:"symbol" toml:"symbol" yaml:"symbol"`
	FilePath   string `json:"file_path" toml:"file_path" yaml:"file_path"`
	Encoding   string `json:"encoding,omitempty" toml:"encoding,omitempty" yaml:"encoding,omitempty"`
	Channels   int    `json:"channels,omitempty" toml:"channels,omitempty" yaml:"channels,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty" toml:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
}

// Load builds a frozen store from the database document at path. A missing
// or unreadable document is not an error: the returned store is empty,
// frozen and not ready. A document that does not parse, or any other
// problem, aborts the whole load and no store is returned.
func Load(path string, logger logrus.FieldLogger) (*Store, error) {
	logger = logging.OrDiscard(logger).WithField("database", path)

	var db Database
	if err := document.Read(path, &db); err != nil {
		if errors.Is(err, loaderr.ConfigMissing) {
			logger.WithError(err).Debug("phoneme database not readable; skipping load")
			store := NewStore(Analysis{}, "", logger)
			store.Freeze()
			return store, nil
		}
		return nil, err
	}

	store, err := Build(db, filepath.Dir(path), logger)
	if err != nil {
		return nil, fmt.Errorf("load phoneme database %s: %w", path, err)
	}
	logger.WithFields(logrus.Fields{
		"phonemes":    store.Len(),
		"frequencies": len(store.TargetFrequencies()),
	}).Info("phoneme database loaded")
	return store, nil
}

// Build fingerprints every entry of db, resolving file paths against
// rootDir, and returns the frozen store.
func Build(db Database, rootDir string, logger logrus.FieldLogger) (*Store, error) {
	analysis := Analysis{MovingAverageFilter: DefaultMovingAverageFilter}
	if db.Analysis != nil {
		a, err := db.Analysis.resolve()
		if err != nil {
			return nil, err
		}
		analysis = a
	}

	store := NewStore(analysis, rootDir, logger)
	for i, entry := range db.Phonemes {
		if err := store.addEntry(entry, rootDir); err != nil {
			return nil, fmt.Errorf("phoneme %d: %w", i, err)
		}
	}
	store.Freeze()
	return store, nil
}

func (a *AnalysisSection) resolve() (Analysis, error) {
	out := Analysis{MovingAverageFilter: DefaultMovingAverageFilter}
	window := a.MovingAverageFilter
	if window == nil {
		window = a.LegacyMovingAverage
	}
	if window != nil {
		if *window < 1 {
			return out, loaderr.New(loaderr.ConfigMalformed, fmt.Sprint(*window),
				"moving_average_filter must be at least 1", nil)
		}
		out.MovingAverageFilter = *window
	}
	if err := dsp.ValidateFrequencies(a.TargetFrequencies); err != nil {
		return out, err
	}
	out.TargetFrequencies = a.TargetFrequencies

	basis, err := dsp.ParseBasis(a.FrequencyBasis)
	if err != nil {
		return out, loaderr.New(loaderr.ConfigMalformed, a.FrequencyBasis, "invalid frequency_basis", err)
	}
	out.Basis = basis
	win, err := dsp.ParseWindow(a.Window)
	if err != nil {
		return out, loaderr.New(loaderr.ConfigMalformed, a.Window, "invalid window", err)
	}
	out.Window = win
	return out, nil
}

func (s *Store) addEntry(e Entry, rootDir string) error {
	if e.Symbol == "" {
		return loaderr.New(loaderr.ConfigMalformed, e.FilePath, "phoneme entry without symbol", nil)
	}
	if e.FilePath == "" {
		return loaderr.New(loaderr.ConfigMalformed, e.Symbol, "phoneme entry without file_path", nil)
	}
	// Duplicates are rejected before the waveform is read.
	if err := s.checkInsert(e.Symbol); err != nil {
		return err
	}
	raw, err := e.rawSpec()
	if err != nil {
		return err
	}
	buf, err := pcm.Open(filepath.Join(rootDir, e.FilePath), raw)
	if err != nil {
		return err
	}
	return s.AddFingerprint(e.Symbol, buf)
}

func (e Entry) rawSpec() (pcm.RawSpec, error) {
	spec := pcm.RawSpec{Channels: e.Channels, SampleRate: e.SampleRate}
	if e.Encoding == "" {
		return spec, nil
	}
	enc, err := pcm.ParseEncoding(e.Encoding)
	if err != nil {
		return spec, loaderr.New(loaderr.UnsupportedAudioEncoding, e.Symbol, "invalid encoding", err)
	}
	spec.Encoding = enc
	return spec, nil
}
