package phoneme

import (
	"mouthshape/internal/document"
)

// Snapshot is a serializable view of a store's fingerprints.
type Snapshot struct {
	Analysis     SnapshotAnalysis `json:"analysis" toml:"analysis" yaml:"analysis"`
	Fingerprints []Fingerprint    `json:"fingerprints" toml:"fingerprints" yaml:"fingerprints"`
}

type SnapshotAnalysis struct {
	MovingAverageFilter int       `json:"moving_average_filter" toml:"moving_average_filter" yaml:"moving_average_filter"`
	TargetFrequencies   []float64 `json:"target_frequencies" toml:"target_frequencies" yaml:"target_frequencies"`
	FrequencyBasis      string    `json:"frequency_basis" toml:"frequency_basis" yaml:"frequency_basis"`
	Window              string    `json:"window" toml:"window" yaml:"window"`
}

// Fingerprint is one symbol's magnitudes, ordered like the target frequencies.
type Fingerprint struct {
	Symbol     string    `json:"symbol" toml:"symbol" yaml:"symbol"`
	Magnitudes []float64 `json:"magnitudes" toml:"magnitudes" yaml:"magnitudes"`
}

// Snapshot copies the store contents, sorted by symbol.
func (s *Store) Snapshot() Snapshot {
	a := s.Analysis()
	snap := Snapshot{
		Analysis: SnapshotAnalysis{
			MovingAverageFilter: a.MovingAverageFilter,
			TargetFrequencies:   a.TargetFrequencies,
			FrequencyBasis:      a.Basis.String(),
			Window:              string(a.Window),
		},
		Fingerprints: make([]Fingerprint, 0, s.Len()),
	}
	for _, sym := range s.Symbols() {
		fp, _ := s.Fingerprint(sym)
		snap.Fingerprints = append(snap.Fingerprints, Fingerprint{Symbol: sym, Magnitudes: fp})
	}
	return snap
}

// Export writes the snapshot to path; the format follows the extension.
func (s *Store) Export(path string) error {
	return document.Write(path, s.Snapshot())
}
