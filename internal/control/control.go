package control

import (
	"fmt"

	"mouthshape/internal/config"
	"mouthshape/internal/logging"
	"mouthshape/internal/phoneme"
	"mouthshape/internal/viseme"

	"github.com/sirupsen/logrus"
)

// Status is the machine-readable summary printed by `fingerprints --json`.
type Status struct {
	Database    string                `json:"database"`
	Ready       bool                  `json:"ready"`
	Frequencies []float64             `json:"target_frequencies"`
	Filter      int                   `json:"moving_average_filter"`
	Phonemes    []phoneme.Fingerprint `json:"phonemes"`
}

// VisemeStatus is the machine-readable summary printed by `visemes --json`.
type VisemeStatus struct {
	Config        string            `json:"config"`
	Ready         bool              `json:"ready"`
	TransitionSec float64           `json:"state_transition_time"`
	Visemes       map[string]int    `json:"visemes"`
	Associations  map[string]string `json:"phoneme_associations"`
}

// session is everything a command needs after startup.
type session struct {
	cfg      *config.Config
	logger   *logrus.Logger
	phonemes *phoneme.Store
	mesh     *viseme.Mesh
}

func openConfig(cfgPath string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.Configure(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openSession loads the phoneme database and then the viseme config, which
// is validated against it.
func openSession(cfgPath string) (*session, error) {
	cfg, logger, err := openConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	store, err := phoneme.Load(cfg.Resolve(cfg.Phonemes.Database), logger)
	if err != nil {
		return nil, err
	}
	mesh, err := viseme.Load(cfg.Resolve(cfg.Visemes.Config), store, logger)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, phonemes: store, mesh: mesh}, nil
}

func (s *session) requireDisplay() (*viseme.Display, error) {
	d := s.mesh.Display()
	if d == nil {
		return nil, fmt.Errorf("no viseme config loaded from %s", s.cfg.Resolve(s.cfg.Visemes.Config))
	}
	return d, nil
}
