package viseme

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"mouthshape/internal/document"
	"mouthshape/internal/loaderr"
	"mouthshape/internal/logging"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// DefaultTransitionTime applies when animation_settings omits
// state_transition_time.
const DefaultTransitionTime = 250 * time.Millisecond

// Document is the on-disk layout of a viseme configuration:
//
//	{ "visemes": [ { "symbol": "default", "file_path": "Silence.viseme" } ],
//	  "phoneme_associations": [ { "phoneme_symbol": "a", "viseme_symbol": "open" } ],
//	  "animation_settings": { "state_transition_time": 0.25 } }
type Document struct {
	Visemes             []Entry            `json:"visemes,omitempty" toml:"visemes,omitempty" yaml:"visemes,omitempty"`
	PhonemeAssociations []AssociationEntry `json:"phoneme_associations,omitempty" toml:"phoneme_associations,omitempty" yaml:"phoneme_associations,omitempty"`
	AnimationSettings   *AnimationSettings `json:"animation_settings,omitempty" toml:"animation_settings,omitempty" yaml:"animation_settings,omitempty"`
}

type Entry struct {
	Symbol   string `json:"symbol" toml:"symbol" yaml:"symbol"`
	FilePath string `json:"file_path" toml:"file_path" yaml:"file_path"`
}

type AssociationEntry struct {
	PhonemeSymbol string `json:"phoneme_symbol" toml:"phoneme_symbol" yaml:"phoneme_symbol"`
	VisemeSymbol  string `json:"viseme_symbol" toml:"viseme_symbol" yaml:"viseme_symbol"`
}

type AnimationSettings struct {
	// StateTransitionTime is in seconds.
	StateTransitionTime *float64 `json:"state_transition_time,omitempty" toml:"state_transition_time,omitempty" yaml:"state_transition_time,omitempty"`
}

// VertexFile is the content of one viseme file.
type VertexFile struct {
	Vertices []Vertex `json:"Vertices" toml:"Vertices" yaml:"Vertices"`
}

type Vertex struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Mesh is a loaded viseme configuration plus the display it drives.
type Mesh struct {
	table        *Table
	associations *Associations
	transition   time.Duration
	display      *Display
	rootDir      string
}

func emptyMesh(phonemes PhonemeSet) *Mesh {
	table := NewTable()
	return &Mesh{
		table:        table,
		associations: NewAssociations(phonemes, table),
		transition:   DefaultTransitionTime,
	}
}

// Load reads the viseme configuration at path. Associations are validated
// against phonemes. A missing or unreadable configuration yields an empty
// mesh that is not ready; every other problem aborts the load.
func Load(path string, phonemes PhonemeSet, logger logrus.FieldLogger) (*Mesh, error) {
	logger = logging.OrDiscard(logger).WithField("visemes", path)

	var doc Document
	if err := document.Read(path, &doc); err != nil {
		if errors.Is(err, loaderr.ConfigMissing) {
			logger.WithError(err).Debug("viseme config not readable; skipping load")
			return emptyMesh(phonemes), nil
		}
		return nil, err
	}

	mesh, err := Build(doc, filepath.Dir(path), phonemes)
	if err != nil {
		return nil, fmt.Errorf("load viseme config %s: %w", path, err)
	}
	logger.WithFields(logrus.Fields{
		"visemes":      mesh.table.Len(),
		"associations": mesh.associations.Len(),
		"transition":   mesh.transition,
	}).Info("viseme config loaded")
	return mesh, nil
}

// Build assembles a mesh from doc, reading viseme files relative to rootDir.
func Build(doc Document, rootDir string, phonemes PhonemeSet) (*Mesh, error) {
	mesh := emptyMesh(phonemes)
	mesh.rootDir = rootDir

	for i, e := range doc.Visemes {
		if e.Symbol == "" || e.FilePath == "" {
			return nil, loaderr.New(loaderr.ConfigMalformed, fmt.Sprint(i), "viseme entry needs symbol and file_path", nil)
		}
		// Duplicates are rejected before the vertex file is read.
		if mesh.table.Contains(e.Symbol) {
			return nil, loaderr.New(loaderr.DuplicateViseme, e.Symbol, "viseme already present", nil)
		}
		polygon, err := ReadPolygon(filepath.Join(rootDir, e.FilePath))
		if err != nil {
			return nil, fmt.Errorf("viseme %q: %w", e.Symbol, err)
		}
		if err := mesh.table.AddViseme(e.Symbol, polygon); err != nil {
			return nil, err
		}
	}
	def, ok := mesh.table.Get(DefaultSymbol)
	if !ok {
		return nil, loaderr.New(loaderr.MissingDefaultViseme, DefaultSymbol, "no default viseme declared", nil)
	}

	for _, a := range doc.PhonemeAssociations {
		if err := mesh.associations.AddAssociation(a.PhonemeSymbol, a.VisemeSymbol); err != nil {
			return nil, err
		}
	}

	if s := doc.AnimationSettings; s != nil && s.StateTransitionTime != nil {
		sec := *s.StateTransitionTime
		if sec < 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
			return nil, loaderr.New(loaderr.ConfigMalformed, fmt.Sprint(sec), "invalid state_transition_time", nil)
		}
		mesh.transition = time.Duration(sec * float64(time.Second))
	}

	mesh.display = NewDisplay(def, mesh.transition)
	return mesh, nil
}

// ReadPolygon loads the vertices of one viseme file.
func ReadPolygon(path string) ([]mgl64.Vec2, error) {
	var vf VertexFile
	if err := document.Read(path, &vf); err != nil {
		return nil, err
	}
	out := make([]mgl64.Vec2, len(vf.Vertices))
	for i, v := range vf.Vertices {
		out[i] = mgl64.Vec2{v.X, v.Y}
	}
	return out, nil
}

// Visemes returns a copy of every registered viseme, keyed by symbol.
func (m *Mesh) Visemes() map[string]Viseme {
	out := make(map[string]Viseme, m.table.Len())
	for _, sym := range m.table.Symbols() {
		out[sym], _ = m.table.Get(sym)
	}
	return out
}

func (m *Mesh) Viseme(symbol string) (Viseme, bool) { return m.table.Get(symbol) }

func (m *Mesh) Table() *Table { return m.table }

// Associations returns a copy of the phoneme → viseme map.
func (m *Mesh) Associations() map[string]string { return m.associations.Map() }

// VisemeFor resolves the viseme linked to a phonetic symbol.
func (m *Mesh) VisemeFor(phonemeSymbol string) (Viseme, bool) {
	sym, ok := m.associations.Lookup(phonemeSymbol)
	if !ok {
		return Viseme{}, false
	}
	return m.table.Get(sym)
}

func (m *Mesh) TransitionTime() time.Duration { return m.transition }

// Display is nil until a configuration with a default viseme is loaded.
func (m *Mesh) Display() *Display { return m.display }

func (m *Mesh) RootDir() string { return m.rootDir }

// IsReady reports whether the mesh has visemes, associations and something
// to display.
func (m *Mesh) IsReady() bool {
	return m.rootDir != "" &&
		m.table.Len() > 0 &&
		m.associations.Len() > 0 &&
		m.display != nil &&
		len(m.display.vertices) > 0
}

// ShowPhoneme starts a transition to the viseme linked to phonemeSymbol.
// Unknown phonemes leave the display untouched and return false.
func (m *Mesh) ShowPhoneme(phonemeSymbol string) bool {
	if m.display == nil {
		return false
	}
	v, ok := m.VisemeFor(phonemeSymbol)
	if !ok {
		return false
	}
	m.display.TransitionTo(v)
	return true
}
