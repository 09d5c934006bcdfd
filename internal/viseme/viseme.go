// Package viseme holds mouth-shape polygons, the phoneme → viseme
// associations and the display state that blends between shapes.
package viseme

import (
	"slices"

	"mouthshape/internal/loaderr"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSymbol names the viseme shown before any phoneme is recognised.
const DefaultSymbol = "default"

// Viseme is a named mouth-shape polygon.
type Viseme struct {
	Symbol   string
	Vertices []mgl64.Vec2
}

func (v Viseme) clone() Viseme {
	return Viseme{Symbol: v.Symbol, Vertices: slices.Clone(v.Vertices)}
}

// Table maps viseme symbols to polygons.
type Table struct {
	visemes map[string]Viseme
}

func NewTable() *Table {
	return &Table{visemes: make(map[string]Viseme)}
}

// AddViseme registers polygon under symbol. The polygon is copied.
func (t *Table) AddViseme(symbol string, polygon []mgl64.Vec2) error {
	if _, ok := t.visemes[symbol]; ok {
		return loaderr.New(loaderr.DuplicateViseme, symbol, "viseme already present", nil)
	}
	if len(polygon) == 0 {
		return loaderr.New(loaderr.ConfigMalformed, symbol, "viseme has no vertices", nil)
	}
	t.visemes[symbol] = Viseme{Symbol: symbol, Vertices: slices.Clone(polygon)}
	return nil
}

func (t *Table) Contains(symbol string) bool {
	_, ok := t.visemes[symbol]
	return ok
}

// Get returns a copy of the viseme registered under symbol.
func (t *Table) Get(symbol string) (Viseme, bool) {
	v, ok := t.visemes[symbol]
	if !ok {
		return Viseme{}, false
	}
	return v.clone(), true
}

// Symbols returns the registered symbols in sorted order.
func (t *Table) Symbols() []string {
	out := make([]string, 0, len(t.visemes))
	for sym := range t.visemes {
		out = append(out, sym)
	}
	slices.Sort(out)
	return out
}

func (t *Table) Len() int { return len(t.visemes) }

// PhonemeSet answers whether a phonetic symbol is known. *phoneme.Store
// satisfies it.
type PhonemeSet interface {
	Contains(symbol string) bool
}

// Associations maps phonetic symbols to viseme symbols.
type Associations struct {
	phonemes PhonemeSet
	table    *Table
	links    map[string]string
}

// NewAssociations validates new links against phonemes and table.
func NewAssociations(phonemes PhonemeSet, table *Table) *Associations {
	return &Associations{phonemes: phonemes, table: table, links: make(map[string]string)}
}

// AddAssociation links a phoneme to a viseme.
func (a *Associations) AddAssociation(phonemeSymbol, visemeSymbol string) error {
	if a.phonemes == nil || !a.phonemes.Contains(phonemeSymbol) {
		return loaderr.New(loaderr.UnknownPhoneme, phonemeSymbol, "association references unknown phoneme", nil)
	}
	if a.table == nil || !a.table.Contains(visemeSymbol) {
		return loaderr.New(loaderr.UnknownViseme, visemeSymbol, "association references unknown viseme", nil)
	}
	if prev, ok := a.links[phonemeSymbol]; ok {
		return loaderr.New(loaderr.DuplicateAssociation, phonemeSymbol,
			"phoneme already associated with "+prev, nil)
	}
	a.links[phonemeSymbol] = visemeSymbol
	return nil
}

// Lookup returns the viseme symbol linked to phonemeSymbol.
func (a *Associations) Lookup(phonemeSymbol string) (string, bool) {
	v, ok := a.links[phonemeSymbol]
	return v, ok
}

// Map returns a copy of all links.
func (a *Associations) Map() map[string]string {
	out := make(map[string]string, len(a.links))
	for k, v := range a.links {
		out[k] = v
	}
	return out
}

func (a *Associations) Len() int { return len(a.links) }
