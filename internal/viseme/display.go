package viseme

import (
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Phase is the display state.
type Phase int

const (
	Holding Phase = iota
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "holding"
}

// Display blends the shown polygon towards a target viseme over a fixed
// transition time. It is driven by one animation loop and is not safe for
// concurrent use.
type Display struct {
	phase      Phase
	target     Viseme
	transition time.Duration
	elapsed    time.Duration

	from     []mgl64.Vec2
	to       []mgl64.Vec2
	vertices []mgl64.Vec2
}

// NewDisplay starts out holding def.
func NewDisplay(def Viseme, transition time.Duration) *Display {
	def = def.clone()
	return &Display{
		phase:      Holding,
		target:     def,
		transition: transition,
		vertices:   slices.Clone(def.Vertices),
	}
}

// TransitionTo starts blending from the current vertices to v. Asking for
// the viseme already held or already targeted changes nothing.
func (d *Display) TransitionTo(v Viseme) {
	if v.Symbol == d.target.Symbol {
		return
	}
	d.target = v.clone()
	if d.transition <= 0 {
		d.finish()
		return
	}
	n := max(len(d.vertices), len(v.Vertices))
	d.from = resample(d.vertices, n)
	d.to = resample(v.Vertices, n)
	d.vertices = slices.Clone(d.from)
	d.elapsed = 0
	d.phase = Transitioning
}

// Advance moves the blend forward by dt.
func (d *Display) Advance(dt time.Duration) {
	if d.phase != Transitioning || dt <= 0 {
		return
	}
	d.elapsed += dt
	if d.elapsed >= d.transition {
		d.finish()
		return
	}
	frac := float64(d.elapsed) / float64(d.transition)
	for i := range d.vertices {
		d.vertices[i] = lerp(d.from[i], d.to[i], frac)
	}
}

func (d *Display) finish() {
	d.vertices = slices.Clone(d.target.Vertices)
	d.from, d.to = nil, nil
	d.elapsed = d.transition
	d.phase = Holding
}

func (d *Display) Phase() Phase { return d.phase }

// Target is the symbol held, or being blended towards.
func (d *Display) Target() string { return d.target.Symbol }

// Progress is the blend fraction in [0, 1]; 1 while holding.
func (d *Display) Progress() float64 {
	if d.phase == Holding {
		return 1
	}
	return float64(d.elapsed) / float64(d.transition)
}

// Vertices returns a copy of the polygon currently shown.
func (d *Display) Vertices() []mgl64.Vec2 { return slices.Clone(d.vertices) }

func lerp(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// resample maps poly onto n points spread evenly along its index range.
func resample(poly []mgl64.Vec2, n int) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, n)
	switch {
	case len(poly) == n:
		copy(out, poly)
	case len(poly) == 0:
	case len(poly) == 1 || n == 1:
		for i := range out {
			out[i] = poly[0]
		}
	default:
		scale := float64(len(poly)-1) / float64(n-1)
		for i := range out {
			pos := float64(i) * scale
			lo := int(pos)
			hi := min(lo+1, len(poly)-1)
			out[i] = lerp(poly[lo], poly[hi], pos-float64(lo))
		}
	}
	return out
}
