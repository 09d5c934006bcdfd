package viseme

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closed() Viseme {
	return Viseme{Symbol: "default", Vertices: []mgl64.Vec2{{0, 0}, {2, 0}}}
}

func open() Viseme {
	return Viseme{Symbol: "open", Vertices: []mgl64.Vec2{{0, 2}, {2, 2}}}
}

func assertVerts(t *testing.T, want, got []mgl64.Vec2) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].ApproxEqual(got[i]), "vertex %d: want %v got %v", i, want[i], got[i])
	}
}

func TestDisplayStartsHoldingDefault(t *testing.T) {
	d := NewDisplay(closed(), 100*time.Millisecond)
	assert.Equal(t, Holding, d.Phase())
	assert.Equal(t, "default", d.Target())
	assert.Equal(t, 1.0, d.Progress())
	assertVerts(t, closed().Vertices, d.Vertices())
}

func TestDisplayMidpointAndCompletion(t *testing.T) {
	d := NewDisplay(closed(), 100*time.Millisecond)
	d.TransitionTo(open())
	assert.Equal(t, Transitioning, d.Phase())
	assertVerts(t, closed().Vertices, d.Vertices())

	d.Advance(50 * time.Millisecond)
	assert.InDelta(t, 0.5, d.Progress(), 1e-9)
	assertVerts(t, []mgl64.Vec2{{0, 1}, {2, 1}}, d.Vertices())

	d.Advance(80 * time.Millisecond)
	assert.Equal(t, Holding, d.Phase())
	assert.Equal(t, open().Vertices, d.Vertices())
}

func TestDisplayZeroTransitionSnaps(t *testing.T) {
	d := NewDisplay(closed(), 0)
	d.TransitionTo(open())
	assert.Equal(t, Holding, d.Phase())
	assert.Equal(t, open().Vertices, d.Vertices())
}

func TestDisplaySameTargetIsNoop(t *testing.T) {
	d := NewDisplay(closed(), 100*time.Millisecond)
	d.TransitionTo(closed())
	assert.Equal(t, Holding, d.Phase())

	d.TransitionTo(open())
	d.Advance(40 * time.Millisecond)
	d.TransitionTo(open())
	assert.InDelta(t, 0.4, d.Progress(), 1e-9, "re-requesting the target keeps progress")
}

func TestDisplayRetargetStartsFromCurrentShape(t *testing.T) {
	d := NewDisplay(closed(), 100*time.Millisecond)
	d.TransitionTo(open())
	d.Advance(50 * time.Millisecond)

	d.TransitionTo(closed())
	assert.Equal(t, "default", d.Target())
	assertVerts(t, []mgl64.Vec2{{0, 1}, {2, 1}}, d.Vertices())

	d.Advance(50 * time.Millisecond)
	assertVerts(t, []mgl64.Vec2{{0, 0.5}, {2, 0.5}}, d.Vertices())
}

func TestDisplayBlendsDifferentLengths(t *testing.T) {
	tri := Viseme{Symbol: "tri", Vertices: []mgl64.Vec2{{0, 0}, {1, 0}, {2, 0}}}
	d := NewDisplay(closed(), 100*time.Millisecond)
	d.TransitionTo(tri)
	assert.Len(t, d.Vertices(), 3)
	// The two-point source resampled onto three points.
	assertVerts(t, []mgl64.Vec2{{0, 0}, {1, 0}, {2, 0}}, d.Vertices())

	d.Advance(time.Second)
	assert.Equal(t, tri.Vertices, d.Vertices())

	d.TransitionTo(closed())
	d.Advance(time.Second)
	assert.Equal(t, closed().Vertices, d.Vertices())
}

func TestResample(t *testing.T) {
	assert.Len(t, resample(nil, 3), 3)
	assertVerts(t, []mgl64.Vec2{{5, 5}, {5, 5}}, resample([]mgl64.Vec2{{5, 5}}, 2))
	assertVerts(t, []mgl64.Vec2{{0, 0}, {0.5, 0}, {1, 0}},
		resample([]mgl64.Vec2{{0, 0}, {1, 0}}, 3))
}
