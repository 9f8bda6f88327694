package canvas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvastream/internal/canvas"
	"canvastream/internal/canvas/canvastest"
	"canvastream/internal/state"
)

func newEngine(t *testing.T) (*canvas.Dispatcher, *canvastest.Surface, *canvastest.Locator, *canvas.StrokeEngine) {
	t.Helper()
	d := canvas.NewDispatcher()
	s := canvastest.NewSurface(800, 600)
	loc := &canvastest.Locator{}
	e, err := canvas.NewStrokeEngine(d, s, loc, state.DefaultStrokeStyle())
	require.NoError(t, err)
	return d, s, loc, e
}

func TestStrokeMovesWhileIdleDrawNothing(t *testing.T) {
	d, s, _, e := newEngine(t)

	for i := 0; i < 10; i++ {
		d.PointerMove(canvas.PointerEvent{X: float64(i), Y: float64(i * 2)})
	}

	assert.False(t, e.IsDrawing())
	assert.Empty(t, s.Lines)
	assert.Empty(t, s.Commands)
}

func TestStrokeDrawsOneSegmentPerMove(t *testing.T) {
	d, s, _, e := newEngine(t)
	assert.False(t, e.IsDrawing())

	d.PointerDown(canvas.PointerEvent{X: 10, Y: 10})
	assert.True(t, e.IsDrawing())

	moves := []state.Point{{X: 20, Y: 20}, {X: 25, Y: 40}, {X: 60, Y: 41}}
	for _, m := range moves {
		d.PointerMove(canvas.PointerEvent{X: m.X, Y: m.Y})
	}
	d.PointerUp(canvas.PointerEvent{X: 60, Y: 41})

	assert.False(t, e.IsDrawing())
	require.Len(t, s.Lines, len(moves))
	prev := state.Point{X: 10, Y: 10}
	for i, m := range moves {
		assert.Equal(t, prev, s.Lines[i].From)
		assert.Equal(t, m, s.Lines[i].To)
		assert.Equal(t, "#000", s.Lines[i].Color)
		assert.Equal(t, 2.0, s.Lines[i].Width)
		prev = m
	}

	d.PointerMove(canvas.PointerEvent{X: 100, Y: 100})
	assert.Len(t, s.Lines, len(moves), "moves after up must not draw")
}

func TestStrokeEndsOnLeave(t *testing.T) {
	d, s, _, e := newEngine(t)

	d.PointerDown(canvas.PointerEvent{X: 1, Y: 1})
	d.PointerMove(canvas.PointerEvent{X: 2, Y: 2})
	d.PointerLeave(canvas.PointerEvent{X: 3, Y: 3})
	d.PointerMove(canvas.PointerEvent{X: 4, Y: 4})

	assert.False(t, e.IsDrawing())
	assert.Len(t, s.Lines, 1)
}

func TestStrokeRedundantUpIsNoop(t *testing.T) {
	d, s, _, e := newEngine(t)

	d.PointerUp(canvas.PointerEvent{})
	d.PointerLeave(canvas.PointerEvent{})
	d.PointerUp(canvas.PointerEvent{})

	assert.False(t, e.IsDrawing())
	assert.Empty(t, s.Commands)
}

func TestStrokeUsesLiveBoundingRect(t *testing.T) {
	d, s, loc, _ := newEngine(t)

	loc.Rect = state.Rect{Left: 50, Top: 100}
	d.PointerDown(canvas.PointerEvent{X: 150, Y: 250})
	// The canvas scrolls between events.
	loc.Rect = state.Rect{Left: 40, Top: 90}
	d.PointerMove(canvas.PointerEvent{X: 150, Y: 250})

	require.Len(t, s.Lines, 1)
	assert.Equal(t, state.Point{X: 100, Y: 150}, s.Lines[0].From)
	assert.Equal(t, state.Point{X: 110, Y: 160}, s.Lines[0].To)
	assert.Equal(t, 2, loc.Calls)
}

func TestStrokeRequiresSurface(t *testing.T) {
	d := canvas.NewDispatcher()
	loc := &canvastest.Locator{}

	_, err := canvas.NewStrokeEngine(d, nil, loc, state.DefaultStrokeStyle())
	assert.ErrorIs(t, err, state.ErrConfiguration)

	_, err = canvas.NewStrokeEngine(nil, canvastest.NewSurface(1, 1), loc, state.DefaultStrokeStyle())
	assert.ErrorIs(t, err, state.ErrConfiguration)

	_, err = canvas.NewStrokeEngine(d, canvastest.NewSurface(1, 1), nil, state.DefaultStrokeStyle())
	assert.ErrorIs(t, err, state.ErrConfiguration)

	_, err = canvas.NewStrokeEngine(d, canvastest.NewSurface(1, 1), loc, state.StrokeStyle{Color: "#000"})
	assert.ErrorIs(t, err, state.ErrConfiguration)
}
