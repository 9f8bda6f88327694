package canvas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvastream/internal/canvas"
	"canvastream/internal/canvas/canvastest"
	"canvastream/internal/state"
)

func TestBoardEndToEnd(t *testing.T) {
	d := canvas.NewDispatcher()
	s := canvastest.NewSurface(800, 600)
	loc := &canvastest.Locator{Rect: state.Rect{Width: 800, Height: 600}}
	sink := &canvastest.Sink{}

	b, err := canvas.NewBoard(canvas.DefaultBoardConfig(), d, s, loc, sink)
	require.NoError(t, err)

	// 41+31 minor lines, 11+8 major lines.
	assert.Len(t, verticalXs(s.Lines, "#e0e0e0"), 41)
	assert.Len(t, verticalXs(s.Lines, "#b0b0b0"), 11)
	assert.Len(t, s.Lines, 41+31+11+8)
	s.Reset()

	d.PointerDown(canvas.PointerEvent{X: 10, Y: 10})
	d.PointerMove(canvas.PointerEvent{X: 20, Y: 20})
	require.Len(t, s.Lines, 1)
	assert.Equal(t, state.Point{X: 10, Y: 10}, s.Lines[0].From)
	assert.Equal(t, state.Point{X: 20, Y: 20}, s.Lines[0].To)

	d.PointerUp(canvas.PointerEvent{X: 20, Y: 20})
	assert.False(t, b.Stroke().IsDrawing())
	assert.Empty(t, sink.Records)

	d.KeyUp(canvas.KeyEvent{Code: "Space"})
	assert.True(t, b.Recorder().IsRecording())

	d.PointerMove(canvas.PointerEvent{X: 30, Y: 30})
	assert.Equal(t, []state.SampleRecord{{IsDrawing: false, X: 30, Y: 30}}, sink.Records)
	assert.Len(t, s.Lines, 1)
}

func TestBoardRecordsDrawingFlagAcrossStrokes(t *testing.T) {
	d := canvas.NewDispatcher()
	sink := &canvastest.Sink{}
	b, err := canvas.NewBoard(canvas.DefaultBoardConfig(), d, canvastest.NewSurface(200, 200), &canvastest.Locator{}, sink)
	require.NoError(t, err)
	b.Recorder().Toggle()

	d.PointerMove(canvas.PointerEvent{X: 1, Y: 1})
	d.PointerDown(canvas.PointerEvent{X: 1, Y: 1})
	d.PointerMove(canvas.PointerEvent{X: 2, Y: 2})
	d.PointerUp(canvas.PointerEvent{X: 2, Y: 2})
	d.PointerDown(canvas.PointerEvent{X: 5, Y: 5})
	d.PointerMove(canvas.PointerEvent{X: 6, Y: 6})
	d.PointerLeave(canvas.PointerEvent{X: 6, Y: 6})
	d.PointerMove(canvas.PointerEvent{X: 7, Y: 7})

	flags := make([]bool, 0, len(sink.Records))
	for _, rec := range sink.Records {
		flags = append(flags, rec.IsDrawing)
	}
	assert.Equal(t, []bool{false, true, true, false}, flags)
	assert.True(t, b.Recorder().IsRecording())
}

func TestBoardResizeRedrawsGrid(t *testing.T) {
	d := canvas.NewDispatcher()
	s := canvastest.NewSurface(100, 100)
	b, err := canvas.NewBoard(canvas.DefaultBoardConfig(), d, s, &canvastest.Locator{}, &canvastest.Sink{})
	require.NoError(t, err)

	d.PointerDown(canvas.PointerEvent{X: 10, Y: 10})
	d.Resize(canvas.ResizeEvent{Width: 40, Height: 20})

	assert.Equal(t, 1, s.Resizes)
	assert.Equal(t, []float64{0, 20, 40}, verticalXs(s.Lines, "#e0e0e0"))

	// The pen is restored for the stroke still in progress.
	color, width := s.Style()
	assert.Equal(t, "#000", color)
	assert.Equal(t, 2.0, width)
	assert.False(t, s.Dashed())
	assert.True(t, b.Stroke().IsDrawing())

	before := len(s.Lines)
	d.PointerMove(canvas.PointerEvent{X: 15, Y: 15})
	require.Len(t, s.Lines, before+1)
	assert.Equal(t, "#000", s.Lines[before].Color)
}

func TestBoardRejectsInvalidConfig(t *testing.T) {
	cfg := canvas.DefaultBoardConfig()
	cfg.Grid.Minor.Spacing = -1
	_, err := canvas.NewBoard(cfg, canvas.NewDispatcher(), canvastest.NewSurface(1, 1), &canvastest.Locator{}, &canvastest.Sink{})
	assert.ErrorIs(t, err, state.ErrConfiguration)

	_, err = canvas.NewBoard(canvas.DefaultBoardConfig(), canvas.NewDispatcher(), nil, &canvastest.Locator{}, &canvastest.Sink{})
	assert.ErrorIs(t, err, state.ErrConfiguration)
}
