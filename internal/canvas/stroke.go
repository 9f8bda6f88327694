package canvas

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"canvastream/internal/logging"
	"canvastream/internal/state"
)

// StrokeEngine turns pointer input into line segments. Each move while a
// stroke is active draws exactly one segment from the previous point; the
// stroke history lives only in the surface's pixels.
type StrokeEngine struct {
	surface Surface
	locator Locator
	style   state.StrokeStyle

	drawing bool
	prev    state.Point
	log     *logrus.Entry
}

var _ DrawingState = (*StrokeEngine)(nil)

// NewStrokeEngine registers the engine's pointer handlers on src.
func NewStrokeEngine(src Source, surface Surface, loc Locator, style state.StrokeStyle) (*StrokeEngine, error) {
	switch {
	case src == nil:
		return nil, fmt.Errorf("stroke engine: %w", &state.ConfigError{Field: "source", Reason: "missing event source"})
	case surface == nil:
		return nil, fmt.Errorf("stroke engine: %w", &state.ConfigError{Field: "surface", Reason: "missing rendering context"})
	case loc == nil:
		return nil, fmt.Errorf("stroke engine: %w", &state.ConfigError{Field: "locator", Reason: "missing bounding rectangle source"})
	}
	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("stroke engine: %w", err)
	}

	e := &StrokeEngine{
		surface: surface,
		locator: loc,
		style:   style,
		log:     logging.NewLogger("stroke"),
	}
	src.OnPointerDown(e.pointerDown)
	src.OnPointerMove(e.pointerMove)
	src.OnPointerUp(e.pointerUp)
	src.OnPointerLeave(e.pointerUp)
	return e, nil
}

// IsDrawing reports whether a stroke is in progress.
func (e *StrokeEngine) IsDrawing() bool { return e.drawing }

func (e *StrokeEngine) pointerDown(ev PointerEvent) {
	e.drawing = true
	e.applyStyle()
	e.prev = e.locator.BoundingRect().ToLocal(state.Point{X: ev.X, Y: ev.Y})
	e.log.WithFields(logrus.Fields{"x": e.prev.X, "y": e.prev.Y}).Debug("stroke started")
}

func (e *StrokeEngine) pointerMove(ev PointerEvent) {
	if !e.drawing {
		return
	}
	cur := e.locator.BoundingRect().ToLocal(state.Point{X: ev.X, Y: ev.Y})
	drawLine(e.surface, e.prev, cur)
	e.prev = cur
}

func (e *StrokeEngine) pointerUp(PointerEvent) {
	if !e.drawing {
		return
	}
	e.drawing = false
	e.prev = state.Point{}
	e.log.Debug("stroke ended")
}

// restyle puts the pen back after something else (a grid redraw) used the
// shared surface in the middle of a stroke.
func (e *StrokeEngine) restyle() {
	if e.drawing {
		e.applyStyle()
	}
}

func (e *StrokeEngine) applyStyle() {
	e.surface.SetStrokeColor(e.style.Color)
	e.surface.SetLineWidth(e.style.Width)
}
