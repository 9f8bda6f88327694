// Package canvas holds the drawing core: the background grid, the
// freehand stroke engine and the pointer sample recorder. Components talk
// to the outside world only through Surface, Locator, Source and Sink.
package canvas

import "canvastream/internal/state"

// Surface is the subset of a 2D drawing context the core needs.
type Surface interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
	SetLineWidth(width float64)
	SetStrokeColor(color string)
	// SetLineDash sets the dash pattern; an empty pattern means solid.
	SetLineDash(pattern []float64)
	Size() (width, height int)
}

// Resizable is implemented by surfaces that own their pixel buffer.
// Resizing clears the buffer.
type Resizable interface {
	Resize(width, height int) error
}

// Locator reports the canvas element's current screen-space bounding
// rectangle. It is queried on every event and never cached.
type Locator interface {
	BoundingRect() state.Rect
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func() state.Rect

func (f LocatorFunc) BoundingRect() state.Rect { return f() }

// Sink receives sample records one at a time, in emission order.
type Sink interface {
	Emit(rec state.SampleRecord) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(rec state.SampleRecord) error

func (f SinkFunc) Emit(rec state.SampleRecord) error { return f(rec) }

// DrawingState is the read-only view of the stroke engine observed by the recorder.
type DrawingState interface {
	IsDrawing() bool
}

func drawLine(s Surface, from, to state.Point) {
	s.BeginPath()
	s.MoveTo(from.X, from.Y)
	s.LineTo(to.X, to.Y)
	s.Stroke()
}
