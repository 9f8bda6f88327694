// Package canvastest provides in-memory fakes of the canvas boundaries.
package canvastest

import (
	"fmt"
	"slices"

	"canvastream/internal/state"
)

// Line is one stroked segment together with the style it was drawn with.
type Line struct {
	From, To state.Point
	Color    string
	Width    float64
	Dash     []float64
}

// Surface records every drawing command it receives.
type Surface struct {
	W, H int

	// Commands is a textual log of every call, in order.
	Commands []string
	// Lines holds one entry per stroked move/line pair.
	Lines []Line
	// Resizes counts Resize calls.
	Resizes int

	color string
	width float64
	dash  []float64
	path  []state.Point
}

// NewSurface returns an empty surface of the given size.
func NewSurface(w, h int) *Surface {
	return &Surface{W: w, H: h}
}

func (s *Surface) BeginPath() {
	s.path = s.path[:0]
	s.Commands = append(s.Commands, "beginPath")
}

func (s *Surface) MoveTo(x, y float64) {
	s.path = append(s.path[:0], state.Point{X: x, Y: y})
	s.Commands = append(s.Commands, fmt.Sprintf("moveTo(%g,%g)", x, y))
}

func (s *Surface) LineTo(x, y float64) {
	s.path = append(s.path, state.Point{X: x, Y: y})
	s.Commands = append(s.Commands, fmt.Sprintf("lineTo(%g,%g)", x, y))
}

func (s *Surface) Stroke() {
	for i := 1; i < len(s.path); i++ {
		s.Lines = append(s.Lines, Line{
			From:  s.path[i-1],
			To:    s.path[i],
			Color: s.color,
			Width: s.width,
			Dash:  slices.Clone(s.dash),
		})
	}
	s.Commands = append(s.Commands, "stroke")
}

func (s *Surface) SetLineWidth(width float64) {
	s.width = width
	s.Commands = append(s.Commands, fmt.Sprintf("lineWidth(%g)", width))
}

func (s *Surface) SetStrokeColor(color string) {
	s.color = color
	s.Commands = append(s.Commands, fmt.Sprintf("strokeStyle(%s)", color))
}

func (s *Surface) SetLineDash(pattern []float64) {
	s.dash = slices.Clone(pattern)
	s.Commands = append(s.Commands, fmt.Sprintf("setLineDash(%v)", pattern))
}

func (s *Surface) Size() (int, int) { return s.W, s.H }

// Resize changes the size and forgets everything drawn so far, like a
// browser canvas does when its dimensions are assigned.
func (s *Surface) Resize(w, h int) error {
	s.W, s.H = w, h
	s.Resizes++
	s.Reset()
	return nil
}

// Reset clears the command and line logs.
func (s *Surface) Reset() {
	s.Commands = nil
	s.Lines = nil
}

// Dashed reports whether the current dash pattern is non-solid.
func (s *Surface) Dashed() bool { return len(s.dash) > 0 }

// Style returns the current stroke color and width.
func (s *Surface) Style() (string, float64) { return s.color, s.width }

// Locator is a movable bounding rectangle.
type Locator struct {
	Rect state.Rect
	// Calls counts BoundingRect queries.
	Calls int
}

func (l *Locator) BoundingRect() state.Rect {
	l.Calls++
	return l.Rect
}

// Sink collects emitted records. When Err is set, Emit refuses the record.
type Sink struct {
	Records []state.SampleRecord
	Err     error
}

func (s *Sink) Emit(rec state.SampleRecord) error {
	if s.Err != nil {
		return s.Err
	}
	s.Records = append(s.Records, rec)
	return nil
}
