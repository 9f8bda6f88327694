package canvas

import (
	"fmt"

	"canvastream/internal/state"
)

// GridRenderer draws the fixed two-tier background grid.
type GridRenderer struct {
	spec state.GridSpec
}

// NewGridRenderer validates spec up front so Render can never loop forever.
func NewGridRenderer(spec state.GridSpec) (*GridRenderer, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("grid renderer: %w", err)
	}
	return &GridRenderer{spec: spec}, nil
}

// Spec returns the grid configuration.
func (g *GridRenderer) Spec() state.GridSpec { return g.spec }

// Render draws the minor tier, then the major tier on top, and leaves the
// surface with a solid dash pattern. Lines on x = width and y = height are
// included. A zero width or height draws nothing.
func (g *GridRenderer) Render(s Surface, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	renderTier(s, g.spec.Minor, float64(width), float64(height))
	renderTier(s, g.spec.Major, float64(width), float64(height))
	s.SetLineDash(nil)
}

func renderTier(s Surface, tier state.GridTier, width, height float64) {
	s.SetStrokeColor(tier.Color)
	s.SetLineWidth(tier.LineWidth)
	s.SetLineDash(tier.Dash)

	step := float64(tier.Spacing)
	for x := 0.0; x <= width; x += step {
		drawLine(s, state.Point{X: x}, state.Point{X: x, Y: height})
	}
	for y := 0.0; y <= height; y += step {
		drawLine(s, state.Point{Y: y}, state.Point{X: width, Y: y})
	}
}
