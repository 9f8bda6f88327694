package state

// Rect is the screen-space bounding rectangle of the canvas element.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// ToLocal maps a global pointer position into canvas-local coordinates.
func (r Rect) ToLocal(global Point) Point {
	return Point{X: global.X - r.Left, Y: global.Y - r.Top}
}
