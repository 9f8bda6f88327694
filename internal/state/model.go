package state

import (
	"time"
)

// Point is a position in canvas-local pixels, origin at the canvas top-left.
type Point struct{ X, Y float64 }

// GridTier is one layer of the background grid.
type GridTier struct {
	Spacing   int       `yaml:"spacing" json:"spacing"`
	Color     string    `yaml:"color" json:"color"`
	LineWidth float64   `yaml:"line_width" json:"line_width"`
	Dash      []float64 `yaml:"dash,omitempty" json:"dash,omitempty"`
}

// GridSpec describes the two-tier background grid. It is fixed for the
// lifetime of a canvas.
type GridSpec struct {
	Minor GridTier `yaml:"minor" json:"minor"`
	Major GridTier `yaml:"major" json:"major"`
}

// DefaultGridSpec returns the light 20px / dashed 80px grid.
func DefaultGridSpec() GridSpec {
	return GridSpec{
		Minor: GridTier{Spacing: 20, Color: "#e0e0e0", LineWidth: 0.5},
		Major: GridTier{Spacing: 80, Color: "#b0b0b0", LineWidth: 1, Dash: []float64{2, 4}},
	}
}

// Validate rejects spacings that would make grid rendering loop forever.
func (g GridSpec) Validate() error {
	if g.Minor.Spacing <= 0 {
		return &ConfigError{Field: "grid.minor.spacing", Reason: "must be positive"}
	}
	if g.Major.Spacing <= 0 {
		return &ConfigError{Field: "grid.major.spacing", Reason: "must be positive"}
	}
	if g.Major.Spacing <= g.Minor.Spacing {
		return &ConfigError{Field: "grid.major.spacing", Reason: "must be greater than grid.minor.spacing"}
	}
	for _, d := range g.Major.Dash {
		if d < 0 {
			return &ConfigError{Field: "grid.major.dash", Reason: "dash lengths must not be negative"}
		}
	}
	for _, d := range g.Minor.Dash {
		if d < 0 {
			return &ConfigError{Field: "grid.minor.dash", Reason: "dash lengths must not be negative"}
		}
	}
	return nil
}

// StrokeStyle is the pen used for freehand strokes.
type StrokeStyle struct {
	Color string  `yaml:"color" json:"color"`
	Width float64 `yaml:"width" json:"width"`
}

// DefaultStrokeStyle is a 2px black pen.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{Color: "#000", Width: 2}
}

func (s StrokeStyle) Validate() error {
	if s.Width <= 0 {
		return &ConfigError{Field: "stroke.width", Reason: "must be positive"}
	}
	if s.Color == "" {
		return &ConfigError{Field: "stroke.color", Reason: "must not be empty"}
	}
	return nil
}

// SampleRecord is one pointer observation taken while recording.
type SampleRecord struct {
	IsDrawing bool    `json:"is_drawing"`
	X         float64 `json:"coordinate_x"`
	Y         float64 `json:"coordinate_y"`
}

// Sample is a SampleRecord stamped at the sink boundary. The JSON layout
// matches the columns of the warehouse table.
type Sample struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	SampleRecord
}
