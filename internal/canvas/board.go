package canvas

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"canvastream/internal/logging"
	"canvastream/internal/state"
)

// BoardConfig is the construction-time configuration of a Board.
type BoardConfig struct {
	Grid      state.GridSpec
	Stroke    state.StrokeStyle
	ToggleKey string
}

// DefaultBoardConfig returns the stock grid, pen and toggle key.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Grid:      state.DefaultGridSpec(),
		Stroke:    state.DefaultStrokeStyle(),
		ToggleKey: DefaultToggleKey,
	}
}

// Board wires the grid, the stroke engine and the recorder to one surface
// and one event source. Strokes do not survive a resize; only the grid is
// redrawn.
type Board struct {
	surface  Surface
	grid     *GridRenderer
	stroke   *StrokeEngine
	recorder *SampleRecorder
	log      *logrus.Entry
}

// NewBoard builds the components and draws the initial grid at the
// surface's current size.
func NewBoard(cfg BoardConfig, src Source, surface Surface, loc Locator, sink Sink) (*Board, error) {
	if surface == nil {
		return nil, fmt.Errorf("board: %w", &state.ConfigError{Field: "surface", Reason: "missing rendering context"})
	}
	grid, err := NewGridRenderer(cfg.Grid)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	stroke, err := NewStrokeEngine(src, surface, loc, cfg.Stroke)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	recorder, err := NewSampleRecorder(src, loc, stroke, sink, WithToggleKey(cfg.ToggleKey))
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}

	b := &Board{
		surface:  surface,
		grid:     grid,
		stroke:   stroke,
		recorder: recorder,
		log:      logging.NewLogger("board"),
	}
	src.OnResize(b.resize)

	w, h := surface.Size()
	grid.Render(surface, w, h)
	b.log.WithFields(logrus.Fields{"width": w, "height": h}).Info("board initialized")
	return b, nil
}

func (b *Board) Grid() *GridRenderer       { return b.grid }
func (b *Board) Stroke() *StrokeEngine     { return b.stroke }
func (b *Board) Recorder() *SampleRecorder { return b.recorder }
func (b *Board) Surface() Surface          { return b.surface }

func (b *Board) resize(ev ResizeEvent) {
	if r, ok := b.surface.(Resizable); ok {
		if err := r.Resize(ev.Width, ev.Height); err != nil {
			b.log.WithError(err).Warn("surface resize failed")
		}
	}
	b.grid.Render(b.surface, ev.Width, ev.Height)
	b.stroke.restyle()
	b.log.WithFields(logrus.Fields{"width": ev.Width, "height": ev.Height}).Debug("grid redrawn")
}
