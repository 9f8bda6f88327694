package canvas

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"canvastream/internal/logging"
	"canvastream/internal/state"
)

// DefaultToggleKey is the key whose release switches recording on and off.
const DefaultToggleKey = "Space"

// SampleRecorder emits one SampleRecord per pointer move while recording is
// on. It keeps no backlog: a record the sink refuses is logged and dropped.
type SampleRecorder struct {
	locator   Locator
	drawing   DrawingState
	sink      Sink
	toggleKey string

	recording bool
	log       *logrus.Entry
}

// RecorderOption configures a SampleRecorder.
type RecorderOption func(*SampleRecorder)

// WithToggleKey changes the key that toggles recording.
func WithToggleKey(code string) RecorderOption {
	return func(r *SampleRecorder) {
		if code != "" {
			r.toggleKey = code
		}
	}
}

// NewSampleRecorder registers the recorder's move and key handlers on src.
// Recording starts off.
func NewSampleRecorder(src Source, loc Locator, drawing DrawingState, sink Sink, opts ...RecorderOption) (*SampleRecorder, error) {
	switch {
	case src == nil:
		return nil, fmt.Errorf("sample recorder: %w", &state.ConfigError{Field: "source", Reason: "missing event source"})
	case loc == nil:
		return nil, fmt.Errorf("sample recorder: %w", &state.ConfigError{Field: "locator", Reason: "missing bounding rectangle source"})
	case drawing == nil:
		return nil, fmt.Errorf("sample recorder: %w", &state.ConfigError{Field: "drawing", Reason: "missing drawing state"})
	case sink == nil:
		return nil, fmt.Errorf("sample recorder: %w", &state.ConfigError{Field: "sink", Reason: "missing sink"})
	}

	r := &SampleRecorder{
		locator:   loc,
		drawing:   drawing,
		sink:      sink,
		toggleKey: DefaultToggleKey,
		log:       logging.NewLogger("recorder"),
	}
	for _, opt := range opts {
		opt(r)
	}
	src.OnPointerMove(r.pointerMove)
	src.OnKeyUp(r.keyUp)
	return r, nil
}

// IsRecording reports whether pointer moves are being sampled.
func (r *SampleRecorder) IsRecording() bool { return r.recording }

// Toggle flips recording. It takes effect from the next event on.
func (r *SampleRecorder) Toggle() {
	r.recording = !r.recording
	r.log.WithField("recording", r.recording).Info("recording toggled")
}

func (r *SampleRecorder) keyUp(ev KeyEvent) {
	if ev.Code == r.toggleKey {
		r.Toggle()
	}
}

func (r *SampleRecorder) pointerMove(ev PointerEvent) {
	if !r.recording {
		return
	}
	p := r.locator.BoundingRect().ToLocal(state.Point{X: ev.X, Y: ev.Y})
	rec := state.SampleRecord{IsDrawing: r.drawing.IsDrawing(), X: p.X, Y: p.Y}
	if err := r.sink.Emit(rec); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"x":          rec.X,
			"y":          rec.Y,
			"is_drawing": rec.IsDrawing,
		}).Warn("sample dropped")
	}
}
