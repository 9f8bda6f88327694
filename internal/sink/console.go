package sink

import (
	"context"

	"github.com/sirupsen/logrus"

	"canvastream/internal/logging"
	"canvastream/internal/state"
)

// ConsoleTransport prints every sample as a log line. It never fails.
type ConsoleTransport struct {
	log *logrus.Entry
}

func NewConsoleTransport() *ConsoleTransport {
	return &ConsoleTransport{log: logging.NewLogger("samples")}
}

func (c *ConsoleTransport) Send(_ context.Context, batch []state.Sample) error {
	for _, s := range batch {
		c.log.WithFields(logrus.Fields{
			"seq":          s.Seq,
			"is_drawing":   s.IsDrawing,
			"coordinate_x": s.X,
			"coordinate_y": s.Y,
		}).Info("sample")
	}
	return nil
}

func (c *ConsoleTransport) Close() error { return nil }
