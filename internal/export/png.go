package export

import (
	"fmt"
	"io"
	"os"
)

// PNGEncoder is anything that can write its pixels as PNG, such as a
// canvas.RasterSurface.
type PNGEncoder interface {
	EncodePNG(w io.Writer) error
}

// SnapshotPNG writes the canvas pixels to path.
func SnapshotPNG(path string, src PNGEncoder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return WriteSnapshot(f, src)
}

// WriteSnapshot encodes src into w and closes w.
func WriteSnapshot(w io.WriteCloser, src PNGEncoder) error {
	if err := src.EncodePNG(w); err != nil {
		w.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return w.Close()
}
