package ui

import (
	"fyne.io/fyne/v2"

	"canvastream/internal/export"
)

func saveSnapshot(writer fyne.URIWriteCloser, cw *CanvasWidget) error {
	return export.WriteSnapshot(writer, cw.Surface())
}
