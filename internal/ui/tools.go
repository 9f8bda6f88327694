package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"canvastream/internal/canvas"
)

// Toolbar shows the recording state and offers a snapshot action.
type Toolbar struct {
	board  *canvas.Board
	record *widget.Button
	status *widget.Label
	key    string
}

// NewToolbar builds the toolbar for board. key is shown in the hint.
func NewToolbar(board *canvas.Board, cw *CanvasWidget, win fyne.Window, key string) *Toolbar {
	t := &Toolbar{
		board:  board,
		status: widget.NewLabel(""),
		key:    key,
	}
	t.record = widget.NewButtonWithIcon("", theme.MediaRecordIcon(), func() {
		board.Recorder().Toggle()
		t.Update()
	})

	snapshot := widget.NewButtonWithIcon("Snapshot", theme.DocumentSaveIcon(), func() {
		dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, win)
				return
			}
			if writer == nil {
				return
			}
			if err := saveSnapshot(writer, cw); err != nil {
				dialog.ShowError(err, win)
				return
			}
			t.status.SetText("Saved " + writer.URI().Name())
		}, win)
	})

	cw.OnChanged = t.Update
	t.Update()
	return t
}

// Update reflects the recorder and stroke state.
func (t *Toolbar) Update() {
	if t.board.Recorder().IsRecording() {
		t.record.SetText("Stop recording")
		t.record.Importance = widget.DangerImportance
	} else {
		t.record.SetText("Record")
		t.record.Importance = widget.MediumImportance
	}
	t.record.Refresh()

	drawing := "idle"
	if t.board.Stroke().IsDrawing() {
		drawing = "drawing"
	}
	t.status.SetText(fmt.Sprintf("%s | press %s to toggle recording", drawing, t.key))
}

// Object is the toolbar's canvas object.
func (t *Toolbar) Object() fyne.CanvasObject {
	return container.NewHBox(
		t.record,
		widget.NewSeparator(),
		t.status,
		layout.NewSpacer(),
	)
}
