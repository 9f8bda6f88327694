package ui

import (
	"image"

	"fyne.io/fyne/v2"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"canvastream/internal/canvas"
	"canvastream/internal/state"
)

// CanvasWidget is the full-window drawing area. It owns the pixel buffer
// and turns fyne input into canvas events.
type CanvasWidget struct {
	widget.BaseWidget

	events  *canvas.Dispatcher
	surface *canvas.RasterSurface
	raster  *fcanvas.Raster
	last    fyne.Size

	// OnChanged runs after every handled event, on the UI thread.
	OnChanged func()
}

var (
	_ fyne.Widget       = (*CanvasWidget)(nil)
	_ desktop.Mouseable = (*CanvasWidget)(nil)
	_ desktop.Hoverable = (*CanvasWidget)(nil)
	_ canvas.Locator    = (*CanvasWidget)(nil)
)

// NewCanvasWidget allocates a pixel buffer of the initial window size.
func NewCanvasWidget(width, height float32) *CanvasWidget {
	w := &CanvasWidget{
		events:  canvas.NewDispatcher(),
		surface: canvas.NewRasterSurface(int(width), int(height)),
		last:    fyne.NewSize(width, height),
	}
	w.ExtendBaseWidget(w)
	return w
}

// Events is the source the board registers its handlers on.
func (w *CanvasWidget) Events() *canvas.Dispatcher { return w.events }

// Surface is the pixel buffer shown by the widget.
func (w *CanvasWidget) Surface() *canvas.RasterSurface { return w.surface }

// BoundingRect is the widget's current rectangle in window coordinates.
func (w *CanvasWidget) BoundingRect() state.Rect {
	var pos fyne.Position
	if app := fyne.CurrentApp(); app != nil {
		pos = app.Driver().AbsolutePositionForObject(w)
	}
	size := w.Size()
	return state.Rect{
		Left:   float64(pos.X),
		Top:    float64(pos.Y),
		Width:  float64(size.Width),
		Height: float64(size.Height),
	}
}

func (w *CanvasWidget) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	w.events.PointerDown(pointer(ev.AbsolutePosition))
	w.changed()
}

func (w *CanvasWidget) MouseUp(ev *desktop.MouseEvent) {
	w.events.PointerUp(pointer(ev.AbsolutePosition))
	w.changed()
}

// MouseIn carries the first position inside the widget; fyne sends no
// MouseMoved for it.
func (w *CanvasWidget) MouseIn(ev *desktop.MouseEvent) {
	w.MouseMoved(ev)
}

func (w *CanvasWidget) MouseMoved(ev *desktop.MouseEvent) {
	w.events.PointerMove(pointer(ev.AbsolutePosition))
	w.changed()
}

func (w *CanvasWidget) MouseOut() {
	w.events.PointerLeave(canvas.PointerEvent{})
	w.changed()
}

// KeyUp forwards a window key release.
func (w *CanvasWidget) KeyUp(ev *fyne.KeyEvent) {
	w.events.KeyUp(canvas.KeyEvent{Code: string(ev.Name)})
	w.changed()
}

func (w *CanvasWidget) resized(size fyne.Size) {
	if size == w.last {
		return
	}
	w.last = size
	w.events.Resize(canvas.ResizeEvent{Width: int(size.Width), Height: int(size.Height)})
	w.changed()
}

func (w *CanvasWidget) changed() {
	if w.raster != nil {
		w.raster.Refresh()
	}
	if w.OnChanged != nil {
		w.OnChanged()
	}
}

func pointer(p fyne.Position) canvas.PointerEvent {
	return canvas.PointerEvent{X: float64(p.X), Y: float64(p.Y)}
}

func (w *CanvasWidget) CreateRenderer() fyne.WidgetRenderer {
	w.raster = fcanvas.NewRaster(func(int, int) image.Image {
		return w.surface.Image()
	})
	return &canvasRenderer{widget: w}
}

type canvasRenderer struct {
	widget *CanvasWidget
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.widget.raster.Resize(size)
	r.widget.resized(size)
}

func (r *canvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *canvasRenderer) Refresh() {
	r.widget.raster.Refresh()
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.widget.raster}
}

func (r *canvasRenderer) Destroy() {}
