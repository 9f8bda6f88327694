package canvas

// PointerEvent carries absolute (screen or window) pointer coordinates.
type PointerEvent struct {
	X, Y float64
}

// KeyEvent is a key release. Code follows the host's key naming, e.g. "Space".
type KeyEvent struct {
	Code string
}

// ResizeEvent carries the new canvas size in pixels.
type ResizeEvent struct {
	Width, Height int
}

// Source is where components register their input handlers at construction.
type Source interface {
	OnPointerDown(h func(PointerEvent))
	OnPointerMove(h func(PointerEvent))
	OnPointerUp(h func(PointerEvent))
	OnPointerLeave(h func(PointerEvent))
	OnKeyUp(h func(KeyEvent))
	OnResize(h func(ResizeEvent))
}

// Dispatcher is a Source fed by the host's event loop. Every Dispatch call
// runs all handlers for that event, in registration order, before returning.
// It is not safe for concurrent use; the host serializes events.
type Dispatcher struct {
	down   []func(PointerEvent)
	move   []func(PointerEvent)
	up     []func(PointerEvent)
	leave  []func(PointerEvent)
	keyUp  []func(KeyEvent)
	resize []func(ResizeEvent)
}

var _ Source = (*Dispatcher)(nil)

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) OnPointerDown(h func(PointerEvent))  { d.down = append(d.down, h) }
func (d *Dispatcher) OnPointerMove(h func(PointerEvent))  { d.move = append(d.move, h) }
func (d *Dispatcher) OnPointerUp(h func(PointerEvent))    { d.up = append(d.up, h) }
func (d *Dispatcher) OnPointerLeave(h func(PointerEvent)) { d.leave = append(d.leave, h) }
func (d *Dispatcher) OnKeyUp(h func(KeyEvent))            { d.keyUp = append(d.keyUp, h) }
func (d *Dispatcher) OnResize(h func(ResizeEvent))        { d.resize = append(d.resize, h) }

func (d *Dispatcher) PointerDown(ev PointerEvent)  { dispatch(d.down, ev) }
func (d *Dispatcher) PointerMove(ev PointerEvent)  { dispatch(d.move, ev) }
func (d *Dispatcher) PointerUp(ev PointerEvent)    { dispatch(d.up, ev) }
func (d *Dispatcher) PointerLeave(ev PointerEvent) { dispatch(d.leave, ev) }
func (d *Dispatcher) KeyUp(ev KeyEvent)            { dispatch(d.keyUp, ev) }
func (d *Dispatcher) Resize(ev ResizeEvent)        { dispatch(d.resize, ev) }

func dispatch[E any](handlers []func(E), ev E) {
	for _, h := range handlers {
		h(ev)
	}
}
