package overlay

// PointerEvent is a platform pointer event translated by an adapter.
// Target is the id of the note under the pointer, or 0 for none.
type PointerEvent struct {
	PointerID int
	PageX     float64
	PageY     float64
	Target    int64
}

// PointerCapturer routes a pointer's later events to the note that started
// a gesture. Adapters without capture may leave it nil.
type PointerCapturer interface {
	SetPointerCapture(noteID int64, pointerID int)
	ReleasePointerCapture(noteID int64, pointerID int)
}

// PositionSaver persists a note's final logical position. Implementations
// must not block the caller.
type PositionSaver interface {
	SavePosition(noteID int64, cx, cy float64)
}

// State is the drag controller state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

type gesture struct {
	note           *Note
	pointerID      int
	startX, startY float64
	startCX        float64
	startCY        float64
}

// Drag is the single-gesture drag state machine.
type Drag struct {
	container *Container
	viewport  Viewport
	saver     PositionSaver
	capture   PointerCapturer

	active *gesture
}

func NewDrag(c *Container, vp Viewport, saver PositionSaver, capture PointerCapturer) *Drag {
	return &Drag{container: c, viewport: vp, saver: saver, capture: capture}
}

func (d *Drag) State() State {
	if d.active != nil {
		return Dragging
	}
	return Idle
}

// Active returns the note being dragged, if any.
func (d *Drag) Active() (*Note, bool) {
	if d.active == nil {
		return nil, false
	}
	return d.active.note, true
}

// PointerDown starts a gesture on a draggable target. It returns true when
// the event was taken and the platform's default drag must be suppressed.
func (d *Drag) PointerDown(ev PointerEvent) bool {
	if d.active != nil {
		return false
	}
	n, ok := d.container.Get(ev.Target)
	if !ok || !n.Draggable {
		return false
	}
	if d.capture != nil {
		d.capture.SetPointerCapture(n.ID, ev.PointerID)
	}
	d.active = &gesture{
		note:      n,
		pointerID: ev.PointerID,
		startX:    ev.PageX,
		startY:    ev.PageY,
		startCX:   n.CX,
		startCY:   n.CY,
	}
	return true
}

// PointerMove follows the pointer with the active note. Nothing is saved.
func (d *Drag) PointerMove(ev PointerEvent) {
	g := d.active
	if g == nil || ev.PointerID != g.pointerID {
		return
	}
	cx := g.startCX + (ev.PageX - g.startX)
	cy := g.startCY + (ev.PageY - g.startY)
	g.note.Left, g.note.Top = d.viewport.Frame().ToDocument(cx, cy)
	g.note.CX, g.note.CY = cx, cy
}

// PointerUp ends the gesture and hands the final position to the saver.
func (d *Drag) PointerUp(ev PointerEvent) {
	g := d.active
	if g == nil || ev.PointerID != g.pointerID {
		return
	}
	if d.capture != nil {
		d.capture.ReleasePointerCapture(g.note.ID, g.pointerID)
	}
	if d.saver != nil {
		d.saver.SavePosition(g.note.ID, g.note.CX, g.note.CY)
	}
	d.active = nil
}
