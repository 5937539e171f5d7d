package overlay

import (
	"sync"
	"time"
)

// ResizeDelay is the quiet period after the last resize before notes are
// placed again.
const ResizeDelay = 60 * time.Millisecond

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Layout places notes of a container through the coordinate transform and
// re-places them after the viewport settles.
type Layout struct {
	container *Container
	viewport  Viewport
	scheduler Scheduler
	delay     time.Duration

	// run is called when the debounce fires; the engine wraps PlaceAll
	// with its lock.
	run func()

	mu      sync.Mutex
	pending Timer
	gen     uint64
}

func NewLayout(c *Container, vp Viewport, s Scheduler) *Layout {
	if s == nil {
		s = realScheduler{}
	}
	l := &Layout{
		container: c,
		viewport:  vp,
		scheduler: s,
		delay:     ResizeDelay,
	}
	l.run = l.PlaceAll
	return l
}

// PlaceOne positions n from its logical coordinate, substituting the
// defaults for non-finite values and writing them back.
func (l *Layout) PlaceOne(n *Note) {
	cx, cy := n.CX, n.CY
	if !finite(cx) {
		cx = DefaultCX
	}
	if !finite(cy) {
		cy = DefaultCY
	}
	n.Left, n.Top = l.viewport.Frame().ToDocument(cx, cy)
	n.CX, n.CY = cx, cy
	n.placed = true
}

// PlaceAll positions every note. Placement of one note never depends on
// another.
func (l *Layout) PlaceAll() {
	for _, n := range l.container.Notes() {
		l.PlaceOne(n)
	}
}

// Resize schedules PlaceAll after the resize delay, replacing any run that
// is still pending.
func (l *Layout) Resize() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending != nil {
		l.pending.Stop()
	}
	l.gen++
	gen := l.gen
	l.pending = l.scheduler.AfterFunc(l.delay, func() { l.fire(gen) })
}

// Stop cancels a pending re-placement.
func (l *Layout) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending != nil {
		l.pending.Stop()
		l.pending = nil
	}
	l.gen++
}

// fire runs the placement unless a later Resize or Stop superseded gen.
func (l *Layout) fire(gen uint64) {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.pending = nil
	l.mu.Unlock()
	l.run()
}
