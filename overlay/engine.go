package overlay

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/vinizap/pinnotes/domain"
)

// Engine ties the container, layout and drag controller together. All of
// its methods may be called from any goroutine; they run one at a time.
type Engine struct {
	mu        sync.Mutex
	session   domain.Session
	container *Container
	layout    *Layout
	drag      *Drag
	logger    zerolog.Logger
}

type Option func(*config)

type config struct {
	scheduler Scheduler
	saver     PositionSaver
	capture   PointerCapturer
	logger    zerolog.Logger
}

// WithScheduler replaces time.AfterFunc for the resize debounce.
func WithScheduler(s Scheduler) Option { return func(c *config) { c.scheduler = s } }

// WithSaver sets where finished drags are persisted.
func WithSaver(s PositionSaver) Option { return func(c *config) { c.saver = s } }

// WithCapturer sets the platform's pointer capture.
func WithCapturer(p PointerCapturer) Option { return func(c *config) { c.capture = p } }

func WithLogger(l zerolog.Logger) Option { return func(c *config) { c.logger = l } }

// New renders every note of the payload into a fresh overlay and places
// them once. Notes with a duplicate id are dropped.
func New(payload domain.Payload, vp Viewport, opts ...Option) *Engine {
	cfg := config{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := NewContainer()
	e := &Engine{
		session:   payload.Session,
		container: c,
		layout:    NewLayout(c, vp, cfg.scheduler),
		drag:      NewDrag(c, vp, cfg.saver, cfg.capture),
		logger:    cfg.logger,
	}
	e.layout.run = e.PlaceAll

	for _, p := range payload.Notes {
		if err := c.Attach(Render(p, payload.Session.UID)); err != nil {
			e.logger.Warn().Err(err).Int64("note", p.ID).Msg("skipping note")
		}
	}
	e.layout.PlaceAll()
	e.logger.Debug().Int("notes", c.Len()).Int64("uid", payload.Session.UID).Msg("overlay ready")
	return e
}

func (e *Engine) Session() domain.Session { return e.session }

// PlaceAll re-places every note immediately.
func (e *Engine) PlaceAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layout.PlaceAll()
}

// Resize reports a viewport resize; notes are re-placed once resizing
// has been quiet for ResizeDelay.
func (e *Engine) Resize() {
	e.layout.Resize()
}

func (e *Engine) PointerDown(ev PointerEvent) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ok := e.drag.PointerDown(ev)
	if ok {
		e.logger.Debug().Int64("note", ev.Target).Msg("drag start")
	}
	return ok
}

func (e *Engine) PointerMove(ev PointerEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag.PointerMove(ev)
}

func (e *Engine) PointerUp(ev PointerEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n, ok := e.drag.Active(); ok && ev.PointerID == e.drag.active.pointerID {
		e.logger.Debug().Int64("note", n.ID).Float64("cx", n.CX).Float64("cy", n.CY).Msg("drag end")
	}
	e.drag.PointerUp(ev)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.State()
}

// NoteAt returns the id of the topmost note at the document point (x, y),
// or 0 when there is none.
func (e *Engine) NoteAt(x, y float64) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n, ok := e.container.At(x, y); ok {
		return n.ID
	}
	return 0
}

// Snapshot returns copies of all rendered notes in paint order.
func (e *Engine) Snapshot() []Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Note, 0, e.container.Len())
	for _, n := range e.container.Notes() {
		out = append(out, *n)
	}
	return out
}

// Note returns a copy of the rendered note with the given id.
func (e *Engine) Note(id int64) (Note, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.container.Get(id)
	if !ok {
		return Note{}, false
	}
	return *n, true
}

// Close cancels any pending re-placement.
func (e *Engine) Close() {
	e.layout.Stop()
}
