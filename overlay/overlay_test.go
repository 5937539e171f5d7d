package overlay

import (
	"sync"
	"time"

	"github.com/vinizap/pinnotes/domain"
)

// fakeScheduler collects timers and fires them on demand.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward and fires every timer that came due.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

type savedPosition struct {
	id     int64
	cx, cy float64
}

type recordingSaver struct {
	mu    sync.Mutex
	calls []savedPosition
}

func (r *recordingSaver) SavePosition(id int64, cx, cy float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, savedPosition{id, cx, cy})
}

func (r *recordingSaver) Calls() []savedPosition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]savedPosition(nil), r.calls...)
}

type captureLog struct {
	set, released []int
}

func (c *captureLog) SetPointerCapture(_ int64, pointerID int) {
	c.set = append(c.set, pointerID)
}

func (c *captureLog) ReleasePointerCapture(_ int64, pointerID int) {
	c.released = append(c.released, pointerID)
}

func ptr(v float64) *float64 { return &v }

func payload(uid int64, notes ...domain.PayloadNote) domain.Payload {
	return domain.Payload{
		Session: domain.Session{AjaxURL: "http://example.test/ajax", Nonce: "abc", UID: uid},
		Notes:   notes,
	}
}
