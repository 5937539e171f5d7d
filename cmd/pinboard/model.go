package main

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vinizap/pinnotes/overlay"
)

// One terminal cell stands for this many document pixels.
const (
	cellW = 8
	cellH = 16
)

const (
	scrollStepX = 4 * cellW
	scrollStepY = 2 * cellH
	pointerID   = 1
)

// termViewport exposes the terminal as an overlay viewport.
type termViewport struct {
	mu      sync.Mutex
	cols    int
	scrollX float64
}

func (v *termViewport) Frame() overlay.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return overlay.Frame{ViewportWidth: float64(v.cols * cellW), ScrollX: v.scrollX}
}

func (v *termViewport) setCols(cols int) {
	v.mu.Lock()
	v.cols = cols
	v.mu.Unlock()
}

func (v *termViewport) scrollBy(dx float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollX = max(0, v.scrollX+dx)
	return v.scrollX
}

// relaidMsg asks for a redraw once a debounced placement has run.
type relaidMsg struct{}

type model struct {
	engine  *overlay.Engine
	vp      *termViewport
	page    int64
	width   int
	height  int
	scrollY float64
	sized   bool
}

func newModel(e *overlay.Engine, vp *termViewport, page int64) model {
	return model{engine: e, vp: vp, page: page}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp.setCols(msg.Width)
		if !m.sized {
			m.sized = true
			m.engine.PlaceAll()
			return m, nil
		}
		m.engine.Resize()
		return m, tea.Tick(overlay.ResizeDelay+10*time.Millisecond, func(time.Time) tea.Msg {
			return relaidMsg{}
		})

	case relaidMsg:
		return m, nil

	case tea.MouseMsg:
		m.pointer(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.vp.scrollBy(-scrollStepX)
		case "right", "l":
			m.vp.scrollBy(scrollStepX)
		case "up", "k":
			m.scrollY = max(0, m.scrollY-scrollStepY)
		case "down", "j":
			m.scrollY += scrollStepY
		}
	}
	return m, nil
}

// pointer translates a terminal mouse event into the overlay's pointer
// events. The event lands on the centre of the cell.
func (m model) pointer(msg tea.MouseMsg) {
	x, y := m.toDocument(msg.X, msg.Y)
	ev := overlay.PointerEvent{PointerID: pointerID, PageX: x, PageY: y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		ev.Target = m.engine.NoteAt(x, y)
		m.engine.PointerDown(ev)
	case tea.MouseActionMotion:
		m.engine.PointerMove(ev)
	case tea.MouseActionRelease:
		m.engine.PointerUp(ev)
	}
}

func (m model) toDocument(col, row int) (float64, float64) {
	f := m.vp.Frame()
	return f.ScrollX + float64(col*cellW) + cellW/2, m.scrollY + float64(row*cellH) + cellH/2
}

func (m model) View() string {
	if !m.sized {
		return "loading…"
	}
	rows := max(m.height-1, 0)
	c := newCanvas(m.width, rows)
	notes := m.engine.Snapshot()
	c.drawNotes(notes, m.vp.Frame().ScrollX, m.scrollY)

	status := fmt.Sprintf(" page %d · %d notes · %s · arrows scroll · q quits",
		m.page, len(notes), m.engine.State())
	if uid := m.engine.Session().UID; uid == 0 {
		status += " · read-only (anonymous)"
	}
	return c.String() + "\n" + statusStyle.Render(truncate(status, m.width))
}
