package main

import (
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinizap/pinnotes/domain"
	"github.com/vinizap/pinnotes/overlay"
)

type saved struct {
	id     int64
	cx, cy float64
}

type saverStub struct {
	mu    sync.Mutex
	calls []saved
}

func (s *saverStub) SavePosition(id int64, cx, cy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, saved{id, cx, cy})
}

func newTestModel(t *testing.T, uid int64) (model, *saverStub) {
	t.Helper()
	cx, cy := 0.0, 140.0
	payload := domain.Payload{
		Session: domain.Session{UID: uid},
		Notes: []domain.PayloadNote{
			{ID: 1, Title: "Groceries", Content: "<p>milk &amp; eggs</p>", Color: "#ffeb3b", Author: 7, CX: &cx, CY: &cy},
		},
	}
	saver := &saverStub{}
	vp := &termViewport{}
	e := overlay.New(payload, vp, overlay.WithSaver(saver))
	t.Cleanup(e.Close)

	m := newModel(e, vp, 3)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(model), saver
}

func TestTermViewportFrame(t *testing.T) {
	vp := &termViewport{}
	vp.setCols(100)
	assert.Equal(t, overlay.Frame{ViewportWidth: 800}, vp.Frame())

	assert.Equal(t, 0.0, vp.scrollBy(-64))
	assert.Equal(t, 64.0, vp.scrollBy(64))
	assert.Equal(t, overlay.Frame{ViewportWidth: 800, ScrollX: 64}, vp.Frame())
}

func TestFirstSizePlacesNotes(t *testing.T) {
	m, _ := newTestModel(t, 7)

	n, ok := m.engine.Note(1)
	require.True(t, ok)
	assert.Equal(t, 400.0, n.Left)
	assert.Equal(t, 140.0, n.Top)
}

func TestMouseDragSavesOnce(t *testing.T) {
	m, saver := newTestModel(t, 7)

	m.Update(tea.MouseMsg{X: 51, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, overlay.Dragging, m.engine.State())

	m.Update(tea.MouseMsg{X: 56, Y: 11, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 61, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.Empty(t, saver.calls)

	m.Update(tea.MouseMsg{X: 61, Y: 12, Action: tea.MouseActionRelease})
	assert.Equal(t, overlay.Idle, m.engine.State())
	require.Len(t, saver.calls, 1)
	assert.Equal(t, saved{1, 80, 172}, saver.calls[0])

	n, _ := m.engine.Note(1)
	assert.Equal(t, 480.0, n.Left)
	assert.Equal(t, 172.0, n.Top)
}

func TestMouseIgnoredForOthers(t *testing.T) {
	m, saver := newTestModel(t, 8)

	m.Update(tea.MouseMsg{X: 51, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 61, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 61, Y: 12, Action: tea.MouseActionRelease})

	assert.Equal(t, overlay.Idle, m.engine.State())
	assert.Empty(t, saver.calls)
	n, _ := m.engine.Note(1)
	assert.Equal(t, 400.0, n.Left)
}

func TestRightButtonDoesNotDrag(t *testing.T) {
	m, _ := newTestModel(t, 7)

	m.Update(tea.MouseMsg{X: 51, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, overlay.Idle, m.engine.State())
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, 7)
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestViewShowsNotes(t *testing.T) {
	m, _ := newTestModel(t, 7)
	view := m.View()

	assert.Contains(t, view, dragMark+"Groceries")
	assert.Contains(t, view, "milk & eggs")
	assert.Contains(t, view, "page 3")
	assert.Contains(t, view, "1 notes")
	assert.Len(t, strings.Split(view, "\n"), 30)
}

func TestCellOf(t *testing.T) {
	col, row := cellOf(400, 140, 0, 0)
	assert.Equal(t, 50, col)
	assert.Equal(t, 9, row)

	col, row = cellOf(400, 140, 80, 32)
	assert.Equal(t, 40, col)
	assert.Equal(t, 7, row)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Title\nfirst line\nsecond", plainText("<h2>Title</h2><p>first line<br>second</p>"))
	assert.Equal(t, "a < b", plainText("<p>a &lt; b</p>"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"the quick", "brown fox"}, wrap("the quick brown fox", 10))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, wrap("abcdefghij", 4))
	assert.Equal(t, []string{"one", "two"}, wrap("one\ntwo", 10))
	assert.Nil(t, wrap("anything", 0))
}
