package overlay

import (
	"errors"
	"fmt"

	"github.com/vinizap/pinnotes/domain"
)

// Default note box size in document pixels, used for hit testing.
const (
	DefaultNoteWidth  = 220
	DefaultNoteHeight = 160
)

var ErrDuplicateNote = errors.New("note already rendered")

// Note is a rendered note: the payload record plus everything the overlay
// derives from it. CX/CY are finite once the note has been placed.
type Note struct {
	ID         int64
	Title      string
	Content    string
	AuthorID   int64
	Background string
	Foreground Tone
	Draggable  bool

	CX, CY    float64
	Left, Top float64
	Width     float64
	Height    float64

	placed bool
}

// Contains reports whether the document point (x, y) falls on the note.
func (n *Note) Contains(x, y float64) bool {
	return n.placed &&
		x >= n.Left && x <= n.Left+n.Width &&
		y >= n.Top && y <= n.Top+n.Height
}

// Render builds the rendered form of p as seen by user uid. Title and
// content are carried verbatim; the backend is responsible for them.
func Render(p domain.PayloadNote, uid int64) *Note {
	bg := p.Color
	if bg == "" {
		bg = domain.DefaultColor
	}
	cx, cy := resolve(p.CX, p.CY)
	return &Note{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		AuthorID:   p.Author,
		Background: bg,
		Foreground: ChooseForeground(bg),
		Draggable:  uid > 0 && uid == p.Author,
		CX:         cx,
		CY:         cy,
		Width:      DefaultNoteWidth,
		Height:     DefaultNoteHeight,
	}
}

// Container is the overlay layer: a zero-size positioning root holding one
// element per note id, in insertion order.
type Container struct {
	notes []*Note
	byID  map[int64]*Note
}

func NewContainer() *Container {
	return &Container{byID: make(map[int64]*Note)}
}

// Attach adds n to the layer.
func (c *Container) Attach(n *Note) error {
	if _, ok := c.byID[n.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateNote, n.ID)
	}
	c.notes = append(c.notes, n)
	c.byID[n.ID] = n
	return nil
}

func (c *Container) Get(id int64) (*Note, bool) {
	n, ok := c.byID[id]
	return n, ok
}

func (c *Container) Notes() []*Note { return c.notes }

func (c *Container) Len() int { return len(c.notes) }

// At returns the topmost note under (x, y). Later notes paint over earlier ones.
func (c *Container) At(x, y float64) (*Note, bool) {
	for i := len(c.notes) - 1; i >= 0; i-- {
		if c.notes[i].Contains(x, y) {
			return c.notes[i], true
		}
	}
	return nil, false
}
