package main

import (
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vinizap/pinnotes/overlay"
)

var (
	statusStyle = lipgloss.NewStyle().Reverse(true)
	tags        = regexp.MustCompile(`<[^>]*>`)
	blockEnds   = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li)>|<br\s*/?>`)
)

// dragMark prefixes the title of notes the viewer may drag.
const dragMark = "✥ "

type cell struct {
	r     rune
	style int // 0 is the page, i+1 is the i-th note style
}

// canvas is a grid of cells that notes are painted onto in order.
type canvas struct {
	cols, rows int
	cells      [][]cell
	styles     []lipgloss.Style
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([][]cell, rows)}
	for i := range c.cells {
		c.cells[i] = make([]cell, cols)
		for j := range c.cells[i] {
			c.cells[i][j] = cell{r: ' '}
		}
	}
	return c
}

// cellOf converts a document position to a cell on screen.
func cellOf(left, top, scrollX, scrollY float64) (col, row int) {
	return int(math.Round((left - scrollX) / cellW)), int(math.Round((top - scrollY) / cellH))
}

func (c *canvas) drawNotes(notes []overlay.Note, scrollX, scrollY float64) {
	for _, n := range notes {
		c.drawNote(n, scrollX, scrollY)
	}
}

func (c *canvas) drawNote(n overlay.Note, scrollX, scrollY float64) {
	col, row := cellOf(n.Left, n.Top, scrollX, scrollY)
	w := int(n.Width / cellW)
	h := int(n.Height / cellH)

	c.styles = append(c.styles, lipgloss.NewStyle().
		Background(lipgloss.Color(overlay.NormalizeColor(n.Background))).
		Foreground(lipgloss.Color(n.Foreground.Hex())))
	style := len(c.styles)

	title := n.Title
	if n.Draggable {
		title = dragMark + title
	}
	lines := append([]string{title, ""}, wrap(plainText(n.Content), w-2)...)

	for dy := 0; dy < h; dy++ {
		var line []rune
		if dy < len(lines) {
			line = []rune(lines[dy])
		}
		for dx := 0; dx < w; dx++ {
			r := ' '
			if dx >= 1 && dx-1 < len(line) && dx < w-1 {
				r = line[dx-1]
			}
			c.set(col+dx, row+dy, cell{r: r, style: style})
		}
	}
}

func (c *canvas) set(col, row int, v cell) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.cells[row][col] = v
}

func (c *canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && row[j].style == row[start].style {
				continue
			}
			b.WriteString(c.render(row[start].style, row[start:j]))
			start = j
		}
	}
	return b.String()
}

func (c *canvas) render(style int, run []cell) string {
	rs := make([]rune, len(run))
	for i, v := range run {
		rs[i] = v.r
	}
	if style == 0 {
		return string(rs)
	}
	return c.styles[style-1].Render(string(rs))
}

// plainText reduces note HTML to text with one line per block.
func plainText(content string) string {
	s := blockEnds.ReplaceAllString(content, "\n")
	s = tags.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// wrap breaks text into lines of at most width runes, on spaces where it can.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		line := []rune{}
		for _, word := range strings.Fields(para) {
			wr := []rune(word)
			for len(wr) > width {
				if len(line) > 0 {
					out = append(out, string(line))
					line = line[:0]
				}
				out = append(out, string(wr[:width]))
				wr = wr[width:]
			}
			switch {
			case len(line) == 0:
				line = append(line, wr...)
			case len(line)+1+len(wr) <= width:
				line = append(append(line, ' '), wr...)
			default:
				out = append(out, string(line))
				line = append([]rune{}, wr...)
			}
		}
		if len(line) > 0 {
			out = append(out, string(line))
		}
	}
	return out
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width >= 0 && len(r) > width {
		return string(r[:width])
	}
	return s
}
