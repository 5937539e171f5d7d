// domain/note.go
package domain

import "time"

// DefaultColor is the background used when a note has no color of its own.
const DefaultColor = "#ffeb3b"

// Note is the stored record. CX/CY are nil until the owner first drags it.
type Note struct {
	ID         int64     `json:"id" yaml:"id"`
	Title      string    `json:"title" yaml:"title"`
	Content    string    `json:"content" yaml:"-"`
	Color      string    `json:"color" yaml:"color"`
	AuthorID   int64     `json:"author" yaml:"author"`
	PageID     int64     `json:"page" yaml:"page"`
	Public     bool      `json:"public" yaml:"public"`
	SharedWith []int64   `json:"shared_with" yaml:"shared_with"`
	CX         *float64  `json:"cx" yaml:"cx,omitempty"`
	CY         *float64  `json:"cy" yaml:"cy,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// PayloadNote is what a page receives for each visible note.
type PayloadNote struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Color   string   `json:"color"`
	Author  int64    `json:"author"`
	CX      *float64 `json:"cx"`
	CY      *float64 `json:"cy"`
}

// TokenHeader carries the caller's auth token, "<user id>.<secret>".
const TokenHeader = "X-Pin-Token"

// Session is the per-page context the client needs to persist positions.
type Session struct {
	AjaxURL string `json:"ajaxUrl"`
	Nonce   string `json:"nonce"`
	UID     int64  `json:"uid"`
}

// Payload is the full page-load input of the overlay.
type Payload struct {
	Session Session       `json:"session"`
	Notes   []PayloadNote `json:"notes"`
}

// SaveResponse is the envelope returned by the ajax endpoint.
type SaveResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
}

// ToPayload strips the stored record down to the fields a page may see.
func (n *Note) ToPayload() PayloadNote {
	color := n.Color
	if color == "" {
		color = DefaultColor
	}
	return PayloadNote{
		ID:      n.ID,
		Title:   n.Title,
		Content: n.Content,
		Color:   color,
		Author:  n.AuthorID,
		CX:      n.CX,
		CY:      n.CY,
	}
}
