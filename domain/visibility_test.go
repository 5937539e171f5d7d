package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanView(t *testing.T) {
	private := &Note{ID: 1, AuthorID: 7}
	public := &Note{ID: 2, AuthorID: 7, Public: true}
	shared := &Note{ID: 3, AuthorID: 7, SharedWith: []int64{8, 9}}
	ownerless := &Note{ID: 4}

	tests := []struct {
		name string
		note *Note
		uid  int64
		want bool
	}{
		{"owner sees private", private, 7, true},
		{"other misses private", private, 8, false},
		{"anonymous misses private", private, 0, false},
		{"logged in sees public", public, 8, true},
		{"anonymous misses public", public, 0, false},
		{"shared user sees shared", shared, 9, true},
		{"unlisted user misses shared", shared, 10, false},
		{"anonymous sees ownerless", ownerless, 0, true},
		{"logged in misses ownerless", ownerless, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.note, tt.uid))
		})
	}
}

func TestCanMove(t *testing.T) {
	n := &Note{ID: 1, AuthorID: 7, Public: true}

	assert.True(t, CanMove(n, User{ID: 7}))
	assert.False(t, CanMove(n, User{ID: 8}))
	assert.True(t, CanMove(n, User{ID: 8, Admin: true}))
	assert.False(t, CanMove(n, Anonymous))
	assert.False(t, CanMove(&Note{ID: 2}, Anonymous), "ownerless notes stay put for anonymous visitors")
}

func TestVisible(t *testing.T) {
	notes := []*Note{
		{ID: 1, AuthorID: 7},
		{ID: 2, AuthorID: 8, Public: true},
		{ID: 3, AuthorID: 8},
	}

	got := Visible(notes, 7)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestToPayload(t *testing.T) {
	cx := 12.5
	n := &Note{ID: 5, Title: "t", Content: "<p>c</p>", AuthorID: 7, CX: &cx}

	p := n.ToPayload()
	assert.Equal(t, DefaultColor, p.Color)
	assert.Equal(t, int64(7), p.Author)
	assert.Equal(t, &cx, p.CX)
	assert.Nil(t, p.CY)
}
