package domain

import "slices"

// User is an authenticated caller. ID 0 is the anonymous visitor.
type User struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Admin bool   `json:"admin" yaml:"admin"`
}

// Anonymous is the user of requests that carry no token.
var Anonymous = User{}

// LoggedIn reports whether u is a real account.
func (u User) LoggedIn() bool { return u.ID > 0 }

// CanView reports whether uid may see n. The owner always sees the note,
// which includes ownerless notes for anonymous visitors. Public and shared
// notes need a logged-in user.
func CanView(n *Note, uid int64) bool {
	if n.AuthorID == uid {
		return true
	}
	if uid <= 0 {
		return false
	}
	return n.Public || slices.Contains(n.SharedWith, uid)
}

// CanMove reports whether u may store a new position for n.
func CanMove(n *Note, u User) bool {
	if !u.LoggedIn() {
		return false
	}
	return n.AuthorID == u.ID || u.Admin
}

// Visible filters notes down to those uid may see, keeping order.
func Visible(notes []*Note, uid int64) []*Note {
	out := make([]*Note, 0, len(notes))
	for _, n := range notes {
		if CanView(n, uid) {
			out = append(out, n)
		}
	}
	return out
}
