// Package store defines how notes are persisted.
package store

import (
	"context"
	"errors"

	"github.com/vinizap/pinnotes/domain"
)

var (
	ErrNotFound = errors.New("note not found")
	// ErrUnavailable means the backing storage is not ready, e.g. the
	// schema has not been migrated.
	ErrUnavailable = errors.New("store unavailable")
	ErrInvalid     = errors.New("invalid note")
)

// Store is implemented by the postgres and filesystem backends.
//
// Page id 0 means "not assigned to any page": such notes can be created
// and fetched by id but are never listed for a page.
type Store interface {
	Create(ctx context.Context, n *domain.Note) error
	Get(ctx context.Context, id int64) (*domain.Note, error)
	ListForPage(ctx context.Context, pageID int64) ([]*domain.Note, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Note, error)
	// SavePosition overwrites the stored coordinates; the last write wins.
	SavePosition(ctx context.Context, id int64, cx, cy float64) error
	Close() error
}
