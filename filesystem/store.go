package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/vinizap/pinnotes/domain"
	"github.com/vinizap/pinnotes/store"
)

// Store keeps one markdown file with YAML frontmatter per note under a
// root directory. Writes are serialised by a mutex.
type Store struct {
	root string

	mu     sync.Mutex
	nextID int64
}

var _ store.Store = (*Store)(nil)

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	notes, err := ListNotes(root)
	if err != nil {
		return nil, err
	}
	s := &Store{root: root, nextID: 1}
	for _, n := range notes {
		if n.ID >= s.nextID {
			s.nextID = n.ID + 1
		}
	}
	return s, nil
}

func (s *Store) path(id int64) string {
	return filepath.Join(s.root, strconv.FormatInt(id, 10)+noteExt)
}

func (s *Store) Create(_ context.Context, n *domain.Note) error {
	if n.AuthorID < 0 || n.PageID < 0 {
		return store.ErrInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	n.ID = s.nextID
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.Color == "" {
		n.Color = domain.DefaultColor
	}
	if err := WriteNote(s.path(n.ID), n); err != nil {
		return fmt.Errorf("write note %d: %w", n.ID, err)
	}
	s.nextID++
	return nil
}

func (s *Store) Get(_ context.Context, id int64) (*domain.Note, error) {
	n, err := ReadNote(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read note %d: %w", id, err)
	}
	return n, nil
}

func (s *Store) ListForPage(_ context.Context, pageID int64) ([]*domain.Note, error) {
	if pageID == 0 {
		return nil, nil
	}
	return s.list(func(n *domain.Note) bool { return n.PageID == pageID })
}

func (s *Store) ListByAuthor(_ context.Context, authorID int64) ([]*domain.Note, error) {
	return s.list(func(n *domain.Note) bool { return n.AuthorID == authorID })
}

func (s *Store) list(keep func(*domain.Note) bool) ([]*domain.Note, error) {
	notes, err := ListNotes(s.root)
	if err != nil {
		return nil, err
	}
	notes = slices.DeleteFunc(notes, func(n *domain.Note) bool { return !keep(n) })
	slices.SortFunc(notes, func(a, b *domain.Note) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return notes, nil
}

func (s *Store) SavePosition(ctx context.Context, id int64, cx, cy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	n.CX, n.CY = &cx, &cy
	n.UpdatedAt = time.Now().UTC()
	return WriteNote(s.path(id), n)
}

func (s *Store) Close() error { return nil }
