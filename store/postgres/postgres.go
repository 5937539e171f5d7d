// Package postgres stores notes in PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/vinizap/pinnotes/domain"
	"github.com/vinizap/pinnotes/store"
)

const noteColumns = `id, title, content, color, author_id, page_id, is_public, shared_with, cx, cy, created_at, updated_at`

type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to databaseURL and checks the connection.
func Open(ctx context.Context, databaseURL string, logger zerolog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", mapErr(err))
	}
	return &Store{pool: pool, logger: logger}, nil
}

func (s *Store) Create(ctx context.Context, n *domain.Note) error {
	if n.Color == "" {
		n.Color = domain.DefaultColor
	}
	shared := n.SharedWith
	if shared == nil {
		shared = []int64{}
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO notes (title, content, color, author_id, page_id, is_public, shared_with, cx, cy)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		n.Title, n.Content, n.Color, n.AuthorID, n.PageID, n.Public, shared, n.CX, n.CY)
	if err := row.Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return fmt.Errorf("create note: %w", mapErr(err))
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*domain.Note, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get note %d: %w", id, mapErr(err))
	}
	n, err := pgx.CollectExactlyOneRow(rows, scanNote)
	if err != nil {
		return nil, mapErr(err)
	}
	return n, nil
}

func (s *Store) ListForPage(ctx context.Context, pageID int64) ([]*domain.Note, error) {
	if pageID == 0 {
		return nil, nil
	}
	return s.list(ctx, `SELECT `+noteColumns+` FROM notes WHERE page_id = $1 ORDER BY id`, pageID)
}

func (s *Store) ListByAuthor(ctx context.Context, authorID int64) ([]*domain.Note, error) {
	return s.list(ctx, `SELECT `+noteColumns+` FROM notes WHERE author_id = $1 ORDER BY id`, authorID)
}

func (s *Store) list(ctx context.Context, query string, arg int64) ([]*domain.Note, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", mapErr(err))
	}
	notes, err := pgx.CollectRows(rows, scanNote)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", mapErr(err))
	}
	return notes, nil
}

func (s *Store) SavePosition(ctx context.Context, id int64, cx, cy float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notes SET cx = $2, cy = $3, updated_at = now() WHERE id = $1`, id, cx, cy)
	if err != nil {
		return fmt.Errorf("save position %d: %w", id, mapErr(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	s.logger.Debug().Int64("note", id).Float64("cx", cx).Float64("cy", cy).Msg("position stored")
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func scanNote(row pgx.CollectableRow) (*domain.Note, error) {
	var n domain.Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Color, &n.AuthorID, &n.PageID,
		&n.Public, &n.SharedWith, &n.CX, &n.CY, &n.CreatedAt, &n.UpdatedAt)
	return &n, err
}

// mapErr folds driver errors into the store sentinels.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgerrcode.UndefinedTable,
		pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsInsufficientResources(pgErr.Code):
		return fmt.Errorf("%w: %s", store.ErrUnavailable, pgErr.Message)
	case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code),
		pgErr.Code == pgerrcode.NumericValueOutOfRange:
		return fmt.Errorf("%w: %s", store.ErrInvalid, pgErr.Message)
	}
	return err
}
