package postgres

import (
	"context"
	"database/sql"
	"errors"

	"blueblog/internal/posts"
)

// Store keeps post documents as rows of the posts table.
type Store struct {
	db *sql.DB
}

var _ posts.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const postColumns = `id, title, date,
		COALESCE(image_path, ''), COALESCE(alt_text, ''),
		COALESCE(content_html, ''), COALESCE(content, '')`

func (s *Store) ListPosts(ctx context.Context) ([]posts.Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]posts.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Store) ListPostIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (posts.Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return posts.Post{}, posts.ErrNotFound
	}
	if err != nil {
		return posts.Post{}, err
	}

	return post, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (posts.Post, error) {
	var p posts.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Date,
		&p.ImagePath,
		&p.AltText,
		&p.ContentHTML,
		&p.Content,
	)
	return p, err
}
