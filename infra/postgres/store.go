// Package postgres stores posts and profiles directly in Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// NewPool creates a connection pool for dsn.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	cfg.ConnConfig.StatementCacheCapacity = 64
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return pool, nil
}

// Store implements app.PostService and app.ProfileService over a pool.
// Ownership rules that row-level security enforces on the hosted backend
// are applied here in the queries.
type Store struct {
	DB *pgxpool.Pool
}

// NewStore wraps pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id           text PRIMARY KEY,
	display_name text NOT NULL CHECK (display_name IN ('Tai Rong', 'Maeko'))
);

CREATE TABLE IF NOT EXISTS posts (
	id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	title       text NOT NULL CHECK (char_length(title) BETWEEN 1 AND 200),
	content     text NOT NULL CHECK (char_length(content) BETWEEN 1 AND 5000),
	image_url   text,
	created_at  timestamptz NOT NULL DEFAULT now(),
	author_name text NOT NULL,
	user_id     text NOT NULL
);

CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC);
`

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// List returns every post, newest first.
func (s *Store) List(ctx context.Context, _ domain.Session) ([]domain.Post, error) {
	const q = `
	SELECT id::text, title, content, coalesce(image_url, ''), created_at, author_name, user_id
	FROM posts
	ORDER BY created_at DESC, id ASC;
	`
	rows, err := s.DB.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	res := make([]domain.Post, 0)
	for rows.Next() {
		var p domain.Post
		var author string
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.CreatedAt, &author, &p.UserID); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		p.Author = domain.Author(author)
		res = append(res, p)
	}
	return res, rows.Err()
}

// Create inserts a post as the session's user.
func (s *Store) Create(ctx context.Context, sess domain.Session, np domain.NewPost) (domain.Post, error) {
	if sess.User.ID == "" || np.UserID != sess.User.ID {
		return domain.Post{}, domain.ErrUnauthorized
	}
	const q = `
	INSERT INTO posts (title, content, image_url, author_name, user_id)
	VALUES ($1, $2, nullif($3, ''), $4, $5)
	RETURNING id::text, created_at;
	`
	p := domain.Post{
		Title:    np.Title,
		Content:  np.Content,
		ImageURL: np.ImageURL,
		Author:   np.Author,
		UserID:   np.UserID,
	}
	err := s.DB.QueryRow(ctx, q, np.Title, np.Content, np.ImageURL, string(np.Author), np.UserID).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return domain.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// Delete removes the session user's post. Someone else's post, or a missing
// one, reports domain.ErrNotFound.
func (s *Store) Delete(ctx context.Context, sess domain.Session, id string) error {
	if sess.User.ID == "" {
		return domain.ErrUnauthorized
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("deleting post %s: %w", id, domain.ErrNotFound)
	}
	tag, err := s.DB.Exec(ctx, `DELETE FROM posts WHERE id = $1::uuid AND user_id = $2`, id, sess.User.ID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting post %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ProfileByID returns a user's profile row.
func (s *Store) ProfileByID(ctx context.Context, _ domain.Session, id string) (domain.Profile, error) {
	var p domain.Profile
	var name string
	err := s.DB.QueryRow(ctx, `SELECT id, display_name FROM profiles WHERE id = $1`, id).Scan(&p.ID, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	p.DisplayName = domain.Author(name)
	return p, nil
}

// UpsertProfile records the display name chosen at sign-up.
func (s *Store) UpsertProfile(ctx context.Context, p domain.Profile) error {
	if _, ok := domain.ParseAuthor(string(p.DisplayName)); !ok {
		return domain.ErrAuthorRequired
	}
	const q = `
	INSERT INTO profiles (id, display_name) VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name;
	`
	if _, err := s.DB.Exec(ctx, q, p.ID, string(p.DisplayName)); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
