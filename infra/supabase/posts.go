package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// postService implements app.PostService over the posts table.
type postService struct {
	client *Client
}

// NewPostService creates a PostService backed by the REST API.
func NewPostService(client *Client) *postService {
	return &postService{client: client}
}

// postRow is the posts table as returned by the REST API.
type postRow struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ImageURL  *string `json:"image_url"`
	CreatedAt string  `json:"created_at"`
	Author    string  `json:"author_name"`
	UserID    string  `json:"user_id"`
}

type insertRow struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
	UserID   string  `json:"user_id"`
	Author   string  `json:"author_name"`
}

func (r postRow) toDomain() domain.Post {
	p := domain.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: parseTime(r.CreatedAt),
		Author:    domain.Author(r.Author),
		UserID:    r.UserID,
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
	return p
}

func (s *postService) List(ctx context.Context, sess domain.Session) ([]domain.Post, error) {
	data, err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/posts?select=*&order=created_at.desc",
		token:  sess.AccessToken,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}

	var rows []postRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing posts: %w", err)
	}
	posts := make([]domain.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.toDomain())
	}
	return posts, nil
}

func (s *postService) Create(ctx context.Context, sess domain.Session, p domain.NewPost) (domain.Post, error) {
	row := insertRow{
		Title:   p.Title,
		Content: p.Content,
		UserID:  p.UserID,
		Author:  string(p.Author),
	}
	if p.ImageURL != "" {
		row.ImageURL = &p.ImageURL
	}

	data, err := s.client.do(ctx, request{
		method:  http.MethodPost,
		path:    "/rest/v1/posts",
		token:   sess.AccessToken,
		body:    row,
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("creating post: %w", err)
	}

	var rows []postRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return domain.Post{}, fmt.Errorf("parsing created post: %w", err)
	}
	if len(rows) == 0 {
		return domain.Post{}, fmt.Errorf("creating post: empty representation")
	}
	return rows[0].toDomain(), nil
}

// Delete removes a post. Row-level security hides other users' rows, so a
// delete that matches nothing reports domain.ErrNotFound.
func (s *postService) Delete(ctx context.Context, sess domain.Session, id string) error {
	data, err := s.client.do(ctx, request{
		method:  http.MethodDelete,
		path:    "/rest/v1/posts?id=eq." + url.QueryEscape(id),
		token:   sess.AccessToken,
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	var rows []postRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("parsing deleted post %s: %w", id, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("deleting post %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
