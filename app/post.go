package app

import (
	"context"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// PostService reads and writes journal entries on the backend.
type PostService interface {
	// List returns every post, newest first.
	List(ctx context.Context, s domain.Session) ([]domain.Post, error)

	// Create inserts a post. The backend assigns the ID and creation time.
	Create(ctx context.Context, s domain.Session, p domain.NewPost) (domain.Post, error)

	// Delete hard-deletes a post owned by the session's user.
	Delete(ctx context.Context, s domain.Session, id string) error
}

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, s domain.Session, img domain.Image) (domain.Upload, error)
}
