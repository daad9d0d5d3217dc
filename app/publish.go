package app

import (
	"context"
	"fmt"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// Stage is a step of the post creation state machine.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageUploadingImage
	StageInserting
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StageUploadingImage:
		return "uploading image"
	case StageInserting:
		return "publishing"
	default:
		return "idle"
	}
}

// PublishError reports which stage failed. OrphanedImageURL is set when an
// image was stored but the post insert failed afterwards; nothing removes it.
type PublishError struct {
	Stage            Stage
	Err              error
	OrphanedImageURL string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Publisher turns a draft into a post: validate, upload the image if any,
// then insert.
type Publisher struct {
	Posts   PostService
	Uploads Uploader
}

// Validate runs the local checks. It never touches the network.
func (p Publisher) Validate(d domain.Draft) error {
	if err := d.Validate(); err != nil {
		return &PublishError{Stage: StageValidating, Err: err}
	}
	return nil
}

// Upload stores the draft's image and returns its URL, or "" without one.
func (p Publisher) Upload(ctx context.Context, s domain.Session, d domain.Draft) (string, error) {
	if d.Image == nil {
		return "", nil
	}
	if p.Uploads == nil {
		return "", &PublishError{Stage: StageUploadingImage, Err: domain.ErrNotConfigured}
	}
	up, err := p.Uploads.Upload(ctx, s, *d.Image)
	if err != nil {
		return "", &PublishError{Stage: StageUploadingImage, Err: err}
	}
	return up.URL, nil
}

// Insert creates the post with trimmed text and the session's identity.
func (p Publisher) Insert(ctx context.Context, s domain.Session, d domain.Draft, imageURL string) (domain.Post, error) {
	n := d.Normalize()
	author := s.DisplayName
	if author == "" {
		author = domain.ResolveDisplayName(domain.Profile{}, s.User)
	}
	post, err := p.Posts.Create(ctx, s, domain.NewPost{
		Title:    n.Title,
		Content:  n.Content,
		ImageURL: imageURL,
		UserID:   s.User.ID,
		Author:   author,
	})
	if err != nil {
		return domain.Post{}, &PublishError{Stage: StageInserting, Err: err, OrphanedImageURL: imageURL}
	}
	return post, nil
}

// Publish runs the whole pipeline. Any failure aborts; no partial post exists.
func (p Publisher) Publish(ctx context.Context, s domain.Session, d domain.Draft) (domain.Post, error) {
	if err := p.Validate(d); err != nil {
		return domain.Post{}, err
	}
	imageURL, err := p.Upload(ctx, s, d)
	if err != nil {
		return domain.Post{}, err
	}
	return p.Insert(ctx, s, d, imageURL)
}
