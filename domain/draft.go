package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 5000
	MaxImageBytes    = 5 * 1024 * 1024
)

// AllowedImageTypes are the content types accepted for post images.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// IsAllowedImageType reports whether contentType is one of AllowedImageTypes.
func IsAllowedImageType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range AllowedImageTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

// ValidateImage checks the content type first, then the size.
func ValidateImage(contentType string, size int64) error {
	if !IsAllowedImageType(contentType) {
		return ErrImageType
	}
	if size > MaxImageBytes {
		return ErrImageTooLarge
	}
	return nil
}

// Image is an attachment held in memory until it is uploaded.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the attachment size in bytes.
func (i Image) Size() int64 {
	return int64(len(i.Data))
}

// Upload describes a stored image.
type Upload struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"type"`
}

// Draft is an unsaved post being authored.
type Draft struct {
	Title   string
	Content string
	Image   *Image
}

// Normalize returns a copy with title and content trimmed.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	return d
}

// Validate is advisory: the backend remains the trust boundary.
func (d Draft) Validate() error {
	n := d.Normalize()
	if n.Title == "" || n.Content == "" {
		return ErrEmptyPost
	}
	if utf8.RuneCountInString(n.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if utf8.RuneCountInString(n.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if d.Image != nil {
		return ValidateImage(d.Image.ContentType, d.Image.Size())
	}
	return nil
}
