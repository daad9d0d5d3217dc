package domain

import (
	"strings"
	"time"
)

// Author is one of the two journal participants.
type Author string

const (
	AuthorTaiRong Author = "Tai Rong"
	AuthorMaeko   Author = "Maeko"
)

// Authors lists the participants in display order.
var Authors = []Author{AuthorTaiRong, AuthorMaeko}

// ParseAuthor matches s against the participant names, ignoring case and
// surrounding whitespace.
func ParseAuthor(s string) (Author, bool) {
	s = strings.TrimSpace(s)
	for _, a := range Authors {
		if strings.EqualFold(s, string(a)) {
			return a, true
		}
	}
	return "", false
}

// Initial returns the first letter of the author name, used as an avatar.
func (a Author) Initial() string {
	for _, r := range string(a) {
		return string(r)
	}
	return "?"
}

// Post is a single journal entry.
type Post struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string // Empty when the entry has no image
	CreatedAt time.Time
	Author    Author
	UserID    string
}

// HasImage reports whether the post carries an image.
func (p Post) HasImage() bool {
	return p.ImageURL != ""
}

// OwnedBy reports whether userID wrote the post. Only owners may delete.
func (p Post) OwnedBy(userID string) bool {
	return userID != "" && p.UserID == userID
}

// NewPost is the insert payload. The backend assigns ID and CreatedAt.
type NewPost struct {
	Title    string
	Content  string
	ImageURL string
	UserID   string
	Author   Author
}
