package app

import (
	"time"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// RefreshInterval is how often the feed is re-fetched while open.
const RefreshInterval = 15 * time.Second

// FeedStatus is the observable state of the feed.
type FeedStatus int

const (
	FeedLoading FeedStatus = iota // No data yet, no error
	FeedError                     // Last fetch failed
	FeedReady                     // Data present
)

func (s FeedStatus) String() string {
	switch s {
	case FeedError:
		return "error"
	case FeedReady:
		return "ready"
	default:
		return "loading"
	}
}

// FeedState is the client's copy of the post list. Results are applied in
// arrival order: whichever fetch resolves last wins.
type FeedState struct {
	posts  []domain.Post
	loaded bool
	err    error
}

// Loaded applies a successful fetch.
func (s FeedState) Loaded(posts []domain.Post) FeedState {
	s.posts = SortNewestFirst(posts)
	s.loaded = true
	s.err = nil
	return s
}

// Failed applies a failed fetch. Previously loaded posts are kept but the
// state reports an error until the next successful fetch.
func (s FeedState) Failed(err error) FeedState {
	s.err = err
	return s
}

// Status reports loading, error or ready. Error takes precedence.
func (s FeedState) Status() FeedStatus {
	switch {
	case s.err != nil:
		return FeedError
	case !s.loaded:
		return FeedLoading
	default:
		return FeedReady
	}
}

// Posts returns the full, unfiltered list.
func (s FeedState) Posts() []domain.Post {
	return s.posts
}

// Err returns the last fetch error, if any.
func (s FeedState) Err() error {
	return s.err
}

// Find returns the post with the given id.
func (s FeedState) Find(id string) (domain.Post, bool) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Post{}, false
}
