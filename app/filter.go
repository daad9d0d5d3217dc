package app

import (
	"sort"
	"time"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// DayKeyLayout formats a local calendar day.
const DayKeyLayout = "2006-01-02"

// AuthorFilter restricts the feed to one participant, or none.
type AuthorFilter string

// AllAuthors passes every post.
const AllAuthors AuthorFilter = "all"

// ParseAuthorFilter maps a query value onto a filter. Unknown values mean all.
func ParseAuthorFilter(s string) AuthorFilter {
	if a, ok := domain.ParseAuthor(s); ok {
		return AuthorFilter(a)
	}
	return AllAuthors
}

// Matches is an exact comparison against the author enumeration.
func (f AuthorFilter) Matches(a domain.Author) bool {
	if f == AllAuthors || f == "" {
		return true
	}
	return domain.Author(f) == a
}

// Label is the tab text for the filter.
func (f AuthorFilter) Label() string {
	if f == AllAuthors || f == "" {
		return "All Posts"
	}
	return string(f)
}

// NextAuthorFilter cycles all → each author in order → all.
func NextAuthorFilter(f AuthorFilter) AuthorFilter {
	if f == AllAuthors || f == "" {
		return AuthorFilter(domain.Authors[0])
	}
	for i, a := range domain.Authors {
		if AuthorFilter(a) == f && i+1 < len(domain.Authors) {
			return AuthorFilter(domain.Authors[i+1])
		}
	}
	return AllAuthors
}

// AuthorFilters lists every filter value in tab order.
func AuthorFilters() []AuthorFilter {
	out := []AuthorFilter{AllAuthors}
	for _, a := range domain.Authors {
		out = append(out, AuthorFilter(a))
	}
	return out
}

// DayKey returns the calendar day of t in loc. A nil loc means time.Local.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayKeyLayout)
}

// ParseDayKey parses a key produced by DayKey back into local midnight.
func ParseDayKey(key string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ToggleDay implements single selection: clicking the selected day clears it,
// any other day replaces it.
func ToggleDay(current, clicked string) string {
	if current == clicked {
		return ""
	}
	return clicked
}

// Filter is the client-local view state over the feed.
type Filter struct {
	Author AuthorFilter
	Day    string // DayKey, empty for no date filter
}

// IsZero reports whether neither predicate restricts anything.
func (f Filter) IsZero() bool {
	return (f.Author == "" || f.Author == AllAuthors) && f.Day == ""
}

// Matches applies both predicates. Day comparison uses the same DayKey as the
// grouping so a post never lands in a different day than its timeline group.
func (f Filter) Matches(p domain.Post, loc *time.Location) bool {
	if !f.Author.Matches(p.Author) {
		return false
	}
	return f.Day == "" || DayKey(p.CreatedAt, loc) == f.Day
}

// Apply returns the posts passing both predicates, in input order.
func (f Filter) Apply(posts []domain.Post, loc *time.Location) []domain.Post {
	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if f.Matches(p, loc) {
			out = append(out, p)
		}
	}
	return out
}

// EmptyMessage returns the headline and hint shown when Apply yields nothing.
func (f Filter) EmptyMessage() (string, string) {
	switch {
	case f.Day != "":
		return "No posts on this date", "Try selecting a different date from the timeline."
	case f.Author == "" || f.Author == AllAuthors:
		return "No posts yet", "Be the first to write something. Your words will appear here."
	default:
		return "No posts from " + string(f.Author) + " yet",
			"When " + string(f.Author) + " writes something, it will show up here."
	}
}

// SortNewestFirst orders by creation time descending. Posts sharing a
// timestamp are ordered by ID ascending so the order is deterministic.
func SortNewestFirst(posts []domain.Post) []domain.Post {
	out := append([]domain.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
