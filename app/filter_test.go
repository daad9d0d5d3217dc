package app

import (
	"testing"
	"time"

	"github.com/CrestNiraj12/ourjournal/domain"
)

func makePost(id string, author domain.Author, createdAt time.Time) domain.Post {
	return domain.Post{
		ID:        id,
		Title:     "Title " + id,
		Content:   "Content " + id,
		Author:    author,
		UserID:    "user-" + string(author),
		CreatedAt: createdAt,
	}
}

func ids(posts []domain.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestFilterApply_AuthorOnly(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		makePost("1", domain.AuthorTaiRong, now),
		makePost("2", domain.AuthorMaeko, now.Add(-time.Hour)),
		makePost("3", domain.AuthorTaiRong, now.Add(-2*time.Hour)),
	}

	got := Filter{Author: AuthorFilter(domain.AuthorMaeko)}.Apply(posts, time.UTC)
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only Maeko's post, got %v", ids(got))
	}

	all := Filter{Author: AllAuthors}.Apply(posts, time.UTC)
	if len(all) != 3 {
		t.Fatalf("all filter must pass everything, got %v", ids(all))
	}
}

func TestFilterApply_IsConjunctionOfIndependentPredicates(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		makePost("a", domain.AuthorTaiRong, day2),
		makePost("b", domain.AuthorMaeko, day2),
		makePost("c", domain.AuthorTaiRong, day1),
		makePost("d", domain.AuthorMaeko, day1),
	}

	days := []string{"", "2024-01-01", "2024-01-02", "2023-12-31"}
	for _, af := range AuthorFilters() {
		for _, day := range days {
			f := Filter{Author: af, Day: day}
			got := f.Apply(posts, time.UTC)
			in := make(map[string]bool, len(got))
			for _, p := range got {
				in[p.ID] = true
			}
			for _, p := range posts {
				authorOK := Filter{Author: af}.Matches(p, time.UTC)
				dayOK := Filter{Day: day}.Matches(p, time.UTC)
				if in[p.ID] != (authorOK && dayOK) {
					t.Fatalf("filter %+v: post %s included=%v author=%v day=%v", f, p.ID, in[p.ID], authorOK, dayOK)
				}
			}
		}
	}
}

func TestFilterApply_DayUsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 2024-01-01 23:30 UTC is 2024-01-02 08:30 in loc.
	p := makePost("late", domain.AuthorMaeko, time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC))

	if got := (Filter{Day: "2024-01-02"}).Apply([]domain.Post{p}, loc); len(got) != 1 {
		t.Fatalf("expected post on local day 2024-01-02")
	}
	if got := (Filter{Day: "2024-01-01"}).Apply([]domain.Post{p}, loc); len(got) != 0 {
		t.Fatalf("post must not match its UTC day under a local filter")
	}

	groups := GroupByDay([]domain.Post{p}, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), loc)
	if len(groups) != 1 || groups[0].Key != "2024-01-02" {
		t.Fatalf("grouping and filter must agree on the day, got %+v", groups)
	}
}

func TestToggleDay(t *testing.T) {
	if got := ToggleDay("", "2024-01-02"); got != "2024-01-02" {
		t.Fatalf("select from empty: %q", got)
	}
	if got := ToggleDay("2024-01-02", "2024-01-02"); got != "" {
		t.Fatalf("same day must deselect, got %q", got)
	}
	if got := ToggleDay("2024-01-02", "2024-01-01"); got != "2024-01-01" {
		t.Fatalf("other day must replace, got %q", got)
	}
}

func TestNextAuthorFilter_Cycles(t *testing.T) {
	f := AllAuthors
	seen := []AuthorFilter{f}
	for i := 0; i < 3; i++ {
		f = NextAuthorFilter(f)
		seen = append(seen, f)
	}
	want := []AuthorFilter{AllAuthors, "Tai Rong", "Maeko", AllAuthors}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle mismatch at %d: got %v want %v", i, seen, want)
		}
	}
}

func TestParseAuthorFilter(t *testing.T) {
	if got := ParseAuthorFilter("maeko"); got != AuthorFilter(domain.AuthorMaeko) {
		t.Fatalf("unexpected filter %q", got)
	}
	if got := ParseAuthorFilter("nobody"); got != AllAuthors {
		t.Fatalf("unknown value must mean all, got %q", got)
	}
}

func TestSortNewestFirst_TieBreaksByID(t *testing.T) {
	ts := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	in := []domain.Post{
		makePost("b", domain.AuthorMaeko, ts),
		makePost("c", domain.AuthorMaeko, ts.Add(time.Minute)),
		makePost("a", domain.AuthorMaeko, ts),
	}
	got := ids(SortNewestFirst(in))
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if in[0].ID != "b" {
		t.Fatalf("input must not be reordered")
	}
}

func TestFilterEmptyMessage(t *testing.T) {
	title, _ := Filter{Day: "2024-01-01", Author: "Maeko"}.EmptyMessage()
	if title != "No posts on this date" {
		t.Fatalf("day filter wording wins: %q", title)
	}
	title, hint := Filter{Author: "Maeko"}.EmptyMessage()
	if title != "No posts from Maeko yet" || hint == "" {
		t.Fatalf("unexpected author wording: %q %q", title, hint)
	}
	if title, _ := (Filter{}).EmptyMessage(); title != "No posts yet" {
		t.Fatalf("unexpected default wording: %q", title)
	}
}
