package feed

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/ourjournal/domain"
)

type stubPosts struct {
	mu      sync.Mutex
	posts   []domain.Post
	listErr error
	delErr  error
	lists   int
	deleted []string
}

func (s *stubPosts) List(context.Context, domain.Session) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.Post(nil), s.posts...), nil
}

func (s *stubPosts) Create(context.Context, domain.Session, domain.NewPost) (domain.Post, error) {
	return domain.Post{}, nil
}

func (s *stubPosts) Delete(_ context.Context, _ domain.Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubSessions struct {
	err error
}

func (s stubSessions) Session(context.Context) (domain.Session, error) {
	if s.err != nil {
		return domain.Session{}, s.err
	}
	return testSession, nil
}

var (
	testNow     = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	testSession = domain.Session{
		User:        domain.User{ID: "user-maeko"},
		AccessToken: "tok",
		DisplayName: domain.AuthorMaeko,
	}
)

func makePost(id string, author domain.Author, userID string, at time.Time) domain.Post {
	return domain.Post{ID: id, Title: "Title " + id, Content: "Body " + id, Author: author, UserID: userID, CreatedAt: at}
}

func samplePosts() []domain.Post {
	return []domain.Post{
		makePost("m1", domain.AuthorMaeko, "user-maeko", testNow.Add(-1*time.Hour)),
		makePost("t1", domain.AuthorTaiRong, "user-tai", testNow.Add(-2*time.Hour)),
		makePost("t0", domain.AuthorTaiRong, "user-tai", testNow.Add(-26*time.Hour)),
	}
}

func newTestModel(posts *stubPosts) Model {
	m := New(posts, stubSessions{}, testSession, time.UTC)
	m.now = func() time.Time { return testNow }
	m.width, m.height = 120, 40
	return m
}

// loaded returns a model that has applied one successful fetch.
func loaded(posts *stubPosts) Model {
	m := newTestModel(posts)
	m, _ = m.Update(m.fetchPosts(m.reqSeq)())
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func visibleIDs(m Model) []string {
	var out []string
	for _, p := range m.Visible() {
		out = append(out, p.ID)
	}
	return out
}
