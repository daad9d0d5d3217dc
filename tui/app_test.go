package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/tui/compose"
	"github.com/CrestNiraj12/ourjournal/tui/feed"
	"github.com/CrestNiraj12/ourjournal/tui/login"
)

var testSession = domain.Session{
	User:        domain.User{ID: "user-tai"},
	AccessToken: "tok",
	DisplayName: domain.AuthorTaiRong,
}

type stubSessions struct {
	restoreErr error
	signOutErr error
	signOuts   int
}

func (s *stubSessions) Session(context.Context) (domain.Session, error) {
	return testSession, nil
}

func (s *stubSessions) Restore(context.Context) (domain.Session, error) {
	if s.restoreErr != nil {
		return domain.Session{}, s.restoreErr
	}
	return testSession, nil
}

func (s *stubSessions) SignIn(context.Context, string, string) (domain.Session, error) {
	return testSession, nil
}

func (s *stubSessions) SignOut(context.Context) error {
	s.signOuts++
	return s.signOutErr
}

type stubPosts struct {
	posts []domain.Post
}

func (s *stubPosts) List(context.Context, domain.Session) ([]domain.Post, error) {
	return s.posts, nil
}

func (s *stubPosts) Create(_ context.Context, _ domain.Session, p domain.NewPost) (domain.Post, error) {
	return domain.Post{ID: "new", Title: p.Title, Content: p.Content, Author: p.Author, UserID: p.UserID}, nil
}

func (s *stubPosts) Delete(context.Context, domain.Session, string) error {
	return nil
}

func newTestApp(sessions *stubSessions) App {
	return NewApp(Deps{
		Sessions: sessions,
		Posts: &stubPosts{posts: []domain.Post{{
			ID: "p1", Title: "Hello", Content: "World", Author: domain.AuthorMaeko,
			UserID: "user-maeko", CreatedAt: time.Now(),
		}}},
		Location: time.UTC,
	})
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return next, cmd
}

func TestRestore_ShowsFeedOrLogin(t *testing.T) {
	a, _ := update(t, newTestApp(&stubSessions{}), restoredMsg{session: testSession})
	if a.active != feedView {
		t.Fatalf("restored session must open the feed")
	}

	a, _ = update(t, newTestApp(&stubSessions{}), restoredMsg{err: domain.ErrUnauthorized})
	if a.active != loginView {
		t.Fatalf("missing session must open login")
	}
	if strings.Contains(a.View(), "Could not restore") {
		t.Fatalf("no notice expected for a plain missing session")
	}

	a, _ = update(t, newTestApp(&stubSessions{}), restoredMsg{err: errors.New("dial tcp: timeout")})
	if !strings.Contains(a.View(), "Could not restore your session") {
		t.Fatalf("network failure must be explained:\n%s", a.View())
	}
}

func TestSignedIn_OpensFeed(t *testing.T) {
	a, _ := update(t, newTestApp(&stubSessions{}), restoredMsg{err: domain.ErrUnauthorized})
	a, cmd := update(t, a, login.SignedInMsg{Session: testSession})
	if a.active != feedView || cmd == nil {
		t.Fatalf("sign-in must open the feed and start loading")
	}
}

func TestCompose_PublishReturnsToFeed(t *testing.T) {
	a, _ := update(t, newTestApp(&stubSessions{}), restoredMsg{session: testSession})

	a, _ = update(t, a, feed.ComposeMsg{})
	if a.active != composeView {
		t.Fatalf("expected compose view")
	}

	a, cmd := update(t, a, compose.DoneMsg{Post: domain.Post{ID: "new"}})
	if a.active != feedView || cmd == nil {
		t.Fatalf("publish must return to the feed and refetch")
	}
	if a.feed.Status() != "Post published!" {
		t.Fatalf("unexpected status %q", a.feed.Status())
	}

	a, _ = update(t, a, feed.ComposeMsg{})
	a, cmd = update(t, a, compose.DoneMsg{Cancelled: true})
	if a.active != feedView || cmd != nil {
		t.Fatalf("cancel must return without refetching")
	}
}

func TestFeedKeepsLoadingWhileComposing(t *testing.T) {
	a, _ := update(t, newTestApp(&stubSessions{}), restoredMsg{session: testSession})
	a, _ = update(t, a, feed.ComposeMsg{})

	var cmd tea.Cmd
	a.feed, cmd = a.feed.Refresh()
	a, _ = update(t, a, cmd())
	if a.feed.State().Status() != app.FeedReady {
		t.Fatalf("feed must apply results while compose is open")
	}
	if a.active != composeView {
		t.Fatalf("compose must stay open")
	}
}

func TestSignOut_ReturnsToLogin(t *testing.T) {
	sessions := &stubSessions{}
	a, _ := update(t, newTestApp(sessions), restoredMsg{session: testSession})

	a, cmd := update(t, a, feed.SignOutMsg{})
	if cmd == nil {
		t.Fatalf("expected sign out command")
	}
	a, _ = update(t, a, cmd())
	if sessions.signOuts != 1 || a.active != loginView {
		t.Fatalf("expected one sign out and the login view")
	}
	if !strings.Contains(a.View(), "Welcome Back") {
		t.Fatalf("expected sign in form:\n%s", a.View())
	}
}

func TestSessionExpired_ShowsNotice(t *testing.T) {
	a, _ := update(t, newTestApp(&stubSessions{}), restoredMsg{session: testSession})
	a, _ = update(t, a, feed.SessionExpiredMsg{Err: domain.ErrUnauthorized})
	if a.active != loginView {
		t.Fatalf("expired session must open login")
	}
	if !strings.Contains(a.View(), "Your session has expired") {
		t.Fatalf("expected notice:\n%s", a.View())
	}
}

func TestQuitKeys(t *testing.T) {
	a, _ := update(t, newTestApp(&stubSessions{}), restoredMsg{session: testSession})

	_, cmd := update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q must quit from the feed")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}

	a, _ = update(t, a, feed.ComposeMsg{})
	_, cmd = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatalf("q must be typed, not quit, while composing")
		}
	}

	_, cmd = update(t, a, tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c must quit everywhere")
	}
}

func TestDeleteFinishingWhileComposingReachesFeed(t *testing.T) {
	a := NewApp(Deps{
		Sessions: &stubSessions{},
		Posts: &stubPosts{posts: []domain.Post{{
			ID: "own", Title: "Mine", Content: "Body", Author: domain.AuthorTaiRong,
			UserID: testSession.User.ID, CreatedAt: time.Now(),
		}}},
		Location: time.UTC,
	})
	a, _ = update(t, a, restoredMsg{session: testSession})
	var cmd tea.Cmd
	a.feed, cmd = a.feed.Refresh()
	a, _ = update(t, a, cmd())

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	a, deleteCmd := update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if deleteCmd == nil {
		t.Fatalf("expected delete command")
	}

	a, _ = update(t, a, feed.ComposeMsg{})
	a, cmd = update(t, a, deleteCmd())
	if cmd == nil {
		t.Fatalf("delete result must reach the feed and trigger a refresh")
	}
	if a.active != composeView {
		t.Fatalf("compose must stay open")
	}

	a, cmd = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	a, _ = update(t, a, cmd())
	if a.active != feedView {
		t.Fatalf("esc must return to the feed")
	}
	if a.feed.Status() != "Post deleted" {
		t.Fatalf("unexpected status %q", a.feed.Status())
	}

	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if !a.feed.IsConfirming() {
		t.Fatalf("a later delete must still be possible")
	}
}
