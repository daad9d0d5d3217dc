package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/editor"
	"github.com/CrestNiraj12/ourjournal/tui/common"
	"github.com/CrestNiraj12/ourjournal/tui/compose"
	"github.com/CrestNiraj12/ourjournal/tui/feed"
	"github.com/CrestNiraj12/ourjournal/tui/login"
)

// Sessions keeps the signed-in session for the whole program.
type Sessions interface {
	app.SessionSource
	Restore(ctx context.Context) (domain.Session, error)
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignOut(ctx context.Context) error
}

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Sessions       Sessions
	Accounts       app.AuthService // Sign-up; nil hides it
	Posts          app.PostService
	Uploads        app.Uploader // Nil rejects image attachments
	Editor         *editor.EnvEditor
	Location       *time.Location
	SignUpRedirect string
}

type activeView int

const (
	bootView activeView = iota
	loginView
	feedView
	composeView
)

type restoredMsg struct {
	session domain.Session
	err     error
}

type signedOutMsg struct {
	err error
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps    Deps
	active  activeView
	login   login.Model
	feed    feed.Model
	compose compose.Model
	keys    common.KeyMap
	spinner spinner.Model
	size    tea.WindowSizeMsg
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8A87C"))
	return App{
		deps:    deps,
		active:  bootView,
		keys:    common.DefaultKeyMap(),
		spinner: s,
	}
}

// Init restores the saved session before choosing the first screen.
func (a App) Init() tea.Cmd {
	sessions := a.deps.Sessions
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		sess, err := sessions.Restore(context.Background())
		return restoredMsg{session: sess, err: err}
	})
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.size = msg
		switch a.active {
		case loginView:
			a.login, _ = a.login.Update(msg)
		case composeView:
			a.compose, _ = a.compose.Update(msg)
			a.feed, _ = a.feed.Update(msg)
		case feedView:
			a.feed, _ = a.feed.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if a.active == feedView && key.Matches(msg, a.keys.Quit) && !a.feed.IsConfirming() {
			a.feed = a.feed.Stop()
			return a, tea.Quit
		}

	case restoredMsg:
		if msg.err != nil {
			notice := ""
			if domain.KindOf(msg.err) != domain.KindUnauthorized {
				notice = "Could not restore your session: " + msg.err.Error()
			}
			return a.showLogin(notice)
		}
		return a.showFeed(msg.session)

	case login.SignedInMsg:
		return a.showFeed(msg.Session)

	case feed.ComposeMsg:
		a.active = composeView
		a.compose = compose.New(app.Publisher{Posts: a.deps.Posts, Uploads: a.deps.Uploads}, a.deps.Sessions, a.deps.Editor)
		if a.size.Width > 0 {
			a.compose, _ = a.compose.Update(a.size)
		}
		return a, a.compose.Init()

	case compose.DoneMsg:
		a.active = feedView
		if msg.Cancelled {
			return a, nil
		}
		a.feed = a.feed.SetStatus("Post published!", false)
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Refresh()
		return a, cmd

	case feed.SignOutMsg:
		a.feed = a.feed.Stop()
		sessions := a.deps.Sessions
		return a, func() tea.Msg {
			return signedOutMsg{err: sessions.SignOut(context.Background())}
		}

	case signedOutMsg:
		notice := ""
		if msg.err != nil {
			notice = "Signed out locally. " + common.Capitalize(msg.err.Error())
		}
		return a.showLogin(notice)

	case feed.SessionExpiredMsg:
		a.feed = a.feed.Stop()
		return a.showLogin("Your session has expired. Please sign in again.")

	case spinner.TickMsg:
		// Each spinner drops ticks addressed to another one.
		var cmds [3]tea.Cmd
		switch a.active {
		case bootView:
			a.spinner, cmds[0] = a.spinner.Update(msg)
		case loginView:
			a.login, cmds[1] = a.login.Update(msg)
		case composeView:
			a.compose, cmds[1] = a.compose.Update(msg)
			a.feed, cmds[2] = a.feed.Update(msg)
		case feedView:
			a.feed, cmds[1] = a.feed.Update(msg)
		}
		return a, tea.Batch(cmds[:]...)
	}

	// Route everything else to the active sub-model. Feed messages are
	// delivered even while composing so its refresh chain keeps running.
	var cmd tea.Cmd
	switch a.active {
	case loginView:
		a.login, cmd = a.login.Update(msg)
	case composeView:
		if feed.IsFeedMsg(msg) {
			a.feed, cmd = a.feed.Update(msg)
			return a, cmd
		}
		a.compose, cmd = a.compose.Update(msg)
	case feedView:
		a.feed, cmd = a.feed.Update(msg)
	}
	return a, cmd
}

func (a App) showLogin(notice string) (tea.Model, tea.Cmd) {
	a.active = loginView
	a.login = login.New(a.deps.Sessions, a.deps.Accounts, a.deps.SignUpRedirect)
	if notice != "" {
		a.login = a.login.WithNotice(notice)
	}
	if a.size.Width > 0 {
		a.login, _ = a.login.Update(a.size)
	}
	return a, a.login.Init()
}

func (a App) showFeed(sess domain.Session) (tea.Model, tea.Cmd) {
	a.active = feedView
	a.feed = feed.New(a.deps.Posts, a.deps.Sessions, sess, a.deps.Location)
	if a.size.Width > 0 {
		a.feed, _ = a.feed.Update(a.size)
	}
	return a, a.feed.Init()
}

// View delegates rendering to the active sub-model.
func (a App) View() string {
	switch a.active {
	case loginView:
		return a.login.View()
	case feedView:
		return a.feed.View()
	case composeView:
		return a.compose.View()
	}
	return common.AppTitleStyle.Render("📔 Our Journal") + "\n\n" + a.spinner.View() + " Restoring session..."
}
