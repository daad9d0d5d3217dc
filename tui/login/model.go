// Package login is the terminal sign-in and sign-up screen.
package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/tui/common"
)

// ErrCredentialsRequired is reported when email or password is blank.
var ErrCredentialsRequired = errors.New("email and password are required")

// Authenticator signs a user in and keeps the session.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
}

type mode int

const (
	signInMode mode = iota
	signUpMode
	checkEmailMode
)

// Form fields. Sign-in uses email and password only.
const (
	fieldAuthor = iota
	fieldEmail
	fieldPassword
	fieldRepeat
)

// --- Messages ---

// SignedInMsg is sent once a session has been obtained.
type SignedInMsg struct {
	Session domain.Session
}

type signInErrorMsg struct{ err error }

type signedUpMsg struct{}

type signUpErrorMsg struct{ err error }

// --- Model ---

// Model holds the state for the login view.
type Model struct {
	sessions   Authenticator
	accounts   app.AuthService // Sign-up; nil hides it
	redirectTo string
	mode       mode
	focus      int
	author     int // Index into domain.Authors, -1 until chosen
	email      textinput.Model
	password   textinput.Model
	repeat     textinput.Model
	busy       bool
	err        error
	notice     string
	keys       common.KeyMap
	spinner    spinner.Model
	width      int
}

// New creates a login model. accounts may be nil, which disables sign-up.
// redirectTo is where the confirmation email sends a new user.
func New(sessions Authenticator, accounts app.AuthService, redirectTo string) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Prompt = ""

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Prompt = ""

	repeat := password
	repeat.Placeholder = "repeat password"

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8A87C"))

	m := Model{
		sessions:   sessions,
		accounts:   accounts,
		redirectTo: redirectTo,
		author:     -1,
		email:      email,
		password:   password,
		repeat:     repeat,
		keys:       common.DefaultKeyMap(),
		spinner:    s,
	}
	m.setFocus(fieldEmail)
	return m
}

// WithNotice returns the model showing msg above the form.
func (m Model) WithNotice(msg string) Model {
	m.notice = msg
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) fields() []int {
	if m.mode == signUpMode {
		return []int{fieldAuthor, fieldEmail, fieldPassword, fieldRepeat}
	}
	return []int{fieldEmail, fieldPassword}
}

func (m *Model) setFocus(field int) {
	m.focus = field
	m.email.Blur()
	m.password.Blur()
	m.repeat.Blur()
	switch field {
	case fieldEmail:
		m.email.Focus()
	case fieldPassword:
		m.password.Focus()
	case fieldRepeat:
		m.repeat.Focus()
	}
}

func (m *Model) moveFocus(delta int) {
	fields := m.fields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	m.setFocus(fields[idx])
}

func (m Model) lastField() bool {
	fields := m.fields()
	return m.focus == fields[len(fields)-1]
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case signInErrorMsg:
		m.busy = false
		m.err = msg.err
		return m, nil

	case signedUpMsg:
		m.busy = false
		m.err = nil
		m.mode = checkEmailMode
		return m, nil

	case signUpErrorMsg:
		m.busy = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.mode == checkEmailMode {
		if key.Matches(msg, m.keys.Back) || msg.Type == tea.KeyEnter {
			m.switchMode(signInMode)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextField):
		if m.accounts == nil {
			return m, nil
		}
		if m.mode == signInMode {
			m.switchMode(signUpMode)
		} else {
			m.switchMode(signInMode)
		}
		return m, nil

	case msg.Type == tea.KeyUp || key.Matches(msg, m.keys.PrevField):
		m.moveFocus(-1)
		return m, nil

	case msg.Type == tea.KeyDown:
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case msg.Type == tea.KeyEnter:
		if m.lastField() {
			return m.submit()
		}
		m.moveFocus(1)
		return m, nil

	case m.focus == fieldAuthor && key.Matches(msg, m.keys.SwitchAuthor):
		m.cycleAuthor(msg.Type == tea.KeyRight)
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m *Model) cycleAuthor(forward bool) {
	n := len(domain.Authors)
	switch {
	case m.author < 0 && forward:
		m.author = 0
	case m.author < 0:
		m.author = n - 1
	case forward:
		m.author = (m.author + 1) % n
	default:
		m.author = (m.author - 1 + n) % n
	}
}

func (m *Model) switchMode(to mode) {
	m.mode = to
	m.err = nil
	m.password.SetValue("")
	m.repeat.SetValue("")
	if to == signUpMode {
		m.setFocus(fieldAuthor)
		return
	}
	m.setFocus(fieldEmail)
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldEmail:
		m.email, cmd = m.email.Update(msg)
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
	case fieldRepeat:
		m.repeat, cmd = m.repeat.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	if m.mode == signUpMode {
		req, err := m.signUpRequest(email, password)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.busy, m.err = true, nil
		accounts := m.accounts
		return m, func() tea.Msg {
			if err := accounts.SignUp(context.Background(), req); err != nil {
				return signUpErrorMsg{err: err}
			}
			return signedUpMsg{}
		}
	}

	if email == "" || password == "" {
		m.err = ErrCredentialsRequired
		return m, nil
	}
	m.busy, m.err, m.notice = true, nil, ""
	sessions := m.sessions
	return m, func() tea.Msg {
		sess, err := sessions.SignIn(context.Background(), email, password)
		if err != nil {
			return signInErrorMsg{err: err}
		}
		return SignedInMsg{Session: sess}
	}
}

// signUpRequest checks the form in the order the web page does: who you are,
// then the password confirmation, then the credentials.
func (m Model) signUpRequest(email, password string) (app.SignUpRequest, error) {
	if m.author < 0 || m.author >= len(domain.Authors) {
		return app.SignUpRequest{}, domain.ErrAuthorRequired
	}
	if password != m.repeat.Value() {
		return app.SignUpRequest{}, domain.ErrPasswordMismatch
	}
	if email == "" || password == "" {
		return app.SignUpRequest{}, ErrCredentialsRequired
	}
	return app.SignUpRequest{
		Email:       email,
		Password:    password,
		DisplayName: domain.Authors[m.author],
		RedirectTo:  m.redirectTo,
	}, nil
}
