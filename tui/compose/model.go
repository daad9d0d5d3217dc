// Package compose is the terminal form for writing a new journal entry.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/editor"
	"github.com/CrestNiraj12/ourjournal/tui/common"
)

const (
	fieldTitle = iota
	fieldContent
	fieldImage
	fieldCount
)

// --- Messages ---

// DoneMsg is sent when composing ends. Cancelled is set when nothing was
// published.
type DoneMsg struct {
	Post      domain.Post
	Cancelled bool
}

type uploadedMsg struct {
	session  domain.Session
	imageURL string
}

type publishFailedMsg struct {
	err error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Model holds the state for the compose view.
type Model struct {
	publisher app.Publisher
	sessions  app.SessionSource
	editor    *editor.EnvEditor // Nil disables ctrl+e

	title   textinput.Model
	content textarea.Model
	image   textinput.Model
	focus   int

	draft domain.Draft // Snapshot being published
	stage app.Stage
	err   error

	keys    common.KeyMap
	spinner spinner.Model
	width   int
}

// New creates an empty compose form. ed may be nil.
func New(publisher app.Publisher, sessions app.SessionSource, ed *editor.EnvEditor) Model {
	title := textinput.New()
	title.Placeholder = "Give your entry a title"
	title.CharLimit = 0 // Over-long text is reported by validation, never cut
	title.Prompt = ""

	content := textarea.New()
	content.Placeholder = "Write something from the heart..."
	content.CharLimit = 0
	content.MaxHeight = 0
	content.ShowLineNumbers = false
	content.SetWidth(72)
	content.SetHeight(8)

	image := textinput.New()
	image.Placeholder = "optional: path to a JPEG, PNG, GIF or WebP (max 5MB)"
	image.Prompt = ""

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8A87C"))

	m := Model{
		publisher: publisher,
		sessions:  sessions,
		editor:    ed,
		title:     title,
		content:   content,
		image:     image,
		keys:      common.DefaultKeyMap(),
		spinner:   s,
	}
	m.setFocus(fieldTitle)
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Busy reports whether a publish is in flight.
func (m Model) Busy() bool {
	return m.stage != app.StageIdle
}

// Stage returns the publish step in progress.
func (m Model) Stage() app.Stage {
	return m.stage
}

// Err returns the last failure shown on the form.
func (m Model) Err() error {
	return m.err
}

// Draft returns the form contents without reading the image file.
func (m Model) Draft() domain.Draft {
	return domain.Draft{Title: m.title.Value(), Content: m.content.Value()}
}

func (m *Model) setFocus(field int) {
	m.focus = field
	m.title.Blur()
	m.content.Blur()
	m.image.Blur()
	switch field {
	case fieldTitle:
		m.title.Focus()
	case fieldContent:
		m.content.Focus()
	case fieldImage:
		m.image.Focus()
	}
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.content.SetWidth(min(max(msg.Width-8, 30), 100))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case editorFinishedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("editor: %w", msg.err)
			return m, nil
		}
		text, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.content.SetValue(text)
		m.setFocus(fieldContent)
		return m, nil

	case uploadedMsg:
		if m.stage != app.StageUploadingImage {
			return m, nil
		}
		m.stage = app.StageInserting
		return m, m.insert(msg.session, msg.imageURL)

	case publishFailedMsg:
		m.stage = app.StageIdle
		m.err = msg.err
		return m, nil

	case DoneMsg:
		m.stage = app.StageIdle
		return m, nil

	case tea.KeyMsg:
		if m.Busy() {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, done(DoneMsg{Cancelled: true})

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.OpenEditor):
		return m, m.launchEditor()

	case key.Matches(msg, m.keys.NextField):
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case msg.Type == tea.KeyEnter && m.focus != fieldContent:
		if m.focus == fieldImage {
			return m.submit()
		}
		m.setFocus(m.focus + 1)
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldContent:
		m.content, cmd = m.content.Update(msg)
	case fieldImage:
		m.image, cmd = m.image.Update(msg)
	}
	return m, cmd
}

// launchEditor hands the body to $EDITOR. tea.ExecProcess suspends the
// program while it runs.
func (m Model) launchEditor() tea.Cmd {
	if m.editor == nil {
		return nil
	}
	cmd, tmpPath, err := m.editor.Cmd(m.title.Value(), m.content.Value())
	if err != nil {
		return func() tea.Msg {
			return publishFailedMsg{err: fmt.Errorf("preparing editor: %w", err)}
		}
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// submit validates locally, then starts the upload or the insert. The form
// keeps its contents until the post exists.
func (m Model) submit() (Model, tea.Cmd) {
	m.err = nil
	d := m.Draft()
	if path := strings.TrimSpace(m.image.Value()); path != "" {
		img, err := LoadImage(path)
		if err != nil {
			m.err = err
			return m, nil
		}
		d.Image = img
	}

	m.stage = app.StageValidating
	if err := m.publisher.Validate(d); err != nil {
		m.stage = app.StageIdle
		m.err = err
		return m, nil
	}
	m.draft = d

	if d.Image != nil {
		m.stage = app.StageUploadingImage
		return m, m.upload()
	}
	m.stage = app.StageInserting
	return m, m.insert(domain.Session{}, "")
}

func (m Model) upload() tea.Cmd {
	publisher, sessions, d := m.publisher, m.sessions, m.draft
	return func() tea.Msg {
		ctx := context.Background()
		sess, err := sessions.Session(ctx)
		if err != nil {
			return publishFailedMsg{err: err}
		}
		url, err := publisher.Upload(ctx, sess, d)
		if err != nil {
			return publishFailedMsg{err: err}
		}
		return uploadedMsg{session: sess, imageURL: url}
	}
}

// insert creates the post. A zero sess is fetched from the session source.
func (m Model) insert(sess domain.Session, imageURL string) tea.Cmd {
	publisher, sessions, d := m.publisher, m.sessions, m.draft
	return func() tea.Msg {
		ctx := context.Background()
		if sess.AccessToken == "" {
			var err error
			if sess, err = sessions.Session(ctx); err != nil {
				return publishFailedMsg{err: err}
			}
		}
		post, err := publisher.Insert(ctx, sess, d, imageURL)
		if err != nil {
			return publishFailedMsg{err: err}
		}
		return DoneMsg{Post: post}
	}
}

// failureText words a publish failure for the form.
func failureText(err error) string {
	var pe *app.PublishError
	if !errors.As(err, &pe) {
		return common.ErrorText(err)
	}
	switch domain.KindOf(pe.Err) {
	case domain.KindValidation, domain.KindUnauthorized:
		return common.ErrorText(pe.Err)
	case domain.KindConfig:
		return common.WarningStyle.Render("Configuration error: image storage is not configured.")
	}
	if pe.Stage == app.StageUploadingImage {
		return common.ErrorStyle.Render("Image upload failed: " + pe.Err.Error())
	}
	return common.ErrorStyle.Render("Failed to create post: " + pe.Err.Error())
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
