package feed

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/tui/common"
)

// seqs numbers fetches and tick chains across every feed model in the
// process, so messages from a discarded model never match a live one.
var seqs atomic.Int64

func nextSeq() int64 {
	return seqs.Add(1)
}

// --- Messages ---

// PostsLoadedMsg is sent when a list fetch completes successfully.
type PostsLoadedMsg struct {
	Seq   int64
	Posts []domain.Post
}

// PostsErrorMsg is sent when a list fetch fails.
type PostsErrorMsg struct {
	Seq int64
	Err error
}

// ComposeMsg asks the root to open the compose view.
type ComposeMsg struct{}

// SignOutMsg asks the root to end the session.
type SignOutMsg struct{}

// SessionExpiredMsg reports that the session could not be renewed.
type SessionExpiredMsg struct {
	Err error
}

type tickMsg struct {
	chain int64
}

type deleteResultMsg struct {
	ID  string
	Err error
}

// --- Model ---

// Model holds the state for the feed view.
type Model struct {
	posts    app.PostService
	sessions app.SessionSource
	session  domain.Session // Signed-in user; ownership and header
	loc      *time.Location
	now      func() time.Time
	interval time.Duration

	state  app.FeedState
	filter app.Filter

	cursor    int // Index into the filtered posts
	dayCursor int // Index into the day groups

	chain      int64 // Live tick chain; other chains are dropped
	firstSeq   int64 // Responses older than this belong to another model
	reqSeq     int64 // Latest fetch issued
	appliedSeq int64 // Latest fetch applied
	stopped    bool

	confirmDelete bool
	deletingID    string
	status        string
	statusIsError bool
	showHints     bool

	keys    common.KeyMap
	spinner spinner.Model
	width   int
	height  int
}

// New creates a feed model for the signed-in session. A nil loc means
// time.Local.
func New(posts app.PostService, sessions app.SessionSource, session domain.Session, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8A87C"))

	first := nextSeq()
	return Model{
		posts:    posts,
		sessions: sessions,
		session:  session,
		loc:      loc,
		now:      time.Now,
		interval: app.RefreshInterval,
		filter:   app.Filter{Author: app.AllAuthors},
		chain:    nextSeq(),
		firstSeq: first,
		reqSeq:   first,
		keys:     common.DefaultKeyMap(),
		spinner:  s,
	}
}

// Init fetches the feed and arms the refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchPosts(m.reqSeq),
		m.scheduleTick(),
		m.spinner.Tick,
	)
}

// Stop ends the refresh timer chain. The model ignores every later response.
func (m Model) Stop() Model {
	m.stopped = true
	m.chain = 0
	return m
}

// Refresh returns the model with a new fetch in flight.
func (m Model) Refresh() (Model, tea.Cmd) {
	if m.stopped {
		return m, nil
	}
	m.reqSeq = nextSeq()
	return m, m.fetchPosts(m.reqSeq)
}

// SetStatus shows a transient message in the status line.
func (m Model) SetStatus(msg string, isError bool) Model {
	m.status, m.statusIsError = msg, isError
	return m
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// State returns the current feed state.
func (m Model) State() app.FeedState {
	return m.state
}

// Filter returns the active filter.
func (m Model) Filter() app.Filter {
	return m.filter
}

// Loading reports whether a fetch is still outstanding.
func (m Model) Loading() bool {
	return m.appliedSeq < m.reqSeq
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

// Visible returns the posts passing the active filter, newest first.
func (m Model) Visible() []domain.Post {
	return m.filter.Apply(m.state.Posts(), m.loc)
}

// Groups returns the day groups over every loaded post, ignoring the filter.
func (m Model) Groups() []app.DayGroup {
	return app.GroupByDay(m.state.Posts(), m.now(), m.loc)
}

// Selected returns the highlighted post, if any.
func (m Model) Selected() (domain.Post, bool) {
	visible := m.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return domain.Post{}, false
	}
	return visible[m.cursor], true
}

// IsConfirming reports whether a delete confirmation is pending.
func (m Model) IsConfirming() bool {
	return m.confirmDelete
}

// IsFeedMsg reports whether msg is the result of work the feed started:
// a fetch, a delete or a refresh timer tick. The root delivers these to the
// feed even while another view is active.
func IsFeedMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case PostsLoadedMsg, PostsErrorMsg, deleteResultMsg, tickMsg:
		return true
	}
	return false
}
