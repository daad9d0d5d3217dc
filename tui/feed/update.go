package feed

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.stopped || msg.chain != m.chain {
			return m, nil
		}
		m.reqSeq = nextSeq()
		return m, tea.Batch(m.fetchPosts(m.reqSeq), m.scheduleTick())

	case PostsLoadedMsg:
		if !m.accepts(msg.Seq) {
			return m, nil
		}
		m.appliedSeq = msg.Seq
		selected, hadSelection := m.Selected()
		m.state = m.state.Loaded(msg.Posts)
		if hadSelection {
			m.reselect(selected.ID)
		}
		m.clampCursors()
		return m, nil

	case PostsErrorMsg:
		if !m.accepts(msg.Seq) {
			return m, nil
		}
		m.appliedSeq = msg.Seq
		m.state = m.state.Failed(msg.Err)
		if domain.KindOf(msg.Err) == domain.KindUnauthorized {
			err := msg.Err
			return m, func() tea.Msg { return SessionExpiredMsg{Err: err} }
		}
		return m, nil

	case deleteResultMsg:
		if msg.ID == m.deletingID {
			m.deletingID = ""
		}
		if msg.Err != nil {
			if domain.KindOf(msg.Err) == domain.KindUnauthorized {
				err := msg.Err
				return m, func() tea.Msg { return SessionExpiredMsg{Err: err} }
			}
			m.status, m.statusIsError = "Failed to delete post", true
			return m, nil
		}
		m.status, m.statusIsError = "Post deleted", false
		return m.Refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// accepts drops responses that belong to another model or arrived after a
// newer response was already applied.
func (m Model) accepts(seq int64) bool {
	return !m.stopped && seq >= m.firstSeq && seq > m.appliedSeq
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmDelete {
		m.confirmDelete = false
		if !key.Matches(msg, m.keys.Confirm) {
			return m, nil
		}
		p, ok := m.Selected()
		if !ok || !p.OwnedBy(m.session.User.ID) {
			return m, nil
		}
		m.deletingID = p.ID
		m.status = ""
		return m, m.deletePost(p.ID)
	}

	switch {
	case key.Matches(msg, m.keys.ToggleHints):
		m.showHints = !m.showHints

	case key.Matches(msg, m.keys.Refresh):
		return m.Refresh()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return ComposeMsg{} }

	case key.Matches(msg, m.keys.SignOut):
		return m, func() tea.Msg { return SignOutMsg{} }

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.Visible())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.CycleAuthor):
		m.filter.Author = app.NextAuthorFilter(m.filter.Author)
		m.cursor = 0

	case key.Matches(msg, m.keys.PrevDay):
		if m.dayCursor > 0 {
			m.dayCursor--
		}

	case key.Matches(msg, m.keys.NextDay):
		if m.dayCursor < len(m.Groups())-1 {
			m.dayCursor++
		}

	case key.Matches(msg, m.keys.ToggleDay):
		groups := m.Groups()
		if m.dayCursor < len(groups) {
			m.filter.Day = app.ToggleDay(m.filter.Day, groups[m.dayCursor].Key)
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.ClearDay):
		m.filter.Day = ""
		m.cursor = 0

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.Selected(); ok && p.OwnedBy(m.session.User.ID) && m.deletingID == "" {
			m.confirmDelete = true
		}

	case key.Matches(msg, m.keys.OpenImage):
		if p, ok := m.Selected(); ok && p.HasImage() {
			return m, openURL(p.ImageURL)
		}
	}

	return m, nil
}

func (m *Model) reselect(id string) {
	for i, p := range m.Visible() {
		if p.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) clampCursors() {
	if n := len(m.Visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if n := len(m.Groups()); m.dayCursor >= n {
		m.dayCursor = max(n-1, 0)
	}
}
