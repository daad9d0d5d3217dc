package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/tui/common"
)

const (
	sidebarWidth   = 30
	defaultWidth   = 100
	defaultHeight  = 32
	postHeight     = 8 // Border, header, title, three body lines, image line
	reservedHeight = 9 // Header, tabs, badge, status bar
	previewLines   = 3

	timeLayout        = "3:04 PM"
	postTimeLayout    = "Jan 2, 3:04 PM"
	selectedDayLayout = "January 2, 2006"
)

// View renders the feed as a string.
func (m Model) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.tabsView())
	b.WriteString("\n")
	if badge := m.badgeView(); badge != "" {
		b.WriteString(badge + "\n")
	}
	b.WriteString("\n")

	listWidth := max(width-sidebarWidth-4, 30)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		common.SidebarStyle.Width(sidebarWidth).Render(m.sidebarView(height-reservedHeight)),
		m.listView(listWidth, height-reservedHeight),
	)
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.statusView(width))

	return common.ClampLinesToWidth(b.String(), width)
}

func (m Model) headerView() string {
	title := common.AppTitleStyle.Render("📔 Our Journal")
	who := m.session.DisplayName
	if who == "" {
		who = domain.UnknownAuthor
	}
	user := common.TaglineStyle.Render("signed in as ") + common.Avatar(who) + " " + common.AuthorStyle(who).Render(string(who))
	return title + user
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, 3)
	for _, f := range app.AuthorFilters() {
		active := f == m.filter.Author || (m.filter.Author == "" && f == app.AllAuthors)
		if active {
			tabs = append(tabs, common.TabActiveStyle.Render(f.Label()))
			continue
		}
		tabs = append(tabs, common.TabInactiveStyle.Render(f.Label()))
	}
	return " " + strings.Join(tabs, " ")
}

func (m Model) badgeView() string {
	if m.filter.Day == "" {
		return ""
	}
	day, ok := app.ParseDayKey(m.filter.Day, m.loc)
	if !ok {
		return ""
	}
	return " " + common.BadgeStyle.Render("Showing posts from "+day.Format(selectedDayLayout)) +
		common.MetadataStyle.Render("  esc: all days")
}

func (m Model) sidebarView(maxLines int) string {
	var b strings.Builder
	b.WriteString(common.TitleStyle.Render("Timeline") + "\n")
	all := "All"
	if m.filter.Day == "" {
		all = common.DayActiveStyle.Render("● All")
	} else {
		all = "  " + all
	}
	b.WriteString(all + "\n")

	for i, g := range m.Groups() {
		label := fmt.Sprintf("%s (%d)", g.ShortLabel, g.Count())
		switch {
		case g.Key == m.filter.Day:
			label = common.DayActiveStyle.Render("● " + label)
		case i == m.dayCursor:
			label = "› " + common.DayCursorStyle.Render(label)
		default:
			label = "  " + label
		}
		b.WriteString(label + "\n")

		if i != m.dayCursor {
			continue
		}
		for _, p := range g.Posts {
			line := fmt.Sprintf("    %s %s", common.TimestampStyle.Render(p.CreatedAt.In(m.loc).Format(timeLayout)), p.Title)
			b.WriteString(common.ClampLinesToWidth(line, sidebarWidth) + "\n")
		}
	}
	if maxLines > 0 {
		return common.ClipLines(strings.TrimSuffix(b.String(), "\n"), maxLines)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) listView(width, maxLines int) string {
	switch m.state.Status() {
	case app.FeedLoading:
		return fmt.Sprintf("%s Loading posts...", m.spinner.View())
	case app.FeedError:
		return common.ErrorStyle.Render("Failed to load posts. Please try refreshing.") + "\n" +
			common.MetadataStyle.Render(m.state.Err().Error()) + "\n\n" +
			"Press r to retry."
	}

	visible := m.Visible()
	if len(visible) == 0 {
		title, hint := m.filter.EmptyMessage()
		return common.TitleStyle.Render(title) + "\n" + common.MetadataStyle.Render(common.Wrap(hint, width))
	}

	count := max(maxLines/postHeight, 1)
	start := 0
	if m.cursor >= count {
		start = m.cursor - count + 1
	}
	end := min(start+count, len(visible))

	items := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		items = append(items, m.postView(visible[i], i == m.cursor, width))
	}
	if end < len(visible) {
		items = append(items, common.MetadataStyle.Render(fmt.Sprintf("  … %d more", len(visible)-end)))
	}
	return strings.Join(items, "\n")
}

func (m Model) postView(p domain.Post, selected bool, width int) string {
	inner := max(width-4, 20)

	header := common.Avatar(p.Author) + " " + common.AuthorStyle(p.Author).Render(string(p.Author)) +
		"  " + common.TimestampStyle.Render(p.CreatedAt.In(m.loc).Format(postTimeLayout))
	if p.OwnedBy(m.session.User.ID) {
		header += common.SuccessStyle.Render(" (you)")
	}
	if p.ID == m.deletingID {
		header += common.ConfirmStyle.Render(" (deleting...)")
	}

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(common.TitleStyle.Render(common.TruncateLines(p.Title, inner, 1)) + "\n")
	b.WriteString(common.ContentStyle.Render(common.TruncateLines(p.Content, inner, previewLines)))
	if p.HasImage() {
		b.WriteString("\n" + common.MetadataStyle.Render("🖼  "+p.ImageURL+"  (o: open)"))
	}

	style := common.UnselectedStyle
	if selected {
		style = common.SelectedStyle
	}
	out := style.Width(width).Render(common.ClampLinesToWidth(b.String(), inner))
	if selected && m.confirmDelete {
		out += "\n" + common.ConfirmStyle.Render("Delete this post? (y/n)")
	}
	return out
}

func (m Model) statusView(width int) string {
	var lines []string
	if m.status != "" {
		if m.statusIsError {
			lines = append(lines, "  "+common.ErrorStyle.Render(m.status))
		} else {
			lines = append(lines, "  "+common.SuccessStyle.Render(m.status))
		}
	}
	if m.Loading() && m.state.Status() != app.FeedLoading {
		lines = append(lines, "  "+m.spinner.View()+" refreshing")
	}

	items := []string{"j/k: move", "a: author", "[/]: day", "enter: select day", "n: new", "r: refresh", "q: quit", "?: all keys"}
	if m.showHints {
		items = []string{
			"j/k: move", "a: cycle author", "[/]: timeline", "enter: select/clear day", "esc: all days",
			"n: new entry", "d: delete own post", "o: open image", "r: refresh", "L: sign out", "q: quit",
		}
	}
	hints := common.StatusBarStyle.Width(max(width-2, 16)).Render("  " + strings.Join(items, " • "))
	return strings.Join(append(lines, hints), "\n")
}
