package common

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/ourjournal/domain"
)

var (
	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E8A87C")).
			Padding(1, 2, 0, 1)

	// TaglineStyle styles the app's tagline.
	TaglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")). // Dimmed grey
			Italic(true).
			MarginLeft(1)

	// TitleStyle styles an entry title.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F4DBD8"))

	// TimestampStyle styles timestamps.
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// ContentStyle styles entry body text.
	ContentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// MetadataStyle styles secondary details such as image links and counts.
	MetadataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8087A2")).
			Faint(true)

	// SelectedStyle highlights the currently selected entry.
	SelectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#E8A87C")).
			Padding(0, 1)

	// UnselectedStyle gives unselected entries a subtle greyed-out border.
	UnselectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	// SidebarStyle frames the timeline column.
	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("#45475A")).
			PaddingRight(1).
			MarginRight(1)

	// TabActiveStyle styles the selected author tab.
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#E8A87C")).
			Bold(true).
			Padding(0, 1)

	// TabInactiveStyle styles the other author tabs.
	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6E738D")).
				Padding(0, 1)

	// DayActiveStyle marks the selected day in the timeline.
	DayActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E8A87C")).
			Bold(true)

	// DayCursorStyle marks the highlighted, not yet selected, day.
	DayCursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5")).
			Underline(true)

	// BadgeStyle styles the "Showing posts from" date badge.
	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#8BD5CA")).
			Padding(0, 1)

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Padding(1, 0, 0, 0)

	// FocusedLabelStyle styles the label of the focused form field.
	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E8A87C")).
				Bold(true)

	// BlurredLabelStyle styles labels of the other form fields.
	BlurredLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6E738D"))

	// ConfirmStyle styles the delete confirmation prompt.
	ConfirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true).
			Padding(0, 1)

	// ErrorStyle styles error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// WarningStyle styles configuration problems.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EED49F")).
			Bold(true)

	// SuccessStyle styles success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true)
)

var authorColors = map[domain.Author]lipgloss.Color{
	domain.AuthorTaiRong: lipgloss.Color("#7DC4E4"),
	domain.AuthorMaeko:   lipgloss.Color("#F5BDE6"),
}

// AuthorStyle returns the name style for an author. Unknown authors are grey.
func AuthorStyle(a domain.Author) lipgloss.Style {
	c, ok := authorColors[a]
	if !ok {
		c = lipgloss.Color("#8E8E8E")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// Avatar renders the author's initial in their color.
func Avatar(a domain.Author) string {
	return AuthorStyle(a).Render("(" + a.Initial() + ")")
}
