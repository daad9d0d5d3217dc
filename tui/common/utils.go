package common

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// Wrap renders text at width, keeping explicit newlines.
func Wrap(text string, width int) string {
	if width < 12 {
		width = 12
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// TruncateLines wraps text at width and keeps at most n lines, marking a cut
// with an ellipsis.
func TruncateLines(text string, width, n int) string {
	wrapped := Wrap(text, width)
	lines := strings.Split(wrapped, "\n")
	if len(lines) <= n {
		return wrapped
	}
	return strings.Join(lines[:n], "\n") + "..."
}

// ClampLinesToWidth cuts every line to width display cells. Styled lines keep
// their escape sequences.
func ClampLinesToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		if ansi.StringWidth(ln) <= width {
			continue
		}
		lines[i] = ansi.Cut(ln, 0, width)
	}
	return strings.Join(lines, "\n")
}

// ClipLines keeps the first maxLines lines of text.
func ClipLines(text string, maxLines int) string {
	if maxLines < 1 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= maxLines {
		return text
	}
	return strings.Join(lines[:maxLines], "\n")
}

// HumanSize formats a byte count, e.g. "1.5 MB".
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// ErrorText renders err by kind: configuration problems as warnings,
// everything else as errors.
func ErrorText(err error) string {
	switch domain.KindOf(err) {
	case domain.KindConfig:
		return WarningStyle.Render("Configuration error: " + err.Error())
	case domain.KindUnauthorized:
		return ErrorStyle.Render("Session expired. Please sign in again.")
	case domain.KindValidation:
		return ErrorStyle.Render(Capitalize(err.Error()))
	default:
		return ErrorStyle.Render("Error: " + err.Error())
	}
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
