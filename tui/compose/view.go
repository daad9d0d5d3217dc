package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/tui/common"
)

// View renders the compose form.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("📔 Our Journal"))
	b.WriteString(common.TaglineStyle.Render("New entry") + "\n\n")

	b.WriteString(m.label("Title", fieldTitle))
	b.WriteString(fmt.Sprintf("  %s\n", common.MetadataStyle.Render(
		fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.title.Value()), domain.MaxTitleLength))))
	b.WriteString(m.title.View() + "\n\n")

	b.WriteString(m.label("Content", fieldContent))
	b.WriteString(fmt.Sprintf("  %s\n", common.MetadataStyle.Render(
		fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.content.Value()), domain.MaxContentLength))))
	b.WriteString(m.content.View() + "\n\n")

	b.WriteString(m.label("Image", fieldImage) + "\n")
	b.WriteString(m.image.View() + "\n\n")

	if m.Busy() {
		b.WriteString(m.spinner.View() + " " + stageText(m.stage) + "\n")
	} else if m.err != nil {
		b.WriteString(failureText(m.err) + "\n")
	}

	hints := []string{"tab: next field", "ctrl+s: publish", "esc: cancel"}
	if m.editor != nil {
		hints = append(hints[:2], "ctrl+e: $EDITOR", "esc: cancel")
	}
	b.WriteString(common.StatusBarStyle.Render("  " + strings.Join(hints, " • ")))

	if m.width > 0 {
		return common.ClampLinesToWidth(b.String(), m.width)
	}
	return b.String()
}

func (m Model) label(text string, field int) string {
	if m.focus == field {
		return common.FocusedLabelStyle.Render(text)
	}
	return common.BlurredLabelStyle.Render(text)
}

func stageText(s app.Stage) string {
	switch s {
	case app.StageValidating:
		return "Checking..."
	case app.StageUploadingImage:
		return "Uploading image..."
	case app.StageInserting:
		return "Publishing..."
	}
	return ""
}
