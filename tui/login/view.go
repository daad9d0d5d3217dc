package login

import (
	"errors"
	"strings"

	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/tui/common"
)

// View renders the login view.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("📔 Our Journal"))
	b.WriteString(common.TaglineStyle.Render("<a shared journal for two>"))
	b.WriteString("\n\n")

	switch m.mode {
	case checkEmailMode:
		b.WriteString("  " + common.TitleStyle.Render("Check Your Email") + "\n\n")
		b.WriteString("  We've sent you a confirmation link. Please check your email to verify\n")
		b.WriteString("  your account before signing in.\n")
		b.WriteString(common.StatusBarStyle.Render("  enter/esc: back to sign in • ctrl+c: quit"))
		return b.String()

	case signUpMode:
		b.WriteString("  " + common.TitleStyle.Render("Join Your Journal") + "\n")
		b.WriteString("  " + common.MetadataStyle.Render("Create an account to start sharing") + "\n\n")
		b.WriteString(m.label(fieldAuthor, "Who are you?") + "\n  " + m.authorChoice() + "\n\n")
		b.WriteString(m.label(fieldEmail, "Email") + "\n  " + m.email.View() + "\n\n")
		b.WriteString(m.label(fieldPassword, "Password") + "\n  " + m.password.View() + "\n\n")
		b.WriteString(m.label(fieldRepeat, "Repeat Password") + "\n  " + m.repeat.View() + "\n")

	default:
		b.WriteString("  " + common.TitleStyle.Render("Welcome Back") + "\n")
		b.WriteString("  " + common.MetadataStyle.Render("Sign in to your shared journal") + "\n\n")
		b.WriteString(m.label(fieldEmail, "Email") + "\n  " + m.email.View() + "\n\n")
		b.WriteString(m.label(fieldPassword, "Password") + "\n  " + m.password.View() + "\n")
	}

	if m.notice != "" {
		b.WriteString("\n  " + common.SuccessStyle.Render(m.notice) + "\n")
	}
	if m.busy {
		b.WriteString("\n  " + m.spinner.View() + " Working...\n")
	} else if m.err != nil {
		b.WriteString("\n  " + m.errorText() + "\n")
	}

	b.WriteString(common.StatusBarStyle.Render("  " + strings.Join(m.hints(), " • ")))
	return common.ClampLinesToWidth(b.String(), m.width)
}

func (m Model) label(field int, text string) string {
	if m.focus == field {
		return "  " + common.FocusedLabelStyle.Render("› "+text)
	}
	return "  " + common.BlurredLabelStyle.Render("  "+text)
}

func (m Model) authorChoice() string {
	parts := make([]string, 0, len(domain.Authors))
	for i, a := range domain.Authors {
		if i == m.author {
			parts = append(parts, common.TabActiveStyle.Render(string(a)))
			continue
		}
		parts = append(parts, common.TabInactiveStyle.Render(string(a)))
	}
	return strings.Join(parts, " ")
}

func (m Model) errorText() string {
	if m.mode == signInMode && errors.Is(m.err, domain.ErrUnauthorized) {
		return common.ErrorStyle.Render("Invalid email or password")
	}
	if errors.Is(m.err, ErrCredentialsRequired) {
		return common.ErrorStyle.Render(common.Capitalize(m.err.Error()))
	}
	var msgErr interface{ UserMessage() string }
	if errors.As(m.err, &msgErr) && msgErr.UserMessage() != "" {
		return common.ErrorStyle.Render(msgErr.UserMessage())
	}
	return common.ErrorText(m.err)
}

func (m Model) hints() []string {
	items := []string{"↑/↓: field", "enter: next/submit", "ctrl+s: submit"}
	if m.mode == signUpMode {
		items = append(items, "←/→: who are you")
	}
	if m.accounts != nil {
		if m.mode == signInMode {
			items = append(items, "tab: sign up")
		} else {
			items = append(items, "tab: sign in")
		}
	}
	return append(items, "ctrl+c: quit")
}
