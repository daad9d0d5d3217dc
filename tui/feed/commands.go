package feed

import (
	"context"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) fetchPosts(seq int64) tea.Cmd {
	posts, sessions := m.posts, m.sessions
	return func() tea.Msg {
		ctx := context.Background()
		sess, err := sessions.Session(ctx)
		if err != nil {
			return PostsErrorMsg{Seq: seq, Err: err}
		}
		list, err := posts.List(ctx, sess)
		if err != nil {
			return PostsErrorMsg{Seq: seq, Err: err}
		}
		return PostsLoadedMsg{Seq: seq, Posts: list}
	}
}

// scheduleTick arms one tick of the current chain.
func (m Model) scheduleTick() tea.Cmd {
	if m.stopped || m.interval <= 0 {
		return nil
	}
	chain := m.chain
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{chain: chain}
	})
}

func (m Model) deletePost(id string) tea.Cmd {
	posts, sessions := m.posts, m.sessions
	return func() tea.Msg {
		ctx := context.Background()
		sess, err := sessions.Session(ctx)
		if err != nil {
			return deleteResultMsg{ID: id, Err: err}
		}
		return deleteResultMsg{ID: id, Err: posts.Delete(ctx, sess, id)}
	}
}

func openURL(rawURL string) tea.Cmd {
	if !isSafeExternalURL(rawURL) {
		return nil
	}
	return func() tea.Msg {
		_ = browserCommand(rawURL).Start()
		return nil
	}
}

func browserCommand(rawURL string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}

func isSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
