package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/ourjournal/domain"
)

func TestClampLinesToWidth(t *testing.T) {
	styled := ErrorStyle.Render(strings.Repeat("x", 40))
	got := ClampLinesToWidth("short\n"+styled, 10)
	for _, ln := range strings.Split(got, "\n") {
		if w := ansi.StringWidth(ln); w > 10 {
			t.Fatalf("line wider than 10 cells (%d): %q", w, ln)
		}
	}
	if !strings.HasPrefix(got, "short\n") {
		t.Fatalf("short lines must be untouched: %q", got)
	}
}

func TestTruncateLines(t *testing.T) {
	text := strings.Repeat("word ", 60)
	got := TruncateLines(text, 20, 2)
	if n := len(strings.Split(got, "\n")); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated text must end with an ellipsis: %q", got)
	}
	if got := TruncateLines("hi", 20, 2); strings.Contains(got, "...") {
		t.Fatalf("short text must not be marked: %q", got)
	}
}

func TestClipLines(t *testing.T) {
	if got := ClipLines("a\nb\nc", 2); got != "a\nb" {
		t.Fatalf("unexpected clip: %q", got)
	}
	if got := ClipLines("a", 0); got != "" {
		t.Fatalf("zero lines must be empty, got %q", got)
	}
}

func TestHumanSize(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		1536:            "1.5 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for in, want := range tests {
		if got := HumanSize(in); got != want {
			t.Fatalf("HumanSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorText_ByKind(t *testing.T) {
	if got := ErrorText(domain.ErrEmptyPost); !strings.Contains(got, "Please fill in both title and content") {
		t.Fatalf("validation errors are shown as sentences: %q", got)
	}
	if got := ErrorText(fmt.Errorf("listing: %w", domain.ErrUnauthorized)); !strings.Contains(got, "sign in again") {
		t.Fatalf("unauthorized must prompt sign in: %q", got)
	}
	if got := ErrorText(fmt.Errorf("blob: %w", domain.ErrNotConfigured)); !strings.Contains(got, "Configuration error") {
		t.Fatalf("config errors must be labelled: %q", got)
	}
	if got := ErrorText(errors.New("timeout")); !strings.Contains(got, "Error: timeout") {
		t.Fatalf("upstream errors are prefixed: %q", got)
	}
}

func TestAuthorStyle_KnownAndUnknown(t *testing.T) {
	if AuthorStyle(domain.AuthorMaeko).GetForeground() == AuthorStyle(domain.AuthorTaiRong).GetForeground() {
		t.Fatalf("each author must have a distinct color")
	}
	if got := Avatar(domain.AuthorMaeko); !strings.Contains(got, "M") {
		t.Fatalf("avatar must carry the initial: %q", got)
	}
}
