package editor

import (
	"os"
	"strings"
	"testing"
)

func TestCmd_UsesEditorAndWritesTemplate(t *testing.T) {
	t.Setenv("EDITOR", "cat -n")
	e := NewEnvEditor()

	cmd, path, err := e.Cmd("Sunday walk", "hello")
	if err != nil {
		t.Fatalf("cmd failed: %v", err)
	}
	defer os.Remove(path)
	if len(cmd.Args) != 3 || cmd.Args[0] != "cat" || cmd.Args[1] != "-n" || cmd.Args[2] != path {
		t.Fatalf("unexpected args: %v", cmd.Args)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp file failed: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Writing the body of: Sunday walk") || !strings.HasSuffix(text, "hello") {
		t.Fatalf("unexpected template content: %q", text)
	}
}

func TestCmd_FallsBackToVi(t *testing.T) {
	t.Setenv("EDITOR", "")
	cmd, path, err := NewEnvEditor().Cmd("", "")
	if err != nil {
		t.Fatalf("cmd failed: %v", err)
	}
	defer os.Remove(path)
	if cmd.Args[0] != "vi" {
		t.Fatalf("expected vi fallback, got %v", cmd.Args)
	}
}

func TestReadContent_StripsInstructionAndDeletesFile(t *testing.T) {
	e := NewEnvEditor()
	f, err := os.CreateTemp("", "ourjournal-test-*.md")
	if err != nil {
		t.Fatalf("create temp failed: %v", err)
	}
	path := f.Name()
	_, _ = f.WriteString(instructionComment("t") + "\nline1\nline2 --> arrow\n")
	_ = f.Close()

	content, err := e.ReadContent(path)
	if err != nil {
		t.Fatalf("read content failed: %v", err)
	}
	if content != "line1\nline2 --> arrow" {
		t.Fatalf("unexpected content: %q", content)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be deleted")
	}
}

func TestReadContent_KeepsTextWhenCommentRemoved(t *testing.T) {
	f, err := os.CreateTemp("", "ourjournal-test-*.md")
	if err != nil {
		t.Fatalf("create temp failed: %v", err)
	}
	_, _ = f.WriteString("a --> b\n")
	_ = f.Close()

	content, err := NewEnvEditor().ReadContent(f.Name())
	if err != nil {
		t.Fatalf("read content failed: %v", err)
	}
	if content != "a --> b" {
		t.Fatalf("text must be kept verbatim, got %q", content)
	}
}
