package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command using $EDITOR (fallback: "vi").
// It does NOT run the editor itself; callers use tea.ExecProcess with the
// returned *exec.Cmd so Bubble Tea suspends raw terminal mode.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const (
	commentOpen  = "<!-- ourjournal"
	commentClose = "-->"
)

func instructionComment(title string) string {
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	return commentOpen + `
Writing the body of: ` + title + `

- SAVE and EXIT to keep your changes (e.g., :wq in vi).
- Up to 5000 characters. Leading and trailing blank lines are trimmed.
- This comment is removed automatically.
` + commentClose + `

`
}

// Cmd prepares an *exec.Cmd for the editor and a temp file path.
// It writes an instruction comment naming the entry, then content.
func (e *EnvEditor) Cmd(title, content string) (*exec.Cmd, string, error) {
	fields := strings.Fields(os.Getenv("EDITOR"))
	if len(fields) == 0 {
		fields = []string{"vi"}
	}

	tmpFile, err := os.CreateTemp("", "ourjournal-*.md")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(instructionComment(title) + content); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	args := append(fields[1:], tmpPath)
	cmd := exec.Command(fields[0], args...)
	return cmd, tmpPath, nil
}

// ReadContent reads the temp file, strips the leading instruction comment,
// trims whitespace and removes the file.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := strings.TrimLeft(string(data), " \t\r\n")
	if strings.HasPrefix(content, commentOpen) {
		if idx := strings.Index(content, commentClose); idx != -1 {
			content = content[idx+len(commentClose):]
		}
	}
	return strings.TrimSpace(content), nil
}
