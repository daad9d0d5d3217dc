package compose

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// LoadImage reads an attachment from disk. The content type comes from the
// extension, or from the first bytes when the extension is unknown. Files
// over the size limit are rejected before they are read.
func LoadImage(path string) (*domain.Image, error) {
	path = expandHome(strings.TrimSpace(path))
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading image: %s is a directory", path)
	}
	if info.Size() > domain.MaxImageBytes {
		return nil, domain.ErrImageTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &domain.Image{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
