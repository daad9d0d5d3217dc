// Package blob stores uploaded images in public object storage.
package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// Prefix is the folder every journal image lives under.
const Prefix = "journal-images"

const apiVersion = "7"

// Store writes objects through the storage HTTP API.
type Store struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewStore creates a Store. An empty token leaves it unconfigured; Put then
// reports domain.ErrNotConfigured.
func NewStore(baseURL, token string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether a credential is present.
func (s *Store) Configured() bool {
	return s != nil && s.token != ""
}

type putResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

// Put stores body at pathname with public read access and returns its URL.
func (s *Store) Put(ctx context.Context, pathname, contentType string, body io.Reader) (string, error) {
	if !s.Configured() {
		return "", domain.ErrNotConfigured
	}

	target := s.baseURL + "/" + (&url.URL{Path: pathname}).EscapedPath()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("x-api-version", apiVersion)
	req.Header.Set("x-content-type", contentType)
	req.Header.Set("x-add-random-suffix", "0")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", pathname, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("storage rejected credentials (%d): %w", resp.StatusCode, domain.ErrNotConfigured)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage PUT %s returned %d: %s", pathname, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out putResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parsing storage response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("storage response missing url")
	}
	return out.URL, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey names an upload: the prefix, the millisecond timestamp, a short
// random id and the sanitized original name.
func ObjectKey(now time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		name = "image"
	}
	id := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s/%d-%s-%s", Prefix, now.UnixMilli(), id, name)
}
