// Package upload sends images to the gateway's upload endpoint.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// Path is the upload endpoint on the gateway.
const Path = "/api/upload"

// Client implements app.Uploader against the gateway.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an upload client for the gateway at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// Upload posts img as the multipart field "file".
func (c *Client) Upload(ctx context.Context, s domain.Session, img domain.Image) (domain.Upload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, img.Filename))
	h.Set("Content-Type", img.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("creating multipart part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return domain.Upload{}, fmt.Errorf("writing multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.Upload{}, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+Path, &buf)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if s.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("uploading image: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		if eb.Error == "" {
			eb.Error = strings.TrimSpace(string(data))
		}
		return domain.Upload{}, statusError(resp.StatusCode, eb.Error)
	}

	var up domain.Upload
	if err := json.Unmarshal(data, &up); err != nil {
		return domain.Upload{}, fmt.Errorf("parsing upload response: %w", err)
	}
	if up.URL == "" {
		return domain.Upload{}, fmt.Errorf("upload response missing url")
	}
	return up, nil
}

// Wire messages shared by the gateway handler and this client.
const (
	MsgUnauthorized  = "Unauthorized"
	MsgNotConfigured = "Configuration error: OURJOURNAL_BLOB_TOKEN is missing."
	configPrefix     = "Configuration error"
)

var rejections = []struct {
	err error
	msg string
}{
	{domain.ErrNoImage, "No file provided"},
	{domain.ErrImageType, "Invalid file type. Only JPEG, PNG, GIF, and WebP are allowed."},
	{domain.ErrImageTooLarge, "File too large. Max size is 5MB."},
}

// RejectionMessage returns the wire message for a validation failure.
func RejectionMessage(err error) string {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.msg
		}
	}
	return err.Error()
}

func statusError(status int, msg string) error {
	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("upload: %w", domain.ErrUnauthorized)
	case status == http.StatusBadRequest:
		for _, r := range rejections {
			if msg == r.msg {
				return r.err
			}
		}
		return fmt.Errorf("upload rejected: %s", msg)
	case strings.HasPrefix(msg, configPrefix):
		return fmt.Errorf("%s: %w", msg, domain.ErrNotConfigured)
	default:
		return fmt.Errorf("upload failed (%d): %s", status, msg)
	}
}
