package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/upload"
)

func uploadError(t *testing.T, body string) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp.Error
}

func pngPart(size int) filePart {
	return filePart{field: "file", filename: "cat.png", contentType: "image/png", data: make([]byte, size)}
}

func TestUpload_RequiresSession(t *testing.T) {
	f := newFixture(t)

	rec := f.serve(multipartRequest(t, "/api/upload", nil, pngPart(10)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, upload.MsgUnauthorized, uploadError(t, rec.Body.String()))
	assert.Empty(t, f.images.paths)
}

func TestUpload_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		files []filePart
		want  string
	}{
		{"no file", nil, "No file provided"},
		{"wrong type", []filePart{{field: "file", filename: "doc.pdf", contentType: "application/pdf", data: []byte("%PDF")}},
			"Invalid file type. Only JPEG, PNG, GIF, and WebP are allowed."},
		{"too large", []filePart{pngPart(domain.MaxImageBytes + 1)}, "File too large. Max size is 5MB."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := multipartRequest(t, "/api/upload", nil, tc.files...)
			req.Header.Set("Authorization", "Bearer maeko-token")

			rec := f.serve(req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, uploadError(t, rec.Body.String()))
			assert.Empty(t, f.images.paths)
		})
	}
}

func TestUpload_MissingStorageToken(t *testing.T) {
	f := newFixture(t)
	f.images.configured = false
	req := multipartRequest(t, "/api/upload", nil, pngPart(10))
	req.Header.Set("Authorization", "Bearer maeko-token")

	rec := f.serve(req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, upload.MsgNotConfigured, uploadError(t, rec.Body.String()))
}

func TestUpload_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.images.err = errors.New("storage unavailable")
	req := multipartRequest(t, "/api/upload", nil, pngPart(10))
	req.Header.Set("Authorization", "Bearer maeko-token")

	rec := f.serve(req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(uploadError(t, rec.Body.String()), "Upload failed: "))
}

func TestUpload_Stores(t *testing.T) {
	f := newFixture(t)
	req := multipartRequest(t, "/api/upload", nil, pngPart(1024))
	req.Header.Set("Authorization", "Bearer maeko-token")

	rec := f.serve(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got domain.Upload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, strings.HasPrefix(got.URL, "https://blob.example/journal-images/"), got.URL)
	assert.Equal(t, "cat.png", got.Filename)
	assert.Equal(t, int64(1024), got.Size)
	assert.Equal(t, "image/png", got.ContentType)
	require.Len(t, f.images.paths, 1)
	assert.True(t, strings.HasSuffix(f.images.paths[0], "cat.png"))
}
