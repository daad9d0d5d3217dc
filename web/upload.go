package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/upload"
)

// multipartOverhead allows room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

func requireSession() Handler {
	return func(rc *routeContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		sess, ok := SessionFrom(r.Context())
		if !ok {
			return &HTTPError{
				Level:  LevelRespond,
				IError: domain.ErrUnauthorized,
				Status: http.StatusUnauthorized,
				Error:  upload.MsgUnauthorized,
			}
		}
		rc.session = sess
		return nil
	}
}

// parseImage reads the "file" field and validates type, then size.
func parseImage() Handler {
	return func(rc *routeContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageBytes+multipartOverhead)
		file, hdr, err := r.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return rejected(domain.ErrImageTooLarge)
			}
			return rejected(domain.ErrNoImage)
		}
		defer file.Close()

		contentType := hdr.Header.Get("Content-Type")
		if err := domain.ValidateImage(contentType, hdr.Size); err != nil {
			return rejected(err)
		}

		data, err := io.ReadAll(file)
		if err != nil {
			return &HTTPError{
				Level:  LevelFail,
				IError: fmt.Errorf("reading upload: %w", err),
				Status: http.StatusInternalServerError,
				Error:  "Upload failed: " + err.Error(),
			}
		}
		rc.image = domain.Image{Filename: hdr.Filename, ContentType: contentType, Data: data}
		return nil
	}
}

// storeImage writes the image to storage and responds with its metadata.
func storeImage() Handler {
	return func(rc *routeContext, w http.ResponseWriter, r *http.Request) *HTTPError {
		u := rc.srv.uploader()
		if u == nil {
			return &HTTPError{
				Level:  LevelFail,
				IError: errors.New("missing OURJOURNAL_BLOB_TOKEN environment variable"),
				Status: http.StatusInternalServerError,
				Error:  upload.MsgNotConfigured,
			}
		}

		up, err := u.Upload(r.Context(), rc.session, rc.image)
		if err != nil {
			return &HTTPError{
				Level:  LevelFail,
				IError: fmt.Errorf("upload error details: %w", err),
				Status: http.StatusInternalServerError,
				Error:  "Upload failed: " + err.Error(),
			}
		}
		writeJSON(w, http.StatusOK, up)
		return nil
	}
}

func rejected(err error) *HTTPError {
	return &HTTPError{
		Level:  LevelRespond,
		IError: err,
		Status: http.StatusBadRequest,
		Error:  upload.RejectionMessage(err),
	}
}
