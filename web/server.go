// Package web is the HTTP gateway: session gate, image upload endpoint,
// auth pages and a server-rendered feed.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/blob"
	"github.com/CrestNiraj12/ourjournal/infra/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Configured() bool
	Put(ctx context.Context, pathname, contentType string, body io.Reader) (string, error)
}

// Deps are the services the gateway runs on. Auth, Posts and Profiles are
// nil when the backend is not configured; Images may be unconfigured.
type Deps struct {
	Auth        app.AuthService
	Posts       app.PostService
	Profiles    app.ProfileService
	Images      ImageStore
	RedirectURL string         // Sign-up confirmation target override
	Location    *time.Location // Calendar used for day grouping; nil means time.Local
	Now         func() time.Time
}

// Server holds the gateway's dependencies and parsed templates.
type Server struct {
	auth        app.AuthService
	posts       app.PostService
	profiles    app.ProfileService
	images      ImageStore
	redirectURL string
	loc         *time.Location
	now         func() time.Time
	tmpl        *template.Template
}

// NewServer builds the gateway router.
func NewServer(d Deps) http.Handler {
	s := &Server{
		auth:        d.Auth,
		posts:       d.Posts,
		profiles:    d.Profiles,
		images:      d.Images,
		redirectURL: d.RedirectURL,
		loc:         d.Location,
		now:         d.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.tmpl = template.Must(template.New("").Funcs(template.FuncMap{
		"initial": func(a domain.Author) string { return a.Initial() },
	}).ParseFS(templateFS, "templates/*.html"))

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Error.Printf("write error: %v", err)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(SessionGate(s.auth, s.now))

		r.Method(http.MethodPost, "/api/upload", s.handle(
			requireSession(),
			parseImage(),
			storeImage(),
		))

		r.Get("/auth/login", s.loginPage)
		r.Post("/auth/login", s.login)
		r.Get("/auth/sign-up", s.signUpPage)
		r.Post("/auth/sign-up", s.signUp)
		r.Get("/auth/sign-up-success", s.signUpSuccess)
		r.Get("/auth/error", s.authError)
		r.Post("/logout", s.logout)

		r.Get("/", s.home)
		r.Get("/posts/new", s.newPostPage)
		r.Post("/posts", s.createPost)
		r.Post("/posts/{id}/delete", s.deletePost)
	})

	return r
}

// uploader stores images through the gateway's own image store.
func (s *Server) uploader() app.Uploader {
	if s.images == nil || !s.images.Configured() {
		return nil
	}
	return blobUploader{store: s.images, now: s.now}
}

// blobUploader implements app.Uploader on top of an ImageStore.
type blobUploader struct {
	store ImageStore
	now   func() time.Time
}

func (u blobUploader) Upload(ctx context.Context, _ domain.Session, img domain.Image) (domain.Upload, error) {
	url, err := u.store.Put(ctx, blob.ObjectKey(u.now(), img.Filename), img.ContentType, bytes.NewReader(img.Data))
	if err != nil {
		return domain.Upload{}, err
	}
	return domain.Upload{URL: url, Filename: img.Filename, Size: img.Size(), ContentType: img.ContentType}, nil
}

// page is the data every template receives.
type page struct {
	Page        string
	Title       string
	DisplayName domain.Author
	Flash       string
	Error       string
	FormErrors  map[string]string
	FormValues  map[string]string
	Data        any
}

func (s *Server) render(w http.ResponseWriter, status int, p page) {
	if p.FormErrors == nil {
		p.FormErrors = map[string]string{}
	}
	if p.FormValues == nil {
		p.FormValues = map[string]string{}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "layout", p); err != nil {
		log.Error.Printf("rendering %s: %v", p.Page, err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, msg string) {
	s.render(w, status, page{Page: "error", Title: "Something went wrong", Error: msg})
}
