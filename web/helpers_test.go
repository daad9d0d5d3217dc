package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/log"
)

func init() {
	log.Discard()
}

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

var (
	maekoUser   = domain.User{ID: "user-maeko", Email: "maeko@example.com", DisplayName: domain.AuthorMaeko}
	taiRongUser = domain.User{ID: "user-tai", Email: "tai@example.com", DisplayName: domain.AuthorTaiRong}
)

type stubAuth struct {
	mu        sync.Mutex
	users     map[string]domain.User
	refreshes map[string]domain.Session
	userErr   error
	panics    bool
	signIn    func(email, password string) (domain.Session, error)
	signUps   []app.SignUpRequest
	signUpErr error
	signOuts  int
}

func (s *stubAuth) SignIn(_ context.Context, email, password string) (domain.Session, error) {
	if s.signIn == nil {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return s.signIn(email, password)
}

func (s *stubAuth) SignUp(_ context.Context, req app.SignUpRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signUps = append(s.signUps, req)
	return s.signUpErr
}

func (s *stubAuth) SignOut(context.Context, domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOuts++
	return nil
}

func (s *stubAuth) User(_ context.Context, token string) (domain.User, error) {
	if s.panics {
		panic("auth client exploded")
	}
	if s.userErr != nil {
		return domain.User{}, s.userErr
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return domain.User{}, domain.ErrUnauthorized
}

func (s *stubAuth) Refresh(_ context.Context, token string) (domain.Session, error) {
	if sess, ok := s.refreshes[token]; ok {
		return sess, nil
	}
	return domain.Session{}, domain.ErrUnauthorized
}

type stubPosts struct {
	mu      sync.Mutex
	posts   []domain.Post
	listErr error
	created []domain.NewPost
	deleted []string
	delErr  error
}

func (s *stubPosts) List(context.Context, domain.Session) ([]domain.Post, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.Post(nil), s.posts...), nil
}

func (s *stubPosts) Create(_ context.Context, _ domain.Session, p domain.NewPost) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, p)
	return domain.Post{ID: "created", Title: p.Title, Content: p.Content, ImageURL: p.ImageURL, Author: p.Author, UserID: p.UserID, CreatedAt: testNow}, nil
}

func (s *stubPosts) Delete(_ context.Context, _ domain.Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubProfiles struct {
	names map[string]domain.Author
}

func (s stubProfiles) ProfileByID(_ context.Context, _ domain.Session, id string) (domain.Profile, error) {
	if name, ok := s.names[id]; ok {
		return domain.Profile{ID: id, DisplayName: name}, nil
	}
	return domain.Profile{}, domain.ErrNotFound
}

type stubImages struct {
	configured bool
	err        error
	paths      []string
}

func (s *stubImages) Configured() bool { return s.configured }

func (s *stubImages) Put(_ context.Context, pathname, _ string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.paths = append(s.paths, pathname)
	return "https://blob.example/" + pathname, nil
}

type fixture struct {
	auth    *stubAuth
	posts   *stubPosts
	images  *stubImages
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		auth: &stubAuth{
			users: map[string]domain.User{
				"maeko-token": maekoUser,
				"tai-token":   taiRongUser,
			},
			refreshes: map[string]domain.Session{},
		},
		posts:  &stubPosts{},
		images: &stubImages{configured: true},
	}
	f.handler = NewServer(Deps{
		Auth:     f.auth,
		Posts:    f.posts,
		Profiles: stubProfiles{},
		Images:   f.images,
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	return f
}

func (f *fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func withAccess(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func cookieValue(rec *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

var errNetwork = errors.New("dial tcp: connection refused")
