package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
)

// authService implements app.AuthService using the hosted auth API.
type authService struct {
	client *Client
	now    func() time.Time
}

// NewAuthService creates an AuthService backed by the hosted auth API.
func NewAuthService(client *Client) *authService {
	return &authService{client: client, now: time.Now}
}

type authUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		DisplayName string `json:"display_name"`
	} `json:"user_metadata"`
}

type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	User         authUser `json:"user"`
}

func (u authUser) toDomain() domain.User {
	author, _ := domain.ParseAuthor(u.UserMetadata.DisplayName)
	return domain.User{ID: u.ID, Email: u.Email, DisplayName: author}
}

func (s *authService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	data, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token?grant_type=password",
		body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("signing in: %w", err)
	}
	return s.parseSession(data)
}

func (s *authService) SignUp(ctx context.Context, req app.SignUpRequest) error {
	if req.DisplayName == "" {
		return domain.ErrAuthorRequired
	}
	path := "/auth/v1/signup"
	if req.RedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(req.RedirectTo)
	}
	body := map[string]any{
		"email":    req.Email,
		"password": req.Password,
		"data":     map[string]string{"display_name": string(req.DisplayName)},
	}
	if _, err := s.client.do(ctx, request{method: http.MethodPost, path: path, body: body}); err != nil {
		return fmt.Errorf("signing up: %w", err)
	}
	return nil
}

func (s *authService) SignOut(ctx context.Context, sess domain.Session) error {
	_, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  sess.AccessToken,
	})
	if err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

func (s *authService) User(ctx context.Context, accessToken string) (domain.User, error) {
	if accessToken == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	data, err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		token:  accessToken,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("fetching user: %w", err)
	}
	var u authUser
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.User{}, fmt.Errorf("parsing user: %w", err)
	}
	return u.toDomain(), nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (domain.Session, error) {
	if refreshToken == "" {
		return domain.Session{}, domain.ErrUnauthorized
	}
	data, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token?grant_type=refresh_token",
		body:   map[string]string{"refresh_token": refreshToken},
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("refreshing session: %w", err)
	}
	return s.parseSession(data)
}

func (s *authService) parseSession(data []byte) (domain.Session, error) {
	var tr tokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return domain.Session{}, fmt.Errorf("parsing token response: %w", err)
	}
	if tr.AccessToken == "" {
		return domain.Session{}, fmt.Errorf("token response missing access token")
	}

	var expires time.Time
	switch {
	case tr.ExpiresAt > 0:
		expires = time.Unix(tr.ExpiresAt, 0)
	case tr.ExpiresIn > 0:
		expires = s.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	user := tr.User.toDomain()
	return domain.Session{
		User:         user,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    expires,
		DisplayName:  user.DisplayName,
	}, nil
}
