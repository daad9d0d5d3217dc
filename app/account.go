package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/CrestNiraj12/ourjournal/domain"
)

// SignUpRequest carries everything the auth service needs to create an account.
type SignUpRequest struct {
	Email       string
	Password    string
	DisplayName domain.Author
	RedirectTo  string // Where the confirmation email sends the user
}

// AuthService issues and revokes sessions. Implemented by the hosted auth provider.
type AuthService interface {
	// SignIn exchanges credentials for a session.
	SignIn(ctx context.Context, email, password string) (domain.Session, error)

	// SignUp registers an account; the user confirms by email before signing in.
	SignUp(ctx context.Context, req SignUpRequest) error

	// SignOut revokes the session's refresh token.
	SignOut(ctx context.Context, s domain.Session) error

	// User resolves an access token to its account.
	User(ctx context.Context, accessToken string) (domain.User, error)

	// Refresh exchanges a refresh token for a new session.
	Refresh(ctx context.Context, refreshToken string) (domain.Session, error)
}

// ProfileService reads per-user profile rows.
type ProfileService interface {
	// ProfileByID returns the profile for a user id.
	ProfileByID(ctx context.Context, s domain.Session, id string) (domain.Profile, error)
}

// ProfileWriter is implemented by profile stores that the app fills in
// itself. The hosted backend creates profile rows on sign-up.
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, p domain.Profile) error
}

// RecordProfile creates the signed-in user's profile row from sign-up
// metadata when profiles is writable and has no row yet.
func RecordProfile(ctx context.Context, profiles ProfileService, s domain.Session) error {
	w, ok := profiles.(ProfileWriter)
	if !ok {
		return nil
	}
	author, ok := domain.ParseAuthor(string(s.User.DisplayName))
	if !ok {
		return nil
	}
	_, err := profiles.ProfileByID(ctx, s, s.User.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err := w.UpsertProfile(ctx, domain.Profile{ID: s.User.ID, DisplayName: author}); err != nil {
		return fmt.Errorf("recording profile: %w", err)
	}
	return nil
}

// SessionSource hands out the current session, refreshing it when needed.
type SessionSource interface {
	Session(ctx context.Context) (domain.Session, error)
}

// ResolveDisplayName looks up the user's profile and falls back to sign-up
// metadata. A failed lookup is not an error for the caller.
func ResolveDisplayName(ctx context.Context, profiles ProfileService, s domain.Session) domain.Author {
	var profile domain.Profile
	if profiles != nil {
		profile, _ = profiles.ProfileByID(ctx, s, s.User.ID)
	}
	return domain.ResolveDisplayName(profile, s.User)
}
