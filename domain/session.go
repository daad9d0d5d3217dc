package domain

import "time"

// User is the authenticated account as reported by the auth service.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName Author `json:"display_name,omitempty"` // From sign-up metadata
}

// Profile is the per-user row holding the chosen display name.
type Profile struct {
	ID          string
	DisplayName Author
}

// Session is the caller's authenticated context. It is passed explicitly to
// every service call instead of being looked up from ambient state.
type Session struct {
	User         User      `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	DisplayName  Author    `json:"display_name,omitempty"` // Resolved once after sign-in
}

// Valid reports whether the session has a token that has not yet expired.
// A zero ExpiresAt means the expiry is unknown and the token is trusted.
func (s Session) Valid(now time.Time) bool {
	if s.AccessToken == "" || s.User.ID == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// NeedsRefresh reports whether the access token expires within skew.
func (s Session) NeedsRefresh(now time.Time, skew time.Duration) bool {
	if s.RefreshToken == "" || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(s.ExpiresAt)
}

// UnknownAuthor is shown when no display name can be resolved.
const UnknownAuthor Author = "Unknown"

// ResolveDisplayName prefers the profile row, then sign-up metadata.
func ResolveDisplayName(profile Profile, user User) Author {
	if profile.DisplayName != "" {
		return profile.DisplayName
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return UnknownAuthor
}
