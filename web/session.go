package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CrestNiraj12/ourjournal/domain"
)

const (
	AccessCookie  = "ourjournal-access-token"
	RefreshCookie = "ourjournal-refresh-token"
	flashCookie   = "ourjournal-flash"

	refreshCookieAge = 30 * 24 * time.Hour
)

type sessionKey struct{}

// WithSession attaches the resolved session to ctx.
func WithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session the gate resolved for this request.
func SessionFrom(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(domain.Session)
	return s, ok && s.User.ID != ""
}

// credentials are the raw tokens a request carries.
type credentials struct {
	access  string
	refresh string
}

// readCredentials prefers an Authorization bearer header (terminal client)
// over cookies (browser).
func readCredentials(r *http.Request) credentials {
	var c credentials
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		c.access = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		return c
	}
	if ck, err := r.Cookie(AccessCookie); err == nil {
		c.access = ck.Value
	}
	if ck, err := r.Cookie(RefreshCookie); err == nil {
		c.refresh = ck.Value
	}
	return c
}

func secureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setSessionCookies writes the session tokens onto the response.
func setSessionCookies(w http.ResponseWriter, r *http.Request, s domain.Session, now time.Time) {
	accessAge := int(time.Hour / time.Second)
	if !s.ExpiresAt.IsZero() {
		accessAge = max(int(s.ExpiresAt.Sub(now)/time.Second), 1)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookie,
		Value:    s.AccessToken,
		Path:     "/",
		MaxAge:   accessAge,
		HttpOnly: true,
		Secure:   secureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
	if s.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     RefreshCookie,
			Value:    s.RefreshToken,
			Path:     "/",
			MaxAge:   int(refreshCookieAge / time.Second),
			HttpOnly: true,
			Secure:   secureRequest(r),
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func clearSessionCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureRequest(r),
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// setFlash stores a one-shot notice shown on the next page.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns and clears the pending notice.
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	ck, err := r.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return ""
	}
	return msg
}
