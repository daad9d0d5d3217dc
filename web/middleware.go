package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/log"
)

const (
	SignInPath = "/auth/login"
	HomePath   = "/"
)

// Path prefixes reachable without a session.
const (
	authPrefix = "/auth"
	apiPrefix  = "/api"
)

// hasPathPrefix matches prefix on a path segment boundary, so "/auth" covers
// "/auth" and "/auth/login" but not "/authors".
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// SessionGate resolves the caller's session on every request and enforces
// the routing rules:
//
//   - no backend configured: pass through untouched
//   - no user outside /auth and /api: redirect to the sign-in page
//   - a user on an /auth page: redirect home
//   - anything that fails while resolving: log and pass through
//
// Refreshed tokens are written back as cookies on the response.
func SessionGate(auth app.AuthService, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				log.Warn.Printf("missing backend configuration in session gate")
				next.ServeHTTP(w, r)
				return
			}

			sess, err := resolveSession(r.Context(), auth, w, r, now)
			if err != nil {
				log.Error.Printf("session gate failed: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			path := r.URL.Path
			signedIn := sess.User.ID != ""
			switch {
			case !signedIn && !hasPathPrefix(path, authPrefix) && !hasPathPrefix(path, apiPrefix):
				redirectTo(w, r, SignInPath)
				return
			case signedIn && hasPathPrefix(path, authPrefix):
				redirectTo(w, r, HomePath)
				return
			}

			if signedIn {
				r = r.WithContext(WithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveSession returns the caller's session, or a zero session when there
// is none. A rejected access token is retried once through the refresh token.
// Errors other than rejected credentials are returned; a panic in the auth
// client is converted to an error.
func resolveSession(ctx context.Context, auth app.AuthService, w http.ResponseWriter, r *http.Request, now func() time.Time) (sess domain.Session, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			sess, err = domain.Session{}, fmt.Errorf("panic resolving session: %v", rec)
		}
	}()

	creds := readCredentials(r)
	if creds.access != "" {
		user, err := auth.User(ctx, creds.access)
		if err == nil {
			return domain.Session{User: user, AccessToken: creds.access, RefreshToken: creds.refresh, DisplayName: user.DisplayName}, nil
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			return domain.Session{}, err
		}
	}
	if creds.refresh == "" {
		return domain.Session{}, nil
	}

	next, err := auth.Refresh(ctx, creds.refresh)
	if errors.Is(err, domain.ErrUnauthorized) {
		clearSessionCookies(w, r)
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, err
	}
	setSessionCookies(w, r, next, now())
	return next, nil
}

// redirectTo keeps the query string, like cloning the request URL.
func redirectTo(w http.ResponseWriter, r *http.Request, path string) {
	u := *r.URL
	u.Path = path
	u.RawPath = ""
	http.Redirect(w, r, u.RequestURI(), http.StatusFound)
}

// RequestLogger logs method, path, status and duration of each request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info.Printf("%s %s %d %s", r.Method, r.URL.Path, status, time.Since(start).Round(time.Microsecond))
	})
}
