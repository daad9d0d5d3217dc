package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/domain"
)

// RefreshSkew is how long before expiry the access token is renewed.
const RefreshSkew = 60 * time.Second

// Keeper hands out the current session, refreshing and persisting it as
// needed. It implements app.SessionSource.
type Keeper struct {
	mu       sync.Mutex
	store    *SessionStore
	auth     app.AuthService
	profiles app.ProfileService
	current  domain.Session
	loaded   bool
	now      func() time.Time
}

// NewKeeper creates a keeper over store. profiles may be nil.
func NewKeeper(store *SessionStore, auth app.AuthService, profiles app.ProfileService) *Keeper {
	return &Keeper{store: store, auth: auth, profiles: profiles, now: time.Now}
}

// Session returns a usable session or domain.ErrUnauthorized.
func (k *Keeper) Session(ctx context.Context) (domain.Session, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.loaded {
		sess, err := k.store.Load()
		if err != nil {
			return domain.Session{}, err
		}
		k.current, k.loaded = sess, true
	}

	now := k.now()
	if k.current.AccessToken == "" {
		return domain.Session{}, domain.ErrUnauthorized
	}
	if k.current.Valid(now) && !k.current.NeedsRefresh(now, RefreshSkew) {
		return k.current, nil
	}
	if k.current.RefreshToken == "" {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return k.refreshLocked(ctx)
}

// Restore validates the stored session against the auth service, refreshing
// it when the access token is rejected. Used once at startup.
func (k *Keeper) Restore(ctx context.Context) (domain.Session, error) {
	sess, err := k.Session(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if _, err := k.auth.User(ctx, sess.AccessToken); err == nil {
		return sess, nil
	} else if !errors.Is(err, domain.ErrUnauthorized) {
		return domain.Session{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.current.RefreshToken == "" {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return k.refreshLocked(ctx)
}

// SignIn authenticates, resolves the display name and persists the session.
func (k *Keeper) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	sess, err := k.auth.SignIn(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	if err := app.RecordProfile(ctx, k.profiles, sess); err != nil {
		return domain.Session{}, err
	}
	sess.DisplayName = app.ResolveDisplayName(ctx, k.profiles, sess)

	k.mu.Lock()
	defer k.mu.Unlock()
	k.current, k.loaded = sess, true
	if err := k.store.Save(sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// SignOut revokes the session remotely and forgets it locally. The local
// copy is removed even when the remote call fails.
func (k *Keeper) SignOut(ctx context.Context) error {
	k.mu.Lock()
	sess := k.current
	k.current, k.loaded = domain.Session{}, true
	k.mu.Unlock()

	var remoteErr error
	if sess.AccessToken != "" {
		remoteErr = k.auth.SignOut(ctx, sess)
	}
	if err := k.store.Clear(); err != nil {
		return err
	}
	if remoteErr != nil && !errors.Is(remoteErr, domain.ErrUnauthorized) {
		return fmt.Errorf("signing out: %w", remoteErr)
	}
	return nil
}

func (k *Keeper) refreshLocked(ctx context.Context) (domain.Session, error) {
	next, err := k.auth.Refresh(ctx, k.current.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			k.current = domain.Session{}
			if clearErr := k.store.Clear(); clearErr != nil {
				return domain.Session{}, errors.Join(err, clearErr)
			}
		}
		return domain.Session{}, err
	}
	if next.DisplayName == "" {
		next.DisplayName = k.current.DisplayName
	}
	if next.DisplayName == "" {
		next.DisplayName = app.ResolveDisplayName(ctx, k.profiles, next)
	}
	k.current = next
	if err := k.store.Save(next); err != nil {
		return domain.Session{}, err
	}
	return next, nil
}
