// Package session holds the current authentication state and persists the
// bearer token between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/comandaapp/comanda/internal/comanda/ports"
)

// Store owns the session for one client process. Sign-in and sign-out go
// through it; the gateway reads the token back through the TokenStore.
type Store struct {
	gw     ports.SessionGateway
	tokens ports.TokenStore

	mu      sync.Mutex
	current domain.Session
}

// NewStore returns a signed-out Store.
func NewStore(gw ports.SessionGateway, tokens ports.TokenStore) *Store {
	return &Store{gw: gw, tokens: tokens}
}

// SignIn exchanges credentials for a session. On success the token and user
// are stored and the token is persisted. A server rejection comes back as
// *domain.AuthError carrying the server's message, with no state mutated.
func (s *Store) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	if email == "" {
		return domain.User{}, &domain.ValidationError{Field: "email", Message: "is required"}
	}
	if password == "" {
		return domain.User{}, &domain.ValidationError{Field: "password", Message: "is required"}
	}

	sess, err := s.gw.SignIn(ctx, email, password)
	if err != nil {
		var reqErr *domain.RequestError
		if errors.As(err, &reqErr) {
			return domain.User{}, &domain.AuthError{Message: reqErr.Message}
		}
		return domain.User{}, err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if err := s.tokens.Save(sess.Token); err != nil {
		// The session is usable in-process even when persistence fails.
		slog.WarnContext(ctx, "failed to persist session token", "error", err)
	}
	return sess.User, nil
}

// SignOut clears the session and the persisted token. Safe to call when
// already signed out.
func (s *Store) SignOut() error {
	s.mu.Lock()
	s.current = domain.Session{}
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}

// Restore rebuilds the session from a previously persisted token by asking
// the backend who the token belongs to. Returns false when no token is
// persisted.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	token, err := s.tokens.Load()
	if err != nil {
		return false, fmt.Errorf("session: load token: %w", err)
	}
	if token == "" {
		return false, nil
	}

	user, err := s.gw.DetailUser(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.current = domain.Session{Token: token, User: user}
	s.mu.Unlock()
	return true, nil
}

// Current returns the session and whether it is authenticated.
func (s *Store) Current() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current.Authenticated()
}
