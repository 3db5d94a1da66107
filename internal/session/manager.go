package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"EUrbana.dashboard/internal/models"
)

var ErrMissingCredentials = errors.New("correo and password are required")

// Authenticator exchanges credentials for a backend token.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
}

// Observer is told about session transitions.
type Observer interface {
	SessionOpened()
	SessionClosed()
}

// Manager owns the login and logout transitions.
type Manager struct {
	store Store
	auth  Authenticator
	ttl   time.Duration
	obs   Observer
	now   func() time.Time
}

func NewManager(store Store, auth Authenticator, ttl time.Duration, obs Observer) *Manager {
	return &Manager{store: store, auth: auth, ttl: ttl, obs: obs, now: time.Now}
}

// Login authenticates against the backend and stores the resulting session.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}
	resp, err := m.auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}

	now := m.now()
	s := Session{
		Token:     resp.Token,
		Role:      models.ParseRole(resp.Role),
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return Session{}, fmt.Errorf("error storing session: %w", err)
	}
	if m.obs != nil {
		m.obs.SessionOpened()
	}
	log.Printf("Session opened for %s (%s)", s.Email, s.Role)
	return s, nil
}

// Logout forgets the session of token. Unknown tokens are not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if _, err := m.store.Get(ctx, token); errors.Is(err, ErrNotFound) {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("error removing session: %w", err)
	}
	if m.obs != nil {
		m.obs.SessionClosed()
	}
	return nil
}

// Lookup returns the live session of token.
func (m *Manager) Lookup(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNotFound
	}
	return m.store.Get(ctx, token)
}
