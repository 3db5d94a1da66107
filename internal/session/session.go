// Package session holds the authenticated dashboard session: the backend
// token, the user's role and email. Sessions are created only by
// Manager.Login and removed by Manager.Logout.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"EUrbana.dashboard/internal/models"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	Token     string      `json:"token"`
	Role      models.Role `json:"rol"`
	Email     string      `json:"correo"`
	IssuedAt  time.Time   `json:"emitida"`
	ExpiresAt time.Time   `json:"expira"`
}

// HasRole reports whether the session carries one of roles.
func (s Session) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// Store persists sessions keyed by token until they expire.
type Store interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// Key is the storage key of a token. Raw tokens are never used as keys.
func Key(token string) string {
	h := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(h[:])
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
