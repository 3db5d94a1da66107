package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EUrbana.dashboard/internal/models"
)

type stubAuth struct {
	resp models.LoginResponse
	err  error
	got  models.LoginRequest
}

func (a *stubAuth) Login(_ context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	a.got = req
	return a.resp, a.err
}

type countingObserver struct{ opened, closed int }

func (o *countingObserver) SessionOpened() { o.opened++ }
func (o *countingObserver) SessionClosed() { o.closed++ }

func TestLoginStoresSessionAndLogoutRemovesIt(t *testing.T) {
	ctx := context.Background()
	auth := &stubAuth{resp: models.LoginResponse{Token: "tok-1", Role: "supervisor"}}
	obs := &countingObserver{}
	m := NewManager(NewMemoryStore(), auth, time.Hour, obs)

	s, err := m.Login(ctx, " ana@eurbana.mx ", "secreto")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.Token)
	assert.Equal(t, models.RoleSupervisor, s.Role)
	assert.Equal(t, "ana@eurbana.mx", s.Email)
	assert.Equal(t, "ana@eurbana.mx", auth.got.Email)
	assert.Equal(t, time.Hour, s.ExpiresAt.Sub(s.IssuedAt))

	got, err := m.Lookup(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, s.Email, got.Email)

	require.NoError(t, m.Logout(ctx, "tok-1"))
	_, err = m.Lookup(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Logout(ctx, "tok-1"))
	assert.Equal(t, 1, obs.opened)
	assert.Equal(t, 1, obs.closed)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), &stubAuth{err: errors.New("401")}, time.Hour, nil)

	_, err := m.Login(ctx, "", "x")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = m.Login(ctx, "ana@eurbana.mx", "bad")
	assert.EqualError(t, err, "401")

	_, err = m.Lookup(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	require.NoError(t, st.Save(ctx, Session{Token: "a"}, time.Minute))
	_, err := st.Get(ctx, "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Save(ctx, Session{Token: "b"}, time.Minute))
	assert.Len(t, st.m, 1)
}

func TestKeyHidesToken(t *testing.T) {
	k := Key("secret-token")
	assert.NotContains(t, k, "secret-token")
	assert.Equal(t, k, Key("secret-token"))
	assert.NotEqual(t, k, Key("other"))
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background(), Session{Token: "t", Role: models.RoleAdmin})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.True(t, s.HasRole(models.RoleAdmin, models.RoleSupervisor))
	assert.False(t, s.HasRole(models.RoleUser))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	st, err := NewRedisStore(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer st.Close()

	s := Session{Token: "redis-test-token", Role: models.RoleUser, Email: "x@eurbana.mx"}
	require.NoError(t, st.Save(ctx, s, time.Minute))
	got, err := st.Get(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Email, got.Email)

	require.NoError(t, st.Delete(ctx, s.Token))
	_, err = st.Get(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}
