package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jose "gopkg.in/go-jose/go-jose.v2"
	"gopkg.in/go-jose/go-jose.v2/jwt"

	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/session"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testIssuer   = "eurbana-api"
	testAudience = "eurbana-dashboard"
)

func signToken(t *testing.T, secret string, claims jwt.Claims, custom map[string]any) string {
	t.Helper()
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(secret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)
	token, err := jwt.Signed(signer).Claims(claims).Claims(custom).CompactSerialize()
	require.NoError(t, err)
	return token
}

func validClaims() jwt.Claims {
	now := time.Now()
	return jwt.Claims{
		Issuer:   testIssuer,
		Audience: jwt.Audience{testAudience},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.APIError {
	t.Helper()
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestEnsureValidToken(t *testing.T) {
	mw, err := EnsureValidToken(testSecret, testIssuer, testAudience)
	require.NoError(t, err)

	var got *TokenClaims
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	token := signToken(t, testSecret, validClaims(), map[string]any{"rol": "admin", "correo": "ana@eurbana.mx"})
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "ana@eurbana.mx", got.Email)

	bad := signToken(t, "ffffffffffffffffffffffffffffffff", validClaims(), map[string]any{})
	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, models.ErrorCodeInvalidToken, decodeError(t, rec).Code)

	expired := validClaims()
	expired.Expiry = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, expired, map[string]any{}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, models.ErrorCodeUnauthorized, decodeError(t, rec).Code)
}

type lookupFunc func(ctx context.Context, token string) (session.Session, error)

func (f lookupFunc) Lookup(ctx context.Context, token string) (session.Session, error) {
	return f(ctx, token)
}

func sessions(known map[string]session.Session) SessionLookup {
	return lookupFunc(func(_ context.Context, token string) (session.Session, error) {
		s, ok := known[token]
		if !ok {
			return session.Session{}, session.ErrNotFound
		}
		return s, nil
	})
}

func TestRequireSessionAndRole(t *testing.T) {
	lookup := sessions(map[string]session.Session{
		"admin-tok": {Token: "admin-tok", Role: models.RoleAdmin, Email: "ana@eurbana.mx"},
		"user-tok":  {Token: "user-tok", Role: models.RoleUser, Email: "luis@eurbana.mx"},
	})

	r := mux.NewRouter()
	r.Use(RequireSession(lookup))
	r.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())
		w.Write([]byte(s.Email))
	})
	r.Handle("/admin", RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	do := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := do("/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do("/me", "unknown")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, models.ErrorCodeTokenExpired, decodeError(t, rec).Code)

	rec = do("/me", "user-tok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "luis@eurbana.mx", rec.Body.String())

	rec = do("/admin", "user-tok")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, models.ErrorCodeInsufficientPermissions, decodeError(t, rec).Code)

	rec = do("/admin", "admin-tok")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireRoleWithoutSession(t *testing.T) {
	h := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	const incoming = "5f0c9e0e-8f43-4a5c-9a55-3c1c2f9f1b7e"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, incoming, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid<script>")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid<script>", seen)
}
