package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/session"
	"EUrbana.dashboard/internal/utils"
)

// TokenClaims are the custom claims the backend puts in its tokens.
type TokenClaims struct {
	Role  string `json:"rol"`
	Email string `json:"correo"`
}

// Validate does nothing more than the registered claims checks.
func (c TokenClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken checks the signature and the registered claims of the
// bearer token with the shared HS256 secret.
func EnsureValidToken(secret, issuer, audience string) (func(http.Handler) http.Handler, error) {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return []byte(secret), nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &TokenClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)
		code := models.ErrorCodeInvalidToken
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			code = models.ErrorCodeUnauthorized
		}
		utils.RespondWithError(w, models.NewAPIError(code, "Failed to validate JWT.", nil, http.StatusUnauthorized))
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(next http.Handler) http.Handler {
		return mw.CheckJWT(next)
	}, nil
}

// ClaimsFromContext returns the claims validated by EnsureValidToken.
func ClaimsFromContext(ctx context.Context) (*TokenClaims, bool) {
	validated, ok := ctx.Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		return nil, false
	}
	claims, ok := validated.CustomClaims.(*TokenClaims)
	return claims, ok
}

// SessionLookup resolves a bearer token to its session.
type SessionLookup interface {
	Lookup(ctx context.Context, token string) (session.Session, error)
}

// RequireSession rejects requests whose bearer token has no live session and
// puts the session in the request context.
func RequireSession(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := utils.BearerToken(r)
			if token == "" {
				utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUnauthorized, "Authorization header missing", nil, http.StatusUnauthorized))
				return
			}
			s, err := sessions.Lookup(r.Context(), token)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					log.Printf("Error looking up session: %v", err)
				}
				utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeTokenExpired, "Session expired or unknown, please log in again", nil, http.StatusUnauthorized))
				return
			}
			if claims, ok := ClaimsFromContext(r.Context()); ok && claims.Email != "" && claims.Email != s.Email {
				log.Printf("Token subject %s does not match session %s", claims.Email, s.Email)
				utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidToken, "Token does not belong to this session", nil, http.StatusUnauthorized))
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

// RequireRole only lets sessions with one of roles through. It must run after
// RequireSession.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUnauthorized, "No active session", nil, http.StatusUnauthorized))
				return
			}
			if !s.HasRole(roles...) {
				log.Printf("Insufficient permissions for %s (%s) on %s %s", s.Email, s.Role, r.Method, r.URL.Path)
				utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInsufficientPermissions, "Insufficient permissions", nil, http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
