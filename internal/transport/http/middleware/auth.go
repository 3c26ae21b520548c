package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-auth-api/internal/domain"
	jwtinfra "github.com/go-auth-api/internal/infrastructure/jwt"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the verified caller attached to the request context by Auth.
type Identity struct {
	UserID string
	Email  string
}

// Auth returns the access guard middleware. It extracts the Bearer token,
// verifies it, and injects the caller identity into the context. Missing,
// malformed and invalid credentials each fail with their own message so
// clients can tell a bad request from an expired session. Reset-scoped
// tokens are rejected outright; they are only redeemable by the
// reset-password step, which verifies them itself.
func Auth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, domain.ErrMissingToken.Error())
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeUnauthorized(w, domain.ErrMalformedToken.Error())
				return
			}
			claims, err := provider.Verify(parts[1])
			if err != nil {
				writeUnauthorized(w, domain.ErrInvalidToken.Error())
				return
			}
			switch claims.Purpose {
			case jwtinfra.PurposeSession:
			default:
				writeUnauthorized(w, domain.ErrInvalidToken.Error())
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, &Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the verified caller from the request context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}
