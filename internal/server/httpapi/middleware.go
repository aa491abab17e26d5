package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/verkhov/picvault/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// unauthorizedMessage is the single message for every authentication
// failure: missing header, malformed header, bad signature, expiry. Callers
// must not learn which check failed.
const unauthorizedMessage = "Unauthorized access."

// NewAuthMiddleware returns the auth gate: it extracts the bearer token from
// the Authorization header, verifies it, and attaches the resolved identity
// to the request context. On any failure the downstream handler never runs.
func NewAuthMiddleware(secretKey []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorizedResponse(w, unauthorizedMessage)
				return
			}

			identity, err := auth.GetIdentityFromToken(token, secretKey)
			if err != nil {
				unauthorizedResponse(w, unauthorizedMessage)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity attached by the auth gate. Only
// valid for requests that passed the middleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, error) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	if !ok || identity.UserID == "" {
		return auth.Identity{}, errors.New("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity injects an identity into ctx. Used by tests and
// non-HTTP entry points.
func ContextWithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
