package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Alexandrudiun/spaces/pkg/httputil"
	"github.com/Alexandrudiun/spaces/pkg/logger"
	"github.com/Alexandrudiun/spaces/pkg/model"
	"github.com/Alexandrudiun/spaces/pkg/token"

	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
)

const ClaimsKey contextKey = "claims"

// openPaths skip authentication entirely.
var openPaths = map[string]bool{
	"/api/auth/register": true,
	"/api/auth/login":    true,
	"/health":            true,
}

// Authenticate verifies the Bearer token and stores its claims in the
// request context. The core booking logic never sees roles; gating happens
// here, before a request reaches a handler.
func Authenticate(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				httputil.WriteError(w, apperrors.Unauthorized("missing bearer token"))
				return
			}

			claims, err := token.Parse(raw, secret)
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				httputil.WriteError(w, apperrors.Unauthorized("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the verified claims stored by Authenticate, or nil.
func ClaimsFrom(ctx context.Context) *token.Claims {
	if c, ok := ctx.Value(ClaimsKey).(*token.Claims); ok {
		return c
	}
	return nil
}

// RequireRole wraps a handler-level check: the caller's role must be one of
// the allowed roles.
func RequireRole(ctx context.Context, roles ...model.Role) error {
	claims := ClaimsFrom(ctx)
	if claims == nil {
		return apperrors.Unauthorized("authentication required")
	}
	for _, role := range roles {
		if claims.Role == role {
			return nil
		}
	}
	return apperrors.Forbidden("insufficient role: " + string(claims.Role))
}
