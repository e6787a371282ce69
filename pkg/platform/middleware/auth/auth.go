// Package auth authenticates callers from bearer tokens and places the caller
// address in the request context.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"landledger/pkg/domain"
	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/platform/httputil"
	"landledger/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the caller it names.
type TokenValidator interface {
	ValidateCaller(tokenString string) (domain.Address, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			caller, err := validator.ValidateCaller(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, caller)))
		})
	}
}
