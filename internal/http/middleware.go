package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/auction-scheduler/internal/application"
)

// Identity headers set by the API gateway in front of the scheduler.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-Role"
)

// RequirePrincipal extracts the caller identity from the gateway headers and
// rejects requests without a complete, known identity.
func RequirePrincipal(logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			role := application.Role(strings.TrimSpace(r.Header.Get(HeaderRole)))

			if userID == "" || role == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingIdentity)
				return
			}
			switch role {
			case application.RoleExecutive, application.RoleOwner, application.RoleSystem:
			default:
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
					Message: "unknown role in X-Role header",
				})
				return
			}

			ctx := ContextWithPrincipal(r.Context(), application.Principal{UserID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request scoped logger to the context and records
// request start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
