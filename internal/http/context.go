package http

import (
	"context"
	"log/slog"

	"github.com/example/auction-scheduler/internal/application"
	"github.com/example/auction-scheduler/internal/logging"
)

type contextKey string

const (
	principalContextKey   contextKey = "principal"
	executiveIDContextKey contextKey = "executive_id"
	slotIDContextKey      contextKey = "slot_id"
	userIDContextKey      contextKey = "user_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithExecutiveID injects the executive identifier resolved from the request path.
func ContextWithExecutiveID(ctx context.Context, executiveID string) context.Context {
	return context.WithValue(ctx, executiveIDContextKey, executiveID)
}

// ExecutiveIDFromContext extracts an executive identifier previously associated with the context.
func ExecutiveIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(executiveIDContextKey).(string)
	return id, ok
}

// ContextWithSlotID injects the slot identifier resolved from the request path.
func ContextWithSlotID(ctx context.Context, slotID string) context.Context {
	return context.WithValue(ctx, slotIDContextKey, slotID)
}

// SlotIDFromContext extracts a slot identifier previously associated with the context.
func SlotIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(slotIDContextKey).(string)
	return id, ok
}

// ContextWithUserID injects the user identifier resolved from the request path.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts a user identifier previously associated with the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts a request scoped logger from the context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
