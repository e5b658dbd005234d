package middleware

import "context"

type ctxKey string

const (
	ctxSessionID ctxKey = "session_id"
	ctxAdminID   ctxKey = "admin_id"
	ctxUsername  ctxKey = "admin_username"
)

// SessionIDFromContext returns the storefront session id seeded by Session.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// AdminIDFromContext returns the authenticated admin's id, if any.
func AdminIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxAdminID).(string); ok {
		return v
	}
	return ""
}

// UsernameFromContext returns the authenticated admin's username, if any.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}
