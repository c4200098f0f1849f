package httpx

import (
	"context"

	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyRole   ctxKey = "role"
	CtxKeyClaims ctxKey = "claims"
)

// UserIDFromContext returns the authenticated subject, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}

// RoleFromContext returns the authenticated role, if any.
func RoleFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyRole).(string)
	return v
}

// ClaimsFromContext returns the full verified claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

// ContextWithClaims injects verified claims for downstream handlers.
func ContextWithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}
