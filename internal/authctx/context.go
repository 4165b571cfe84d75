// Package authctx carries the verified session through the request context.
// There is no ambient global session state; the auth middleware stores a
// Session per request and handlers read it back explicitly.
package authctx

import "context"

type ctxKey string

const keySession ctxKey = "nexbuild_session"

// Session is the identity attached to an authenticated request.
type Session struct {
	UID   string
	Email string
	Role  string
}

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, keySession, s)
}

// SessionFrom returns the request session if one was attached.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(keySession).(Session)
	return s, ok
}
