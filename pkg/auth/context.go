package auth

import "context"

type principalKey struct{}

// ContextWithPrincipal attaches the caller's principal to the context. The
// principal is ambient authentication state; it never crosses the wire as an
// argument.
func ContextWithPrincipal(ctx context.Context, principal any) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFrom extracts the principal installed by ContextWithPrincipal,
// nil when none is present.
func PrincipalFrom(ctx context.Context) any {
	return ctx.Value(principalKey{})
}
