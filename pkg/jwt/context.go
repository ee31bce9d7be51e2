package jwt

import "context"

type claimsContextKey struct{}

// SetSessionClaims stores verified session claims in the context for
// downstream handlers.
func SetSessionClaims(ctx context.Context, claims SessionClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// SessionClaimsFromContext retrieves claims placed by the middleware. The
// boolean is false when the request was not authenticated.
func SessionClaimsFromContext(ctx context.Context) (SessionClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(SessionClaims)
	return claims, ok
}
