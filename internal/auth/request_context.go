package auth

import "context"

type contextKey string

// claimsKey holds the UserClaims the auth middleware builds after checking
// the bearer token and reloading the user row.
const claimsKey contextKey = "user_claims"

func SetUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetUserClaims returns nil outside the authenticated route group.
func GetUserClaims(ctx context.Context) UserClaims {
	claims, _ := ctx.Value(claimsKey).(UserClaims)
	return claims
}
