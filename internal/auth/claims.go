package auth

import (
	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"
)

// UserClaims is what handlers and role gates know about the caller.
type UserClaims interface {
	UserID() uint
	Role() constants.Role
	Source() string
	IsSuperuser() bool
	HasOperatorAccess() bool
	HasAdminAccess() bool
}

// JWTClaims is resolved from a verified access token and the current user row.
type JWTClaims struct {
	UserIDValue uint
	RoleValue   constants.Role
	Superuser   bool
	TokenID     string
}

// NewJWTClaims takes role and superuser from the stored user, not the token,
// so role changes apply to tokens already issued.
func NewJWTClaims(user gormModels.User, tokenID string) *JWTClaims {
	return &JWTClaims{
		UserIDValue: user.ID,
		RoleValue:   user.Role,
		Superuser:   user.IsSuperuser,
		TokenID:     tokenID,
	}
}

func (c *JWTClaims) UserID() uint         { return c.UserIDValue }
func (c *JWTClaims) Role() constants.Role { return c.RoleValue }
func (c *JWTClaims) Source() string       { return "JWT" }
func (c *JWTClaims) IsSuperuser() bool    { return c.Superuser }
func (c *JWTClaims) HasOperatorAccess() bool {
	return constants.HasOperatorAccess(c.RoleValue, c.Superuser)
}
func (c *JWTClaims) HasAdminAccess() bool { return constants.HasAdminAccess(c.RoleValue, c.Superuser) }
