package auth

import (
	"context"
	"testing"

	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserClaimsContext(t *testing.T) {
	assert.Nil(t, GetUserClaims(context.Background()))

	// a foreign value under the same string key is not mistaken for claims
	ctx := context.WithValue(context.Background(), "user_claims", "forged")
	assert.Nil(t, GetUserClaims(ctx))

	claims := NewJWTClaims(gormModels.User{ID: 7, Role: constants.RoleOperator}, "jti-7")
	got := GetUserClaims(SetUserClaims(context.Background(), claims))
	require.NotNil(t, got)
	assert.EqualValues(t, 7, got.UserID())
	assert.True(t, got.HasOperatorAccess())
}
