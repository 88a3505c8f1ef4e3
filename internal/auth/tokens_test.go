package auth

import (
	"testing"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret", time.Minute, time.Hour, common.NewCacheService(time.Hour, time.Minute))
}

func TestIssuePairRoundTrip(t *testing.T) {
	svc := newTestTokenService()
	user := gormModels.User{ID: 42, Role: constants.RoleOperator}

	pair, err := svc.IssuePair(user)
	require.NoError(t, err)

	access, err := svc.Parse(pair.Access, constants.TokenTypeAccess)
	require.NoError(t, err)
	id, err := access.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, constants.RoleOperator, access.Role)

	refresh, err := svc.Parse(pair.Refresh, constants.TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestParseRejectsWrongType(t *testing.T) {
	svc := newTestTokenService()
	pair, err := svc.IssuePair(gormModels.User{ID: 1, Role: constants.RoleViewer})
	require.NoError(t, err)

	_, err = svc.Parse(pair.Access, constants.TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = svc.Parse(pair.Refresh, constants.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService("another-secret", time.Minute, time.Hour, common.NewCacheService(time.Hour, time.Minute))

	token, err := other.IssueAccess(gormModels.User{ID: 1})
	require.NoError(t, err)

	_, err = svc.Parse(token, constants.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Parse("not-a-token", constants.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	svc := newTestTokenService()
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssueAccess(gormModels.User{ID: 1})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(token, constants.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeBlacklistsRefresh(t *testing.T) {
	svc := newTestTokenService()
	pair, err := svc.IssuePair(gormModels.User{ID: 7})
	require.NoError(t, err)

	claims, err := svc.Parse(pair.Refresh, constants.TokenTypeRefresh)
	require.NoError(t, err)

	svc.Revoke(claims)

	assert.True(t, svc.IsRevoked(claims.ID))
	_, err = svc.Parse(pair.Refresh, constants.TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cure-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cure-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cure-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}

func TestClaimsAccessLevels(t *testing.T) {
	viewer := NewJWTClaims(gormModels.User{ID: 1, Role: constants.RoleViewer}, "a")
	operator := NewJWTClaims(gormModels.User{ID: 2, Role: constants.RoleOperator}, "b")
	admin := NewJWTClaims(gormModels.User{ID: 3, Role: constants.RoleAdmin}, "c")
	super := NewJWTClaims(gormModels.User{ID: 4, Role: constants.RoleViewer, IsSuperuser: true}, "d")

	assert.False(t, viewer.HasOperatorAccess())
	assert.False(t, viewer.HasAdminAccess())
	assert.True(t, operator.HasOperatorAccess())
	assert.False(t, operator.HasAdminAccess())
	assert.True(t, admin.HasOperatorAccess())
	assert.True(t, admin.HasAdminAccess())
	assert.True(t, super.HasOperatorAccess())
	assert.True(t, super.HasAdminAccess())
}
