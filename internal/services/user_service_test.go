package services

import (
	"context"
	"testing"
	"time"

	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	req := dtos.CreateUserReq{
		Username:        "navigator",
		Email:           "Nav@Astra.test",
		FirstName:       "Ana",
		LastName:        "Ruiz",
		Password:        "orbit-2026",
		PasswordConfirm: "orbit-2026",
	}
	created, err := e.userSvc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleViewer, created.Role)
	assert.True(t, created.IsActive)

	got, err := e.userSvc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "navigator", got.Username)
	assert.Equal(t, "Ana Ruiz", got.FullName)

	var se *ServiceError
	_, err = e.userSvc.Create(ctx, req)
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "username")
	assert.Contains(t, se.Fields, "email")

	_, err = e.userSvc.Create(ctx, dtos.CreateUserReq{
		Username: "x", Email: "not-an-email", Password: "12345678", PasswordConfirm: "12345679",
	})
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "email")
	assert.Contains(t, se.Fields, "password")
}

func TestUpdateUser_Permissions(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	admin := e.createUser(t, "admin", constants.RoleAdmin)
	viewer := e.createUser(t, "viewer", constants.RoleViewer)
	other := e.createUser(t, "other", constants.RoleViewer)

	res, err := e.userSvc.Update(ctx, claimsFor(viewer), viewer.ID, dtos.UpdateUserReq{Phone: ptr("555-0101")})
	require.NoError(t, err)
	require.NotNil(t, res.Phone)
	assert.Equal(t, "555-0101", *res.Phone)

	_, err = e.userSvc.Update(ctx, claimsFor(viewer), other.ID, dtos.UpdateUserReq{Phone: ptr("1")})
	assert.Equal(t, constants.ErrCodePermissionDenied, CodeOf(err))

	role := constants.RoleAdmin
	_, err = e.userSvc.Update(ctx, claimsFor(viewer), viewer.ID, dtos.UpdateUserReq{Role: &role})
	assert.Equal(t, constants.ErrCodePermissionDenied, CodeOf(err))

	res, err = e.userSvc.Update(ctx, claimsFor(admin), viewer.ID, dtos.UpdateUserReq{Role: ptr(constants.RoleOperator), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleOperator, res.Role)
	assert.False(t, res.IsActive)
}

func TestDeleteUser_RemovesOwnedDataKeepsAcknowledgments(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	admin := e.createUser(t, "admin", constants.RoleAdmin)
	pilot := e.createUser(t, "pilot", constants.RoleOperator)

	mission := e.createMission(t, pilot)
	flightID := e.createFlight(t, mission, pilot.ID, "DEL-1", time.Now())
	_, err := e.sessionSvc.Create(ctx, flightID, dtos.SessionReq{})
	require.NoError(t, err)

	alert, err := e.alertSvc.Create(ctx, dtos.AlertReq{Title: "t", Message: "m"})
	require.NoError(t, err)
	_, err = e.alertSvc.Acknowledge(ctx, claimsFor(pilot), dtos.AcknowledgeReq{AlertIDs: &[]uint{alert.ID}})
	require.NoError(t, err)

	require.Equal(t, constants.ErrCodePermissionDenied, CodeOf(e.userSvc.Delete(ctx, claimsFor(admin), admin.ID)))
	require.NoError(t, e.userSvc.Delete(ctx, claimsFor(admin), pilot.ID))

	_, err = e.userSvc.Get(ctx, pilot.ID)
	assert.Equal(t, constants.ErrCodeNotFound, CodeOf(err))

	var missions, flights, sessions int64
	require.NoError(t, e.db.Model(&gormModels.Mission{}).Count(&missions).Error)
	require.NoError(t, e.db.Model(&gormModels.Flight{}).Count(&flights).Error)
	require.NoError(t, e.db.Model(&gormModels.TelemetrySession{}).Count(&sessions).Error)
	assert.Zero(t, missions)
	assert.Zero(t, flights)
	assert.Zero(t, sessions)

	kept, err := e.alerts.GetByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.True(t, kept.IsAcknowledged)
	assert.Nil(t, kept.AcknowledgedByID)

	assert.Equal(t, constants.ErrCodeNotFound, CodeOf(e.userSvc.Delete(ctx, claimsFor(admin), pilot.ID)))
}

func TestProfileAndPassword(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	u := e.createUser(t, "pat", constants.RoleViewer)

	profile, err := e.userSvc.GetProfile(ctx, claimsFor(u))
	require.NoError(t, err)
	assert.Equal(t, constants.LanguageES, profile.Language)
	assert.Equal(t, constants.ThemeLight, profile.Theme)

	profile, err = e.userSvc.UpdateProfile(ctx, claimsFor(u), dtos.UpdateProfileReq{Theme: ptr(constants.ThemeDark)})
	require.NoError(t, err)
	assert.Equal(t, constants.ThemeDark, profile.Theme)

	_, err = e.userSvc.UpdateProfile(ctx, claimsFor(u), dtos.UpdateProfileReq{Language: ptr("fr")})
	assert.Equal(t, constants.ErrCodeValidation, CodeOf(err))

	err = e.userSvc.ChangePassword(ctx, claimsFor(u), dtos.ChangePasswordReq{
		OldPassword: "wrong", NewPassword: "n3w-password", NewPasswordConfirm: "n3w-password",
	})
	assert.Equal(t, constants.ErrCodeValidation, CodeOf(err))

	require.NoError(t, e.userSvc.ChangePassword(ctx, claimsFor(u), dtos.ChangePasswordReq{
		OldPassword: "s3cret-pass", NewPassword: "n3w-password", NewPasswordConfirm: "n3w-password",
	}))
}
