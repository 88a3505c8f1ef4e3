package services

import (
	"context"
	"testing"
	"time"

	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissionCreateUpdateDelete(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	owner := e.createUser(t, "owner", constants.RoleOperator)
	crew := e.createUser(t, "crew", constants.RoleViewer)

	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	created, err := e.missionSvc.Create(ctx, claimsFor(owner), dtos.MissionReq{
		Name:         "Ridge survey",
		PlannedStart: &start,
		PlannedEnd:   ptr(start.Add(6 * time.Hour)),
		AssignedTo:   []uint{crew.ID, crew.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.MissionPlanned, created.Status)
	assert.Equal(t, constants.PriorityMedium, created.Priority)
	assert.Equal(t, owner.ID, created.CreatedBy)
	assert.Equal(t, []uint{crew.ID}, created.AssignedTo)
	assert.Equal(t, 6*3600.0, created.DurationPlanned)
	assert.Nil(t, created.DurationActual)

	e.createFlight(t, created.ID, owner.ID, "M-1", start)

	updated, err := e.missionSvc.Update(ctx, created.ID, dtos.MissionReq{
		Name:         "Ridge survey II",
		Status:       constants.MissionActive,
		Priority:     constants.PriorityHigh,
		PlannedStart: &start,
		PlannedEnd:   ptr(start.Add(time.Hour)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ridge survey II", updated.Name)
	assert.Empty(t, updated.AssignedTo)
	assert.EqualValues(t, 1, updated.FlightCount)

	list, err := e.missionSvc.List(ctx, repositories.MissionFilter{Status: constants.MissionActive, Search: "ridge"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, e.missionSvc.Delete(ctx, created.ID))
	_, err = e.missionSvc.Get(ctx, created.ID)
	assert.Equal(t, constants.ErrCodeNotFound, CodeOf(err))

	flights, err := e.flightSvc.List(ctx, repositories.FlightFilter{})
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestMissionValidation(t *testing.T) {
	e := setupTestEnv(t)
	owner := e.createUser(t, "owner", constants.RoleOperator)
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	_, err := e.missionSvc.Create(context.Background(), claimsFor(owner), dtos.MissionReq{
		Status:       "paused",
		PlannedStart: &start,
		PlannedEnd:   ptr(start.Add(-time.Hour)),
		AssignedTo:   []uint{999},
	})
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	for _, field := range []string{"name", "status", "planned_end", "assigned_to"} {
		assert.Contains(t, se.Fields, field)
	}
}
