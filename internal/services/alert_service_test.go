package services

import (
	"context"
	"testing"

	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcknowledge_CountsOnlyPending(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	op := e.createUser(t, "op", constants.RoleOperator)

	var ids []uint
	for _, title := range []string{"one", "two", "three"} {
		a, err := e.alertSvc.Create(ctx, dtos.AlertReq{Title: title, Message: "check " + title})
		require.NoError(t, err)
		assert.Equal(t, constants.AlertInfo, a.AlertType)
		ids = append(ids, a.ID)
	}

	res, err := e.alertSvc.Acknowledge(ctx, claimsFor(op), dtos.AcknowledgeReq{AlertIDs: &[]uint{ids[0], ids[1], 9999}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Acknowledged)
	assert.Equal(t, "2 alerts acknowledged", res.Message)

	res, err = e.alertSvc.Acknowledge(ctx, claimsFor(op), dtos.AcknowledgeReq{AlertIDs: &ids})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Acknowledged, "already acknowledged alerts are not counted again")

	res, err = e.alertSvc.Acknowledge(ctx, claimsFor(op), dtos.AcknowledgeReq{AlertIDs: &[]uint{}})
	require.NoError(t, err)
	assert.Zero(t, res.Acknowledged)

	_, err = e.alertSvc.Acknowledge(ctx, claimsFor(op), dtos.AcknowledgeReq{})
	assert.Equal(t, constants.ErrCodeValidation, CodeOf(err))

	alerts, err := e.alertSvc.List(ctx, repositories.AlertFilter{IsAcknowledged: ptr(true)})
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	for _, a := range alerts {
		require.NotNil(t, a.AcknowledgedBy)
		assert.Equal(t, op.ID, *a.AcknowledgedBy)
		require.NotNil(t, a.AcknowledgedByName)
		assert.Equal(t, op.FullName(), *a.AcknowledgedByName)
		assert.NotNil(t, a.AcknowledgedAt)
	}
}

func TestCreateAlert_Validation(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()

	var se *ServiceError
	_, err := e.alertSvc.Create(ctx, dtos.AlertReq{AlertType: "panic", Sensor: ptr(uint(77))})
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Fields, "title")
	assert.Contains(t, se.Fields, "message")
	assert.Contains(t, se.Fields, "alert_type")
	assert.Contains(t, se.Fields, "sensor")

	sensor := e.createSensor(t, "Pressure", nil, nil)
	a, err := e.alertSvc.Create(ctx, dtos.AlertReq{
		Title: "Leak", Message: "Pressure dropping", AlertType: constants.AlertError, Sensor: &sensor.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, a.SensorName)
	assert.Equal(t, "Pressure", *a.SensorName)

	list, err := e.alertSvc.List(ctx, repositories.AlertFilter{AlertType: constants.AlertError, SensorID: sensor.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
