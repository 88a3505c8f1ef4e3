package api

import (
	"net/http"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/models/dtos"
)

// ListAlerts handles GET /api/v1/telemetry/alerts
//
// @Summary      List alerts
// @Tags         Alerts
// @Produce      json
// @Param        alert_type       query  string  false  "info, warning, error or critical"
// @Param        is_acknowledged  query  bool    false  "Acknowledgment state"
// @Param        sensor           query  int     false  "Sensor id"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/telemetry/alerts [get]
func (h *Handlers) ListAlerts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		acked, err := common.QueryBool(r, "is_acknowledged")
		if err != nil {
			queryError(w, initTime, "is_acknowledged", err)
			return
		}
		sensor, err := common.QueryUint(r, "sensor")
		if err != nil {
			queryError(w, initTime, "sensor", err)
			return
		}

		alerts, err := h.deps.Services.Alerts.List(r.Context(), repositories.AlertFilter{
			AlertType:      constants.AlertType(r.URL.Query().Get("alert_type")),
			IsAcknowledged: acked,
			SensorID:       sensor,
		})
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Alerts fetched successfully", alerts)
	}
}

func (h *Handlers) CreateAlert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AlertReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		alert, err := h.deps.Services.Alerts.Create(r.Context(), req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Alert created successfully", alert, http.StatusCreated)
	}
}

// AcknowledgeAlerts handles POST /api/v1/telemetry/alerts/acknowledge
func (h *Handlers) AcknowledgeAlerts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.AcknowledgeReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		res, err := h.deps.Services.Alerts.Acknowledge(r.Context(), claims, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, res.Message, res)
	}
}
