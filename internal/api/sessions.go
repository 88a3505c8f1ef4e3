package api

import (
	"net/http"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/models/dtos"
)

// ListFlightSessions handles GET /api/v1/flights/flights/{id}/sessions
func (h *Handlers) ListFlightSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		sessions, err := h.deps.Services.Sessions.ListByFlight(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sessions fetched successfully", sessions)
	}
}

// OpenFlightSession handles POST /api/v1/flights/flights/{id}/sessions.
// An empty body opens the session now.
func (h *Handlers) OpenFlightSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.SessionReq
		if r.ContentLength != 0 && !decodeBody(w, r, initTime, &req) {
			return
		}

		sess, err := h.deps.Services.Sessions.Create(r.Context(), id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Session opened", sess, http.StatusCreated)
	}
}

func (h *Handlers) GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		sess, err := h.deps.Services.Sessions.Get(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Session fetched successfully", sess)
	}
}

func (h *Handlers) CloseSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		sess, err := h.deps.Services.Sessions.Close(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Session closed", sess)
	}
}

func (h *Handlers) AttachSessionTelemetry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.AttachReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		res, err := h.deps.Services.Sessions.AttachTelemetry(r.Context(), id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Telemetry attached", res)
	}
}

func (h *Handlers) AttachSessionGyroscope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.AttachReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		res, err := h.deps.Services.Sessions.AttachGyroscope(r.Context(), id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Gyroscope data attached", res)
	}
}

func (h *Handlers) SessionReadings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		readings, err := h.deps.Services.Sessions.Readings(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Session readings fetched successfully", readings)
	}
}
