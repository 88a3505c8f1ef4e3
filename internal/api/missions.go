package api

import (
	"net/http"
	"strings"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/models/dtos"
)

// ListMissions handles GET /api/v1/flights/missions
//
// @Summary      List missions
// @Tags         Missions
// @Produce      json
// @Param        status    query  string  false  "Mission status"
// @Param        priority  query  string  false  "Mission priority"
// @Param        search    query  string  false  "Matches name or description"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/flights/missions [get]
func (h *Handlers) ListMissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()

		missions, err := h.deps.Services.Missions.List(r.Context(), repositories.MissionFilter{
			Status:   constants.MissionStatus(q.Get("status")),
			Priority: constants.MissionPriority(q.Get("priority")),
			Search:   strings.TrimSpace(q.Get("search")),
		})
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Missions fetched successfully", missions)
	}
}

func (h *Handlers) CreateMission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.MissionReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		mission, err := h.deps.Services.Missions.Create(r.Context(), claims, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Mission created successfully", mission, http.StatusCreated)
	}
}

func (h *Handlers) GetMission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		mission, err := h.deps.Services.Missions.Get(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Mission fetched successfully", mission)
	}
}

func (h *Handlers) UpdateMission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.MissionReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		mission, err := h.deps.Services.Missions.Update(r.Context(), id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Mission updated successfully", mission)
	}
}

func (h *Handlers) DeleteMission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		if err := h.deps.Services.Missions.Delete(r.Context(), id); err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Mission deleted successfully", nil)
	}
}
