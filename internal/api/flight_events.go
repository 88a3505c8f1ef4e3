package api

import (
	"bytes"
	"net/http"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/models/dtos"
)

// ListFlightEvents handles GET /api/v1/flights/flights/{id}/events
//
// @Summary      Flight event log
// @Description  Status changes, degraded session readings and operator notes, oldest first.
// @Tags         Flights
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Failure      404  {object}  dtos.APIResponse
// @Router       /api/v1/flights/flights/{id}/events [get]
func (h *Handlers) ListFlightEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		events, err := h.deps.Services.Flights.ListEvents(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight events fetched successfully", events)
	}
}

func (h *Handlers) AddFlightEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.FlightEventReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		event, err := h.deps.Services.Flights.AddEvent(r.Context(), claims, id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight event recorded", event, http.StatusCreated)
	}
}

// ExportFlightsCSV handles GET /api/v1/flights/csv
//
// @Summary      Export flights as CSV
// @Tags         Flights
// @Produce      text/csv
// @Param        status   query  string  false  "Flight status"
// @Param        mission  query  int     false  "Mission id"
// @Param        pilot    query  int     false  "Pilot user id"
// @Param        search   query  string  false  "Matches flight number, aircraft or locations"
// @Success      200  {string}  string
// @Router       /api/v1/flights/csv [get]
func (h *Handlers) ExportFlightsCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		filter, ok := flightFilter(w, r, initTime)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := h.deps.Services.Flights.ExportCSV(r.Context(), filter, &buf); err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="flights.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
