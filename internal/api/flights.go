package api

import (
	"net/http"
	"strings"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/models/dtos"
	"astra/telemetry-backend/internal/services"
)

// ListFlights handles GET /api/v1/flights/flights
//
// @Summary      List flights
// @Tags         Flights
// @Produce      json
// @Param        status   query  string  false  "Flight status"
// @Param        mission  query  int     false  "Mission id"
// @Param        pilot    query  int     false  "Pilot user id"
// @Param        search   query  string  false  "Matches flight number, aircraft or locations"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/flights/flights [get]
func (h *Handlers) ListFlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		filter, ok := flightFilter(w, r, initTime)
		if !ok {
			return
		}

		flights, err := h.deps.Services.Flights.List(r.Context(), filter)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flights fetched successfully", flights)
	}
}

// flightFilter reads the flight list filters shared by the JSON list and the CSV export.
func flightFilter(w http.ResponseWriter, r *http.Request, initTime time.Time) (repositories.FlightFilter, bool) {
	mission, err := common.QueryUint(r, "mission")
	if err != nil {
		queryError(w, initTime, "mission", err)
		return repositories.FlightFilter{}, false
	}
	pilot, err := common.QueryUint(r, "pilot")
	if err != nil {
		queryError(w, initTime, "pilot", err)
		return repositories.FlightFilter{}, false
	}
	return repositories.FlightFilter{
		Status:    constants.FlightStatus(r.URL.Query().Get("status")),
		MissionID: mission,
		PilotID:   pilot,
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
	}, true
}

func (h *Handlers) CreateFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.FlightReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		flight, err := h.deps.Services.Flights.Create(r.Context(), req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight created successfully", flight, http.StatusCreated)
	}
}

// GetFlight returns the flight including its path points.
func (h *Handlers) GetFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		flight, err := h.deps.Services.Flights.Get(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight fetched successfully", flight)
	}
}

func (h *Handlers) UpdateFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.FlightReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		flight, err := h.deps.Services.Flights.Update(r.Context(), id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight updated successfully", flight)
	}
}

func (h *Handlers) DeleteFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		if err := h.deps.Services.Flights.Delete(r.Context(), id); err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight deleted successfully", nil)
	}
}

// UpdateFlightStatus handles PATCH /api/v1/flights/flights/{id}/status
//
// @Summary      Change flight status
// @Description  Moves the flight along its lifecycle. Illegal transitions return 400.
// @Tags         Flights
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.FlightStatusReq  true  "Target status and optional note"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      404  {object}  dtos.APIResponse
// @Router       /api/v1/flights/flights/{id}/status [patch]
func (h *Handlers) UpdateFlightStatus() http.HandlerFunc {
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

		var req dtos.FlightStatusReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		res, err := h.deps.Services.Flights.UpdateStatus(r.Context(), claims, id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight status updated", res)
	}
}

func (h *Handlers) ListFlightPath() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		points, err := h.deps.Services.Flights.ListPath(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight path fetched successfully", points)
	}
}

func (h *Handlers) AddFlightPathPoint() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.FlightPathReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		point, err := h.deps.Services.Flights.AddPathPoint(r.Context(), id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight path point recorded", point, http.StatusCreated)
	}
}

// Dashboard handles GET /api/v1/flights/dashboard
func (h *Handlers) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		dash, err := h.deps.Services.Reporting.Dashboard(r.Context())
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Dashboard fetched successfully", dash)
	}
}

// FlightHistory handles GET /api/v1/flights/history
//
// @Summary      Paginated flight history
// @Tags         Flights
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD, inclusive"
// @Param        end_date    query  string  false  "YYYY-MM-DD, inclusive"
// @Param        mission     query  int     false  "Mission id"
// @Param        pilot       query  int     false  "Pilot user id"
// @Param        page        query  int     false  "Page number, 20 results per page"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Router       /api/v1/flights/history [get]
func (h *Handlers) FlightHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var params services.HistoryParams
		var err error
		if params.StartDate, err = common.QueryDate(r, "start_date"); err != nil {
			queryError(w, initTime, "start_date", err)
			return
		}
		if params.EndDate, err = common.QueryDate(r, "end_date"); err != nil {
			queryError(w, initTime, "end_date", err)
			return
		}
		if params.MissionID, err = common.QueryUint(r, "mission"); err != nil {
			queryError(w, initTime, "mission", err)
			return
		}
		if params.PilotID, err = common.QueryUint(r, "pilot"); err != nil {
			queryError(w, initTime, "pilot", err)
			return
		}
		if params.Page, err = common.QueryPage(r); err != nil {
			queryError(w, initTime, "page", err)
			return
		}

		history, err := h.deps.Services.Reporting.History(r.Context(), params)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Flight history fetched successfully", history)
	}
}
