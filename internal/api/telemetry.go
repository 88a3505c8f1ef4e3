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

// ListSensors handles GET /api/v1/telemetry/sensors
func (h *Handlers) ListSensors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		active, err := common.QueryBool(r, "is_active")
		if err != nil {
			queryError(w, initTime, "is_active", err)
			return
		}

		sensors, err := h.deps.Services.Sensors.List(r.Context(), repositories.SensorFilter{
			SensorType: constants.SensorType(r.URL.Query().Get("sensor_type")),
			IsActive:   active,
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
		})
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sensors fetched successfully", sensors)
	}
}

func (h *Handlers) CreateSensor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SensorReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		sensor, err := h.deps.Services.Sensors.Create(r.Context(), req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sensor created successfully", sensor, http.StatusCreated)
	}
}

func (h *Handlers) GetSensor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		sensor, err := h.deps.Services.Sensors.Get(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sensor fetched successfully", sensor)
	}
}

func (h *Handlers) UpdateSensor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.SensorReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		sensor, err := h.deps.Services.Sensors.Update(r.Context(), id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sensor updated successfully", sensor)
	}
}

func (h *Handlers) DeleteSensor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		if err := h.deps.Services.Sensors.Delete(r.Context(), id); err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Sensor deleted successfully", nil)
	}
}

// readingParams parses the filters shared by the telemetry and gyroscope lists.
func readingParams(w http.ResponseWriter, r *http.Request, initTime time.Time) (services.ReadingFilterParams, bool) {
	var (
		p   services.ReadingFilterParams
		err error
	)
	if p.StartDate, err = common.QueryDate(r, "start_date"); err != nil {
		queryError(w, initTime, "start_date", err)
		return p, false
	}
	if p.EndDate, err = common.QueryDate(r, "end_date"); err != nil {
		queryError(w, initTime, "end_date", err)
		return p, false
	}
	if p.Limit, err = common.QueryLimit(r, constants.DefaultReadingsLimit, constants.MaxReadingsLimit); err != nil {
		queryError(w, initTime, "limit", err)
		return p, false
	}
	return p, true
}

// ListTelemetry handles GET /api/v1/telemetry/data
//
// @Summary      List telemetry readings
// @Tags         Telemetry
// @Produce      json
// @Param        sensor      query  int     false  "Sensor id"
// @Param        quality     query  string  false  "good, warning or critical"
// @Param        start_date  query  string  false  "YYYY-MM-DD, inclusive"
// @Param        end_date    query  string  false  "YYYY-MM-DD, inclusive"
// @Param        limit       query  int     false  "Maximum rows, default 100"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/telemetry/data [get]
func (h *Handlers) ListTelemetry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		p, ok := readingParams(w, r, initTime)
		if !ok {
			return
		}
		sensor, err := common.QueryUint(r, "sensor")
		if err != nil {
			queryError(w, initTime, "sensor", err)
			return
		}
		p.SensorID = sensor
		p.Quality = constants.Quality(r.URL.Query().Get("quality"))

		rows, err := h.deps.Services.Telemetry.ListReadings(r.Context(), p)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Telemetry data fetched successfully", rows)
	}
}

// LatestTelemetry handles GET /api/v1/telemetry/latest
//
// @Summary      Newest telemetry readings
// @Tags         Telemetry
// @Produce      json
// @Param        flight  query  int  false  "Only readings attached to this flight's sessions"
// @Param        limit   query  int  false  "Number of readings, default 1"
// @Success      200  {object}  dtos.APIResponse
// @Failure      404  {object}  dtos.APIResponse
// @Router       /api/v1/telemetry/latest [get]
func (h *Handlers) LatestTelemetry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		flight, err := common.QueryUint(r, "flight")
		if err != nil {
			queryError(w, initTime, "flight", err)
			return
		}
		limit, err := common.QueryLimit(r, 1, constants.MaxReadingsLimit)
		if err != nil {
			queryError(w, initTime, "limit", err)
			return
		}

		rows, err := h.deps.Services.Telemetry.Latest(r.Context(), flight, limit)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Latest telemetry fetched successfully", rows)
	}
}

// IngestTelemetry handles POST /api/v1/telemetry/data. Degraded readings
// come back with the alert they raised.
func (h *Handlers) IngestTelemetry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.TelemetryDataReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		res, err := h.deps.Services.Telemetry.CreateReading(r.Context(), req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Telemetry reading recorded", res, http.StatusCreated)
	}
}

func (h *Handlers) ListGyroscope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		p, ok := readingParams(w, r, initTime)
		if !ok {
			return
		}

		rows, err := h.deps.Services.Telemetry.ListGyroscope(r.Context(), p)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Gyroscope data fetched successfully", rows)
	}
}

func (h *Handlers) IngestGyroscope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.GyroscopeDataReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		res, err := h.deps.Services.Telemetry.CreateGyroscope(r.Context(), req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Gyroscope sample recorded", res, http.StatusCreated)
	}
}

// TelemetryStats handles GET /api/v1/telemetry/stats
func (h *Handlers) TelemetryStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		stats, err := h.deps.Services.Reporting.TelemetryStats(r.Context())
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Telemetry statistics fetched successfully", stats)
	}
}
