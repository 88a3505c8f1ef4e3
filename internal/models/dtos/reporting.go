package dtos

import "astra/telemetry-backend/internal/constants"

type StatusCount struct {
	Status constants.FlightStatus `json:"status" db:"status"`
	Count  int64                  `json:"count" db:"count"`
}

type DashboardStats struct {
	TotalFlights   int64         `json:"total_flights"`
	FlightsToday   int64         `json:"flights_today"`
	ActiveMissions int64         `json:"active_missions"`
	FlightByStatus []StatusCount `json:"flight_by_status"`
}

type DashboardResponse struct {
	ActiveFlights []FlightSummaryResponse `json:"active_flights"`
	Stats         DashboardStats          `json:"stats"`
}

type GeneralStats struct {
	TotalSensors         int64 `json:"total_sensors"`
	TotalDataPoints      int64 `json:"total_data_points"`
	TotalAlerts          int64 `json:"total_alerts"`
	UnacknowledgedAlerts int64 `json:"unacknowledged_alerts"`
}

// SensorTypeStats aggregates readings per sensor type; the averages are nil for types without readings.
type SensorTypeStats struct {
	SensorType   constants.SensorType `json:"sensor_type" db:"sensor_type"`
	SensorCount  int64                `json:"count" db:"sensor_count"`
	ReadingCount int64                `json:"reading_count" db:"reading_count"`
	AvgReading   *float64             `json:"avg_reading" db:"avg_reading"`
	MaxReading   *float64             `json:"max_reading" db:"max_reading"`
	MinReading   *float64             `json:"min_reading" db:"min_reading"`
}

type AlertTypeCount struct {
	AlertType constants.AlertType `json:"alert_type" db:"alert_type"`
	Count     int64               `json:"count" db:"count"`
}

type QualityCount struct {
	Quality constants.Quality `json:"quality" db:"quality"`
	Count   int64             `json:"count" db:"count"`
}

type TelemetryStatsResponse struct {
	General      GeneralStats      `json:"general"`
	SensorStats  []SensorTypeStats `json:"sensor_stats"`
	AlertStats   []AlertTypeCount  `json:"alert_stats"`
	QualityStats []QualityCount    `json:"quality_stats"`
}
