package constants

// Reporting queries run through sqlx. Placeholders are written as `?` and
// rebound for the active driver.
const (
	CountActiveSensors = `SELECT COUNT(*) FROM sensors WHERE is_active = ?`

	CountTelemetryData = `SELECT COUNT(*) FROM telemetry_data`

	CountFlights = `SELECT COUNT(*) FROM flights`

	CountFlightsDepartingBetween = `SELECT COUNT(*) FROM flights WHERE planned_departure >= ? AND planned_departure < ?`

	CountMissionsByStatus = `SELECT COUNT(*) FROM missions WHERE status = ?`

	CountAlerts = `SELECT COUNT(*) FROM alerts`

	CountUnacknowledgedAlerts = `SELECT COUNT(*) FROM alerts WHERE is_acknowledged = ?`

	SensorStatsByType = `
	SELECT s.sensor_type AS sensor_type,
	       COUNT(DISTINCT s.id) AS sensor_count,
	       COUNT(t.id) AS reading_count,
	       AVG(t.value) AS avg_reading,
	       MAX(t.value) AS max_reading,
	       MIN(t.value) AS min_reading
	FROM sensors s
	LEFT JOIN telemetry_data t ON t.sensor_id = s.id
	GROUP BY s.sensor_type
	ORDER BY s.sensor_type
	`

	AlertCountsByType = `
	SELECT alert_type, COUNT(*) AS count
	FROM alerts
	GROUP BY alert_type
	ORDER BY alert_type
	`

	TelemetryCountsByQuality = `
	SELECT quality, COUNT(*) AS count
	FROM telemetry_data
	GROUP BY quality
	ORDER BY quality
	`

	FlightCountsByStatus = `
	SELECT status, COUNT(*) AS count
	FROM flights
	GROUP BY status
	ORDER BY status
	`
)
