package repositories

import (
	"context"
	"fmt"
	"time"

	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/metrics"
	"astra/telemetry-backend/internal/models/dtos"

	"github.com/jmoiron/sqlx"
)

// ReportingRepo runs the raw aggregate queries behind the dashboard and statistics views.
type ReportingRepo struct {
	db      *sqlx.DB
	metrics *metrics.MetricsRegistry
}

func NewReportingRepo(db *sqlx.DB, m *metrics.MetricsRegistry) *ReportingRepo {
	return &ReportingRepo{db: db, metrics: m}
}

func (r *ReportingRepo) observe(name string, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.DBQueriesTotal.WithLabelValues(name).Inc()
	r.metrics.DBQueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

func (r *ReportingRepo) count(ctx context.Context, name, query string, args ...any) (int64, error) {
	defer r.observe(name, time.Now())

	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func (r *ReportingRepo) selectRows(ctx context.Context, name string, dest any, query string, args ...any) error {
	defer r.observe(name, time.Now())

	if err := r.db.SelectContext(ctx, dest, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (r *ReportingRepo) CountFlights(ctx context.Context) (int64, error) {
	return r.count(ctx, "count_flights", constants.CountFlights)
}

// CountFlightsDepartingBetween counts flights planned to depart in [from, to).
func (r *ReportingRepo) CountFlightsDepartingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.count(ctx, "count_flights_departing", constants.CountFlightsDepartingBetween, from, to)
}

func (r *ReportingRepo) CountMissionsByStatus(ctx context.Context, status constants.MissionStatus) (int64, error) {
	return r.count(ctx, "count_missions_by_status", constants.CountMissionsByStatus, string(status))
}

func (r *ReportingRepo) FlightCountsByStatus(ctx context.Context) ([]dtos.StatusCount, error) {
	rows := []dtos.StatusCount{}
	if err := r.selectRows(ctx, "flight_counts_by_status", &rows, constants.FlightCountsByStatus); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportingRepo) CountActiveSensors(ctx context.Context) (int64, error) {
	return r.count(ctx, "count_active_sensors", constants.CountActiveSensors, true)
}

func (r *ReportingRepo) CountTelemetryData(ctx context.Context) (int64, error) {
	return r.count(ctx, "count_telemetry", constants.CountTelemetryData)
}

func (r *ReportingRepo) CountAlerts(ctx context.Context) (int64, error) {
	return r.count(ctx, "count_alerts", constants.CountAlerts)
}

func (r *ReportingRepo) CountUnacknowledgedAlerts(ctx context.Context) (int64, error) {
	return r.count(ctx, "count_unacknowledged_alerts", constants.CountUnacknowledgedAlerts, false)
}

func (r *ReportingRepo) SensorStatsByType(ctx context.Context) ([]dtos.SensorTypeStats, error) {
	rows := []dtos.SensorTypeStats{}
	if err := r.selectRows(ctx, "sensor_stats_by_type", &rows, constants.SensorStatsByType); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportingRepo) AlertCountsByType(ctx context.Context) ([]dtos.AlertTypeCount, error) {
	rows := []dtos.AlertTypeCount{}
	if err := r.selectRows(ctx, "alert_counts_by_type", &rows, constants.AlertCountsByType); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportingRepo) TelemetryCountsByQuality(ctx context.Context) ([]dtos.QualityCount, error) {
	rows := []dtos.QualityCount{}
	if err := r.selectRows(ctx, "telemetry_counts_by_quality", &rows, constants.TelemetryCountsByQuality); err != nil {
		return nil, err
	}
	return rows, nil
}

// Ping checks the reporting connection.
func (r *ReportingRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
