package services

import (
	"context"
	"encoding/json"
	"math"
	"sync/atomic"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/metrics"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// HistoryParams are the history filters as received from the query string.
type HistoryParams struct {
	StartDate *time.Time
	EndDate   *time.Time
	MissionID uint
	PilotID   uint
	Page      int
}

// ReportingService serves the dashboard, the telemetry statistics and the
// paginated flight history. Dashboard and statistics are cached for ttl and
// dropped by Invalidate after any write that could change them.
type ReportingService struct {
	reports *repositories.ReportingRepo
	flights *repositories.FlightRepository
	cache   common.CacheInterface
	ttl     time.Duration
	metrics *metrics.MetricsRegistry
	group   singleflight.Group
	// gen is bumped by Invalidate; a load that started under an older
	// generation does not write its result back.
	gen atomic.Uint64
	now func() time.Time
}

func NewReportingService(
	reports *repositories.ReportingRepo,
	flights *repositories.FlightRepository,
	cache common.CacheInterface,
	ttl time.Duration,
	m *metrics.MetricsRegistry,
) *ReportingService {
	return &ReportingService{
		reports: reports,
		flights: flights,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Invalidate drops the cached dashboard and statistics.
func (s *ReportingService) Invalidate() {
	if s.cache == nil {
		return
	}
	s.gen.Add(1)
	s.cache.Delete(string(constants.CachePrefixDashboard))
	s.cache.Delete(string(constants.CachePrefixTelemetryStats))
}

// cached loads key from the cache, or computes it once across concurrent
// callers and stores its JSON encoding. The shared load runs detached from
// the caller's cancellation since other callers may be waiting on it.
func cached[T any](ctx context.Context, s *ReportingService, key constants.CachePrefix, load func(context.Context) (T, error)) (T, error) {
	var zero T
	enabled := s.cache != nil && s.ttl > 0

	if enabled {
		if raw, ok := s.cache.Get(string(key)); ok {
			if str, isStr := raw.(string); isStr {
				var out T
				if err := json.Unmarshal([]byte(str), &out); err == nil {
					s.countCache(key, true)
					return out, nil
				}
			}
		}
		s.countCache(key, false)
	}

	v, err, _ := s.group.Do(string(key), func() (any, error) {
		gen := s.gen.Load()
		out, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if enabled && s.gen.Load() == gen {
			if encoded, err := json.Marshal(out); err == nil {
				s.cache.Set(string(key), string(encoded), s.ttl)
			} else {
				logging.Warn("failed to encode cached report", "key", key, "error", err)
			}
		}
		return out, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func (s *ReportingService) countCache(key constants.CachePrefix, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(string(key)).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(string(key)).Inc()
	}
}

func (s *ReportingService) Dashboard(ctx context.Context) (*dtos.DashboardResponse, error) {
	resp, err := cached(ctx, s, constants.CachePrefixDashboard, s.buildDashboard)
	if err != nil {
		logging.Error("failed to build dashboard", "error", err)
		return nil, fromRepo("dashboard", err)
	}
	return &resp, nil
}

func (s *ReportingService) buildDashboard(ctx context.Context) (dtos.DashboardResponse, error) {
	var (
		resp    dtos.DashboardResponse
		g, gctx = errgroup.WithContext(ctx)
	)
	today := s.now().Truncate(24 * time.Hour)

	g.Go(func() error {
		active, err := s.flights.ListByStatus(gctx, constants.FlightActive)
		if err != nil {
			return err
		}
		resp.ActiveFlights = dtos.NewFlightSummaryResponses(active)
		return nil
	})
	g.Go(func() (err error) {
		resp.Stats.TotalFlights, err = s.reports.CountFlights(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Stats.FlightsToday, err = s.reports.CountFlightsDepartingBetween(gctx, today, today.AddDate(0, 0, 1))
		return err
	})
	g.Go(func() (err error) {
		resp.Stats.ActiveMissions, err = s.reports.CountMissionsByStatus(gctx, constants.MissionActive)
		return err
	})
	g.Go(func() (err error) {
		resp.Stats.FlightByStatus, err = s.reports.FlightCountsByStatus(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return dtos.DashboardResponse{}, err
	}
	return resp, nil
}

func (s *ReportingService) TelemetryStats(ctx context.Context) (*dtos.TelemetryStatsResponse, error) {
	resp, err := cached(ctx, s, constants.CachePrefixTelemetryStats, s.buildTelemetryStats)
	if err != nil {
		logging.Error("failed to build telemetry statistics", "error", err)
		return nil, fromRepo("statistics", err)
	}
	return &resp, nil
}

func (s *ReportingService) buildTelemetryStats(ctx context.Context) (dtos.TelemetryStatsResponse, error) {
	var (
		resp    dtos.TelemetryStatsResponse
		g, gctx = errgroup.WithContext(ctx)
	)

	g.Go(func() (err error) {
		resp.General.TotalSensors, err = s.reports.CountActiveSensors(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.General.TotalDataPoints, err = s.reports.CountTelemetryData(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.General.TotalAlerts, err = s.reports.CountAlerts(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.General.UnacknowledgedAlerts, err = s.reports.CountUnacknowledgedAlerts(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.SensorStats, err = s.reports.SensorStatsByType(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.AlertStats, err = s.reports.AlertCountsByType(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.QualityStats, err = s.reports.TelemetryCountsByQuality(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return dtos.TelemetryStatsResponse{}, err
	}
	return resp, nil
}

// History returns one fixed-size page of flights, newest planned departure
// first. A page past the end is empty rather than an error.
func (s *ReportingService) History(ctx context.Context, p HistoryParams) (*dtos.HistoryResponse, error) {
	if p.Page < 1 {
		return nil, validationError("page", "page must be a positive integer")
	}
	from, to := common.DayRange(p.StartDate, p.EndDate)

	size := constants.HistoryPageSize
	filter := repositories.HistoryFilter{
		From:      from,
		To:        to,
		MissionID: p.MissionID,
		PilotID:   p.PilotID,
	}

	var (
		flights []gormModels.Flight
		total   int64
		err     error
	)
	if p.Page-1 > (math.MaxInt32-size)/size {
		total, err = s.flights.CountHistory(ctx, filter)
	} else {
		flights, total, err = s.flights.History(ctx, filter, (p.Page-1)*size, size)
	}
	if err != nil {
		return nil, fromRepo("flight", err)
	}

	return &dtos.HistoryResponse{
		Results:    dtos.NewFlightResponses(flights),
		Count:      total,
		Page:       p.Page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// Ping checks the reporting connection for the health endpoint.
func (s *ReportingService) Ping(ctx context.Context) error {
	return s.reports.Ping(ctx)
}
