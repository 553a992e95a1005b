// Package analysis resolves a location, fetches its daily series and runs the
// statistics engine over it.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-stats-service/internal/domain"
	"github.com/couchcryptid/climate-stats-service/internal/observability"
)

// ErrGeocodingDisabled is returned for place-name lookups when no geocoder is
// configured.
var ErrGeocodingDisabled = errors.New("place-name lookup is not enabled")

// Analysis kinds, used as metric labels and job kinds.
const (
	KindStats       = "stats"
	KindBestPeriods = "best_periods"
)

// StatsReport is a StatsResult tagged with the location it describes.
type StatsReport struct {
	Location domain.Location `json:"location"`
	domain.StatsResult
}

// BestPeriodsReport lists the highest-scoring periods for a location.
type BestPeriodsReport struct {
	Location domain.Location      `json:"location"`
	Criteria []domain.Criterion   `json:"criteria"`
	Periods  []domain.PeriodScore `json:"best_periods"`
}

// Service runs analyses for single locations. It is safe for concurrent use.
type Service struct {
	fetcher  domain.SeriesFetcher
	geocoder domain.Geocoder
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewService creates a Service. geocoder may be nil, which disables
// place-name queries.
func NewService(fetcher domain.SeriesFetcher, geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		geocoder: geocoder,
		metrics:  metrics,
		logger:   logger,
	}
}

// Stats validates the query, fetches the series and computes the statistics
// bundle. Validation happens before any upstream call.
func (s *Service) Stats(ctx context.Context, q StatsQuery) (report StatsReport, err error) {
	defer s.observe(KindStats, time.Now(), &err)

	req, err := q.Request()
	if err != nil {
		return StatsReport{}, err
	}
	loc, series, err := s.load(ctx, q.LocationQuery)
	if err != nil {
		return StatsReport{}, err
	}

	result, err := domain.Analyze(series, req)
	if err != nil {
		return StatsReport{}, err
	}
	for _, d := range result.Degraded {
		s.metrics.DegradedResults.WithLabelValues(d.Section).Inc()
		s.logger.Debug("result degraded", "section", d.Section, "reason", d.Reason)
	}

	s.logger.Info("analysis completed",
		"kind", KindStats,
		"lat", loc.Lat,
		"lon", loc.Lon,
		"range", req.Range.String(),
		"days", result.TotalDays,
		"years", result.TotalYears,
	)
	return StatsReport{Location: loc, StatsResult: result}, nil
}

// BestPeriods validates the query, fetches the series and ranks the periods of
// the year against the requested criteria.
func (s *Service) BestPeriods(ctx context.Context, q SweepQuery) (report BestPeriodsReport, err error) {
	defer s.observe(KindBestPeriods, time.Now(), &err)

	req, err := q.Request()
	if err != nil {
		return BestPeriodsReport{}, err
	}
	loc, series, err := s.load(ctx, q.LocationQuery)
	if err != nil {
		return BestPeriodsReport{}, err
	}

	periods, err := domain.BestPeriods(series, req)
	if err != nil {
		return BestPeriodsReport{}, err
	}

	s.logger.Info("analysis completed",
		"kind", KindBestPeriods,
		"lat", loc.Lat,
		"lon", loc.Lon,
		"criteria", len(req.Criteria),
		"ranked", len(periods),
	)
	return BestPeriodsReport{Location: loc, Criteria: req.Criteria, Periods: periods}, nil
}

// Geocode resolves a place name through the configured geocoder.
func (s *Service) Geocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	if s.geocoder == nil {
		return domain.GeocodingResult{}, ErrGeocodingDisabled
	}
	return s.geocoder.ForwardGeocode(ctx, query)
}

func (s *Service) load(ctx context.Context, q LocationQuery) (domain.Location, []domain.DailyRecord, error) {
	loc, err := s.resolve(ctx, q)
	if err != nil {
		return domain.Location{}, nil, err
	}

	series, err := s.fetcher.FetchDaily(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return domain.Location{}, nil, err
	}
	s.metrics.SeriesDays.Observe(float64(len(series)))
	return loc, series, nil
}

func (s *Service) resolve(ctx context.Context, q LocationQuery) (domain.Location, error) {
	switch {
	case q.Lat != nil && q.Lon != nil:
		loc := domain.Location{Lat: *q.Lat, Lon: *q.Lon, Name: q.Query}
		return loc, loc.Validate()
	case q.Lat != nil || q.Lon != nil:
		return domain.Location{}, &domain.ValidationError{Field: "lat/lon", Message: "both are required"}
	case q.Query == "":
		return domain.Location{}, &domain.ValidationError{Field: "location", Message: "give lat and lon or a place name"}
	}

	geo, err := s.Geocode(ctx, q.Query)
	if err != nil {
		return domain.Location{}, err
	}
	loc := domain.Location{Lat: geo.Lat, Lon: geo.Lon, Name: geo.FormattedAddress}
	return loc, loc.Validate()
}

func (s *Service) observe(kind string, start time.Time, err *error) {
	s.metrics.AnalysisDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	outcome := Outcome(*err)
	s.metrics.Analyses.WithLabelValues(kind, outcome).Inc()
	if *err != nil {
		s.logger.Warn("analysis failed", "kind", kind, "outcome", outcome, "error", *err)
	}
}

// Outcome classifies an analysis error for metrics and job headers.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMalformedInput):
		return "malformed"
	case errors.Is(err, domain.ErrNoDataForRange):
		return "no_data"
	case errors.Is(err, domain.ErrLocationNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrGeocodingDisabled):
		return "unavailable"
	default:
		return "error"
	}
}
