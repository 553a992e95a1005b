package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-stats-service/internal/domain"
	"github.com/couchcryptid/climate-stats-service/internal/observability"
)

// --- mocks ---

type fakeFetcher struct {
	series []domain.DailyRecord
	err    error
	calls  int
	lat    float64
	lon    float64
}

func (f *fakeFetcher) FetchDaily(_ context.Context, lat, lon float64) ([]domain.DailyRecord, error) {
	f.calls++
	f.lat, f.lon = lat, lon
	return f.series, f.err
}

type fakeGeocoder struct {
	result domain.GeocodingResult
	err    error
}

func (g *fakeGeocoder) ForwardGeocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	return g.result, g.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

// series returns every day of [from, to] with a 25°C high, 12°C low and dry
// weather.
func series(from, to int) []domain.DailyRecord {
	var out []domain.DailyRecord
	for d := time.Date(from, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() <= to; d = d.AddDate(0, 0, 1) {
		out = append(out, domain.DailyRecord{
			Date:          d,
			TempMaxC:      25 + float64(d.Year()-from),
			TempMinC:      12,
			WindMS:        3,
			HumidityPct:   55,
			PressureKPa:   100,
			IrradianceKWh: 6,
		})
	}
	return out
}

func newService(f domain.SeriesFetcher, g domain.Geocoder) (*Service, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return NewService(f, g, m, discardLogger()), m
}

// --- tests ---

func TestService_Stats(t *testing.T) {
	fetcher := &fakeFetcher{series: series(2015, 2024)}
	svc, metrics := newService(fetcher, nil)

	report, err := svc.Stats(context.Background(), StatsQuery{
		LocationQuery:   LocationQuery{Lat: ptr(40.0), Lon: ptr(-105.0)},
		RangeQuery:      RangeQuery{Month: ptr(7), Day: ptr(4)},
		Thresholds:      map[string]float64{"hot": 70},
		CombinedFactors: []string{"hot", "sunny"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Location{Lat: 40, Lon: -105}, report.Location)
	assert.Equal(t, 10, report.TotalDays)
	assert.Equal(t, 100, report.Probabilities[domain.Hot])
	assert.Equal(t, domain.Warming, report.Trend.Label)
	require.Len(t, report.Combined, 1)
	assert.Equal(t, 100, report.Combined[0].Probability)
	assert.Equal(t, 40.0, fetcher.lat)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Analyses.WithLabelValues(KindStats, "ok")))
}

func TestService_Stats_MalformedSkipsFetch(t *testing.T) {
	tests := []struct {
		name string
		q    StatsQuery
	}{
		{"no range", StatsQuery{LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)}}},
		{"two range forms", StatsQuery{
			LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
			RangeQuery:    RangeQuery{DayOfYear: ptr(5), Month: ptr(1), Day: ptr(5)},
		}},
		{"half a window", StatsQuery{
			LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
			RangeQuery:    RangeQuery{StartDayOfYear: ptr(5)},
		}},
		{"day out of range", StatsQuery{
			LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
			RangeQuery:    RangeQuery{DayOfYear: ptr(367)},
		}},
		{"bad date", StatsQuery{
			LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
			RangeQuery:    RangeQuery{StartDate: "2024-13-01", EndDate: "2024-12-31"},
		}},
		{"unknown threshold", StatsQuery{
			LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
			RangeQuery:    RangeQuery{DayOfYear: ptr(5)},
			Thresholds:    map[string]float64{"foggy": 1},
		}},
		{"snowy combined", StatsQuery{
			LocationQuery:   LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
			RangeQuery:      RangeQuery{DayOfYear: ptr(5)},
			CombinedFactors: []string{"hot", "snowy"},
		}},
		{"latitude out of range", StatsQuery{
			LocationQuery: LocationQuery{Lat: ptr(95.0), Lon: ptr(1.0)},
			RangeQuery:    RangeQuery{DayOfYear: ptr(5)},
		}},
		{"no location", StatsQuery{RangeQuery: RangeQuery{DayOfYear: ptr(5)}}},
		{"only latitude", StatsQuery{
			LocationQuery: LocationQuery{Lat: ptr(1.0)},
			RangeQuery:    RangeQuery{DayOfYear: ptr(5)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{series: series(2020, 2021)}
			svc, _ := newService(fetcher, nil)

			_, err := svc.Stats(context.Background(), tt.q)
			require.ErrorIs(t, err, domain.ErrMalformedInput)
			assert.Equal(t, 0, fetcher.calls)
		})
	}
}

func TestService_Stats_NoData(t *testing.T) {
	svc, metrics := newService(&fakeFetcher{series: series(2020, 2020)[:31]}, nil)

	_, err := svc.Stats(context.Background(), StatsQuery{
		LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
		RangeQuery:    RangeQuery{StartDate: "2021-06-01", EndDate: "2021-06-30"},
	})
	require.ErrorIs(t, err, domain.ErrNoDataForRange)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Analyses.WithLabelValues(KindStats, "no_data")))
}

func TestService_Stats_MonthDay(t *testing.T) {
	svc, _ := newService(&fakeFetcher{series: series(2001, 2004)}, nil)

	report, err := svc.Stats(context.Background(), StatsQuery{
		LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
		RangeQuery:    RangeQuery{Month: ptr(3), Day: ptr(1)},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalYears)
	dates := make([]string, 0, len(report.Daily))
	for _, d := range report.Daily {
		dates = append(dates, d.Date)
	}
	assert.Equal(t, []string{"2001-03-01", "2002-03-01", "2003-03-01", "2004-03-01"}, dates)
}

func TestService_Stats_UpstreamFailure(t *testing.T) {
	upstream := fmt.Errorf("%w: status 503", domain.ErrUpstream)
	svc, _ := newService(&fakeFetcher{err: upstream}, nil)

	_, err := svc.Stats(context.Background(), StatsQuery{
		LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
		RangeQuery:    RangeQuery{DayOfYear: ptr(1)},
	})
	require.ErrorIs(t, err, domain.ErrUpstream)
}

func TestService_Stats_PlaceName(t *testing.T) {
	fetcher := &fakeFetcher{series: series(2020, 2022)}
	geocoder := &fakeGeocoder{result: domain.GeocodingResult{Lat: 32.2, Lon: -110.9, FormattedAddress: "Tucson, Arizona"}}
	svc, _ := newService(fetcher, geocoder)

	report, err := svc.Stats(context.Background(), StatsQuery{
		LocationQuery: LocationQuery{Query: "Tucson"},
		RangeQuery:    RangeQuery{StartDayOfYear: ptr(350), EndDayOfYear: ptr(10)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tucson, Arizona", report.Location.Name)
	assert.Equal(t, 32.2, fetcher.lat)
	assert.Equal(t, -110.9, fetcher.lon)
}

func TestService_Stats_PlaceNameWithoutGeocoder(t *testing.T) {
	svc, _ := newService(&fakeFetcher{}, nil)

	_, err := svc.Stats(context.Background(), StatsQuery{
		LocationQuery: LocationQuery{Query: "Tucson"},
		RangeQuery:    RangeQuery{DayOfYear: ptr(1)},
	})
	require.ErrorIs(t, err, ErrGeocodingDisabled)
}

func TestService_Stats_PlaceNotFound(t *testing.T) {
	svc, _ := newService(&fakeFetcher{}, &fakeGeocoder{err: domain.ErrLocationNotFound})

	_, err := svc.Stats(context.Background(), StatsQuery{
		LocationQuery: LocationQuery{Query: "Atlantis"},
		RangeQuery:    RangeQuery{DayOfYear: ptr(1)},
	})
	require.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestService_BestPeriods(t *testing.T) {
	svc, metrics := newService(&fakeFetcher{series: series(2020, 2021)}, nil)

	report, err := svc.BestPeriods(context.Background(), SweepQuery{
		LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
		Criteria:      []string{"sunny", "no_rain"},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.Criterion{domain.CriterionSunny, domain.CriterionNoRain}, report.Criteria)
	require.Len(t, report.Periods, 5)
	assert.Equal(t, "Early January", report.Periods[0].Period)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Analyses.WithLabelValues(KindBestPeriods, "ok")))
}

func TestService_BestPeriods_InvalidCriterion(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc, _ := newService(fetcher, nil)

	_, err := svc.BestPeriods(context.Background(), SweepQuery{
		LocationQuery: LocationQuery{Lat: ptr(1.0), Lon: ptr(1.0)},
		Criteria:      []string{"breezy"},
	})
	require.ErrorIs(t, err, domain.ErrMalformedInput)
	assert.Equal(t, 0, fetcher.calls)
}

func TestRangeQuery_Spec(t *testing.T) {
	tests := []struct {
		name string
		q    RangeQuery
		want domain.RangeSpec
	}{
		{"day of year", RangeQuery{DayOfYear: ptr(200)}, domain.SingleDayRange(200)},
		{"window", RangeQuery{StartDayOfYear: ptr(350), EndDayOfYear: ptr(10)}, domain.DayRange(350, 10)},
		{"dates", RangeQuery{StartDate: "2023-12-20", EndDate: "2024-01-10"},
			domain.RangeSpec{Mode: domain.DateRange, StartDay: 355, EndDay: 10, Calendar: true}},
		{"leap day", RangeQuery{Month: ptr(2), Day: ptr(29)},
			domain.RangeSpec{Mode: domain.SingleDay, Day: 60, Calendar: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.q.Spec()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "malformed", Outcome(&domain.ValidationError{Field: "x"}))
	assert.Equal(t, "no_data", Outcome(domain.ErrNoDataForRange))
	assert.Equal(t, "not_found", Outcome(domain.ErrLocationNotFound))
	assert.Equal(t, "upstream", Outcome(fmt.Errorf("%w: boom", domain.ErrUpstream)))
	assert.Equal(t, "unavailable", Outcome(ErrGeocodingDisabled))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}
