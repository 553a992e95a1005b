package main

import (
	"context"
	"fmt"
	"os"

	"github.com/couchcryptid/climate-stats-service/internal/adapter/mapbox"
	"github.com/couchcryptid/climate-stats-service/internal/adapter/power"
	"github.com/couchcryptid/climate-stats-service/internal/analysis"
	"github.com/couchcryptid/climate-stats-service/internal/config"
	"github.com/couchcryptid/climate-stats-service/internal/domain"
	"github.com/couchcryptid/climate-stats-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// locationFlags selects the point and where its series comes from.
type locationFlags struct {
	lat        float64
	lon        float64
	place      string
	seriesFile string
}

func (f *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "longitude in decimal degrees")
	cmd.Flags().StringVar(&f.place, "location", "", "place name resolved through Mapbox (needs MAPBOX_TOKEN)")
	cmd.Flags().StringVar(&f.seriesFile, "series-file", "", "saved POWER daily point JSON response to analyze instead of fetching")
}

// query builds the location part of a request. A series file needs no
// coordinates; its point defaults to 0,0 for labelling.
func (f *locationFlags) query(cmd *cobra.Command) analysis.LocationQuery {
	changed := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
	if f.place != "" && !changed {
		return analysis.LocationQuery{Query: f.place}
	}
	if !changed && f.seriesFile == "" {
		return analysis.LocationQuery{}
	}
	lat, lon := f.lat, f.lon
	return analysis.LocationQuery{Lat: &lat, Lon: &lon, Query: f.place}
}

// fileFetcher serves one saved series for every point.
type fileFetcher struct {
	path string
}

func (f fileFetcher) FetchDaily(_ context.Context, _, _ float64) ([]domain.DailyRecord, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open series file: %w", err)
	}
	defer file.Close()

	records, err := power.ParseResponse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return records, nil
}

// newService wires the analysis service the same way the server does, with the
// series file replacing the POWER client when given.
func newService(f *locationFlags) (*analysis.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := observability.NewStderrLogger(cfg)
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())

	var fetcher domain.SeriesFetcher = fileFetcher{path: f.seriesFile}
	if f.seriesFile == "" {
		fetcher = power.NewClient(cfg, clockwork.NewRealClock(), metrics, logger)
	}

	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		geocoder = mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
	}
	return analysis.NewService(fetcher, geocoder, metrics, logger), nil
}
