// Command climatestats serves the climate statistics HTTP API and, when
// KAFKA_ENABLED is set, runs the asynchronous analysis job pipeline.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/climate-stats-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-stats-service/internal/adapter/kafka"
	"github.com/couchcryptid/climate-stats-service/internal/adapter/mapbox"
	"github.com/couchcryptid/climate-stats-service/internal/adapter/power"
	"github.com/couchcryptid/climate-stats-service/internal/analysis"
	"github.com/couchcryptid/climate-stats-service/internal/config"
	"github.com/couchcryptid/climate-stats-service/internal/domain"
	"github.com/couchcryptid/climate-stats-service/internal/observability"
	"github.com/couchcryptid/climate-stats-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

// alwaysReady is the readiness check when no pipeline runs.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	fetcher := power.NewClient(cfg, clock, metrics, logger)
	svc := analysis.NewService(fetcher, geocoder, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ready httpadapter.ReadinessChecker = alwaysReady{}
	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer
	pipelineDone := make(chan struct{})

	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg)
		transformer := pipeline.NewTransformer(svc, clock, logger)
		p := pipeline.New(reader, transformer, writer, clock, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			defer close(pipelineDone)
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		close(pipelineDone)
		logger.Info("kafka job pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, svc, cfg.CORSAllowedOrigins, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
