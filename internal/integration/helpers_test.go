//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/climate-stats-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("climate-stats-test"))
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// staticFetcher serves the same synthetic series for every point.
type staticFetcher struct {
	series []domain.DailyRecord
}

func (f staticFetcher) FetchDaily(_ context.Context, _, _ float64) ([]domain.DailyRecord, error) {
	return f.series, nil
}

// syntheticSeries covers 2015-2024 with a high rising 0.2°C per year.
func syntheticSeries() []domain.DailyRecord {
	var out []domain.DailyRecord
	for d := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() <= 2024; d = d.AddDate(0, 0, 1) {
		out = append(out, domain.DailyRecord{
			Date:          d,
			TempMaxC:      28 + 0.2*float64(d.Year()-2015),
			TempMinC:      15,
			PrecipMM:      0,
			WindMS:        3,
			HumidityPct:   50,
			PressureKPa:   101,
			IrradianceKWh: 7,
			SnowDepthMM:   0,
		})
	}
	return out
}
