package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-stats-service/internal/config"
	"github.com/couchcryptid/climate-stats-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageSource is the part of *kafkago.Reader the Reader drives.
type messageSource interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Reader consumes job messages from a Kafka topic as part of a consumer group.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader        messageSource
	flushInterval time.Duration
	logger        *slog.Logger
}

// NewReader creates a consumer-group reader for the configured source topic.
// Offsets are committed explicitly through RawEvent.Commit.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		GroupID:     cfg.KafkaGroupID,
		Topic:       cfg.KafkaSourceTopic,
		StartOffset: kafkago.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Reader{reader: r, flushInterval: cfg.BatchFlushInterval, logger: logger}
}

// ExtractBatch collects up to batchSize messages, waiting at most one flush
// interval. An empty batch means nothing arrived in time. Messages fetched
// before a fetch error are returned without the error; the fetch position has
// already passed them, so the next call reports the error instead.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.flushInterval)
	defer cancel()

	batch := make([]domain.RawEvent, 0, batchSize)
	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(fetchCtx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if len(batch) > 0 {
				r.logger.Warn("fetch failed mid-batch, returning partial batch", "error", err, "size", len(batch))
				break
			}
			return nil, err
		}
		raw := mapMessageToRawEvent(msg)
		raw.Commit = r.commitFunc(msg)
		batch = append(batch, raw)
	}

	if len(batch) > 0 {
		r.logger.Debug("batch extracted", "size", len(batch))
	}
	return batch, nil
}

// Close leaves the consumer group and releases the connection.
func (r *Reader) Close() error {
	return r.reader.Close()
}

func (r *Reader) commitFunc(msg kafkago.Message) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
}

// mapMessageToRawEvent copies a Kafka message into the transport-neutral form.
func mapMessageToRawEvent(msg kafkago.Message) domain.RawEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
