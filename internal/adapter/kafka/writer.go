package kafka

import (
	"context"
	"sort"

	"github.com/couchcryptid/climate-stats-service/internal/config"
	"github.com/couchcryptid/climate-stats-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces result messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
}

// NewWriter creates a Kafka producer for the configured sink topic. Results
// are keyed by job ID, so the hash balancer keeps one job's results on one
// partition.
func NewWriter(cfg *config.Config) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w}
}

// LoadBatch publishes the results in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = mapOutputEventToMessage(events[i])
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// mapOutputEventToMessage converts an OutputEvent into a Kafka message with
// headers in key order.
func mapOutputEventToMessage(event domain.OutputEvent) kafkago.Message {
	keys := make([]string, 0, len(event.Headers))
	for k := range event.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(event.Headers[k])})
	}
	return kafkago.Message{
		Key:     event.Key,
		Value:   event.Value,
		Headers: headers,
	}
}
