// Package pipeline runs analysis jobs consumed from a message source and
// publishes their results.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/couchcryptid/climate-stats-service/internal/domain"
	"github.com/couchcryptid/climate-stats-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// BatchExtractor reads up to batchSize raw job messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer runs one job message and returns the result message.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes result messages to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

const (
	initialRetryWait = 200 * time.Millisecond
	maxRetryWait     = 5 * time.Second
)

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
	retry       *backoff.ExponentialBackOff
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = initialRetryWait
	retry.MaxInterval = maxRetryWait
	retry.Multiplier = 2
	retry.MaxElapsedTime = 0
	retry.RandomizationFactor = 0
	retry.Clock = clock
	retry.Reset()

	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		retry:       retry,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has published at least one
// result.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published any results yet")
	}
	return nil
}

// Ready reports whether a batch has been loaded.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context) bool {
	start := p.clock.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		if len(rawBatch) == 0 {
			p.logger.Error("extract batch failed", "error", err)
			return p.waitOrStop(ctx)
		}
		p.logger.Warn("extract batch failed after partial fetch, processing fetched messages",
			"error", err, "batch_size", len(rawBatch))
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	p.retry.Reset()

	loaded, ok := p.transformAndLoad(ctx, rawBatch)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(p.clock.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// transformAndLoad runs each job in the batch, loads the results, and commits
// offsets in fetch order once the load succeeds. Undecodable messages are
// dropped but committed with the rest; nothing is committed once the context
// ends. Returns the number of loaded results and false if the pipeline should
// stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawEvent) (int, bool) {
	outBatch := make([]domain.OutputEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil && ctx.Err() != nil {
			return 0, false
		}
		if err != nil {
			p.logger.Warn("transform failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			continue
		}
		outBatch = append(outBatch, out)
	}

	if len(outBatch) > 0 {
		// The fetch position is already past this batch, so a failed load is
		// retried until it succeeds or the pipeline stops.
		for {
			err := p.loader.LoadBatch(ctx, outBatch)
			if err == nil {
				break
			}
			p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
			if !p.waitOrStop(ctx) {
				return 0, false
			}
		}
		p.retry.Reset()
		p.metrics.MessagesProduced.Add(float64(len(outBatch)))
	}

	for _, raw := range rawBatch {
		p.commitOffset(ctx, raw)
	}

	return len(outBatch), true
}

// waitOrStop sleeps for the next backoff interval. Returns false if the
// context ends first.
func (p *Pipeline) waitOrStop(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	wait := p.retry.NextBackOff()
	select {
	case <-ctx.Done():
		return false
	case <-p.clock.After(wait):
		return true
	}
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
