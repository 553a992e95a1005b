package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-stats-service/internal/analysis"
	"github.com/couchcryptid/climate-stats-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Result message headers.
const (
	HeaderKind        = "kind"
	HeaderOutcome     = "outcome"
	HeaderProcessedAt = "processed_at"
)

// Runner executes analyses. *analysis.Service implements it.
type Runner interface {
	Stats(ctx context.Context, q analysis.StatsQuery) (analysis.StatsReport, error)
	BestPeriods(ctx context.Context, q analysis.SweepQuery) (analysis.BestPeriodsReport, error)
}

// JobTransformer implements Transformer by running each job through a Runner.
type JobTransformer struct {
	runner Runner
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewTransformer creates a JobTransformer.
func NewTransformer(runner Runner, clock clockwork.Clock, logger *slog.Logger) *JobTransformer {
	return &JobTransformer{
		runner: runner,
		clock:  clock,
		logger: logger,
	}
}

// Transform decodes the job, runs it and serializes the outcome. Only an
// undecodable message is an error; a failed analysis becomes an error result.
func (t *JobTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	job, err := DecodeJob(raw.Key, raw.Value)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	result := JobResult{ID: job.ID, Kind: job.Kind}
	switch job.Kind {
	case analysis.KindStats:
		result.Result, err = t.runner.Stats(ctx, job.StatsQuery())
	case analysis.KindBestPeriods:
		result.Result, err = t.runner.BestPeriods(ctx, job.SweepQuery())
	}

	outcome := "ok"
	if err != nil {
		if ctx.Err() != nil {
			return domain.OutputEvent{}, ctx.Err()
		}
		outcome = "error"
		result.Result = nil
		result.Error = err.Error()
		t.logger.Info("job failed", "id", job.ID, "kind", job.Kind, "reason", analysis.Outcome(err))
	}

	data, err := json.Marshal(result)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("serialize job result: %w", err)
	}

	return domain.OutputEvent{
		Key:   []byte(job.ID),
		Value: data,
		Headers: map[string]string{
			HeaderKind:        job.Kind,
			HeaderOutcome:     outcome,
			HeaderProcessedAt: t.clock.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
