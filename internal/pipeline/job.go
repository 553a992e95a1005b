package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/climate-stats-service/internal/analysis"
	"github.com/google/uuid"
)

// Job is an analysis request read from the job topic. Kind selects which of
// the query fields apply.
type Job struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	analysis.LocationQuery
	analysis.RangeQuery
	Thresholds      map[string]float64 `json:"thresholds,omitempty"`
	CombinedFactors []string           `json:"combined_factors,omitempty"`
	Criteria        []string           `json:"criteria,omitempty"`
}

// StatsQuery returns the job as a statistics query.
func (j Job) StatsQuery() analysis.StatsQuery {
	return analysis.StatsQuery{
		LocationQuery:   j.LocationQuery,
		RangeQuery:      j.RangeQuery,
		Thresholds:      j.Thresholds,
		CombinedFactors: j.CombinedFactors,
	}
}

// SweepQuery returns the job as a best-period query.
func (j Job) SweepQuery() analysis.SweepQuery {
	return analysis.SweepQuery{
		LocationQuery: j.LocationQuery,
		Criteria:      j.Criteria,
		Thresholds:    j.Thresholds,
	}
}

// JobResult is published for every decoded job. Exactly one of Result and
// Error is set.
type JobResult struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DecodeJob parses a job message. The message key, then a fresh UUID, stands
// in for a missing ID.
func DecodeJob(key, value []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(value, &job); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	switch job.Kind {
	case analysis.KindStats, analysis.KindBestPeriods:
	default:
		return Job{}, fmt.Errorf("decode job: unknown kind %q", job.Kind)
	}
	if job.ID == "" {
		job.ID = string(key)
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	return job, nil
}
