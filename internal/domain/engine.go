package domain

import "errors"

// AnalysisRequest is the full parameter set of one Analyze call.
type AnalysisRequest struct {
	Range           RangeSpec             `json:"range"`
	Thresholds      map[Condition]float64 `json:"thresholds,omitempty"`
	CombinedFactors []Condition           `json:"combined_factors,omitempty"`
}

// Validate checks the range and combined factors and resolves the thresholds.
func (r AnalysisRequest) Validate() (Thresholds, error) {
	if err := r.Range.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateCombinedFactors(r.CombinedFactors); err != nil {
		return nil, err
	}
	return ResolveThresholds(r.Thresholds)
}

// Degraded sections.
const (
	SectionTrend        = "trend"
	SectionDistribution = "distribution"
)

// StatsResult is the statistics bundle for one location and range.
type StatsResult struct {
	TotalDays     int                   `json:"total_days_analyzed"`
	TotalYears    int                   `json:"total_years_analyzed"`
	Range         RangeSpec             `json:"range"`
	Thresholds    Thresholds            `json:"thresholds"`
	Probabilities map[Condition]int     `json:"probabilities"`
	Averages      Averages              `json:"averages"`
	Records       Records               `json:"records"`
	Trend         Trend                 `json:"trend"`
	ChartData     ChartData             `json:"chart_data"`
	AnnualSeries  []AnnualPoint         `json:"annual_series"`
	Distribution  *Distribution         `json:"distribution,omitempty"`
	Combined      []CombinedProbability `json:"combined_probabilities,omitempty"`
	Daily         []DailyExport         `json:"full_time_series"`
	Degraded      []Degradation         `json:"degraded,omitempty"`
}

// Analyze runs the statistics pipeline over a raw series. Malformed requests
// are rejected before any computation; an empty selection returns
// ErrNoDataForRange. Trend and distribution failures never fail the call and
// are listed in Degraded instead.
func Analyze(series []DailyRecord, req AnalysisRequest) (StatsResult, error) {
	thresholds, err := req.Validate()
	if err != nil {
		return StatsResult{}, err
	}

	selected, err := SelectRange(DeriveAll(series), req.Range)
	if err != nil {
		return StatsResult{}, err
	}

	annual := AnnualSeries(selected)
	result := StatsResult{
		TotalDays:     len(selected),
		TotalYears:    len(annual),
		Range:         req.Range,
		Thresholds:    thresholds,
		Probabilities: Probabilities(selected, thresholds),
		Averages:      ComputeAverages(selected),
		Records:       Extremes(selected),
		AnnualSeries:  annual,
		ChartData:     ChartFromAnnual(annual),
		Daily:         ExportDaily(selected),
	}

	trend, err := AnalyzeTrend(selected)
	result.Trend = trend
	result.degrade(SectionTrend, err)

	dist, err := EstimateDensity(finiteValues(selected, tempMaxF))
	if err == nil {
		result.Distribution = &dist
	}
	result.degrade(SectionDistribution, err)

	if combined, ok := Combine(selected, req.CombinedFactors, thresholds); ok {
		result.Combined = []CombinedProbability{combined}
	}

	return result, nil
}

func (r *StatsResult) degrade(section string, err error) {
	if err == nil || !errors.Is(err, ErrInsufficientSample) {
		return
	}
	r.Degraded = append(r.Degraded, Degradation{Section: section, Reason: err.Error()})
}

// BestPeriods derives the full series and runs the period sweep over it.
func BestPeriods(series []DailyRecord, req SweepRequest) ([]PeriodScore, error) {
	return FindBestPeriods(DeriveAll(series), req)
}
