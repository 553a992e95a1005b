package analysis

import (
	"time"

	"github.com/couchcryptid/climate-stats-service/internal/domain"
)

const isoDate = "2006-01-02"

// LocationQuery names the point to analyze, either as coordinates or as a
// free-text place resolved through the geocoder. Coordinates win when both
// are present.
type LocationQuery struct {
	Lat   *float64 `json:"lat,omitempty"`
	Lon   *float64 `json:"lon,omitempty"`
	Query string   `json:"location,omitempty"`
}

// RangeQuery accepts the range in one of three forms: day-of-year values,
// calendar dates, or a month/day pair.
type RangeQuery struct {
	DayOfYear      *int   `json:"day_of_year,omitempty"`
	StartDayOfYear *int   `json:"start_day_of_year,omitempty"`
	EndDayOfYear   *int   `json:"end_day_of_year,omitempty"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	Month          *int   `json:"month,omitempty"`
	Day            *int   `json:"day,omitempty"`
}

// Spec converts the query to a domain range. Exactly one form must be given,
// and each form needs both of its fields.
func (q RangeQuery) Spec() (domain.RangeSpec, error) {
	forms := 0
	for _, set := range []bool{
		q.DayOfYear != nil,
		q.StartDayOfYear != nil || q.EndDayOfYear != nil,
		q.StartDate != "" || q.EndDate != "",
		q.Month != nil || q.Day != nil,
	} {
		if set {
			forms++
		}
	}
	if forms != 1 {
		return domain.RangeSpec{}, &domain.ValidationError{
			Field:   "range",
			Message: "give exactly one of day_of_year, start_day_of_year/end_day_of_year, start_date/end_date, month/day",
		}
	}

	var spec domain.RangeSpec
	switch {
	case q.DayOfYear != nil:
		spec = domain.SingleDayRange(*q.DayOfYear)
	case q.StartDayOfYear != nil || q.EndDayOfYear != nil:
		if q.StartDayOfYear == nil || q.EndDayOfYear == nil {
			return domain.RangeSpec{}, missing("start_day_of_year/end_day_of_year")
		}
		spec = domain.DayRange(*q.StartDayOfYear, *q.EndDayOfYear)
	case q.StartDate != "" || q.EndDate != "":
		start, err := parseDate("start_date", q.StartDate)
		if err != nil {
			return domain.RangeSpec{}, err
		}
		end, err := parseDate("end_date", q.EndDate)
		if err != nil {
			return domain.RangeSpec{}, err
		}
		spec = domain.RangeFromDates(start, end)
	default:
		if q.Month == nil || q.Day == nil {
			return domain.RangeSpec{}, missing("month/day")
		}
		var err error
		if spec, err = domain.RangeFromMonthDay(*q.Month, *q.Day); err != nil {
			return domain.RangeSpec{}, err
		}
	}
	return spec, spec.Validate()
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, missing(field)
	}
	t, err := time.Parse(isoDate, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Value: value, Message: "must be YYYY-MM-DD"}
	}
	return t, nil
}

func missing(field string) error {
	return &domain.ValidationError{Field: field, Message: "is required"}
}

// StatsQuery is the transport form of a statistics request.
type StatsQuery struct {
	LocationQuery
	RangeQuery
	Thresholds      map[string]float64 `json:"thresholds,omitempty"`
	CombinedFactors []string           `json:"combined_factors,omitempty"`
}

// Request parses names and validates the query into an engine request.
func (q StatsQuery) Request() (domain.AnalysisRequest, error) {
	spec, err := q.Spec()
	if err != nil {
		return domain.AnalysisRequest{}, err
	}
	thresholds, err := parseThresholds(q.Thresholds)
	if err != nil {
		return domain.AnalysisRequest{}, err
	}

	factors := make([]domain.Condition, 0, len(q.CombinedFactors))
	for _, name := range q.CombinedFactors {
		c, err := domain.ParseCondition(name)
		if err != nil {
			return domain.AnalysisRequest{}, err
		}
		factors = append(factors, c)
	}

	req := domain.AnalysisRequest{Range: spec, Thresholds: thresholds, CombinedFactors: factors}
	if _, err := req.Validate(); err != nil {
		return domain.AnalysisRequest{}, err
	}
	return req, nil
}

// SweepQuery is the transport form of a best-period search.
type SweepQuery struct {
	LocationQuery
	Criteria   []string           `json:"criteria"`
	Thresholds map[string]float64 `json:"thresholds,omitempty"`
}

// Request parses names and validates the query into a sweep request.
func (q SweepQuery) Request() (domain.SweepRequest, error) {
	thresholds, err := parseThresholds(q.Thresholds)
	if err != nil {
		return domain.SweepRequest{}, err
	}

	criteria := make([]domain.Criterion, 0, len(q.Criteria))
	for _, name := range q.Criteria {
		c, err := domain.ParseCriterion(name)
		if err != nil {
			return domain.SweepRequest{}, err
		}
		criteria = append(criteria, c)
	}

	req := domain.SweepRequest{Criteria: criteria, Thresholds: thresholds}
	if _, err := req.Validate(); err != nil {
		return domain.SweepRequest{}, err
	}
	return req, nil
}

func parseThresholds(in map[string]float64) (map[domain.Condition]float64, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[domain.Condition]float64, len(in))
	for name, v := range in {
		c, err := domain.ParseCondition(name)
		if err != nil {
			return nil, err
		}
		out[c] = v
	}
	return out, nil
}
