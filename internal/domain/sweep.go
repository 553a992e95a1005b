package domain

import (
	"sort"
	"strings"
	"time"
)

// Period is a named inclusive day-of-year window of the sweep partition.
type Period struct {
	Name     string
	StartDay int
	EndDay   int
}

// Range returns the period as a DateRange spec.
func (p Period) Range() RangeSpec {
	return DayRange(p.StartDay, p.EndDay)
}

// YearPeriods splits every month of the reference leap year into days 1–15
// and 16–end. The 24 windows cover days 1–366 exactly once and none wraps.
// Periods match records by day-of-year, so the names are exact only in leap
// years: from March on, a non-leap year's window starts one calendar day late
// ("Early March" is Mar 2 to Mar 16) and Late February ends on Mar 1.
var YearPeriods = buildYearPeriods()

func buildYearPeriods() []Period {
	periods := make([]Period, 0, 24)
	for m := time.January; m <= time.December; m++ {
		first := time.Date(referenceYear, m, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		periods = append(periods,
			Period{Name: "Early " + m.String(), StartDay: first.YearDay(), EndDay: first.YearDay() + 14},
			Period{Name: "Late " + m.String(), StartDay: first.YearDay() + 15, EndDay: last.YearDay()},
		)
	}
	return periods
}

// Criterion names a favorable-day predicate used by the sweep.
type Criterion string

const (
	CriterionSunny    Criterion = "sunny"
	CriterionNotHot   Criterion = "not_hot"
	CriterionNotCold  Criterion = "not_cold"
	CriterionNotWindy Criterion = "not_windy"
	CriterionNotHumid Criterion = "not_humid"
	CriterionNoRain   Criterion = "no_rain"
	CriterionNoSnow   Criterion = "no_snow"
)

const (
	noRainCutoffIn = 0.01
	noSnowCutoffMM = 0.1
)

// Each predicate is a direct comparison so a missing value is never favorable.
var criterionRules = map[Criterion]func(Thresholds, DerivedDailyRecord) bool{
	CriterionSunny:    func(t Thresholds, r DerivedDailyRecord) bool { return r.IrradianceKWh > t[Sunny] },
	CriterionNotHot:   func(t Thresholds, r DerivedDailyRecord) bool { return r.TempMaxF <= t[Hot] },
	CriterionNotCold:  func(t Thresholds, r DerivedDailyRecord) bool { return r.TempMinF >= t[Cold] },
	CriterionNotWindy: func(t Thresholds, r DerivedDailyRecord) bool { return r.WindMPH <= t[Windy] },
	CriterionNotHumid: func(t Thresholds, r DerivedDailyRecord) bool { return r.HumidityPct <= t[Humid] },
	CriterionNoRain:   func(_ Thresholds, r DerivedDailyRecord) bool { return r.PrecipIn < noRainCutoffIn },
	CriterionNoSnow:   func(_ Thresholds, r DerivedDailyRecord) bool { return r.SnowDepthMM < noSnowCutoffMM },
}

// ParseCriterion validates a criterion name.
func ParseCriterion(name string) (Criterion, error) {
	c := Criterion(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := criterionRules[c]; !ok {
		return "", invalid("criterion", name, "unknown criterion")
	}
	return c, nil
}

// ValidateCriteria rejects unknown and repeated criteria.
func ValidateCriteria(criteria []Criterion) error {
	seen := make(map[Criterion]bool, len(criteria))
	for _, c := range criteria {
		if _, ok := criterionRules[c]; !ok {
			return invalid("criterion", c, "unknown criterion")
		}
		if seen[c] {
			return invalid("criterion", c, "listed more than once")
		}
		seen[c] = true
	}
	return nil
}

// PeriodScore is one ranked sweep window.
type PeriodScore struct {
	Period   string `json:"period"`
	Score    int    `json:"score"`
	StartDay int    `json:"start_day"`
	EndDay   int    `json:"end_day"`
}

// SweepRequest holds the favorable criteria and threshold overrides of a
// best-period search.
type SweepRequest struct {
	Criteria   []Criterion           `json:"criteria"`
	Thresholds map[Condition]float64 `json:"thresholds,omitempty"`
}

// Validate checks the criteria and resolves the thresholds.
func (r SweepRequest) Validate() (Thresholds, error) {
	if err := ValidateCriteria(r.Criteria); err != nil {
		return nil, err
	}
	return ResolveThresholds(r.Thresholds)
}

const maxRankedPeriods = 5

// ScorePeriod returns the percentage of the period's days on which every
// criterion holds. No criteria or no days score 0.
func ScorePeriod(records []DerivedDailyRecord, p Period, criteria []Criterion, t Thresholds) int {
	if len(criteria) == 0 {
		return 0
	}
	days, err := SelectRange(records, p.Range())
	if err != nil {
		return 0
	}

	matched := 0
	for _, r := range days {
		all := true
		for _, c := range criteria {
			if !criterionRules[c](t, r) {
				all = false
				break
			}
		}
		if all {
			matched++
		}
	}
	return Percentage(matched, len(days))
}

// FindBestPeriods scores every period of YearPeriods and returns at most five
// with a positive score, highest first. Ties keep partition order.
func FindBestPeriods(records []DerivedDailyRecord, req SweepRequest) ([]PeriodScore, error) {
	t, err := req.Validate()
	if err != nil {
		return nil, err
	}

	scores := make([]PeriodScore, 0, len(YearPeriods))
	for _, p := range YearPeriods {
		s := ScorePeriod(records, p, req.Criteria, t)
		if s == 0 {
			continue
		}
		scores = append(scores, PeriodScore{Period: p.Name, Score: s, StartDay: p.StartDay, EndDay: p.EndDay})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > maxRankedPeriods {
		scores = scores[:maxRankedPeriods]
	}
	return scores, nil
}

