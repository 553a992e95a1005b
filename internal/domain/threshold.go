package domain

import (
	"math"
	"strings"
)

// Condition names a weather condition evaluated against a threshold.
type Condition string

const (
	Hot           Condition = "hot"
	Cold          Condition = "cold"
	Windy         Condition = "windy"
	Wet           Condition = "wet"
	Humid         Condition = "humid"
	Sunny         Condition = "sunny"
	Snowy         Condition = "snowy"
	Uncomfortable Condition = "uncomfortable"
)

// Conditions lists every condition in reporting order.
var Conditions = []Condition{Hot, Cold, Windy, Wet, Humid, Sunny, Snowy, Uncomfortable}

// conditionRule fixes the measured field and comparison direction of a
// condition. below means "less than threshold"; otherwise "greater than".
type conditionRule struct {
	value        measure
	below        bool
	defaultValue float64
	minValue     float64
	maxValue     float64
	combinable   bool
}

var conditionRules = map[Condition]conditionRule{
	Hot:           {value: tempMaxF, defaultValue: 90, minValue: math.Inf(-1), maxValue: math.Inf(1), combinable: true},
	Cold:          {value: tempMinF, below: true, defaultValue: 32, minValue: math.Inf(-1), maxValue: math.Inf(1), combinable: true},
	Windy:         {value: windMPH, defaultValue: 15, maxValue: math.Inf(1), combinable: true},
	Wet:           {value: precipIn, defaultValue: 0.4, maxValue: math.Inf(1), combinable: true},
	Humid:         {value: humidity, defaultValue: 75, maxValue: 100, combinable: true},
	Sunny:         {value: irradiance, defaultValue: 5.0, maxValue: math.Inf(1), combinable: true},
	Snowy:         {value: snowDepthMM, defaultValue: 1.0, maxValue: math.Inf(1)},
	Uncomfortable: {value: heatIndexF, defaultValue: 95, minValue: math.Inf(-1), maxValue: math.Inf(1)},
}

// ParseCondition validates a condition name.
func ParseCondition(name string) (Condition, error) {
	c := Condition(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := conditionRules[c]; !ok {
		return "", invalid("condition", name, "unknown condition")
	}
	return c, nil
}

// Thresholds maps every condition to its active threshold.
type Thresholds map[Condition]float64

// DefaultThresholds returns the built-in thresholds: hot 90°F, cold 32°F,
// windy 15 mph, wet 0.4 in, humid 75%, sunny 5.0 kWh/m², snowy 1.0 mm,
// uncomfortable 95°F.
func DefaultThresholds() Thresholds {
	t := make(Thresholds, len(conditionRules))
	for c, rule := range conditionRules {
		t[c] = rule.defaultValue
	}
	return t
}

// ResolveThresholds overlays overrides on the defaults. Only the named entries
// change. Unknown names and values outside a condition's domain are rejected.
func ResolveThresholds(overrides map[Condition]float64) (Thresholds, error) {
	t := DefaultThresholds()
	for c, v := range overrides {
		rule, ok := conditionRules[c]
		if !ok {
			return nil, invalid("threshold", c, "unknown condition")
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalid("threshold "+string(c), v, "must be a finite number")
		}
		if v < rule.minValue || v > rule.maxValue {
			return nil, invalid("threshold "+string(c), v, "out of range")
		}
		t[c] = v
	}
	return t, nil
}

// Exceeds reports whether a record crosses the condition's threshold in its
// fixed direction. NaN never exceeds.
func (t Thresholds) Exceeds(c Condition, r DerivedDailyRecord) bool {
	rule, ok := conditionRules[c]
	if !ok {
		return false
	}
	v := rule.value(r)
	if rule.below {
		return v < t[c]
	}
	return v > t[c]
}

// ConditionMask evaluates one condition for every record.
func ConditionMask(records []DerivedDailyRecord, c Condition, t Thresholds) []bool {
	mask := make([]bool, len(records))
	for i, r := range records {
		mask[i] = t.Exceeds(c, r)
	}
	return mask
}

// Percentage is round(count / total × 100) with round-half-to-even.
// A zero total yields 0.
func Percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(count) / float64(total) * 100))
}

func countTrue(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}

// Probabilities returns the exceedance percentage of every condition.
func Probabilities(records []DerivedDailyRecord, t Thresholds) map[Condition]int {
	out := make(map[Condition]int, len(Conditions))
	for _, c := range Conditions {
		out[c] = Percentage(countTrue(ConditionMask(records, c, t)), len(records))
	}
	return out
}

// CombinedProbability is the share of days on which every listed condition
// held at once.
type CombinedProbability struct {
	Factors     []Condition `json:"factors"`
	Probability int         `json:"probability"`
}

// ValidateCombinedFactors accepts names from hot, cold, windy, wet, humid and
// sunny, each at most once.
func ValidateCombinedFactors(factors []Condition) error {
	seen := make(map[Condition]bool, len(factors))
	for _, f := range factors {
		rule, ok := conditionRules[f]
		if !ok || !rule.combinable {
			return invalid("combined factor", f, "must be one of hot, cold, windy, wet, humid, sunny")
		}
		if seen[f] {
			return invalid("combined factor", f, "listed more than once")
		}
		seen[f] = true
	}
	return nil
}

// Combine ANDs the factors' masks day by day and returns the matching share.
// Fewer than two factors produce no entry (ok is false).
func Combine(records []DerivedDailyRecord, factors []Condition, t Thresholds) (CombinedProbability, bool) {
	if len(factors) < 2 {
		return CombinedProbability{}, false
	}

	matched := 0
	for _, r := range records {
		all := true
		for _, f := range factors {
			if !t.Exceeds(f, r) {
				all = false
				break
			}
		}
		if all {
			matched++
		}
	}

	return CombinedProbability{
		Factors:     append([]Condition(nil), factors...),
		Probability: Percentage(matched, len(records)),
	}, true
}
