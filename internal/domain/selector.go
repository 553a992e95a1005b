package domain

import (
	"fmt"
	"time"
)

const (
	minDayOfYear = 1
	maxDayOfYear = 366
)

// referenceYear is the leap year used to map month/day pairs and the sweep
// partition onto day-of-year, so that every day 1–366 has a calendar date.
const referenceYear = 2000

// RangeMode selects how a RangeSpec matches days.
type RangeMode int

const (
	// SingleDay matches one day-of-year in every year.
	SingleDay RangeMode = iota + 1
	// DateRange matches an inclusive start/end day-of-year window, which wraps
	// the year boundary when start > end.
	DateRange
)

func (m RangeMode) String() string {
	switch m {
	case SingleDay:
		return "single_day"
	case DateRange:
		return "date_range"
	default:
		return "unknown"
	}
}

// MarshalText encodes the mode as its string name.
func (m RangeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name produced by MarshalText.
func (m *RangeMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "single_day":
		*m = SingleDay
	case "date_range":
		*m = DateRange
	default:
		return invalid("range mode", string(text), "must be single_day or date_range")
	}
	return nil
}

// RangeSpec is a sub-year window expressed in day-of-year. When Calendar is
// set the days are positions on the reference calendar and records match by
// their month and day instead of their own year's day-of-year.
type RangeSpec struct {
	Mode     RangeMode `json:"mode"`
	Day      int       `json:"day_of_year,omitempty"`
	StartDay int       `json:"start_day_of_year,omitempty"`
	EndDay   int       `json:"end_day_of_year,omitempty"`
	Calendar bool      `json:"calendar,omitempty"`
}

// SingleDayRange selects one day-of-year across all years.
func SingleDayRange(day int) RangeSpec {
	return RangeSpec{Mode: SingleDay, Day: day}
}

// DayRange selects the inclusive window start..end, wrapping when start > end.
func DayRange(start, end int) RangeSpec {
	return RangeSpec{Mode: DateRange, StartDay: start, EndDay: end}
}

// ReferenceDay returns the position of t's month and day on the 366-day
// reference calendar. Mar 1 is day 61 in every year.
func ReferenceDay(t time.Time) int {
	return time.Date(referenceYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).YearDay()
}

// RangeFromDates converts two calendar dates to a calendar window from the
// start month/day to the end month/day. The years themselves are ignored.
func RangeFromDates(start, end time.Time) RangeSpec {
	r := DayRange(ReferenceDay(start), ReferenceDay(end))
	r.Calendar = true
	return r
}

// RangeFromMonthDay selects one calendar month/day in every year. Feb 29 only
// matches leap years.
func RangeFromMonthDay(month, day int) (RangeSpec, error) {
	if month < 1 || month > 12 {
		return RangeSpec{}, invalid("month", month, "must be between 1 and 12")
	}
	t := time.Date(referenceYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Month() != time.Month(month) {
		return RangeSpec{}, invalid("day", day, fmt.Sprintf("does not exist in %s", time.Month(month)))
	}
	r := SingleDayRange(t.YearDay())
	r.Calendar = true
	return r, nil
}

// Validate rejects modes and days outside 1–366.
func (r RangeSpec) Validate() error {
	switch r.Mode {
	case SingleDay:
		return validateDayOfYear("day_of_year", r.Day)
	case DateRange:
		if err := validateDayOfYear("start_day_of_year", r.StartDay); err != nil {
			return err
		}
		return validateDayOfYear("end_day_of_year", r.EndDay)
	default:
		return invalid("range mode", int(r.Mode), "must be single_day or date_range")
	}
}

func validateDayOfYear(field string, day int) error {
	if day < minDayOfYear || day > maxDayOfYear {
		return invalid(field, day, "must be between 1 and 366")
	}
	return nil
}

// Wraps reports whether a DateRange crosses the year boundary.
func (r RangeSpec) Wraps() bool {
	return r.Mode == DateRange && r.StartDay > r.EndDay
}

// Contains reports whether a day-of-year falls in the window.
func (r RangeSpec) Contains(dayOfYear int) bool {
	switch r.Mode {
	case SingleDay:
		return dayOfYear == r.Day
	case DateRange:
		if r.StartDay <= r.EndDay {
			return dayOfYear >= r.StartDay && dayOfYear <= r.EndDay
		}
		return dayOfYear >= r.StartDay || dayOfYear <= r.EndDay
	default:
		return false
	}
}

// Matches reports whether a record falls in the window, keyed by its
// day-of-year or, for calendar windows, by its month and day.
func (r RangeSpec) Matches(rec DerivedDailyRecord) bool {
	if r.Calendar {
		return r.Contains(ReferenceDay(rec.Date))
	}
	return r.Contains(rec.DayOfYear)
}

func (r RangeSpec) String() string {
	if r.Calendar {
		if r.Mode == SingleDay {
			return calendarDate(r.Day)
		}
		return calendarDate(r.StartDay) + " to " + calendarDate(r.EndDay)
	}
	if r.Mode == SingleDay {
		return fmt.Sprintf("day %d", r.Day)
	}
	return fmt.Sprintf("days %d-%d", r.StartDay, r.EndDay)
}

func calendarDate(day int) string {
	return time.Date(referenceYear, time.January, day, 0, 0, 0, 0, time.UTC).Format("Jan 2")
}

// SelectRange returns the records matching r, in input order.
// An invalid spec yields a *ValidationError; an empty selection yields
// ErrNoDataForRange.
func SelectRange(records []DerivedDailyRecord, r RangeSpec) ([]DerivedDailyRecord, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var selected []DerivedDailyRecord
	for _, rec := range records {
		if r.Matches(rec) {
			selected = append(selected, rec)
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDataForRange, r)
	}
	return selected, nil
}
