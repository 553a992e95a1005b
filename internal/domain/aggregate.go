package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const isoDate = "2006-01-02"

// Averages holds the selection-wide mean of each display field.
type Averages struct {
	HighF       *float64 `json:"avg_high_f"`
	LowF        *float64 `json:"avg_low_f"`
	WindMPH     *float64 `json:"avg_wind_mph"`
	PrecipIn    *float64 `json:"avg_precip_in"`
	HumidityPct *float64 `json:"avg_humidity_pct"`
	Irradiance  *float64 `json:"avg_irradiance_kwh"`
	PressureMb  *float64 `json:"avg_pressure_mb"`
	HeatIndexF  *float64 `json:"avg_heat_index_f"`
	SnowDepthMM *float64 `json:"avg_snow_depth_mm"`
}

// Records holds the extremes over the whole selection, not over annual means.
type Records struct {
	HighF *float64 `json:"record_high_f"`
	LowF  *float64 `json:"record_low_f"`
}

// AnnualPoint is one calendar year's mean of each display field.
type AnnualPoint struct {
	Year        int      `json:"year"`
	Days        int      `json:"days"`
	HighF       *float64 `json:"high_f"`
	LowF        *float64 `json:"low_f"`
	WindMPH     *float64 `json:"wind_mph"`
	PrecipIn    *float64 `json:"precip_in"`
	HumidityPct *float64 `json:"humidity_pct"`
	Irradiance  *float64 `json:"irradiance_kwh"`
	PressureMb  *float64 `json:"pressure_mb"`
	HeatIndexF  *float64 `json:"heat_index_f"`
	SnowDepthMM *float64 `json:"snow_depth_mm"`
}

// ChartData is the per-year high temperature series, skipping years without a
// valid mean.
type ChartData struct {
	Years     []int     `json:"years"`
	HighTemps []float64 `json:"high_temps"`
}

// DailyExport is one selected day in display units for raw export.
type DailyExport struct {
	Date        string   `json:"date"`
	HighF       *float64 `json:"high_f"`
	LowF        *float64 `json:"low_f"`
	PrecipIn    *float64 `json:"precip_in"`
	WindMPH     *float64 `json:"wind_mph"`
	HumidityPct *float64 `json:"humidity_pct"`
	Irradiance  *float64 `json:"irradiance_kwh"`
	PressureMb  *float64 `json:"pressure_mb"`
	HeatIndexF  *float64 `json:"heat_index_f"`
	SnowDepthMM *float64 `json:"snow_depth_mm"`
}

// round1 rounds half-to-even to one decimal.
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// optional returns nil for NaN so results stay JSON-safe.
func optional(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func rounded(v float64) *float64 {
	return optional(round1(v))
}

// finiteValues collects the non-missing values of one field.
func finiteValues(records []DerivedDailyRecord, f measure) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		v := f(r)
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// meanOf is the NaN-skipping mean of a field, NaN when no value is present.
func meanOf(records []DerivedDailyRecord, f measure) float64 {
	vals := finiteValues(records, f)
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// ComputeAverages returns rounded NaN-skipping means of every display field.
func ComputeAverages(records []DerivedDailyRecord) Averages {
	return Averages{
		HighF:       rounded(meanOf(records, tempMaxF)),
		LowF:        rounded(meanOf(records, tempMinF)),
		WindMPH:     rounded(meanOf(records, windMPH)),
		PrecipIn:    rounded(meanOf(records, precipIn)),
		HumidityPct: rounded(meanOf(records, humidity)),
		Irradiance:  rounded(meanOf(records, irradiance)),
		PressureMb:  rounded(meanOf(records, pressureMb)),
		HeatIndexF:  rounded(meanOf(records, heatIndexF)),
		SnowDepthMM: rounded(meanOf(records, snowDepthMM)),
	}
}

// Extremes returns the highest daily maximum and lowest daily minimum.
func Extremes(records []DerivedDailyRecord) Records {
	var out Records
	if highs := finiteValues(records, tempMaxF); len(highs) > 0 {
		out.HighF = rounded(floats.Max(highs))
	}
	if lows := finiteValues(records, tempMinF); len(lows) > 0 {
		out.LowF = rounded(floats.Min(lows))
	}
	return out
}

// groupByYear splits records by calendar year, years ascending.
func groupByYear(records []DerivedDailyRecord) ([]int, map[int][]DerivedDailyRecord) {
	groups := make(map[int][]DerivedDailyRecord)
	for _, r := range records {
		groups[r.Year] = append(groups[r.Year], r)
	}
	years := make([]int, 0, len(groups))
	for y := range groups {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, groups
}

// AnnualSeries returns one point per calendar year present, ascending.
func AnnualSeries(records []DerivedDailyRecord) []AnnualPoint {
	years, groups := groupByYear(records)
	out := make([]AnnualPoint, 0, len(years))
	for _, y := range years {
		g := groups[y]
		out = append(out, AnnualPoint{
			Year:        y,
			Days:        len(g),
			HighF:       rounded(meanOf(g, tempMaxF)),
			LowF:        rounded(meanOf(g, tempMinF)),
			WindMPH:     rounded(meanOf(g, windMPH)),
			PrecipIn:    rounded(meanOf(g, precipIn)),
			HumidityPct: rounded(meanOf(g, humidity)),
			Irradiance:  rounded(meanOf(g, irradiance)),
			PressureMb:  rounded(meanOf(g, pressureMb)),
			HeatIndexF:  rounded(meanOf(g, heatIndexF)),
			SnowDepthMM: rounded(meanOf(g, snowDepthMM)),
		})
	}
	return out
}

// ChartFromAnnual extracts the year/high-temperature chart series.
func ChartFromAnnual(annual []AnnualPoint) ChartData {
	chart := ChartData{Years: []int{}, HighTemps: []float64{}}
	for _, p := range annual {
		if p.HighF == nil {
			continue
		}
		chart.Years = append(chart.Years, p.Year)
		chart.HighTemps = append(chart.HighTemps, *p.HighF)
	}
	return chart
}

// ExportDaily returns every record in display units sorted by date ascending.
func ExportDaily(records []DerivedDailyRecord) []DailyExport {
	sorted := append([]DerivedDailyRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	out := make([]DailyExport, len(sorted))
	for i, r := range sorted {
		out[i] = DailyExport{
			Date:        r.Date.Format(isoDate),
			HighF:       rounded(r.TempMaxF),
			LowF:        rounded(r.TempMinF),
			PrecipIn:    optional(r.PrecipIn),
			WindMPH:     rounded(r.WindMPH),
			HumidityPct: rounded(r.HumidityPct),
			Irradiance:  optional(r.IrradianceKWh),
			PressureMb:  rounded(r.PressureMb),
			HeatIndexF:  rounded(r.HeatIndexF),
			SnowDepthMM: optional(r.SnowDepthMM),
		}
	}
	return out
}
