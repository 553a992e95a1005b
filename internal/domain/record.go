package domain

import "time"

// DailyRecord is one calendar day of raw measurements in metric units.
// Missing measurements are NaN.
type DailyRecord struct {
	Date          time.Time
	TempMaxC      float64
	TempMinC      float64
	PrecipMM      float64
	WindMS        float64
	HumidityPct   float64
	PressureKPa   float64
	IrradianceKWh float64 // kWh/m²/day
	SnowDepthMM   float64
}

// DerivedDailyRecord is a DailyRecord plus the display-unit fields computed by
// Derive. It is never built any other way.
type DerivedDailyRecord struct {
	DailyRecord

	TempMaxF   float64
	TempMinF   float64
	WindMPH    float64
	PrecipIn   float64
	PressureMb float64
	HeatIndexF float64
	Year       int
	DayOfYear  int
}

// measure reads one numeric field of a derived record.
type measure func(DerivedDailyRecord) float64

func tempMaxF(r DerivedDailyRecord) float64    { return r.TempMaxF }
func tempMinF(r DerivedDailyRecord) float64    { return r.TempMinF }
func windMPH(r DerivedDailyRecord) float64     { return r.WindMPH }
func precipIn(r DerivedDailyRecord) float64    { return r.PrecipIn }
func humidity(r DerivedDailyRecord) float64    { return r.HumidityPct }
func irradiance(r DerivedDailyRecord) float64  { return r.IrradianceKWh }
func pressureMb(r DerivedDailyRecord) float64  { return r.PressureMb }
func heatIndexF(r DerivedDailyRecord) float64  { return r.HeatIndexF }
func snowDepthMM(r DerivedDailyRecord) float64 { return r.SnowDepthMM }
