package domain

const (
	mpsToMPH  = 2.237
	mmPerInch = 25.4
	kPaToMbar = 10
)

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// MetersPerSecondToMPH converts m/s to mph using the 2.237 factor.
func MetersPerSecondToMPH(v float64) float64 {
	return v * mpsToMPH
}

// MillimetersToInches converts mm to inches.
func MillimetersToInches(mm float64) float64 {
	return mm / mmPerInch
}

// KilopascalsToMillibars converts kPa to mbar.
func KilopascalsToMillibars(kPa float64) float64 {
	return kPa * kPaToMbar
}

// HeatIndex returns the simplified "feels like" temperature in °F for an air
// temperature in °F and a relative humidity in percent. The result is the mean
// of the air temperature and the simplified index.
func HeatIndex(tempF, humidityPct float64) float64 {
	hi := 0.5 * (tempF + 61 + (tempF-68)*1.2 + humidityPct*0.094)
	return (tempF + hi) / 2
}

// Derive computes the display-unit fields for one record. NaN inputs yield NaN
// in every field that depends on them.
func Derive(r DailyRecord) DerivedDailyRecord {
	maxF := CelsiusToFahrenheit(r.TempMaxC)
	return DerivedDailyRecord{
		DailyRecord: r,
		TempMaxF:    maxF,
		TempMinF:    CelsiusToFahrenheit(r.TempMinC),
		WindMPH:     MetersPerSecondToMPH(r.WindMS),
		PrecipIn:    MillimetersToInches(r.PrecipMM),
		PressureMb:  KilopascalsToMillibars(r.PressureKPa),
		HeatIndexF:  HeatIndex(maxF, r.HumidityPct),
		Year:        r.Date.Year(),
		DayOfYear:   r.Date.YearDay(),
	}
}

// DeriveAll maps Derive over a series, preserving order.
func DeriveAll(series []DailyRecord) []DerivedDailyRecord {
	out := make([]DerivedDailyRecord, len(series))
	for i, r := range series {
		out[i] = Derive(r)
	}
	return out
}
