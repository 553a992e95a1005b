package domain

import (
	"math"
	"math/rand"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mild is a comfortable day: 68°F high, 50°F low, light wind, dry.
func mild(t time.Time) DailyRecord {
	return DailyRecord{
		Date:          t,
		TempMaxC:      20,
		TempMinC:      10,
		PrecipMM:      0,
		WindMS:        2,
		HumidityPct:   50,
		PressureKPa:   100,
		IrradianceKWh: 4,
		SnowDepthMM:   0,
	}
}

// yearsOf returns one record per calendar day for every year in [from, to],
// passed through edit when it is non-nil.
func yearsOf(from, to int, edit func(*DailyRecord)) []DailyRecord {
	var out []DailyRecord
	for d := date(from, time.January, 1); d.Year() <= to; d = d.AddDate(0, 0, 1) {
		r := mild(d)
		if edit != nil {
			edit(&r)
		}
		out = append(out, r)
	}
	return out
}

// noisy returns a deterministic series with every field varying.
func noisy(from, to int) []DailyRecord {
	rng := rand.New(rand.NewSource(42))
	return yearsOf(from, to, func(r *DailyRecord) {
		season := math.Sin(2 * math.Pi * float64(r.Date.YearDay()) / 366)
		r.TempMaxC = 18 + 14*season + rng.NormFloat64()*4
		r.TempMinC = r.TempMaxC - 8 - rng.Float64()*4
		r.PrecipMM = math.Max(0, rng.NormFloat64()*8)
		r.WindMS = rng.Float64() * 10
		r.HumidityPct = 40 + rng.Float64()*55
		r.PressureKPa = 99 + rng.Float64()*3
		r.IrradianceKWh = 3 + 3*season + rng.Float64()*2
		r.SnowDepthMM = math.Max(0, -season*5+rng.NormFloat64())
	})
}
