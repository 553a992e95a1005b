package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCelsiusToFahrenheit(t *testing.T) {
	tests := []struct {
		c, f float64
	}{
		{0, 32},
		{100, 212},
		{-40, -40},
		{35, 95},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.f, CelsiusToFahrenheit(tt.c), 1e-9)
	}
}

func TestConversionsRoundTrip(t *testing.T) {
	for _, v := range []float64{-31.7, 0, 0.4, 12.25, 38.9, 101.3} {
		assert.InDelta(t, v, (CelsiusToFahrenheit(v)-32)*5/9, 1e-9, "temperature %v", v)
		assert.InDelta(t, v, MetersPerSecondToMPH(v)/2.237, 1e-9, "wind %v", v)
		assert.InDelta(t, v, MillimetersToInches(v)*25.4, 1e-9, "precip %v", v)
		assert.InDelta(t, v, KilopascalsToMillibars(v)/10, 1e-9, "pressure %v", v)
	}
}

func TestHeatIndex(t *testing.T) {
	// HI = 0.5*(68+61) = 64.5, shown as the mean with T.
	assert.InDelta(t, 66.25, HeatIndex(68, 0), 1e-9)
	// HI = 0.5*(90+61+26.4+4.7) = 91.05
	assert.InDelta(t, 90.525, HeatIndex(90, 50), 1e-9)
}

func TestDerive(t *testing.T) {
	t.Run("display fields", func(t *testing.T) {
		r := mild(date(2020, 12, 31))
		d := Derive(r)

		assert.InDelta(t, 68.0, d.TempMaxF, 1e-9)
		assert.InDelta(t, 50.0, d.TempMinF, 1e-9)
		assert.InDelta(t, 4.474, d.WindMPH, 1e-9)
		assert.InDelta(t, 1000.0, d.PressureMb, 1e-9)
		assert.InDelta(t, HeatIndex(68, 50), d.HeatIndexF, 1e-9)
		assert.Equal(t, 2020, d.Year)
		assert.Equal(t, 366, d.DayOfYear)
		assert.Equal(t, r, d.DailyRecord)
	})

	t.Run("non-leap year end", func(t *testing.T) {
		assert.Equal(t, 365, Derive(mild(date(2021, 12, 31))).DayOfYear)
	})

	t.Run("missing values propagate per field", func(t *testing.T) {
		r := mild(date(2021, 6, 1))
		r.TempMaxC = math.NaN()
		d := Derive(r)

		assert.True(t, math.IsNaN(d.TempMaxF))
		assert.True(t, math.IsNaN(d.HeatIndexF))
		assert.InDelta(t, 50.0, d.TempMinF, 1e-9)
	})
}

func TestDeriveAll_PreservesOrder(t *testing.T) {
	series := []DailyRecord{mild(date(2021, 3, 2)), mild(date(2020, 1, 1))}
	out := DeriveAll(series)

	assert.Len(t, out, 2)
	assert.Equal(t, 61, out[0].DayOfYear)
	assert.Equal(t, 1, out[1].DayOfYear)
}
