// Package domain turns decades of daily point observations into climate
// statistics: exceedance probabilities, averages, records, trend direction, a
// temperature density estimate, combined-condition likelihoods, and a ranked
// sweep of the calendar periods that best match a set of comfort criteria.
//
// Everything in this package is a pure, in-memory transformation. It performs
// no I/O, holds no package-level mutable state, and never logs; callers fetch
// the series first and translate errors for their transport.
//
// # Data Source
//
// Daily series come from the NASA POWER "daily point" API. The fetch adapter
// maps its parameters onto [DailyRecord]:
//
//	T2M_MAX            max temperature at 2 m, °C       -> TempMaxC
//	T2M_MIN            min temperature at 2 m, °C       -> TempMinC
//	PRECTOTCORR        bias-corrected precipitation, mm -> PrecipMM
//	WS10M              wind speed at 10 m, m/s          -> WindMS
//	RH2M               relative humidity at 2 m, %      -> HumidityPct
//	PS                 surface pressure, kPa            -> PressureKPa
//	ALLSKY_SFC_SW_DWN  surface irradiance, kWh/m²/day   -> IrradianceKWh
//	SNODP              snow depth, mm                   -> SnowDepthMM
//
// POWER reports missing values as -999. Those arrive here as NaN.
//
// # Display Units
//
//	°F     = °C × 9/5 + 32
//	mph    = m/s × 2.237
//	inches = mm / 25.4
//	mbar   = kPa × 10
//
// The "feels like" heat index is a deliberately simplified comfort index, not
// the NOAA regression:
//
//	HI      = 0.5 × (T + 61 + (T − 68) × 1.2 + RH × 0.094)
//	display = (T + HI) / 2
//
// with T the daily maximum in °F. Thresholds and charts downstream are
// calibrated against this exact form.
//
// # Day-of-Year Windows
//
// Every selection is made on day-of-year (1–366) so that all years align on one
// seasonal cycle. A window with start > end wraps the year boundary, e.g.
// 350–10 covers mid-December through January 10th. See [SelectRange].
//
// # Rounding
//
// Percentages are round(count / total × 100) with round-half-to-even. Display
// values (averages, records, annual means) are rounded to one decimal with the
// same rule.
//
// # Missing Values
//
// NaN never satisfies a comparison: it is never an exceedance and never a
// favorable day in a sweep. Percentage denominators remain the full number of
// selected days. Means, extrema, correlation and density input skip NaN, and
// optional outputs are reported as nil rather than NaN so results always
// serialize to JSON.
//
// # Density Estimation
//
// [EstimateDensity] fits a Gaussian kernel density with Scott's bandwidth
// h = σ · n^(-1/5), σ being the sample standard deviation (n − 1 denominator),
// evaluated on 100 evenly spaced points over [min − 10, max + 10].
package domain
