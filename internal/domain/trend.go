package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TrendLabel classifies the direction of the annual mean high temperature.
type TrendLabel string

const (
	Warming TrendLabel = "warming"
	Cooling TrendLabel = "cooling"
	Stable  TrendLabel = "stable"
)

const trendCutoff = 0.1

// Trend is the year-over-year classification plus the correlation it came
// from. Correlation is nil when it is undefined.
type Trend struct {
	Label       TrendLabel `json:"temp_trend_label"`
	Correlation *float64   `json:"correlation"`
}

// ClassifyCorrelation maps a Pearson coefficient to a label. NaN is stable.
func ClassifyCorrelation(corr float64) TrendLabel {
	switch {
	case corr > trendCutoff:
		return Warming
	case corr < -trendCutoff:
		return Cooling
	default:
		return Stable
	}
}

// annualMeans returns parallel year/mean slices for the years where f has at
// least one value.
func annualMeans(records []DerivedDailyRecord, f measure) (years, means []float64) {
	ys, groups := groupByYear(records)
	for _, y := range ys {
		m := meanOf(groups[y], f)
		if math.IsNaN(m) {
			continue
		}
		years = append(years, float64(y))
		means = append(means, m)
	}
	return years, means
}

// AnalyzeTrend correlates calendar year with the annual mean daily-max
// temperature. With fewer than two years, or no variation, it returns a
// stable trend together with ErrInsufficientSample.
func AnalyzeTrend(records []DerivedDailyRecord) (Trend, error) {
	years, means := annualMeans(records, tempMaxF)
	if len(years) < 2 {
		return Trend{Label: Stable}, fmt.Errorf("%w: trend needs 2 years, got %d", ErrInsufficientSample, len(years))
	}

	corr := stat.Correlation(years, means, nil)
	if math.IsNaN(corr) {
		return Trend{Label: Stable}, fmt.Errorf("%w: annual means do not vary", ErrInsufficientSample)
	}
	return Trend{Label: ClassifyCorrelation(corr), Correlation: &corr}, nil
}

const (
	densityPoints  = 100
	densityPadding = 10.0
)

// DensityPoint is one evaluation of the density curve.
type DensityPoint struct {
	Value   float64 `json:"value"`
	Density float64 `json:"density"`
}

// Distribution is a Gaussian kernel density estimate of daily high
// temperatures.
type Distribution struct {
	Points    []DensityPoint `json:"points"`
	Mean      float64        `json:"mean"`
	Bandwidth float64        `json:"bandwidth"`
}

// ScottBandwidth returns σ·n^(-1/5) using the unbiased sample deviation.
func ScottBandwidth(values []float64) float64 {
	return stat.StdDev(values, nil) * math.Pow(float64(len(values)), -0.2)
}

// EstimateDensity fits a Gaussian KDE with Scott's bandwidth to the finite
// values and evaluates it at 100 evenly spaced points over [min-10, max+10].
func EstimateDensity(values []float64) (Distribution, error) {
	sample := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sample = append(sample, v)
		}
	}
	if len(sample) < 2 {
		return Distribution{}, fmt.Errorf("%w: density needs 2 observations, got %d", ErrInsufficientSample, len(sample))
	}

	h := ScottBandwidth(sample)
	if h == 0 || math.IsNaN(h) {
		return Distribution{}, fmt.Errorf("%w: observations do not vary", ErrInsufficientSample)
	}

	grid := floats.Span(make([]float64, densityPoints), floats.Min(sample)-densityPadding, floats.Max(sample)+densityPadding)
	kernels := make([]distuv.Normal, len(sample))
	for i, v := range sample {
		kernels[i] = distuv.Normal{Mu: v, Sigma: h}
	}

	points := make([]DensityPoint, len(grid))
	n := float64(len(sample))
	for i, x := range grid {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		points[i] = DensityPoint{Value: x, Density: sum / n}
	}

	return Distribution{
		Points:    points,
		Mean:      stat.Mean(sample, nil),
		Bandwidth: h,
	}, nil
}
