// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/usagelens/internal/models"
)

// median returns the middle value of xs, or the mean of the two middle values
// for an even count. xs is not modified. An empty slice yields 0.
func median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mean sums in slice order so repeated calls are bit-identical.
func mean(xs []float64) models.Number {
	if len(xs) == 0 {
		return models.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return models.Number(sum / float64(len(xs)))
}

// constant reports whether every value equals the first.
func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// pearson is the sample correlation of xs and ys. Fewer than two points or a
// constant series yield NaN.
func pearson(xs, ys []float64) models.Number {
	if len(xs) < 2 || len(xs) != len(ys) || constant(xs) || constant(ys) {
		return models.NaN()
	}
	return models.Number(stat.Correlation(xs, ys, nil))
}

// sampleStdDev uses the n-1 denominator. Fewer than two values yield NaN.
func sampleStdDev(xs []float64) models.Number {
	if len(xs) < 2 {
		return models.NaN()
	}
	return models.Number(stat.StdDev(xs, nil))
}

// Trendline fits y = a + b*x by ordinary least squares. Fewer than two points
// or a constant x yield an undefined line.
func Trendline(xs, ys []float64) models.Trendline {
	if len(xs) < 2 || len(xs) != len(ys) || constant(xs) {
		return models.Trendline{Intercept: models.NaN(), Slope: models.NaN()}
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return models.Trendline{Intercept: models.Number(alpha), Slope: models.Number(beta)}
}

// percent returns part/whole*100, or 0 for an empty whole.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
