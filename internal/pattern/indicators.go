package pattern

import (
	"math"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// RollingMean is a trailing mean over window bars. Early bars use whatever
// history exists (min periods 1).
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// RollingStd is the trailing sample standard deviation over window bars.
// A window holding fewer than two bars yields 0.
func RollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 {
		window = 1
	}

	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		n := i - start + 1
		if n < 2 {
			continue
		}

		mean := 0.0
		for _, v := range values[start : i+1] {
			mean += v
		}
		mean /= float64(n)

		ss := 0.0
		for _, v := range values[start : i+1] {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(n-1))
	}
	return out
}

// windowMean is the mean of values[from:to], clipped to the slice.
// ok is false for an empty window.
func windowMean(values []float64, from, to int) (float64, bool) {
	if from < 0 {
		from = 0
	}
	if to > len(values) {
		to = len(values)
	}
	if to <= from {
		return 0, false
	}

	sum := 0.0
	for _, v := range values[from:to] {
		sum += v
	}
	return sum / float64(to-from), true
}

// Indicators are the precomputed series the detectors and charts use
type Indicators struct {
	BBMiddle []float64 `json:"bb_middle"`
	BBUpper  []float64 `json:"bb_upper"`
	BBLower  []float64 `json:"bb_lower"`
	MA20     []float64 `json:"ma20"`
	MA50     []float64 `json:"ma50"`
	MA200    []float64 `json:"ma200"`
	VolMA20  []float64 `json:"vol_ma20"`
}

// ComputeIndicators derives Bollinger bands and moving averages for series
func ComputeIndicators(series contracts.PriceSeries, cfg Config) Indicators {
	closes := series.Closes()

	middle := RollingMean(closes, cfg.BollingerWindow)
	std := RollingStd(closes, cfg.BollingerWindow)

	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		upper[i] = middle[i] + cfg.BollingerStdDev*std[i]
		lower[i] = middle[i] - cfg.BollingerStdDev*std[i]
	}

	return Indicators{
		BBMiddle: middle,
		BBUpper:  upper,
		BBLower:  lower,
		MA20:     RollingMean(closes, 20),
		MA50:     RollingMean(closes, 50),
		MA200:    RollingMean(closes, 200),
		VolMA20:  RollingMean(series.Volumes(), cfg.PocketPivotVolumeWindow),
	}
}
