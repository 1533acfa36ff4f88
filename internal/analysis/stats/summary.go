package stats

import (
	"fmt"
	"math"
	"sort"

	"EquipWatch/internal/domain/models"
)

// Nearest-rank percentile set reported in every summary.
var percentilePoints = []int{5, 25, 50, 75, 95}

const (
	outlierSigma     = 3.0
	seasonalityFloor = 0.3
	maxAutocorrLag   = 50
)

// Summarize computes descriptive statistics for values. With timeSeries set it
// additionally computes the autocorrelation sequence and scans it for a
// seasonal peak. Degenerate inputs fail explicitly: an empty slice is an
// error, and a single-sample series gets a summary with no trend line (OLS
// needs n >= 2) rather than NaN garbage.
func Summarize(values []float64, timeSeries bool) (*models.StatSummary, error) {
	n := len(values)
	if n == 0 {
		return nil, fmt.Errorf("stats: empty input")
	}

	mean := Mean(values)
	std := StdDev(values, mean)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	pct := make(map[int]float64, len(percentilePoints))
	for _, p := range percentilePoints {
		idx := int(float64(n) * float64(p) / 100)
		if idx >= n {
			idx = n - 1
		}
		pct[p] = sorted[idx]
	}

	var outliers []float64
	for _, v := range values {
		if math.Abs(v-mean) > outlierSigma*std {
			outliers = append(outliers, v)
		}
	}

	s := &models.StatSummary{
		Count:       n,
		Mean:        mean,
		Median:      median(sorted),
		StdDev:      std,
		Min:         sorted[0],
		Max:         sorted[n-1],
		Percentiles: pct,
		Outliers:    outliers,
	}

	if slope, intercept, err := Trend(values); err == nil {
		s.Trend = &models.TrendLine{Slope: slope, Intercept: intercept}
	}

	if timeSeries {
		s.Autocorr = Autocorrelation(values)
		s.Seasonality = detectSeasonality(s.Autocorr)
	}
	return s, nil
}

// Mean is the arithmetic mean.
func Mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation (divisor n, not n-1).
func StdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// median expects sorted input; even lengths average the two middle elements.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Trend fits value against sample index 0..n-1 by ordinary least squares.
func Trend(values []float64) (slope, intercept float64, err error) {
	n := len(values)
	if n < 2 {
		return 0, 0, fmt.Errorf("stats: trend needs at least 2 samples, got %d", n)
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, fmt.Errorf("stats: degenerate trend regressor")
	}
	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn
	return slope, intercept, nil
}

// Autocorrelation computes the biased autocorrelation estimate for lags
// 1..min(n/4, 50). A constant series has zero variance and yields nil.
func Autocorrelation(values []float64) []float64 {
	n := len(values)
	maxLag := n / 4
	if maxLag > maxAutocorrLag {
		maxLag = maxAutocorrLag
	}
	if maxLag < 1 {
		return nil
	}

	mean := Mean(values)
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag)
	for lag := 1; lag <= maxLag; lag++ {
		var cov float64
		for i := 0; i < n-lag; i++ {
			cov += (values[i] - mean) * (values[i+lag] - mean)
		}
		acf[lag-1] = cov / variance
	}
	return acf
}

// detectSeasonality scans interior autocorrelation values for local maxima
// above the qualification floor and reports the strongest one. acf[i] holds
// the value at lag i+1.
func detectSeasonality(acf []float64) *models.Seasonality {
	best := -1
	for i := 1; i < len(acf)-1; i++ {
		if acf[i] <= seasonalityFloor {
			continue
		}
		if acf[i] > acf[i-1] && acf[i] > acf[i+1] {
			if best == -1 || acf[i] > acf[best] {
				best = i
			}
		}
	}
	if best == -1 {
		return nil
	}
	return &models.Seasonality{Period: best + 1, Strength: acf[best]}
}
