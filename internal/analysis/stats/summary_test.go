package stats

import (
	"math"
	"math/rand"
	"testing"
)

func TestSummarizeBasics(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4, 5}, false)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Mean != 3 {
		t.Fatalf("mean = %v, want 3", s.Mean)
	}
	if s.Median != 3 {
		t.Fatalf("median = %v, want 3", s.Median)
	}
	if math.Abs(s.StdDev-math.Sqrt2) > 1e-12 {
		t.Fatalf("stddev = %v, want sqrt(2)", s.StdDev)
	}
	if s.Min != 1 || s.Max != 5 {
		t.Fatalf("min/max = %v/%v", s.Min, s.Max)
	}
	// Nearest-rank: p50 index = floor(5*0.5) = 2 -> sorted[2] = 3.
	if s.Percentiles[50] != 3 {
		t.Fatalf("p50 = %v, want 3", s.Percentiles[50])
	}
	// p95 index floor(5*0.95)=4 must not overflow.
	if s.Percentiles[95] != 5 {
		t.Fatalf("p95 = %v, want 5", s.Percentiles[95])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, err := Summarize(nil, false); err == nil {
		t.Fatalf("expected error on empty input")
	}
}

func TestSummarizeSingleSampleHasNoTrend(t *testing.T) {
	s, err := Summarize([]float64{42}, false)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Trend != nil {
		t.Fatalf("trend should be absent for n=1")
	}
}

func TestMedianEvenLength(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4}, false)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Median != 2.5 {
		t.Fatalf("median = %v, want 2.5", s.Median)
	}
}

func TestTrendRecoversLine(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 2*float64(i) + 1
	}
	slope, intercept, err := Trend(values)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if math.Abs(slope-2) > 1e-9 || math.Abs(intercept-1) > 1e-9 {
		t.Fatalf("got slope=%v intercept=%v, want 2 and 1", slope, intercept)
	}
}

func TestTrendDegenerate(t *testing.T) {
	if _, _, err := Trend([]float64{1}); err == nil {
		t.Fatalf("expected error for n<2")
	}
}

func TestOutlierRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		values := make([]float64, 200)
		for i := range values {
			values[i] = rng.NormFloat64()
		}
		base, err := Summarize(values, false)
		if err != nil {
			t.Fatalf("summarize: %v", err)
		}

		injected := base.Mean + 10*base.StdDev
		s, err := Summarize(append(values, injected), false)
		if err != nil {
			t.Fatalf("summarize: %v", err)
		}

		found := false
		for _, o := range s.Outliers {
			if o == injected {
				found = true
			}
			if math.Abs(o-s.Mean) <= 2*s.StdDev {
				t.Fatalf("value %v within 2 sigma reported as outlier", o)
			}
		}
		if !found {
			t.Fatalf("injected value %v not reported as outlier", injected)
		}
	}
}

func TestAutocorrelationPeriodicSignal(t *testing.T) {
	const period = 10
	values := make([]float64, 200)
	for i := range values {
		values[i] = math.Sin(2 * math.Pi * float64(i) / period)
	}

	s, err := Summarize(values, true)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(s.Autocorr) != 50 {
		t.Fatalf("acf length = %d, want 50", len(s.Autocorr))
	}
	if s.Seasonality == nil {
		t.Fatalf("expected seasonality on periodic signal")
	}
	if s.Seasonality.Period != period {
		t.Fatalf("period = %d, want %d", s.Seasonality.Period, period)
	}
	if s.Seasonality.Strength <= 0.3 {
		t.Fatalf("strength = %v, want > 0.3", s.Seasonality.Strength)
	}
}

func TestNoSeasonalityOnNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	values := make([]float64, 400)
	for i := range values {
		values[i] = rng.NormFloat64()
	}
	s, err := Summarize(values, true)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.Seasonality != nil {
		t.Fatalf("unexpected seasonality on white noise: %+v", s.Seasonality)
	}
}
