package forecast

import (
	"math"
	"testing"

	"EquipWatch/internal/domain/models"
)

func TestUnknownModel(t *testing.T) {
	if _, err := New().Run("GRADIENT_BOOSTING", []float64{1, 2, 3}, Params{}); err == nil {
		t.Fatalf("expected error for unknown model")
	}
}

func TestLinearRegressionRecoversLine(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		series[i] = 2*float64(i) + 1
	}
	res, err := New().Run(models.ModelLinearRegression, series, Params{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Implemented {
		t.Fatalf("linear regression should be a real solve")
	}
	if math.Abs(res.Coefficients[1]-2) > 1e-9 || math.Abs(res.Coefficients[0]-1) > 1e-9 {
		t.Fatalf("coefficients = %v, want [1 2]", res.Coefficients)
	}
	if len(res.Fitted) != len(series) {
		t.Fatalf("fitted length = %d, want %d", len(res.Fitted), len(series))
	}
	if len(res.Forecast) != models.ForecastHorizon {
		t.Fatalf("forecast length = %d, want %d", len(res.Forecast), models.ForecastHorizon)
	}
	// The extrapolated line continues y = 2x + 1.
	want := 2*float64(len(series)) + 1
	if math.Abs(res.Forecast[0]-want) > 1e-9 {
		t.Fatalf("first forecast = %v, want %v", res.Forecast[0], want)
	}
}

func TestLinearRegressionDegenerate(t *testing.T) {
	if _, err := New().Run(models.ModelLinearRegression, []float64{5}, Params{}); err == nil {
		t.Fatalf("expected error for single sample")
	}
}

func TestHoltWintersFullTrust(t *testing.T) {
	const periods = 4
	series := []float64{10, 12, 14, 11, 13, 16, 12, 15, 11, 14, 13, 12}
	p := Params{Alpha: 1, Beta: 0, Gamma: 0, Periods: periods}

	res, err := New().Run(models.ModelExponentialSmoothing, series, p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// With alpha=1, beta=0, gamma=0 the smoother trusts each observation
	// fully, so fitted values are the raw series minus the fixed initial
	// seasonal offsets.
	level0 := series[0]
	for t2, x := range series {
		offset := series[t2%periods] - level0
		want := x - offset
		if math.Abs(res.Fitted[t2]-want) > 1e-9 {
			t.Fatalf("fitted[%d] = %v, want %v", t2, res.Fitted[t2], want)
		}
	}
	if len(res.Forecast) != models.ForecastHorizon {
		t.Fatalf("forecast length = %d", len(res.Forecast))
	}
	if len(res.Level) != len(series) || len(res.Trend) != len(series) || len(res.Seasonal) != len(series) {
		t.Fatalf("component series must align with input")
	}
}

func TestHoltWintersValidation(t *testing.T) {
	if _, err := New().Run(models.ModelExponentialSmoothing, []float64{1, 2}, Params{Alpha: 0.5, Periods: 5}); err == nil {
		t.Fatalf("expected error when series shorter than one cycle")
	}
	if _, err := New().Run(models.ModelExponentialSmoothing, []float64{1, 2, 3}, Params{Alpha: 1.5, Periods: 2}); err == nil {
		t.Fatalf("expected error for alpha out of range")
	}
}

func TestARIMAIsAnExplicitStub(t *testing.T) {
	series := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	res, err := New().Run(models.ModelARIMA, series, Params{D: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Implemented {
		t.Fatalf("arima estimation is a stub and must say so")
	}
	for h, v := range res.Forecast {
		if v != 6 {
			t.Fatalf("forecast[%d] = %v, want last observation 6", h, v)
		}
	}
}

func TestARIMADifferencingBounds(t *testing.T) {
	if _, err := New().Run(models.ModelARIMA, []float64{1, 2}, Params{D: 2}); err == nil {
		t.Fatalf("expected error when d >= len(series)")
	}
}

func TestNeuralIdentityNetwork(t *testing.T) {
	// One linear layer, identity weight, zero bias: output == input.
	p := Params{
		Weights: [][][]float64{{{1}}},
		Biases:  [][]float64{{0}},
		Inputs:  [][]float64{{0.5}, {-2}, {3}},
	}
	res, err := New().Run(models.ModelNeuralNetwork, nil, p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []float64{0.5, -2, 3}
	for i, v := range res.Fitted {
		if v != want[i] {
			t.Fatalf("fitted[%d] = %v, want %v", i, v, want[i])
		}
	}
	if len(res.Forecast) != 0 {
		t.Fatalf("inference model must not invent a future sequence")
	}
}

func TestNeuralHiddenReLUAndSigmoid(t *testing.T) {
	// Hidden layer negates the input, ReLU clamps it to zero, so the
	// output layer sees 0 and sigmoid(bias) decides the result.
	p := Params{
		Weights: [][][]float64{{{-1}}, {{5}}},
		Biases:  [][]float64{{0}, {0}},
		Inputs:  [][]float64{{3}},
		Sigmoid: true,
	}
	res, err := New().Run(models.ModelNeuralNetwork, nil, p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if math.Abs(res.Fitted[0]-0.5) > 1e-12 {
		t.Fatalf("fitted[0] = %v, want 0.5", res.Fitted[0])
	}
}

func TestNeuralDimensionMismatch(t *testing.T) {
	p := Params{
		Weights: [][][]float64{{{1, 1}}},
		Biases:  [][]float64{{0}},
		Inputs:  [][]float64{{1}},
	}
	if _, err := New().Run(models.ModelNeuralNetwork, nil, p); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestBuildLagMatrix(t *testing.T) {
	rows := BuildLagMatrix([]float64{1, 2, 3, 4}, 2)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != 1 || rows[0][1] != 2 || rows[2][1] != 4 {
		t.Fatalf("unexpected rows %v", rows)
	}
	if BuildLagMatrix([]float64{1}, 2) != nil {
		t.Fatalf("short series must yield nil")
	}
}

func TestNormalize(t *testing.T) {
	scaled, min, span := Normalize([]float64{10, 20, 30})
	if min != 10 || span != 20 {
		t.Fatalf("min/span = %v/%v", min, span)
	}
	if scaled[0] != 0 || scaled[2] != 1 {
		t.Fatalf("scaled = %v", scaled)
	}
	flat, _, span := Normalize([]float64{5, 5})
	if span != 1 || flat[0] != 0 {
		t.Fatalf("constant series should map to zeros with span 1")
	}
}
