package forecast

import (
	"fmt"

	"EquipWatch/internal/domain/models"
)

// Params carries model-specific knobs. Zero values fall back to the documented
// defaults in each model.
type Params struct {
	// Holt-Winters smoothing factors and seasonal cycle length.
	Alpha   float64
	Beta    float64
	Gamma   float64
	Periods int

	// ARIMA differencing order.
	D int

	// Neural network inference.
	Weights [][][]float64 // per layer: [out][in]
	Biases  [][]float64   // per layer: [out]
	Inputs  [][]float64   // rows to run through the network
	Sigmoid bool          // apply sigmoid to the output layer
}

// Engine runs one of the interchangeable forecaster variants over a series.
type Engine struct{}

func New() *Engine { return &Engine{} }

// Run dispatches to the model implementation. Every result has a fitted
// sequence aligned with the input and a fixed 24-step future sequence (empty
// for pure inference models). Implemented=false marks stub solvers.
func (e *Engine) Run(model models.ForecastModel, series []float64, p Params) (*models.ForecastResult, error) {
	switch model {
	case models.ModelLinearRegression:
		return linearRegression(series)
	case models.ModelExponentialSmoothing:
		return holtWinters(series, p)
	case models.ModelARIMA:
		return arima(series, p.D)
	case models.ModelNeuralNetwork:
		return neuralInference(p)
	default:
		return nil, fmt.Errorf("forecast: unknown model %q", model)
	}
}
