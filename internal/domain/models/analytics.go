package models

// Analytics result types produced by the engine. No transport concerns here;
// HTTP request shapes live in analytics_http.go.

// TrendLine is an ordinary least squares fit of value against sample index.
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Seasonality reports a detected seasonal cycle in a series.
type Seasonality struct {
	Period   int     `json:"period"`   // lag of the dominant autocorrelation peak
	Strength float64 `json:"strength"` // autocorrelation value at that lag
}

// StatSummary holds descriptive statistics for a value sequence.
// Autocorrelation and Seasonality are populated in time-series mode only.
type StatSummary struct {
	Count       int             `json:"count"`
	Mean        float64         `json:"mean"`
	Median      float64         `json:"median"`
	StdDev      float64         `json:"std_dev"` // population (divisor n)
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	Percentiles map[int]float64 `json:"percentiles"`     // keys 5,25,50,75,95
	Outliers    []float64       `json:"outliers"`        // |v-mean| > 3*stddev
	Trend       *TrendLine      `json:"trend,omitempty"` // nil when n < 2
	Autocorr    []float64       `json:"autocorrelation,omitempty"`
	Seasonality *Seasonality    `json:"seasonality,omitempty"`
}

// ForecastModel selects a forecasting algorithm.
type ForecastModel string

const (
	ModelLinearRegression     ForecastModel = "LINEAR_REGRESSION"
	ModelExponentialSmoothing ForecastModel = "EXPONENTIAL_SMOOTHING"
	ModelARIMA                ForecastModel = "ARIMA"
	ModelNeuralNetwork        ForecastModel = "NEURAL_NETWORK"
)

// ForecastHorizon is the fixed number of future steps every model produces.
const ForecastHorizon = 24

// ForecastResult carries in-sample fitted values aligned with the input plus a
// fixed-horizon future sequence. Implemented is false for models whose solver
// is a stub (ARIMA parameter estimation); callers must not treat a stub result
// as a genuine fit.
type ForecastResult struct {
	Model       ForecastModel `json:"model"`
	Fitted      []float64     `json:"fitted"`
	Forecast    []float64     `json:"forecast"`
	Implemented bool          `json:"implemented"`

	// Model internals, populated when applicable.
	Coefficients []float64 `json:"coefficients,omitempty"` // linear regression
	Level        []float64 `json:"level,omitempty"`        // Holt-Winters
	Trend        []float64 `json:"trend,omitempty"`
	Seasonal     []float64 `json:"seasonal,omitempty"`
}

// OptimizerKind selects an optimization algorithm.
type OptimizerKind string

const (
	OptimizerLinearProgramming OptimizerKind = "LINEAR_PROGRAMMING"
	OptimizerGenetic           OptimizerKind = "GENETIC_ALGORITHM"
	OptimizerAnnealing         OptimizerKind = "SIMULATED_ANNEALING"
)

// VariableBound is the inclusive [Min,Max] box for one decision variable.
type VariableBound struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// OptimizationProblem describes a constrained minimization over a real vector.
// Objective and Constraints must be total over the bounded box; a point is
// feasible when every constraint evaluates to <= 0.
type OptimizationProblem struct {
	Objective   func([]float64) float64
	Constraints []func([]float64) float64
	Bounds      []VariableBound
}

// Dim returns the decision vector length.
func (p *OptimizationProblem) Dim() int { return len(p.Bounds) }

// Feasible reports whether x satisfies every constraint.
func (p *OptimizationProblem) Feasible(x []float64) bool {
	for _, c := range p.Constraints {
		if c(x) > 0 {
			return false
		}
	}
	return true
}

// OptimizationResult is the best point an optimizer found. Implemented is
// false for the linear programming stub; Feasible reflects constraint
// satisfaction of the returned vector.
type OptimizationResult struct {
	Kind        OptimizerKind `json:"kind"`
	Solution    []float64     `json:"solution"`
	Objective   float64       `json:"objective"`
	Feasible    bool          `json:"feasible"`
	Implemented bool          `json:"implemented"`
}
