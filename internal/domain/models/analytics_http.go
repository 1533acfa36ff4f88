package models

// Requests for analytics HTTP endpoints. Defined in domain for consistency and reuse.
// Each request either carries inline values or names a stored sensor series to load.

type SeriesSelector struct {
	EquipmentID string `json:"equipment_id" validate:"required_without=SensorID,omitempty"`
	SensorID    string `json:"sensor_id" validate:"required_with=EquipmentID"`
	N           int    `json:"n" default:"512" validate:"gte=1,lte=10000"`
	Interval    string `json:"interval" default:"1m" validate:"oneof=1s 1m 5m"`
}

type SpectrumRequest struct {
	Values []float64       `json:"values" validate:"omitempty,min=1"`
	Series *SeriesSelector `json:"series,omitempty"`
}

type StatisticsRequest struct {
	Values []float64       `json:"values" validate:"omitempty,min=1"`
	Series *SeriesSelector `json:"series,omitempty"`
	Mode   string          `json:"mode" default:"plain" validate:"oneof=plain time-series"`
}

type ForecastRequest struct {
	Values []float64       `json:"values" validate:"omitempty,min=1"`
	Series *SeriesSelector `json:"series,omitempty"`
	Model  string          `json:"model" validate:"required,oneof=LINEAR_REGRESSION EXPONENTIAL_SMOOTHING ARIMA NEURAL_NETWORK"`

	// Holt-Winters parameters.
	Alpha   float64 `json:"alpha" default:"0.3" validate:"gte=0,lte=1"`
	Beta    float64 `json:"beta" default:"0.1" validate:"gte=0,lte=1"`
	Gamma   float64 `json:"gamma" default:"0.1" validate:"gte=0,lte=1"`
	Periods int     `json:"periods" default:"12" validate:"gte=1"`

	// ARIMA differencing order.
	D int `json:"d" default:"1" validate:"gte=0,lte=3"`

	// Neural network inference: per-layer weights/biases and input rows.
	Weights [][][]float64 `json:"weights,omitempty"`
	Biases  [][]float64   `json:"biases,omitempty"`
	Inputs  [][]float64   `json:"inputs,omitempty"`
	Sigmoid bool          `json:"sigmoid_output"`
}

// LinearConstraint encodes a.x - b <= 0 declaratively so it can travel as JSON.
type LinearConstraint struct {
	Coefficients []float64 `json:"coefficients" validate:"required,min=1"`
	Bound        float64   `json:"bound"`
}

type OptimizeRequest struct {
	Kind string `json:"kind" validate:"required,oneof=LINEAR_PROGRAMMING GENETIC_ALGORITHM SIMULATED_ANNEALING"`

	// Linear objective c.x minimized over the bounded box.
	Objective   []float64          `json:"objective" validate:"required,min=1"`
	Constraints []LinearConstraint `json:"constraints" validate:"dive"`
	Variables   []VariableBound    `json:"variables" validate:"required,min=1,dive"`
	Seed        int64              `json:"seed"`
}

type ReadingsRequest struct {
	EquipmentID string `query:"equipment_id" json:"equipment_id" validate:"required"`
	SensorID    string `query:"sensor_id" json:"sensor_id" validate:"required"`
	From        string `query:"from" json:"from"`
	To          string `query:"to" json:"to"`
	Interval    string `query:"interval" json:"interval" validate:"omitempty,oneof=1s 1m 5m"`
	Limit       int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=50000"`
}
