package forecast

import (
	"fmt"

	"EquipWatch/internal/analysis/stats"
	"EquipWatch/internal/domain/models"
)

// linearRegression fits value against sample index with an intercept term and
// extrapolates the line over the forecast horizon. With a single index
// regressor the normal equations reduce to the closed-form OLS solve shared
// with the trend analyzer.
func linearRegression(series []float64) (*models.ForecastResult, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("forecast: linear regression needs at least 2 samples, got %d", len(series))
	}

	slope, intercept, err := stats.Trend(series)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	fitted := make([]float64, len(series))
	for i := range fitted {
		fitted[i] = intercept + slope*float64(i)
	}
	future := make([]float64, models.ForecastHorizon)
	for h := range future {
		future[h] = intercept + slope*float64(len(series)+h)
	}

	return &models.ForecastResult{
		Model:        models.ModelLinearRegression,
		Fitted:       fitted,
		Forecast:     future,
		Implemented:  true,
		Coefficients: []float64{intercept, slope},
	}, nil
}
