package forecast

import (
	"fmt"

	"EquipWatch/internal/domain/models"
)

// arima applies d rounds of first differencing and then, in place of the AR/MA
// parameter estimation that has never been implemented, repeats the last
// observed value over the horizon. Results are tagged Implemented=false so
// callers can tell this naive persistence forecast from a real fit.
func arima(series []float64, d int) (*models.ForecastResult, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("forecast: arima needs a non-empty series")
	}
	if d < 0 {
		return nil, fmt.Errorf("forecast: arima differencing order must be >= 0, got %d", d)
	}
	if d >= len(series) {
		return nil, fmt.Errorf("forecast: differencing order %d too large for %d samples", d, len(series))
	}

	diffed := series
	for round := 0; round < d; round++ {
		next := make([]float64, len(diffed)-1)
		for i := range next {
			next[i] = diffed[i+1] - diffed[i]
		}
		diffed = next
	}

	last := series[len(series)-1]
	fitted := make([]float64, len(series))
	copy(fitted, series)
	future := make([]float64, models.ForecastHorizon)
	for h := range future {
		future[h] = last
	}

	return &models.ForecastResult{
		Model:       models.ModelARIMA,
		Fitted:      fitted,
		Forecast:    future,
		Implemented: false,
	}, nil
}
