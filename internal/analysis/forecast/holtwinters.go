package forecast

import (
	"fmt"

	"EquipWatch/internal/domain/models"
)

// holtWinters runs triple exponential smoothing (additive seasonality).
// Level starts at the first observation, trend at zero, and the seasonal
// offsets are the first cycle's deviations from the initial level. The fitted
// sequence is the smoother state level+trend at each step; the 24-step future
// reuses the final level/trend plus the matching seasonal offset.
func holtWinters(series []float64, p Params) (*models.ForecastResult, error) {
	alpha, beta, gamma, periods := p.Alpha, p.Beta, p.Gamma, p.Periods
	if periods < 1 {
		return nil, fmt.Errorf("forecast: holt-winters periods must be >= 1, got %d", periods)
	}
	if len(series) < periods {
		return nil, fmt.Errorf("forecast: holt-winters needs at least one full cycle (%d samples), got %d", periods, len(series))
	}
	for name, v := range map[string]float64{"alpha": alpha, "beta": beta, "gamma": gamma} {
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("forecast: holt-winters %s must be in [0,1], got %v", name, v)
		}
	}

	n := len(series)
	level := series[0]
	trend := 0.0
	seasonal := make([]float64, periods)
	for i := 0; i < periods; i++ {
		seasonal[i] = series[i] - level
	}

	fitted := make([]float64, n)
	levels := make([]float64, n)
	trends := make([]float64, n)
	seasonals := make([]float64, n)

	for t, x := range series {
		si := t % periods
		prevLevel, prevTrend := level, trend

		level = alpha*(x-seasonal[si]) + (1-alpha)*(prevLevel+prevTrend)
		trend = beta*(level-prevLevel) + (1-beta)*prevTrend
		seasonal[si] = gamma*(x-level) + (1-gamma)*seasonal[si]

		fitted[t] = level + trend
		levels[t] = level
		trends[t] = trend
		seasonals[t] = seasonal[si]
	}

	future := make([]float64, models.ForecastHorizon)
	for h := range future {
		future[h] = level + float64(h+1)*trend + seasonal[(n+h)%periods]
	}

	return &models.ForecastResult{
		Model:       models.ModelExponentialSmoothing,
		Fitted:      fitted,
		Forecast:    future,
		Implemented: true,
		Level:       levels,
		Trend:       trends,
		Seasonal:    seasonals,
	}, nil
}
