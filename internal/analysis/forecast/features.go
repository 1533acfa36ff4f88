package forecast

// BuildLagMatrix turns a series into overlapping windows of the given width,
// one row per step, oldest sample first within each row. Row i covers
// series[i : i+lags], so a network with an input layer of that width can be
// run across the whole series. Returns nil when the series is too short.
func BuildLagMatrix(series []float64, lags int) [][]float64 {
	if lags < 1 || len(series) < lags {
		return nil
	}
	rows := make([][]float64, 0, len(series)-lags+1)
	for i := 0; i+lags <= len(series); i++ {
		row := make([]float64, lags)
		copy(row, series[i:i+lags])
		rows = append(rows, row)
	}
	return rows
}

// Normalize scales values into [0,1] over their observed range and returns the
// scaled copy with the min and span used, so predictions can be mapped back.
// A constant series maps to zeros with span 1.
func Normalize(values []float64) (scaled []float64, min, span float64) {
	if len(values) == 0 {
		return nil, 0, 1
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span = max - min
	if span == 0 {
		span = 1
	}
	scaled = make([]float64, len(values))
	for i, v := range values {
		scaled[i] = (v - min) / span
	}
	return scaled, min, span
}
