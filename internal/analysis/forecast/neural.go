package forecast

import (
	"fmt"
	"math"

	"EquipWatch/internal/domain/models"
)

// neuralInference runs a feed-forward pass over each input row: matrix-vector
// product plus bias per layer, ReLU on hidden layers, optional sigmoid on the
// output layer. The first output unit per row forms the fitted sequence.
// Inference only; there is no training path.
func neuralInference(p Params) (*models.ForecastResult, error) {
	if len(p.Weights) == 0 {
		return nil, fmt.Errorf("forecast: neural network needs at least one weight matrix")
	}
	if len(p.Biases) != len(p.Weights) {
		return nil, fmt.Errorf("forecast: got %d bias vectors for %d layers", len(p.Biases), len(p.Weights))
	}
	if len(p.Inputs) == 0 {
		return nil, fmt.Errorf("forecast: neural network needs input rows")
	}
	for l, w := range p.Weights {
		if len(w) == 0 {
			return nil, fmt.Errorf("forecast: layer %d has no units", l)
		}
		if len(p.Biases[l]) != len(w) {
			return nil, fmt.Errorf("forecast: layer %d bias length %d != %d units", l, len(p.Biases[l]), len(w))
		}
	}

	fitted := make([]float64, len(p.Inputs))
	for i, row := range p.Inputs {
		out, err := forwardPass(row, p.Weights, p.Biases, p.Sigmoid)
		if err != nil {
			return nil, fmt.Errorf("forecast: row %d: %w", i, err)
		}
		fitted[i] = out[0]
	}

	return &models.ForecastResult{
		Model:       models.ModelNeuralNetwork,
		Fitted:      fitted,
		Forecast:    []float64{},
		Implemented: true,
	}, nil
}

func forwardPass(input []float64, weights [][][]float64, biases [][]float64, sigmoid bool) ([]float64, error) {
	act := input
	last := len(weights) - 1
	for l, w := range weights {
		next := make([]float64, len(w))
		for u, unit := range w {
			if len(unit) != len(act) {
				return nil, fmt.Errorf("layer %d unit %d expects %d inputs, got %d", l, u, len(unit), len(act))
			}
			sum := biases[l][u]
			for j, wj := range unit {
				sum += wj * act[j]
			}
			switch {
			case l < last:
				next[u] = relu(sum)
			case sigmoid:
				next[u] = 1 / (1 + math.Exp(-sum))
			default:
				next[u] = sum
			}
		}
		act = next
	}
	return act, nil
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}
