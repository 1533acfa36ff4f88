package optimize

import (
	"math"

	"EquipWatch/internal/domain/models"
)

const (
	initialTemperature = 1000.0
	coolingFactor      = 0.995
	minTemperature     = 0.001
	neighborScale      = 0.1
)

// anneal minimizes the objective with simulated annealing: geometric cooling
// from one random start, Metropolis acceptance on feasible neighbors, and a
// best-ever point tracked independently of the accepted walk.
func (e *Engine) anneal(prob *models.OptimizationProblem) *models.OptimizationResult {
	current := e.randomPoint(prob.Bounds)
	currentCost := prob.Objective(current)

	best := make([]float64, len(current))
	copy(best, current)
	bestCost := currentCost
	bestFeasible := prob.Feasible(current)

	for temp := initialTemperature; temp >= minTemperature; temp *= coolingFactor {
		cand := e.neighbor(current, prob.Bounds)
		if !prob.Feasible(cand) {
			continue
		}

		cost := prob.Objective(cand)
		delta := cost - currentCost
		if delta < 0 || e.rng.Float64() < math.Exp(-delta/temp) {
			current = cand
			currentCost = cost
		}

		if cost < bestCost || !bestFeasible {
			copy(best, cand)
			bestCost = cost
			bestFeasible = true
		}
	}

	return &models.OptimizationResult{
		Kind:        models.OptimizerAnnealing,
		Solution:    best,
		Objective:   bestCost,
		Feasible:    bestFeasible,
		Implemented: true,
	}
}

// neighbor perturbs every coordinate by a tenth of its range, clamped.
func (e *Engine) neighbor(x []float64, bounds []models.VariableBound) []float64 {
	out := make([]float64, len(x))
	for i, b := range bounds {
		out[i] = clamp(x[i]+(e.rng.Float64()-0.5)*(b.Max-b.Min)*neighborScale, b)
	}
	return out
}
