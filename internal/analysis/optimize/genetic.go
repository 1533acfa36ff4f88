package optimize

import (
	"math"

	"EquipWatch/internal/domain/models"
)

const (
	populationSize = 100
	generations    = 1000
	mutationRate   = 0.01
	crossoverRate  = 0.7
	tournamentSize = 3
)

// genetic minimizes the objective with a plain generational GA. Infeasible
// individuals get -Inf fitness, so any feasible individual beats them in
// selection and in the final pick. Mutation perturbs a gene by a tenth of its
// variable range and clamps the result into bounds. The returned solution is
// the best of the final generation only; the algorithm keeps no best-ever
// memory across generations.
func (e *Engine) genetic(prob *models.OptimizationProblem) *models.OptimizationResult {
	dim := prob.Dim()

	pop := make([][]float64, populationSize)
	for i := range pop {
		pop[i] = e.randomPoint(prob.Bounds)
	}

	fitness := func(x []float64) float64 {
		if !prob.Feasible(x) {
			return math.Inf(-1)
		}
		return -prob.Objective(x)
	}

	fits := make([]float64, populationSize)
	for i, x := range pop {
		fits[i] = fitness(x)
	}

	for gen := 0; gen < generations; gen++ {
		next := make([][]float64, 0, populationSize)
		for len(next) < populationSize {
			a := e.tournament(pop, fits)
			b := e.tournament(pop, fits)

			c1, c2 := e.crossover(a, b, dim)
			e.mutate(c1, prob.Bounds)
			e.mutate(c2, prob.Bounds)

			next = append(next, c1)
			if len(next) < populationSize {
				next = append(next, c2)
			}
		}
		pop = next
		for i, x := range pop {
			fits[i] = fitness(x)
		}
	}

	best := 0
	for i := 1; i < populationSize; i++ {
		if fits[i] > fits[best] {
			best = i
		}
	}

	return &models.OptimizationResult{
		Kind:        models.OptimizerGenetic,
		Solution:    pop[best],
		Objective:   prob.Objective(pop[best]),
		Feasible:    prob.Feasible(pop[best]),
		Implemented: true,
	}
}

// tournament returns a copy of the best of tournamentSize random draws.
func (e *Engine) tournament(pop [][]float64, fits []float64) []float64 {
	best := e.rng.Intn(len(pop))
	for i := 1; i < tournamentSize; i++ {
		c := e.rng.Intn(len(pop))
		if fits[c] > fits[best] {
			best = c
		}
	}
	out := make([]float64, len(pop[best]))
	copy(out, pop[best])
	return out
}

// crossover produces two children with a single random cut point, or clones
// the parents when the crossover roll fails.
func (e *Engine) crossover(a, b []float64, dim int) ([]float64, []float64) {
	if dim > 1 && e.rng.Float64() < crossoverRate {
		cut := 1 + e.rng.Intn(dim-1)
		c1 := append(append(make([]float64, 0, dim), a[:cut]...), b[cut:]...)
		c2 := append(append(make([]float64, 0, dim), b[:cut]...), a[cut:]...)
		return c1, c2
	}
	return a, b
}

// mutate perturbs each gene with probability mutationRate by a tenth of the
// variable range, clamped into bounds to stop out-of-bounds drift.
func (e *Engine) mutate(x []float64, bounds []models.VariableBound) {
	for i, b := range bounds {
		if e.rng.Float64() < mutationRate {
			x[i] = clamp(x[i]+(e.rng.Float64()-0.5)*(b.Max-b.Min)*0.1, b)
		}
	}
}
