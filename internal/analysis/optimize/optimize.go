package optimize

import (
	"fmt"
	"math/rand"

	"EquipWatch/internal/domain/models"
)

// Engine runs constrained-search solvers over bounded real vectors. The RNG is
// injected so metaheuristic runs are reproducible under a fixed seed.
type Engine struct {
	rng *rand.Rand
}

// New creates an engine seeded for reproducible runs.
func New(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// Run dispatches to the solver for kind.
func (e *Engine) Run(kind models.OptimizerKind, prob *models.OptimizationProblem) (*models.OptimizationResult, error) {
	if err := validate(prob); err != nil {
		return nil, err
	}
	switch kind {
	case models.OptimizerLinearProgramming:
		return linearProgramming(prob), nil
	case models.OptimizerGenetic:
		return e.genetic(prob), nil
	case models.OptimizerAnnealing:
		return e.anneal(prob), nil
	default:
		return nil, fmt.Errorf("optimize: unknown kind %q", kind)
	}
}

func validate(prob *models.OptimizationProblem) error {
	if prob == nil || prob.Objective == nil {
		return fmt.Errorf("optimize: problem needs an objective")
	}
	if len(prob.Bounds) == 0 {
		return fmt.Errorf("optimize: problem needs at least one variable")
	}
	for i, b := range prob.Bounds {
		if b.Min > b.Max {
			return fmt.Errorf("optimize: variable %d has min %v > max %v", i, b.Min, b.Max)
		}
	}
	return nil
}

// randomPoint draws a uniform point inside the bounded box.
func (e *Engine) randomPoint(bounds []models.VariableBound) []float64 {
	x := make([]float64, len(bounds))
	for i, b := range bounds {
		x[i] = b.Min + e.rng.Float64()*(b.Max-b.Min)
	}
	return x
}

func clamp(v float64, b models.VariableBound) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}
