package optimize

import "EquipWatch/internal/domain/models"

// linearProgramming has never had a real solver behind it. It returns the zero
// vector tagged Implemented=false so callers can surface "not yet available"
// instead of trusting a fake optimum.
func linearProgramming(prob *models.OptimizationProblem) *models.OptimizationResult {
	x := make([]float64, prob.Dim())
	return &models.OptimizationResult{
		Kind:        models.OptimizerLinearProgramming,
		Solution:    x,
		Objective:   prob.Objective(x),
		Feasible:    true,
		Implemented: false,
	}
}
