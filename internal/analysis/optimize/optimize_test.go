package optimize

import (
	"math"
	"reflect"
	"testing"

	"EquipWatch/internal/domain/models"
)

// sphere is minimized at the origin.
func sphere(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func boxProblem(dim int) *models.OptimizationProblem {
	bounds := make([]models.VariableBound, dim)
	for i := range bounds {
		bounds[i] = models.VariableBound{Min: -5, Max: 5}
	}
	return &models.OptimizationProblem{Objective: sphere, Bounds: bounds}
}

func TestValidation(t *testing.T) {
	e := New(1)
	if _, err := e.Run(models.OptimizerGenetic, &models.OptimizationProblem{Objective: sphere}); err == nil {
		t.Fatalf("expected error for missing bounds")
	}
	if _, err := e.Run(models.OptimizerGenetic, &models.OptimizationProblem{
		Objective: sphere,
		Bounds:    []models.VariableBound{{Min: 2, Max: 1}},
	}); err == nil {
		t.Fatalf("expected error for inverted bounds")
	}
	if _, err := e.Run("HILL_CLIMBING", boxProblem(2)); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestLinearProgrammingIsAnExplicitStub(t *testing.T) {
	res, err := New(1).Run(models.OptimizerLinearProgramming, boxProblem(3))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Implemented {
		t.Fatalf("lp solver is a stub and must say so")
	}
	if !reflect.DeepEqual(res.Solution, []float64{0, 0, 0}) {
		t.Fatalf("lp stub solution = %v, want zero vector", res.Solution)
	}
}

func TestGeneticDeterministicUnderSeed(t *testing.T) {
	a, err := New(42).Run(models.OptimizerGenetic, boxProblem(3))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := New(42).Run(models.OptimizerGenetic, boxProblem(3))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(a.Solution, b.Solution) || a.Objective != b.Objective {
		t.Fatalf("same seed produced different results: %v vs %v", a, b)
	}
}

func TestGeneticConvergesAndStaysInBounds(t *testing.T) {
	prob := boxProblem(2)
	res, err := New(7).Run(models.OptimizerGenetic, prob)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Feasible {
		t.Fatalf("unconstrained box problem must be feasible")
	}
	for i, v := range res.Solution {
		if v < prob.Bounds[i].Min || v > prob.Bounds[i].Max {
			t.Fatalf("solution[%d] = %v escaped bounds", i, v)
		}
	}
	if res.Objective > 1.0 {
		t.Fatalf("objective = %v, expected near-zero for the sphere", res.Objective)
	}
}

func TestGeneticPrefersFeasible(t *testing.T) {
	// Constraint x0 >= 1 (encoded 1 - x0 <= 0) rules out the unconstrained
	// optimum; the winner must still satisfy it.
	prob := boxProblem(2)
	prob.Constraints = []func([]float64) float64{
		func(x []float64) float64 { return 1 - x[0] },
	}
	res, err := New(3).Run(models.OptimizerGenetic, prob)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Feasible {
		t.Fatalf("expected a feasible winner")
	}
	if res.Solution[0] < 1 {
		t.Fatalf("solution violates constraint: %v", res.Solution)
	}
}

func TestAnnealingBestNeverWorseThanVisited(t *testing.T) {
	// Wrap the objective to record every evaluation.
	var visited []float64
	prob := boxProblem(2)
	inner := prob.Objective
	prob.Objective = func(x []float64) float64 {
		v := inner(x)
		visited = append(visited, v)
		return v
	}

	res, err := New(11).Run(models.OptimizerAnnealing, prob)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, v := range visited {
		if res.Objective > v+1e-12 {
			t.Fatalf("best %v worse than visited %v", res.Objective, v)
		}
	}
	if res.Objective > 1.0 {
		t.Fatalf("objective = %v, expected near-zero for the sphere", res.Objective)
	}
}

func TestAnnealingRespectsBoundsAndConstraints(t *testing.T) {
	prob := boxProblem(1)
	prob.Constraints = []func([]float64) float64{
		func(x []float64) float64 { return 2 - x[0] }, // x0 >= 2
	}
	res, err := New(5).Run(models.OptimizerAnnealing, prob)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Feasible {
		t.Fatalf("feasible region is reachable, expected feasible result")
	}
	if res.Solution[0] < 2 || res.Solution[0] > 5 {
		t.Fatalf("solution %v outside feasible box", res.Solution)
	}
	if math.Abs(res.Objective-sphere(res.Solution)) > 1e-12 {
		t.Fatalf("objective does not match solution")
	}
}
