package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"EquipWatch/internal/domain/models"
)

func startEngine(t *testing.T) *Engine {
	t.Helper()
	e := New()
	e.Start(context.Background())
	t.Cleanup(e.Stop)
	return e
}

func TestDispatchSpectral(t *testing.T) {
	e := startEngine(t)
	r, err := e.Do(context.Background(), Request{
		Type:   RequestSpectral,
		Signal: []float64{1, 0, -1, 0, 1, 0, -1, 0},
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if len(r.Spectrum) != 8 {
		t.Fatalf("spectrum length = %d, want 8", len(r.Spectrum))
	}
}

func TestDispatchStatistics(t *testing.T) {
	e := startEngine(t)
	r, err := e.Do(context.Background(), Request{
		Type:       RequestStatistics,
		Signal:     []float64{1, 2, 3, 4, 5},
		TimeSeries: false,
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if r.Stats.Mean != 3 {
		t.Fatalf("mean = %v, want 3", r.Stats.Mean)
	}
}

func TestDispatchForecast(t *testing.T) {
	e := startEngine(t)
	r, err := e.Do(context.Background(), Request{
		Type:   RequestForecast,
		Signal: []float64{1, 2, 3, 4, 5, 6},
		Model:  models.ModelLinearRegression,
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if len(r.Forecast.Forecast) != models.ForecastHorizon {
		t.Fatalf("horizon = %d", len(r.Forecast.Forecast))
	}
}

func TestDispatchOptimize(t *testing.T) {
	e := startEngine(t)
	r, err := e.Do(context.Background(), Request{
		Type: RequestOptimize,
		Optimizer: OptimizerRequest{
			Kind: models.OptimizerAnnealing,
			Seed: 1,
			Problem: &models.OptimizationProblem{
				Objective: func(x []float64) float64 { return x[0] * x[0] },
				Bounds:    []models.VariableBound{{Min: -1, Max: 1}},
			},
		},
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if !r.Optimum.Feasible {
		t.Fatalf("expected feasible result")
	}
}

func TestUnknownRequestTypeIsTypedError(t *testing.T) {
	e := startEngine(t)
	r := <-e.Submit(Request{Type: "CALIBRATE"})
	if !errors.Is(r.Err, ErrUnknownRequestType) {
		t.Fatalf("err = %v, want ErrUnknownRequestType", r.Err)
	}

	// The worker must survive the unknown request.
	if _, err := e.Do(context.Background(), Request{Type: RequestStatistics, Signal: []float64{1, 2}}); err != nil {
		t.Fatalf("engine died after unknown request: %v", err)
	}
}

func TestErrorDoesNotAffectLaterRequests(t *testing.T) {
	e := startEngine(t)
	if _, err := e.Do(context.Background(), Request{Type: RequestSpectral, Signal: nil}); err == nil {
		t.Fatalf("expected error for empty signal")
	}
	if _, err := e.Do(context.Background(), Request{Type: RequestSpectral, Signal: []float64{1, 2, 3, 4}}); err != nil {
		t.Fatalf("later request failed: %v", err)
	}
}

func TestRepliesInSubmissionOrder(t *testing.T) {
	e := startEngine(t)

	var chans []<-chan Reply
	var ids []string
	for i := 0; i < 20; i++ {
		req := Request{ID: string(rune('a' + i)), Type: RequestStatistics, Signal: []float64{float64(i), 1, 2}}
		ids = append(ids, req.ID)
		chans = append(chans, e.Submit(req))
	}

	for i, ch := range chans {
		select {
		case r := <-ch:
			if r.ID != ids[i] {
				t.Fatalf("reply %d has id %q, want %q", i, r.ID, ids[i])
			}
			if r.Err != nil {
				t.Fatalf("reply %d: %v", i, r.Err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for reply %d", i)
		}
	}
}

func TestPanicRecovered(t *testing.T) {
	e := startEngine(t)
	r, err := e.Do(context.Background(), Request{
		Type: RequestOptimize,
		Optimizer: OptimizerRequest{
			Kind: models.OptimizerAnnealing,
			Problem: &models.OptimizationProblem{
				Objective: func(x []float64) float64 { panic("objective blew up") },
				Bounds:    []models.VariableBound{{Min: 0, Max: 1}},
			},
		},
	})
	if err == nil {
		t.Fatalf("expected error reply from panicking objective, got %+v", r)
	}

	// Worker still alive.
	if _, err := e.Do(context.Background(), Request{Type: RequestStatistics, Signal: []float64{1, 2}}); err != nil {
		t.Fatalf("engine died after panic: %v", err)
	}
}

func TestStoppedEngineRejects(t *testing.T) {
	e := New()
	e.Start(context.Background())
	e.Stop()
	// Give the worker a beat to observe shutdown.
	time.Sleep(10 * time.Millisecond)

	r := <-e.Submit(Request{Type: RequestStatistics, Signal: []float64{1}})
	if !errors.Is(r.Err, ErrStopped) {
		t.Fatalf("err = %v, want ErrStopped", r.Err)
	}
}

func TestIndependentEnginesRunConcurrently(t *testing.T) {
	a := startEngine(t)
	b := startEngine(t)

	ra, err := a.Do(context.Background(), Request{Type: RequestStatistics, Signal: []float64{1, 2, 3}})
	if err != nil {
		t.Fatalf("engine a: %v", err)
	}
	rb, err := b.Do(context.Background(), Request{Type: RequestStatistics, Signal: []float64{4, 5, 6}})
	if err != nil {
		t.Fatalf("engine b: %v", err)
	}
	if ra.Stats.Mean != 2 || rb.Stats.Mean != 5 {
		t.Fatalf("means = %v, %v", ra.Stats.Mean, rb.Stats.Mean)
	}
}
