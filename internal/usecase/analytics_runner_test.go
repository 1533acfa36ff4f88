package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"EquipWatch/internal/domain/models"
	domrepo "EquipWatch/internal/domain/repository"
	"EquipWatch/internal/engine"
	"EquipWatch/pkg/cache"
)

type fakeStorage struct {
	series []float64
}

func (f *fakeStorage) Init(context.Context) error { return nil }

func (f *fakeStorage) Store(context.Context, *models.SensorReading) error { return nil }

func (f *fakeStorage) StoreBatch(context.Context, []*models.SensorReading) error {
	return nil
}
func (f *fakeStorage) Query(context.Context, string, string, time.Time, time.Time, int) ([]*models.SensorReading, error) {
	return nil, nil
}
func (f *fakeStorage) LatestSeries(_ context.Context, _, _ string, n int, _ domrepo.Interval) ([]float64, error) {
	if len(f.series) > n {
		return f.series[len(f.series)-n:], nil
	}
	return f.series, nil
}
func (f *fakeStorage) Health(context.Context) error { return nil }
func (f *fakeStorage) Close() error                 { return nil }

type runnerMetrics struct{ errs []string }

func (m *runnerMetrics) RecordReadingIngested(string, string) {}

func (m *runnerMetrics) RecordError(kind string) { m.errs = append(m.errs, kind) }

func (m *runnerMetrics) RecordLastReading(string, string, float64) {}

func (m *runnerMetrics) RecordLatency(string, float64) {}

func (m *runnerMetrics) RecordEngineRequest(string, string, float64) {}

func (m *runnerMetrics) RecordQueueDepth(int) {}

type capturedEvents struct{ got []*models.AnalysisEvent }

func (c *capturedEvents) PublishEvent(_ context.Context, ev *models.AnalysisEvent) error {
	c.got = append(c.got, ev)
	return nil
}
func (c *capturedEvents) Close() error { return nil }

func newTestRunner(t *testing.T, store domrepo.Storage, opts ...RunnerOption) (*AnalyticsRunner, func()) {
	t.Helper()
	eng := engine.New()
	ctx, cancel := context.WithCancel(context.Background())
	eng.Start(ctx)
	r := NewAnalyticsRunner(eng, store, &runnerMetrics{}, opts...)
	return r, func() {
		eng.Stop()
		cancel()
	}
}

func TestSpectrumInlineValues(t *testing.T) {
	r, stop := newTestRunner(t, &fakeStorage{})
	defer stop()

	n := 64
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Sin(2 * math.Pi * 5 * float64(i) / float64(n))
	}

	resp, err := r.Spectrum(context.Background(), &models.SpectrumRequest{Values: values})
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}
	if resp.Count != n {
		t.Fatalf("expected %d bins, got %d", n, resp.Count)
	}

	peak := 0
	for i, m := range resp.Magnitudes[:n/2] {
		if m > resp.Magnitudes[peak] {
			peak = i
		}
	}
	if peak != 5 {
		t.Fatalf("expected dominant bin 5, got %d", peak)
	}
}

func TestStatisticsLoadsStoredSeries(t *testing.T) {
	store := &fakeStorage{series: []float64{1, 2, 3, 4, 5}}
	r, stop := newTestRunner(t, store)
	defer stop()

	resp, err := r.Statistics(context.Background(), &models.StatisticsRequest{
		Series: &models.SeriesSelector{EquipmentID: "pump-1", SensorID: "vib", N: 5, Interval: "1m"},
		Mode:   "plain",
	})
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if resp.Summary.Count != 5 {
		t.Fatalf("expected count 5, got %d", resp.Summary.Count)
	}
	if resp.Summary.Mean != 3 {
		t.Fatalf("expected mean 3, got %v", resp.Summary.Mean)
	}
}

func TestStatisticsRequiresInput(t *testing.T) {
	r, stop := newTestRunner(t, &fakeStorage{})
	defer stop()

	_, err := r.Statistics(context.Background(), &models.StatisticsRequest{Mode: "plain"})
	if err == nil {
		t.Fatal("expected error without values or selector")
	}
}

func TestForecastPublishesEvent(t *testing.T) {
	events := &capturedEvents{}
	r, stop := newTestRunner(t, &fakeStorage{}, WithEventPublisher(events))
	defer stop()

	resp, err := r.Forecast(context.Background(), &models.ForecastRequest{
		Values: []float64{1, 2, 3, 4, 5, 6},
		Model:  "LINEAR_REGRESSION",
	})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(resp.Result.Forecast) != models.ForecastHorizon {
		t.Fatalf("expected %d-step forecast, got %d", models.ForecastHorizon, len(resp.Result.Forecast))
	}
	if len(events.got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.got))
	}
	if events.got[0].Kind != "FORECAST" || events.got[0].Status != "ok" {
		t.Fatalf("unexpected event %+v", events.got[0])
	}
	if events.got[0].Timestamp.IsZero() {
		t.Fatalf("event timestamp not set: %+v", events.got[0])
	}
}

func TestForecastBuildsLagInputs(t *testing.T) {
	r, stop := newTestRunner(t, &fakeStorage{})
	defer stop()

	// Identity-ish single layer with fan-in 2: output = x0 + x1.
	resp, err := r.Forecast(context.Background(), &models.ForecastRequest{
		Values:  []float64{1, 2, 3, 4, 5},
		Model:   "NEURAL_NETWORK",
		Weights: [][][]float64{{{1, 1}}},
		Biases:  [][]float64{{0}},
	})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(resp.Result.Fitted) == 0 {
		t.Fatal("expected fitted outputs from lagged windows")
	}
}

func TestOptimizeRateLimit(t *testing.T) {
	r, stop := newTestRunner(t, &fakeStorage{}, WithOptimizeBudget(0.001, 1))
	defer stop()

	req := &models.OptimizeRequest{
		Kind:      "SIMULATED_ANNEALING",
		Objective: []float64{1},
		Variables: []models.VariableBound{{Min: 0, Max: 1}},
		Seed:      7,
	}

	if _, err := r.Optimize(context.Background(), "client-a", req); err != nil {
		t.Fatalf("first optimize: %v", err)
	}
	_, err := r.Optimize(context.Background(), "client-a", req)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// Other clients have their own budget.
	if _, err := r.Optimize(context.Background(), "client-b", req); err != nil {
		t.Fatalf("other client: %v", err)
	}
}

func TestOptimizeDimensionMismatch(t *testing.T) {
	r, stop := newTestRunner(t, &fakeStorage{})
	defer stop()

	_, err := r.Optimize(context.Background(), "c", &models.OptimizeRequest{
		Kind:      "GENETIC_ALGORITHM",
		Objective: []float64{1, 2},
		Variables: []models.VariableBound{{Min: 0, Max: 1}},
	})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestSpectrumResultCached(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	r, stop := newTestRunner(t, &fakeStorage{}, WithResultCache(mc, time.Minute))
	defer stop()

	req := &models.SpectrumRequest{Values: []float64{1, 2, 3, 4}}
	first, err := r.Spectrum(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := r.Spectrum(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	// Cache hit replays the same request id instead of minting a new one.
	if first.RequestID != second.RequestID {
		t.Fatalf("expected cached response, got new request %s vs %s", second.RequestID, first.RequestID)
	}
}
