package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"EquipWatch/internal/analysis/forecast"
	"EquipWatch/internal/domain/models"
	domrepo "EquipWatch/internal/domain/repository"
	domsvc "EquipWatch/internal/domain/service"
	"EquipWatch/internal/engine"
	"EquipWatch/internal/service/ratelimit"
	"EquipWatch/pkg/cache"
	applogger "EquipWatch/pkg/logger"
)

// ErrRateLimited is returned when an optimization request exceeds the
// configured budget.
var ErrRateLimited = errors.New("optimization rate limit exceeded")

// AnalyticsRunner is the application-level front of the analytics
// engine: it resolves input series, consults the result cache, submits
// the request, and fans a lifecycle event out on completion.
type AnalyticsRunner struct {
	eng     domsvc.AnalyticsEngine
	store   domrepo.Storage
	cache   cache.Service
	events  domrepo.EventPublisher
	limiter *ratelimit.Limiter
	metrics domrepo.Metrics
	l       *applogger.Logger

	resultTTL     time.Duration
	optimizeRPS   float64
	optimizeBurst float64
}

type RunnerOption func(*AnalyticsRunner)

// WithResultCache enables result caching with the given TTL.
func WithResultCache(c cache.Service, ttl time.Duration) RunnerOption {
	return func(r *AnalyticsRunner) {
		r.cache = c
		r.resultTTL = ttl
	}
}

// WithOptimizeBudget caps optimization requests per client key.
func WithOptimizeBudget(rps, burst float64) RunnerOption {
	return func(r *AnalyticsRunner) {
		if rps > 0 {
			r.optimizeRPS = rps
		}
		if burst > 0 {
			r.optimizeBurst = burst
		}
	}
}

// WithEventPublisher fans analysis events out after each run.
func WithEventPublisher(p domrepo.EventPublisher) RunnerOption {
	return func(r *AnalyticsRunner) { r.events = p }
}

// WithRunnerLogger attaches a structured logger.
func WithRunnerLogger(l *applogger.Logger) RunnerOption {
	return func(r *AnalyticsRunner) { r.l = l }
}

func NewAnalyticsRunner(eng domsvc.AnalyticsEngine, store domrepo.Storage, metrics domrepo.Metrics, opts ...RunnerOption) *AnalyticsRunner {
	r := &AnalyticsRunner{
		eng:           eng,
		store:         store,
		metrics:       metrics,
		limiter:       ratelimit.New(),
		resultTTL:     time.Minute,
		optimizeRPS:   1,
		optimizeBurst: 5,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SpectrumResponse is the payload returned for a spectrum analysis.
type SpectrumResponse struct {
	RequestID  string    `json:"request_id"`
	Count      int       `json:"count"`
	Magnitudes []float64 `json:"magnitudes"`
}

func (r *AnalyticsRunner) Spectrum(ctx context.Context, req *models.SpectrumRequest) (*SpectrumResponse, error) {
	signal, sel, err := r.resolveSeries(ctx, req.Values, req.Series)
	if err != nil {
		return nil, err
	}

	key := cache.PayloadKey("spectrum", req)
	var cached SpectrumResponse
	if r.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	reply, err := r.eng.Do(ctx, engine.Request{Type: engine.RequestSpectral, Signal: signal})
	r.publishEvent(ctx, reply.ID, sel, "SPECTRAL", err)
	if err != nil {
		return nil, err
	}

	resp := &SpectrumResponse{RequestID: reply.ID, Count: len(reply.Spectrum), Magnitudes: reply.Spectrum}
	r.cacheSet(ctx, key, resp)
	return resp, nil
}

// StatisticsResponse is the payload returned for a statistics run.
type StatisticsResponse struct {
	RequestID string              `json:"request_id"`
	Summary   *models.StatSummary `json:"summary"`
}

func (r *AnalyticsRunner) Statistics(ctx context.Context, req *models.StatisticsRequest) (*StatisticsResponse, error) {
	values, sel, err := r.resolveSeries(ctx, req.Values, req.Series)
	if err != nil {
		return nil, err
	}

	key := cache.PayloadKey("statistics", req)
	var cached StatisticsResponse
	if r.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	reply, err := r.eng.Do(ctx, engine.Request{
		Type:       engine.RequestStatistics,
		Signal:     values,
		TimeSeries: req.Mode == "time-series",
	})
	r.publishEvent(ctx, reply.ID, sel, "STATISTICS", err)
	if err != nil {
		return nil, err
	}

	resp := &StatisticsResponse{RequestID: reply.ID, Summary: reply.Stats}
	r.cacheSet(ctx, key, resp)
	return resp, nil
}

// ForecastResponse is the payload returned for a forecast run.
type ForecastResponse struct {
	RequestID string                 `json:"request_id"`
	Result    *models.ForecastResult `json:"result"`
}

func (r *AnalyticsRunner) Forecast(ctx context.Context, req *models.ForecastRequest) (*ForecastResponse, error) {
	series, sel, err := r.resolveSeries(ctx, req.Values, req.Series)
	if err != nil {
		return nil, err
	}

	params := forecast.Params{
		Alpha:   req.Alpha,
		Beta:    req.Beta,
		Gamma:   req.Gamma,
		Periods: req.Periods,
		D:       req.D,
		Weights: req.Weights,
		Biases:  req.Biases,
		Inputs:  req.Inputs,
		Sigmoid: req.Sigmoid,
	}

	// Network inference with no explicit input rows runs over lagged
	// windows of the series, one row per step, sized to the input layer.
	if models.ForecastModel(req.Model) == models.ModelNeuralNetwork && len(params.Inputs) == 0 && len(params.Weights) > 0 {
		lags := inputWidth(params.Weights)
		if lags > 0 {
			params.Inputs = forecast.BuildLagMatrix(series, lags)
		}
	}

	key := cache.PayloadKey("forecast", req)
	var cached ForecastResponse
	if r.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	reply, err := r.eng.Do(ctx, engine.Request{
		Type:           engine.RequestForecast,
		Signal:         series,
		Model:          models.ForecastModel(req.Model),
		ForecastParams: params,
	})
	r.publishEvent(ctx, reply.ID, sel, "FORECAST", err)
	if err != nil {
		return nil, err
	}

	resp := &ForecastResponse{RequestID: reply.ID, Result: reply.Forecast}
	r.cacheSet(ctx, key, resp)
	return resp, nil
}

// OptimizeResponse is the payload returned for an optimization run.
type OptimizeResponse struct {
	RequestID string                     `json:"request_id"`
	Result    *models.OptimizationResult `json:"result"`
}

// Optimize builds the callable problem from the declarative request and
// submits it. clientKey scopes the rate limit, typically the remote IP.
func (r *AnalyticsRunner) Optimize(ctx context.Context, clientKey string, req *models.OptimizeRequest) (*OptimizeResponse, error) {
	if !r.limiter.Allow(clientKey, r.optimizeBurst, r.optimizeRPS) {
		r.metrics.RecordError("optimize_rate_limited")
		return nil, ErrRateLimited
	}

	dim := len(req.Variables)
	if len(req.Objective) != dim {
		return nil, fmt.Errorf("objective has %d coefficients for %d variables", len(req.Objective), dim)
	}
	for i, c := range req.Constraints {
		if len(c.Coefficients) != dim {
			return nil, fmt.Errorf("constraint %d has %d coefficients for %d variables", i, len(c.Coefficients), dim)
		}
	}

	problem := &models.OptimizationProblem{
		Objective:   linearForm(req.Objective, 0),
		Constraints: make([]func([]float64) float64, 0, len(req.Constraints)),
		Bounds:      req.Variables,
	}
	for _, c := range req.Constraints {
		problem.Constraints = append(problem.Constraints, linearForm(c.Coefficients, c.Bound))
	}

	reply, err := r.eng.Do(ctx, engine.Request{
		Type: engine.RequestOptimize,
		Optimizer: engine.OptimizerRequest{
			Kind:    models.OptimizerKind(req.Kind),
			Problem: problem,
			Seed:    req.Seed,
		},
	})
	r.publishEvent(ctx, reply.ID, nil, "OPTIMIZE", err)
	if err != nil {
		return nil, err
	}
	return &OptimizeResponse{RequestID: reply.ID, Result: reply.Optimum}, nil
}

// linearForm returns x -> c.x - b.
func linearForm(coeffs []float64, b float64) func([]float64) float64 {
	return func(x []float64) float64 {
		var s float64
		for i, c := range coeffs {
			s += c * x[i]
		}
		return s - b
	}
}

// inputWidth returns the first layer's fan-in, or 0 for a malformed net.
func inputWidth(weights [][][]float64) int {
	if len(weights) == 0 || len(weights[0]) == 0 {
		return 0
	}
	return len(weights[0][0])
}

// resolveSeries picks inline values or loads the named sensor series.
func (r *AnalyticsRunner) resolveSeries(ctx context.Context, values []float64, sel *models.SeriesSelector) ([]float64, *models.SeriesSelector, error) {
	if len(values) > 0 {
		return values, nil, nil
	}
	if sel == nil || sel.EquipmentID == "" {
		return nil, nil, fmt.Errorf("either values or series selector required")
	}
	n := sel.N
	if n <= 0 {
		n = 512
	}
	iv := domrepo.NormalizeInterval(sel.Interval)
	series, err := r.store.LatestSeries(ctx, sel.EquipmentID, sel.SensorID, n, iv)
	if err != nil {
		return nil, sel, fmt.Errorf("load series %s/%s: %w", sel.EquipmentID, sel.SensorID, err)
	}
	if len(series) == 0 {
		return nil, sel, fmt.Errorf("no stored readings for %s/%s", sel.EquipmentID, sel.SensorID)
	}
	return series, sel, nil
}

func (r *AnalyticsRunner) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if r.cache == nil {
		return false
	}
	if err := r.cache.Get(ctx, key, dest); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) && r.l != nil {
			r.l.Warn("result cache get failed", applogger.String("key", key), applogger.Error(err))
		}
		return false
	}
	return true
}

func (r *AnalyticsRunner) cacheSet(ctx context.Context, key string, value interface{}) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, value, r.resultTTL); err != nil && r.l != nil {
		r.l.Warn("result cache set failed", applogger.String("key", key), applogger.Error(err))
	}
}

func (r *AnalyticsRunner) publishEvent(ctx context.Context, requestID string, sel *models.SeriesSelector, kind string, runErr error) {
	if r.events == nil {
		return
	}
	ev := &models.AnalysisEvent{
		RequestID: requestID,
		Kind:      kind,
		Status:    "ok",
		Timestamp: time.Now(),
	}
	if sel != nil {
		ev.EquipmentID = sel.EquipmentID
		ev.SensorID = sel.SensorID
	}
	if runErr != nil {
		ev.Status = "error"
		ev.Detail = runErr.Error()
	}
	if err := r.events.PublishEvent(ctx, ev); err != nil {
		r.metrics.RecordError("event_publish")
		if r.l != nil {
			r.l.Warn("analysis event publish failed", applogger.String("kind", kind), applogger.Error(err))
		}
	}
}
