package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"EquipWatch/internal/analysis/forecast"
	"EquipWatch/internal/analysis/optimize"
	"EquipWatch/internal/analysis/spectral"
	"EquipWatch/internal/analysis/stats"
	"EquipWatch/internal/domain/models"
	"EquipWatch/internal/domain/repository"
)

// ErrUnknownRequestType is returned in the reply for an unroutable request.
// It is fatal to that single request only.
var ErrUnknownRequestType = errors.New("engine: unknown request type")

// ErrStopped is returned when a request is submitted to a stopped engine.
var ErrStopped = errors.New("engine: stopped")

// RequestType tags an engine request.
type RequestType string

const (
	RequestSpectral   RequestType = "SPECTRAL"
	RequestStatistics RequestType = "STATISTICS"
	RequestForecast   RequestType = "FORECAST"
	RequestOptimize   RequestType = "OPTIMIZE"
)

// Request is a tagged union: exactly the payload fields for Type are set.
type Request struct {
	ID   string
	Type RequestType

	// RequestSpectral, RequestStatistics, RequestForecast input series.
	Signal []float64

	// RequestStatistics.
	TimeSeries bool

	// RequestForecast.
	Model          models.ForecastModel
	ForecastParams forecast.Params

	// RequestOptimize.
	Optimizer OptimizerRequest
}

// OptimizerRequest wraps an optimization problem with its solver choice.
type OptimizerRequest struct {
	Kind    models.OptimizerKind
	Problem *models.OptimizationProblem
	Seed    int64
}

// Reply carries exactly one result field matching the request type, or Err.
type Reply struct {
	ID       string
	Type     RequestType
	Err      error
	Spectrum []float64
	Stats    *models.StatSummary
	Forecast *models.ForecastResult
	Optimum  *models.OptimizationResult
}

type pending struct {
	req   Request
	reply chan Reply
}

// Engine is the single entry point external collaborators talk to. All
// computation happens on one dedicated worker goroutine: requests run to
// completion one at a time, replies come back in submission order, and an
// error in one request never affects another. Independent Engine instances
// share nothing but the read-only spectral twiddle cache.
type Engine struct {
	spectral *spectral.Analyzer
	forecast *forecast.Engine
	metrics  repository.Metrics

	queue chan pending

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches a metrics recorder.
func WithMetrics(m repository.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithQueueSize sets the request queue capacity.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.queue = make(chan pending, n)
		}
	}
}

// New creates an engine. Call Start before submitting requests.
func New(opts ...Option) *Engine {
	e := &Engine{
		spectral: spectral.New(),
		forecast: forecast.New(),
		queue:    make(chan pending, 64),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches the worker goroutine. It returns immediately; the worker
// drains the queue until ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		go e.run(ctx)
	})
}

// Stop shuts the worker down. In-flight computation finishes first; queued
// requests get ErrStopped replies.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.done) })
}

// Submit enqueues a request and returns the channel its reply will arrive on.
// Replies for requests submitted from one goroutine arrive in submission
// order. A stopped engine replies immediately with ErrStopped.
func (e *Engine) Submit(req Request) <-chan Reply {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	reply := make(chan Reply, 1)
	p := pending{req: req, reply: reply}
	select {
	case e.queue <- p:
		if e.metrics != nil {
			e.metrics.RecordQueueDepth(len(e.queue))
		}
	case <-e.done:
		reply <- Reply{ID: req.ID, Type: req.Type, Err: ErrStopped}
	}
	return reply
}

// Do submits a request and waits for its reply. The context bounds only the
// wait: a computation already running cannot be aborted, and a late reply is
// simply discarded.
func (e *Engine) Do(ctx context.Context, req Request) (Reply, error) {
	select {
	case r := <-e.Submit(req):
		return r, r.Err
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

func (e *Engine) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.Stop()
			e.drain()
			return
		case <-e.done:
			e.drain()
			return
		case p := <-e.queue:
			p.reply <- e.handle(p.req)
		}
	}
}

// drain keeps failing queued requests after shutdown so no submitter that won
// the enqueue race is ever stranded. The worker goroutine stays parked here
// for the rest of the process lifetime.
func (e *Engine) drain() {
	for p := range e.queue {
		p.reply <- Reply{ID: p.req.ID, Type: p.req.Type, Err: ErrStopped}
	}
}

// handle executes one request to completion. A panic inside a solver is
// converted to an error reply rather than killing the worker.
func (e *Engine) handle(req Request) (reply Reply) {
	start := time.Now()
	reply = Reply{ID: req.ID, Type: req.Type}

	defer func() {
		if r := recover(); r != nil {
			reply.Err = fmt.Errorf("engine: %s request panicked: %v", req.Type, r)
		}
		if e.metrics != nil {
			status := "ok"
			if reply.Err != nil {
				status = "error"
			}
			e.metrics.RecordEngineRequest(string(req.Type), status, time.Since(start).Seconds())
		}
	}()

	switch req.Type {
	case RequestSpectral:
		reply.Spectrum, reply.Err = e.spectral.Transform(req.Signal)
	case RequestStatistics:
		reply.Stats, reply.Err = stats.Summarize(req.Signal, req.TimeSeries)
	case RequestForecast:
		reply.Forecast, reply.Err = e.forecast.Run(req.Model, req.Signal, req.ForecastParams)
	case RequestOptimize:
		opt := optimize.New(req.Optimizer.Seed)
		reply.Optimum, reply.Err = opt.Run(req.Optimizer.Kind, req.Optimizer.Problem)
	default:
		reply.Err = fmt.Errorf("%w: %q", ErrUnknownRequestType, req.Type)
	}
	return reply
}
