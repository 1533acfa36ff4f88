package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"EquipWatch/internal/domain/models"
	domrepo "EquipWatch/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, r *models.SensorReading) error
}

// IngestPipeline sits between the gateway stream and the streaming
// backend. It validates, throttles per sensor, optionally transforms,
// and buffers when downstream is unavailable.
type IngestPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.SensorReading
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-sensor last accepted time
	// optional unit conversion or remapping hook
	transform func(*models.SensorReading) *models.SensorReading
	// metrics
	bufDepthGauge func(int)
	throttleWarn  func(string)
}

type PipelineOption func(*IngestPipeline)

// WithMaxRPS sets the max readings per second per sensor.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a hook to rewrite readings before forwarding.
func WithTransform(fn func(*models.SensorReading) *models.SensorReading) PipelineOption {
	return func(p *IngestPipeline) { p.transform = fn }
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   50,   // default throttle per sensor
		bufSize:  1000, // default buffer
		bufCh:    make(chan *models.SensorReading, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.SensorReading, p.bufSize)
	}
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	p.throttleWarn = func(sensor string) { p.metrics.RecordError("pipeline_throttle_" + sensor) }
	return p
}

// Start launches background flushing of buffered readings.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case r := <-p.bufCh:
				if r == nil {
					continue
				}
				if err := p.proc.Process(ctx, r); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- r:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a reading downstream,
// buffering on errors.
func (p *IngestPipeline) Process(ctx context.Context, r *models.SensorReading) error {
	start := time.Now()
	if err := validateReading(r); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		r = p.transform(r)
		if err := validateReading(r); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if !p.allow(sensorKey(r), start) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		if p.throttleWarn != nil {
			p.throttleWarn(sensorKey(r))
		}
		return nil
	}

	if err := p.proc.Process(ctx, r); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- r:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateReading(r *models.SensorReading) error {
	if r == nil {
		return fmt.Errorf("reading nil")
	}
	if r.EquipmentID == "" {
		return fmt.Errorf("equipment id empty")
	}
	if r.SensorID == "" {
		return fmt.Errorf("sensor id empty")
	}
	if r.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	return nil
}

func sensorKey(r *models.SensorReading) string {
	return r.EquipmentID + "/" + r.SensorID
}

func (p *IngestPipeline) allow(key string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	// simple throttle: at most maxRPS accepted per second per sensor
	last := p.lastSeen[key]
	if last.IsZero() {
		p.lastSeen[key] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[key] = now
	return true
}
