package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	readingsIngested *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	lastReading      *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
	engineRequests   *prometheus.CounterVec
	engineDuration   *prometheus.HistogramVec
	queueDepth       prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		readingsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "equipwatch_readings_ingested_total",
				Help: "Total number of sensor readings routed to a backend",
			},
			[]string{"backend", "equipment"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "equipwatch_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastReading: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "equipwatch_last_reading",
				Help: "Last recorded value per sensor",
			},
			[]string{"equipment", "sensor"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "equipwatch_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		engineRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "equipwatch_engine_requests_total",
				Help: "Analytics engine requests by type and outcome",
			},
			[]string{"type", "status"},
		),
		engineDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "equipwatch_engine_request_duration_seconds",
				Help:    "Analytics engine request duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 15, 60},
			},
			[]string{"type"},
		),
		queueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "equipwatch_engine_queue_depth",
				Help: "Requests waiting in the engine dispatch queue",
			},
		),
	}
}

// RecordReadingIngested records a reading routed to a backend.
func (r *Recorder) RecordReadingIngested(backend, equipmentID string) {
	r.readingsIngested.WithLabelValues(backend, equipmentID).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastReading records the most recent value for a sensor.
func (r *Recorder) RecordLastReading(equipmentID, sensorID string, value float64) {
	r.lastReading.WithLabelValues(equipmentID, sensorID).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordEngineRequest records one completed engine request.
func (r *Recorder) RecordEngineRequest(requestType, status string, seconds float64) {
	r.engineRequests.WithLabelValues(requestType, status).Inc()
	r.engineDuration.WithLabelValues(requestType).Observe(seconds)
}

// RecordQueueDepth records the engine queue depth.
func (r *Recorder) RecordQueueDepth(depth int) {
	r.queueDepth.Set(float64(depth))
}
