package repository

import (
	"context"
	"time"

	"EquipWatch/internal/domain/models"
)

// SensorStream is a live feed of readings from the sensor gateway.
type SensorStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.SensorReading, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher pushes raw readings to the streaming backend.
type Publisher interface {
	Publish(ctx context.Context, r *models.SensorReading) error
	PublishBatch(ctx context.Context, readings []*models.SensorReading) error
	Close() error
}

// EventPublisher fans analysis events out to the notifications topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev *models.AnalysisEvent) error
	Close() error
}

// Storage persists readings and serves them back as uniform series.
type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, r *models.SensorReading) error
	StoreBatch(ctx context.Context, readings []*models.SensorReading) error
	Query(ctx context.Context, equipmentID, sensorID string, from, to time.Time, limit int) ([]*models.SensorReading, error)
	// LatestSeries returns up to n values for one sensor in chronological
	// order, resampled to the given interval.
	LatestSeries(ctx context.Context, equipmentID, sensorID string, n int, iv Interval) ([]float64, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Metrics records operational telemetry.
type Metrics interface {
	RecordReadingIngested(backend, equipmentID string)
	RecordError(kind string)
	RecordLastReading(equipmentID, sensorID string, value float64)
	RecordLatency(op string, seconds float64)
	RecordEngineRequest(requestType, status string, seconds float64)
	RecordQueueDepth(depth int)
}
