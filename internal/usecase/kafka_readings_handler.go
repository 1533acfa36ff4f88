package usecase

import (
	"context"
	"encoding/json"
	"time"

	"EquipWatch/internal/domain/models"
	domrepo "EquipWatch/internal/domain/repository"
	pkgkafka "EquipWatch/pkg/kafka"
)

// KafkaReadingsHandler consumes reading messages and writes them to
// storage.
type KafkaReadingsHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaReadingsHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaReadingsHandler {
	return &KafkaReadingsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaReadingsHandler) Topic() string { return h.topic }

func (h *KafkaReadingsHandler) Handle(ctx context.Context, b []byte) error {
	var r models.SensorReading
	if err := json.Unmarshal(b, &r); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if r.Timestamp > 1e11 { // ms
		r.Timestamp = r.Timestamp / 1000
	}
	// E2E latency from event time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(r.Timestamp, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &r)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordReadingIngested("clickhouse", r.EquipmentID)
	h.metrics.RecordLastReading(r.EquipmentID, r.SensorID, r.Value)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaReadingsHandler)(nil)
