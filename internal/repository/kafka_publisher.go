package repository

import (
	"context"
	"fmt"

	"EquipWatch/internal/domain/models"
	domrepo "EquipWatch/internal/domain/repository"
	pkgkafka "EquipWatch/pkg/kafka"
)

// KafkaReadingPublisher implements Publisher on a Kafka topic. Messages
// are keyed by equipment so per-machine ordering survives partitioning.
type KafkaReadingPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaReadingPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaReadingPublisher{producer: producer, topic: topic}
}

func (p *KafkaReadingPublisher) Publish(ctx context.Context, r *models.SensorReading) error {
	return p.producer.Publish(ctx, p.topic, readingKey(r), r)
}

func (p *KafkaReadingPublisher) PublishBatch(ctx context.Context, readings []*models.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(readings))
	for i, r := range readings {
		msgs[i] = pkgkafka.Message{
			Key:   readingKey(r),
			Value: r,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaReadingPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func readingKey(r *models.SensorReading) []byte {
	return []byte(fmt.Sprintf("%s/%s", r.EquipmentID, r.SensorID))
}

// KafkaEventPublisher implements EventPublisher for analysis lifecycle
// events.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) domrepo.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, ev *models.AnalysisEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.EquipmentID), ev)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// LogSink adapts the producer to the logger collector's Publisher
// interface so aggregated error batches land on the events topic.
type LogSink struct {
	producer *pkgkafka.Producer
}

func NewLogSink(producer *pkgkafka.Producer) *LogSink {
	return &LogSink{producer: producer}
}

func (s *LogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}
