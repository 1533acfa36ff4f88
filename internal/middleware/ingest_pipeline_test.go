package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"EquipWatch/internal/domain/models"
)

type fakeProc struct {
	mu   sync.Mutex
	got  []*models.SensorReading
	fail bool
}

func (f *fakeProc) Process(_ context.Context, r *models.SensorReading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("downstream down")
	}
	f.got = append(f.got, r)
	return nil
}

func (f *fakeProc) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

type noopMetrics struct{}

func (noopMetrics) RecordReadingIngested(string, string) {}

func (noopMetrics) RecordError(string) {}

func (noopMetrics) RecordLastReading(string, string, float64) {}

func (noopMetrics) RecordLatency(string, float64) {}

func (noopMetrics) RecordEngineRequest(string, string, float64) {}

func (noopMetrics) RecordQueueDepth(int) {}

func reading(eq, sensor string, v float64) *models.SensorReading {
	return &models.SensorReading{EquipmentID: eq, SensorID: sensor, Value: v, Timestamp: time.Now().Unix()}
}

func TestPipelineForwardsValidReading(t *testing.T) {
	proc := &fakeProc{}
	p := NewIngestPipeline(proc, noopMetrics{})

	if err := p.Process(context.Background(), reading("pump-1", "vib", 0.42)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 forwarded reading, got %d", proc.count())
	}
}

func TestPipelineRejectsInvalidReading(t *testing.T) {
	proc := &fakeProc{}
	p := NewIngestPipeline(proc, noopMetrics{})

	cases := []*models.SensorReading{
		nil,
		{SensorID: "vib", Timestamp: 1},
		{EquipmentID: "pump-1", Timestamp: 1},
		{EquipmentID: "pump-1", SensorID: "vib"},
	}
	for i, r := range cases {
		if err := p.Process(context.Background(), r); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if proc.count() != 0 {
		t.Fatalf("invalid readings must not be forwarded, got %d", proc.count())
	}
}

func TestPipelineThrottlesPerSensor(t *testing.T) {
	proc := &fakeProc{}
	p := NewIngestPipeline(proc, noopMetrics{}, WithMaxRPS(1))

	r := reading("pump-1", "vib", 1)
	if err := p.Process(context.Background(), r); err != nil {
		t.Fatalf("first reading: %v", err)
	}
	// Immediate second reading for the same sensor gets dropped.
	if err := p.Process(context.Background(), r); err != nil {
		t.Fatalf("throttled reading should drop silently: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 forwarded reading after throttle, got %d", proc.count())
	}

	// A different sensor is not affected.
	if err := p.Process(context.Background(), reading("pump-1", "temp", 60)); err != nil {
		t.Fatalf("other sensor: %v", err)
	}
	if proc.count() != 2 {
		t.Fatalf("expected 2 forwarded readings, got %d", proc.count())
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &fakeProc{fail: true}
	p := NewIngestPipeline(proc, noopMetrics{}, WithBufferSize(4))

	err := p.Process(context.Background(), reading("pump-1", "vib", 1))
	if err == nil {
		t.Fatal("expected downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("expected reading buffered, depth=%d", len(p.bufCh))
	}
}

func TestPipelineTransformHook(t *testing.T) {
	proc := &fakeProc{}
	p := NewIngestPipeline(proc, noopMetrics{}, WithTransform(func(r *models.SensorReading) *models.SensorReading {
		r.Value *= 10
		return r
	}))

	if err := p.Process(context.Background(), reading("pump-1", "vib", 0.5)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if proc.got[0].Value != 5 {
		t.Fatalf("transform not applied: %v", proc.got[0].Value)
	}
}
