package usecase

import (
	"context"
	"testing"
	"time"

	"EquipWatch/internal/domain/models"
)

type rangeStorage struct {
	fakeStorage
	from, to time.Time
	limit    int
}

func (s *rangeStorage) Query(_ context.Context, _, _ string, from, to time.Time, limit int) ([]*models.SensorReading, error) {
	s.from, s.to, s.limit = from, to, limit
	return nil, nil
}

func TestGetReadingsValidation(t *testing.T) {
	uc := NewReadingsUseCase(&rangeStorage{})
	now := time.Now()

	if _, err := uc.GetReadings(context.Background(), GetReadingsParams{SensorID: "temp", From: now.Add(-time.Hour), To: now}); err == nil {
		t.Fatal("expected error without equipment id")
	}
	if _, err := uc.GetReadings(context.Background(), GetReadingsParams{EquipmentID: "pump-01", From: now.Add(-time.Hour), To: now}); err == nil {
		t.Fatal("expected error without sensor id")
	}
	if _, err := uc.GetReadings(context.Background(), GetReadingsParams{EquipmentID: "pump-01", SensorID: "temp", From: now, To: now.Add(-time.Hour)}); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestGetReadingsAlignsRangeToInterval(t *testing.T) {
	store := &rangeStorage{}
	uc := NewReadingsUseCase(store)

	from := time.Date(2026, 8, 30, 10, 2, 37, 0, time.UTC)
	to := time.Date(2026, 8, 30, 11, 8, 12, 0, time.UTC)
	_, err := uc.GetReadings(context.Background(), GetReadingsParams{
		EquipmentID: "pump-01",
		SensorID:    "temp",
		From:        from,
		To:          to,
		Interval:    "5m",
	})
	if err != nil {
		t.Fatalf("GetReadings: %v", err)
	}

	wantFrom := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, 8, 30, 11, 5, 0, 0, time.UTC)
	if !store.from.Equal(wantFrom) || !store.to.Equal(wantTo) {
		t.Fatalf("aligned range = [%v, %v], want [%v, %v]", store.from, store.to, wantFrom, wantTo)
	}
	if store.limit != 10000 {
		t.Fatalf("default limit = %d, want 10000", store.limit)
	}
}

func TestGetReadingsKeepsUnalignedRange(t *testing.T) {
	store := &rangeStorage{}
	uc := NewReadingsUseCase(store)

	from := time.Date(2026, 8, 30, 10, 2, 37, 0, time.UTC)
	to := time.Date(2026, 8, 30, 11, 8, 12, 0, time.UTC)
	_, err := uc.GetReadings(context.Background(), GetReadingsParams{
		EquipmentID: "pump-01",
		SensorID:    "temp",
		From:        from,
		To:          to,
		Limit:       100,
	})
	if err != nil {
		t.Fatalf("GetReadings: %v", err)
	}
	if !store.from.Equal(from) || !store.to.Equal(to) {
		t.Fatalf("range changed without interval: [%v, %v]", store.from, store.to)
	}
	if store.limit != 100 {
		t.Fatalf("limit = %d, want 100", store.limit)
	}
}
