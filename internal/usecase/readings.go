package usecase

import (
	"context"
	"fmt"
	"time"

	"EquipWatch/internal/domain/models"
	domrepo "EquipWatch/internal/domain/repository"
	"EquipWatch/pkg/util"
)

// ReadingsUseCase provides business logic for retrieving stored
// readings.
type ReadingsUseCase struct {
	store domrepo.Storage
}

func NewReadingsUseCase(store domrepo.Storage) *ReadingsUseCase {
	return &ReadingsUseCase{store: store}
}

type GetReadingsParams struct {
	EquipmentID string
	SensorID    string
	From        time.Time
	To          time.Time
	Interval    string
	Limit       int
}

type GetReadingsResult struct {
	EquipmentID string
	SensorID    string
	From        time.Time
	To          time.Time
	Count       int
	Readings    []*models.SensorReading
}

func (uc *ReadingsUseCase) GetReadings(ctx context.Context, p GetReadingsParams) (*GetReadingsResult, error) {
	if p.EquipmentID == "" {
		return nil, fmt.Errorf("equipment id required")
	}
	if p.SensorID == "" {
		return nil, fmt.Errorf("sensor id required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Interval != "" {
		p.From, p.To = util.AlignFromTo(p.From, p.To, p.Interval)
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	readings, err := uc.store.Query(ctx, p.EquipmentID, p.SensorID, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get readings: %w", err)
	}

	return &GetReadingsResult{
		EquipmentID: p.EquipmentID,
		SensorID:    p.SensorID,
		From:        p.From,
		To:          p.To,
		Count:       len(readings),
		Readings:    readings,
	}, nil
}
