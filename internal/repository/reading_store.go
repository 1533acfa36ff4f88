package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"EquipWatch/internal/domain/models"
	domrepo "EquipWatch/internal/domain/repository"
	pkgch "EquipWatch/pkg/clickhouse"
	applogger "EquipWatch/pkg/logger"
)

// Idempotent DDL executed by Init.
var readingSchema = []string{
	`CREATE DATABASE IF NOT EXISTS equipwatch`,
	`CREATE TABLE IF NOT EXISTS equipwatch.sensor_readings (
        ts DateTime64(3),
        equipment_id LowCardinality(String),
        sensor_id LowCardinality(String),
        value Float64,
        event_id String
    ) ENGINE = ReplacingMergeTree
    PARTITION BY toYYYYMMDD(ts)
    ORDER BY (equipment_id, sensor_id, ts, event_id)`,
}

// ClickHouseReadingStore implements Storage on a single readings table.
// Series resampling is pushed down to ClickHouse via toStartOfInterval.
type ClickHouseReadingStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewClickHouseReadingStore(ch *pkgch.Client) domrepo.Storage {
	return &ClickHouseReadingStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *ClickHouseReadingStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *ClickHouseReadingStore) Init(ctx context.Context) error {
	for _, stmt := range readingSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init readings schema: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseReadingStore) Store(ctx context.Context, r *models.SensorReading) error {
	const q = `INSERT INTO equipwatch.sensor_readings (ts, equipment_id, sensor_id, value, event_id) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		time.Unix(r.Timestamp, 0),
		r.EquipmentID,
		r.SensorID,
		r.Value,
		eventID(r),
	)
	return err
}

func (s *ClickHouseReadingStore) StoreBatch(ctx context.Context, readings []*models.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}

	// Multi-row VALUES inserts, chunked to bound statement size.
	const chunkSize = 2000
	for start := 0; start < len(readings); start += chunkSize {
		end := start + chunkSize
		if end > len(readings) {
			end = len(readings)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*5)
		for _, r := range readings[start:end] {
			if r == nil || r.EquipmentID == "" || r.SensorID == "" || r.Timestamp == 0 {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?)")
			args = append(args,
				time.Unix(r.Timestamp, 0),
				r.EquipmentID,
				r.SensorID,
				r.Value,
				eventID(r),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO equipwatch.sensor_readings (ts, equipment_id, sensor_id, value, event_id) VALUES %s", strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_batch error",
					applogger.Int("rows", len(values)),
					applogger.Error(err),
				)
			}
			return err
		}
	}
	return nil
}

func (s *ClickHouseReadingStore) Query(ctx context.Context, equipmentID, sensorID string, from, to time.Time, limit int) ([]*models.SensorReading, error) {
	start := time.Now()
	const q = `
        SELECT equipment_id, sensor_id, ts, value
        FROM equipwatch.sensor_readings
        WHERE equipment_id = ? AND sensor_id = ? AND ts >= ? AND ts <= ?
        ORDER BY ts DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, equipmentID, sensorID, from, to, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse query_readings error",
				applogger.String("equipment", equipmentID),
				applogger.String("sensor", sensorID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var out []*models.SensorReading
	for rows.Next() {
		var r models.SensorReading
		var ts time.Time
		if err := rows.Scan(&r.EquipmentID, &r.SensorID, &ts, &r.Value); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		r.Timestamp = ts.Unix()
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse query_readings ok",
			applogger.String("equipment", equipmentID),
			applogger.String("sensor", sensorID),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *ClickHouseReadingStore) LatestSeries(ctx context.Context, equipmentID, sensorID string, n int, iv domrepo.Interval) ([]float64, error) {
	start := time.Now()
	if !domrepo.IsValidInterval(iv) {
		return nil, fmt.Errorf("unsupported interval: %s", iv)
	}
	seconds := int(iv.Duration().Seconds())

	const q = `
        SELECT avg(value) AS v
        FROM equipwatch.sensor_readings
        WHERE equipment_id = ? AND sensor_id = ?
        GROUP BY toStartOfInterval(ts, INTERVAL ? second) AS bucket
        ORDER BY bucket DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, equipmentID, sensorID, seconds, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_series error",
				applogger.String("equipment", equipmentID),
				applogger.String("sensor", sensorID),
				applogger.String("interval", string(iv)),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("latest series: %w", err)
	}
	defer rows.Close()

	tmp := make([]float64, 0, n)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan series value: %w", err)
		}
		tmp = append(tmp, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	// Rows arrive newest-first, callers expect chronological order.
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse latest_series ok",
			applogger.String("equipment", equipmentID),
			applogger.String("sensor", sensorID),
			applogger.String("interval", string(iv)),
			applogger.Int("points", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *ClickHouseReadingStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseReadingStore) Close() error {
	return nil // pool lifetime is owned by pkg/clickhouse
}

func eventID(r *models.SensorReading) string {
	return fmt.Sprintf("%s-%s-%d", r.EquipmentID, r.SensorID, r.Timestamp)
}
