package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dailyhire/backend/internal/models"
)

// ErrAvailabilityNotFound возвращается, когда запись занятости не найдена.
var ErrAvailabilityNotFound = errors.New("availability record not found")

// AvailabilityRepository отвечает за календарь занятости исполнителей.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository создаёт экземпляр репозитория.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Upsert создаёт или обновляет запись занятости на дату. Пара
// (worker_id, date) уникальна, поэтому повторная запись обновляет статус.
func (r *AvailabilityRepository) Upsert(ctx context.Context, record *models.AvailabilityRecord) error {
	query := `
		INSERT INTO availability_records (worker_id, date, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (worker_id, date) DO UPDATE
		SET status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		record.WorkerID, record.Date, record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return fmt.Errorf("availability repository: upsert %w", err)
	}

	return nil
}

// GetByWorkerAndDate возвращает запись занятости на конкретную дату.
// Отсутствие записи — не ошибка хранилища, а «свободен по умолчанию»,
// поэтому возвращается (nil, nil).
func (r *AvailabilityRepository) GetByWorkerAndDate(ctx context.Context, workerID uuid.UUID, date time.Time) (*models.AvailabilityRecord, error) {
	var record models.AvailabilityRecord
	query := `
		SELECT id, worker_id, date, status, created_at, updated_at
		FROM availability_records
		WHERE worker_id = $1 AND date = $2
	`
	if err := r.db.GetContext(ctx, &record, query, workerID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("availability repository: get by worker and date %w", err)
	}

	return &record, nil
}

// ListByWorker возвращает записи занятости исполнителя в диапазоне дат.
func (r *AvailabilityRepository) ListByWorker(ctx context.Context, workerID uuid.UUID, from, to time.Time) ([]models.AvailabilityRecord, error) {
	var records []models.AvailabilityRecord
	query := `
		SELECT id, worker_id, date, status, created_at, updated_at
		FROM availability_records
		WHERE worker_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`
	if err := r.db.SelectContext(ctx, &records, query, workerID, from, to); err != nil {
		return nil, fmt.Errorf("availability repository: list by worker %w", err)
	}

	return records, nil
}

// Delete удаляет запись занятости на дату: дата снова становится
// «свободной по умолчанию».
func (r *AvailabilityRepository) Delete(ctx context.Context, workerID uuid.UUID, date time.Time) error {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM availability_records WHERE worker_id = $1 AND date = $2`,
		workerID, date,
	)
	if err != nil {
		return fmt.Errorf("availability repository: delete %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("availability repository: delete %w", err)
	}
	if affected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}
