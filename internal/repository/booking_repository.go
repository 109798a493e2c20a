package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dailyhire/backend/internal/models"
)

// Ошибки уровня репозитория.
var (
	ErrBookingNotFound = errors.New("booking not found")

	// ErrStaleBookingStatus возвращается, когда условное обновление статуса
	// не затронуло ни одной строки: заказ существует, но его текущий статус
	// уже не тот, от которого отталкивался вызывающий код.
	ErrStaleBookingStatus = errors.New("booking status changed concurrently")
)

// BookingRepository отвечает за заказы и их жизненный цикл.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository создаёт новый экземпляр.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create сохраняет новый заказ в статусе pending.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (hirer_id, worker_id, booking_date, start_time, duration_hours, status, description, agreed_rate, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		booking.HirerID,
		booking.WorkerID,
		booking.BookingDate,
		booking.StartTime,
		booking.DurationHours,
		booking.Status,
		booking.Description,
		booking.AgreedRate,
		booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return fmt.Errorf("booking repository: create %w", err)
	}

	return nil
}

// GetByID возвращает заказ по идентификатору.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	query := `
		SELECT id, hirer_id, worker_id, booking_date, start_time, duration_hours, status, description, agreed_rate, payment_status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("booking repository: get by id %w", err)
	}

	return &booking, nil
}

// UpdateStatus переводит заказ из fromStatus в toStatus одним условным
// UPDATE. Если строка не обновилась, второй запрос различает два случая:
// заказа нет вообще либо его статус уже изменил кто-то другой. Два
// конкурирующих перехода из одного и того же статуса не могут выиграть оба.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*models.Booking, error) {
	var booking models.Booking
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, hirer_id, worker_id, booking_date, start_time, duration_hours, status, description, agreed_rate, payment_status, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &booking, query, id, fromStatus, toStatus)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking repository: update status %w", err)
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id); err != nil {
		return nil, fmt.Errorf("booking repository: update status recheck %w", err)
	}
	if !exists {
		return nil, ErrBookingNotFound
	}

	return nil, ErrStaleBookingStatus
}

// ListByHirer возвращает заказы нанимателя.
func (r *BookingRepository) ListByHirer(ctx context.Context, hirerID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT id, hirer_id, worker_id, booking_date, start_time, duration_hours, status, description, agreed_rate, payment_status, created_at, updated_at
		FROM bookings
		WHERE hirer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &bookings, query, hirerID, limit, offset); err != nil {
		return nil, fmt.Errorf("booking repository: list by hirer %w", err)
	}
	return bookings, nil
}

// ListByWorker возвращает заказы исполнителя.
func (r *BookingRepository) ListByWorker(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT id, hirer_id, worker_id, booking_date, start_time, duration_hours, status, description, agreed_rate, payment_status, created_at, updated_at
		FROM bookings
		WHERE worker_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &bookings, query, workerID, limit, offset); err != nil {
		return nil, fmt.Errorf("booking repository: list by worker %w", err)
	}
	return bookings, nil
}

// CountCompletedByWorker возвращает число завершённых заказов исполнителя.
func (r *BookingRepository) CountCompletedByWorker(ctx context.Context, workerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE worker_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &count, query, workerID, models.BookingStatusCompleted); err != nil {
		return 0, fmt.Errorf("booking repository: count completed %w", err)
	}
	return count, nil
}
