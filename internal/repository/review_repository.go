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
	ErrReviewNotFound = errors.New("review not found")

	// ErrDuplicateReview возвращается при попытке оставить второй отзыв на
	// тот же заказ: уникальность обеспечивает ограничение в БД.
	ErrDuplicateReview = errors.New("review already exists for booking")
)

// ReviewRepository отвечает за отзывы о выполненных заказах.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создаёт экземпляр репозитория.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create создаёт отзыв. Ограничение UNIQUE(booking_id) в БД гарантирует не
// более одного отзыва на заказ даже при конкурирующих вставках.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (booking_id, hirer_id, worker_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		review.BookingID, review.HirerID, review.WorkerID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// GetByID возвращает отзыв по идентификатору.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("review repository: get by id %w", err)
	}
	return &review, nil
}

// GetByBookingID возвращает отзыв по заказу, если он есть.
func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE booking_id = $1`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("review repository: get by booking %w", err)
	}
	return &review, nil
}

// ListByWorker возвращает отзывы об исполнителе.
func (r *ReviewRepository) ListByWorker(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE worker_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, workerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("review repository: list by worker %w", err)
	}
	return reviews, nil
}

// GetWorkerRating возвращает средний рейтинг исполнителя и число отзывов.
func (r *ReviewRepository) GetWorkerRating(ctx context.Context, workerID uuid.UUID) (float64, int, error) {
	var result struct {
		Avg   sql.NullFloat64 `db:"avg"`
		Count int             `db:"count"`
	}
	err := r.db.GetContext(ctx, &result, `
		SELECT AVG(rating) AS avg, COUNT(*) AS count FROM reviews WHERE worker_id = $1
	`, workerID)
	if err != nil {
		return 0, 0, fmt.Errorf("review repository: get worker rating %w", err)
	}
	return result.Avg.Float64, result.Count, nil
}

// Update обновляет текст и оценку отзыва.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE reviews SET rating = $2, comment = $3, updated_at = NOW() WHERE id = $1
		RETURNING updated_at
	`, review.ID, review.Rating, review.Comment).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("review repository: update %w", err)
	}
	return nil
}
