package models

import (
	"time"

	"github.com/google/uuid"
)

// Review описывает отзыв нанимателя о выполненном заказе. На заказ
// допускается ровно один отзыв, автор — всегда наниматель этого заказа.
type Review struct {
	ID        uuid.UUID `db:"id" json:"id"`
	BookingID uuid.UUID `db:"booking_id" json:"booking_id"`
	HirerID   uuid.UUID `db:"hirer_id" json:"hirer_id"`
	WorkerID  uuid.UUID `db:"worker_id" json:"worker_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WorkerRating — агрегированный рейтинг исполнителя. При нуле отзывов
// Average равен nil: «нет рейтинга», а не ноль.
type WorkerRating struct {
	Average *float64 `json:"average,omitempty"`
	Count   int      `json:"count"`
}
