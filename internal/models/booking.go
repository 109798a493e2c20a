package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking описывает заказ на рабочий день между нанимателем и исполнителем.
// AgreedRate фиксируется при создании и далее никогда не пересчитывается,
// даже если исполнитель поменяет свои ставки.
type Booking struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	HirerID       uuid.UUID  `db:"hirer_id" json:"hirer_id"`
	WorkerID      uuid.UUID  `db:"worker_id" json:"worker_id"`
	BookingDate   time.Time  `db:"booking_date" json:"booking_date"`
	StartTime     *string    `db:"start_time" json:"start_time,omitempty"`
	DurationHours *float64   `db:"duration_hours" json:"duration_hours,omitempty"`
	Status        string     `db:"status" json:"status"`
	Description   string     `db:"description" json:"description"`
	AgreedRate    float64    `db:"agreed_rate" json:"agreed_rate"`
	PaymentStatus string     `db:"payment_status" json:"payment_status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// IsParticipant сообщает, является ли пользователь стороной заказа.
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.HirerID == userID || b.WorkerID == userID
}

// OtherParty возвращает вторую сторону заказа.
func (b *Booking) OtherParty(userID uuid.UUID) uuid.UUID {
	if b.HirerID == userID {
		return b.WorkerID
	}
	return b.HirerID
}
