package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRecord — статус занятости исполнителя на календарную дату.
// На пару (worker_id, date) существует не более одной записи; отсутствие
// записи трактуется как "свободен".
type AvailabilityRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	WorkerID  uuid.UUID `db:"worker_id" json:"worker_id"`
	Date      time.Time `db:"date" json:"date"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
