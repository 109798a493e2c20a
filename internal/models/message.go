package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BookingMessage описывает сообщение в чате заказа. Чат виден только двум
// сторонам заказа; сообщения никогда не редактируются и не удаляются.
type BookingMessage struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	BookingID uuid.UUID  `db:"booking_id" json:"booking_id"`
	SenderID  uuid.UUID  `db:"sender_id" json:"sender_id"`
	Content   string     `db:"content" json:"content"`
	MediaID   *uuid.UUID `db:"media_id" json:"media_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	// Связанные данные (загружаются отдельно)
	Media *MediaFile `json:"media,omitempty"`
}

// DirectMessage описывает личное сообщение между двумя пользователями.
// ReadAt выставляется получателем один раз и обратно не сбрасывается.
type DirectMessage struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	SenderID   uuid.UUID  `db:"sender_id" json:"sender_id"`
	ReceiverID uuid.UUID  `db:"receiver_id" json:"receiver_id"`
	Content    string     `db:"content" json:"content"`
	MediaID    *uuid.UUID `db:"media_id" json:"media_id,omitempty"`
	ReadAt     *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	// Связанные данные (загружаются отдельно)
	Media *MediaFile `json:"media,omitempty"`
}

// UnreadCount — количество непрочитанных личных сообщений от конкретного
// отправителя. Считается запросом по требованию, а не глобальным кэшем.
type UnreadCount struct {
	SenderID uuid.UUID `db:"sender_id" json:"sender_id"`
	Count    int       `db:"count" json:"count"`
}

// Notification описывает событие, отправленное пользователю.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
