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

// ErrMessageNotFound возвращается, когда сообщение не найдено.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepository отвечает за чаты заказов и личные сообщения.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository создаёт экземпляр репозитория.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateBookingMessage сохраняет сообщение в чате заказа.
func (r *MessageRepository) CreateBookingMessage(ctx context.Context, msg *models.BookingMessage) error {
	query := `
		INSERT INTO booking_messages (booking_id, sender_id, content, media_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		msg.BookingID, msg.SenderID, msg.Content, msg.MediaID,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("message repository: create booking message %w", err)
	}

	return nil
}

// ListBookingMessages возвращает сообщения чата заказа в порядке создания.
// Вторичная сортировка по id даёт стабильный порядок при равных метках.
func (r *MessageRepository) ListBookingMessages(ctx context.Context, bookingID uuid.UUID, limit, offset int) ([]models.BookingMessage, error) {
	var messages []models.BookingMessage
	query := `
		SELECT id, booking_id, sender_id, content, media_id, created_at
		FROM booking_messages
		WHERE booking_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &messages, query, bookingID, limit, offset); err != nil {
		return nil, fmt.Errorf("message repository: list booking messages %w", err)
	}
	return messages, nil
}

// CreateDirectMessage сохраняет личное сообщение.
func (r *MessageRepository) CreateDirectMessage(ctx context.Context, msg *models.DirectMessage) error {
	query := `
		INSERT INTO direct_messages (sender_id, receiver_id, content, media_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		msg.SenderID, msg.ReceiverID, msg.Content, msg.MediaID,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("message repository: create direct message %w", err)
	}

	return nil
}

// GetDirectMessage возвращает личное сообщение по идентификатору.
func (r *MessageRepository) GetDirectMessage(ctx context.Context, id uuid.UUID) (*models.DirectMessage, error) {
	var msg models.DirectMessage
	query := `
		SELECT id, sender_id, receiver_id, content, media_id, read_at, created_at
		FROM direct_messages
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &msg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("message repository: get direct message %w", err)
	}

	return &msg, nil
}

// ListDialog возвращает переписку двух пользователей в порядке создания.
func (r *MessageRepository) ListDialog(ctx context.Context, firstID, secondID uuid.UUID, limit, offset int) ([]models.DirectMessage, error) {
	var messages []models.DirectMessage
	query := `
		SELECT id, sender_id, receiver_id, content, media_id, read_at, created_at
		FROM direct_messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`
	if err := r.db.SelectContext(ctx, &messages, query, firstID, secondID, limit, offset); err != nil {
		return nil, fmt.Errorf("message repository: list dialog %w", err)
	}
	return messages, nil
}

// MarkRead выставляет read_at, если оно ещё не выставлено. Условие
// read_at IS NULL делает повторную отметку no-op: монотонность read_at
// гарантируется самим запросом, а не проверкой перед ним.
func (r *MessageRepository) MarkRead(ctx context.Context, messageID, receiverID uuid.UUID) error {
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE direct_messages SET read_at = NOW() WHERE id = $1 AND receiver_id = $2 AND read_at IS NULL`,
		messageID, receiverID,
	)
	if err != nil {
		return fmt.Errorf("message repository: mark read %w", err)
	}
	// Ноль затронутых строк — либо уже прочитано (no-op), либо чужое
	// сообщение; различает это сервисный слой по самой записи.
	_, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("message repository: mark read %w", err)
	}
	return nil
}

// CountUnreadBySender возвращает количество непрочитанных сообщений
// получателя в разрезе отправителей.
func (r *MessageRepository) CountUnreadBySender(ctx context.Context, receiverID uuid.UUID) ([]models.UnreadCount, error) {
	var counts []models.UnreadCount
	query := `
		SELECT sender_id, COUNT(*) AS count
		FROM direct_messages
		WHERE receiver_id = $1 AND read_at IS NULL
		GROUP BY sender_id
	`
	if err := r.db.SelectContext(ctx, &counts, query, receiverID); err != nil {
		return nil, fmt.Errorf("message repository: count unread %w", err)
	}
	return counts, nil
}
