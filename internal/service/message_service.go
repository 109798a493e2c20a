package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dailyhire/backend/internal/goroutine"
	"github.com/dailyhire/backend/internal/logger"
	"github.com/dailyhire/backend/internal/models"
	"github.com/dailyhire/backend/internal/pkg/apperror"
	"github.com/dailyhire/backend/internal/validation"
)

// MessageRepository описывает взаимодействие сервиса с хранилищем сообщений.
type MessageRepository interface {
	CreateBookingMessage(ctx context.Context, msg *models.BookingMessage) error
	ListBookingMessages(ctx context.Context, bookingID uuid.UUID, limit, offset int) ([]models.BookingMessage, error)
	CreateDirectMessage(ctx context.Context, msg *models.DirectMessage) error
	GetDirectMessage(ctx context.Context, id uuid.UUID) (*models.DirectMessage, error)
	ListDialog(ctx context.Context, firstID, secondID uuid.UUID, limit, offset int) ([]models.DirectMessage, error)
	MarkRead(ctx context.Context, messageID, receiverID uuid.UUID) error
	CountUnreadBySender(ctx context.Context, receiverID uuid.UUID) ([]models.UnreadCount, error)
}

// MediaReader даёт доступ к метаданным вложений.
type MediaReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error)
}

// MessageService содержит правила доступа к двум независимым каналам:
// чату заказа (виден двум сторонам заказа) и личным сообщениям (видны
// отправителю и получателю).
type MessageService struct {
	repo     MessageRepository
	bookings BookingReader
	users    UserReader
	media    MediaReader
	hub      WSNotifier
}

// NewMessageService создаёт сервис сообщений.
func NewMessageService(repo MessageRepository, bookings BookingReader, users UserReader, media MediaReader) *MessageService {
	return &MessageService{
		repo:     repo,
		bookings: bookings,
		users:    users,
		media:    media,
	}
}

// SetHub устанавливает WebSocket hub для отправки уведомлений.
func (s *MessageService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// SendBookingMessage отправляет сообщение в чат заказа. Писать в чат могут
// только стороны заказа; посторонний получает «заказ не найден».
func (s *MessageService) SendBookingMessage(ctx context.Context, bookingID, senderID uuid.UUID, content string, mediaID *uuid.UUID) (*models.BookingMessage, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperror.ErrBookingNotFound
	}
	if !booking.IsParticipant(senderID) {
		return nil, apperror.ErrBookingNotFound
	}

	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := s.checkAttachment(ctx, mediaID, senderID); err != nil {
		return nil, err
	}

	msg := &models.BookingMessage{
		BookingID: bookingID,
		SenderID:  senderID,
		Content:   content,
		MediaID:   mediaID,
	}
	if err := s.repo.CreateBookingMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcast(booking.OtherParty(senderID), "booking.message", msg)

	return msg, nil
}

// ListBookingMessages возвращает чат заказа его участнику.
func (s *MessageService) ListBookingMessages(ctx context.Context, bookingID, actorID uuid.UUID, limit, offset int) ([]models.BookingMessage, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperror.ErrBookingNotFound
	}
	if !booking.IsParticipant(actorID) {
		return nil, apperror.ErrBookingNotFound
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListBookingMessages(ctx, bookingID, limit, offset)
}

// SendDirectMessage отправляет личное сообщение. Связь через заказ не
// требуется: достаточно знать идентификатор собеседника.
func (s *MessageService) SendDirectMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string, mediaID *uuid.UUID) (*models.DirectMessage, error) {
	if senderID == receiverID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя отправить сообщение самому себе")
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return nil, apperror.ErrUserNotFound
	}

	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := s.checkAttachment(ctx, mediaID, senderID); err != nil {
		return nil, err
	}

	msg := &models.DirectMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		MediaID:    mediaID,
	}
	if err := s.repo.CreateDirectMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcast(receiverID, "direct.message", msg)

	return msg, nil
}

// ListDialog возвращает переписку пользователя с собеседником.
func (s *MessageService) ListDialog(ctx context.Context, actorID, peerID uuid.UUID, limit, offset int) ([]models.DirectMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListDialog(ctx, actorID, peerID, limit, offset)
}

// MarkRead отмечает личное сообщение прочитанным. Отметить может только
// получатель; повторная отметка — no-op, read_at сохраняет первое значение.
func (s *MessageService) MarkRead(ctx context.Context, messageID, actorID uuid.UUID) (*models.DirectMessage, error) {
	msg, err := s.repo.GetDirectMessage(ctx, messageID)
	if err != nil {
		return nil, apperror.ErrMessageNotFound
	}
	if msg.SenderID != actorID && msg.ReceiverID != actorID {
		return nil, apperror.ErrMessageNotFound
	}
	if msg.ReceiverID != actorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отметить сообщение прочитанным может только получатель")
	}

	if msg.ReadAt != nil {
		return msg, nil
	}

	if err := s.repo.MarkRead(ctx, messageID, actorID); err != nil {
		return nil, err
	}

	return s.repo.GetDirectMessage(ctx, messageID)
}

// CountUnread возвращает количество непрочитанных личных сообщений в
// разрезе отправителей. Представление пересчитывается запросом по
// требованию: при открытии списка, по уведомлению, после отправки или
// отметки о прочтении.
func (s *MessageService) CountUnread(ctx context.Context, receiverID uuid.UUID) (map[uuid.UUID]int, error) {
	counts, err := s.repo.CountUnreadBySender(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]int, len(counts))
	for _, c := range counts {
		result[c.SenderID] = c.Count
	}
	return result, nil
}

// checkAttachment проверяет, что вложение существует и принадлежит
// отправителю: чужой файл приложить нельзя.
func (s *MessageService) checkAttachment(ctx context.Context, mediaID *uuid.UUID, senderID uuid.UUID) error {
	if mediaID == nil {
		return nil
	}
	media, err := s.media.GetByID(ctx, *mediaID)
	if err != nil {
		return apperror.New(apperror.ErrCodeValidation, "вложение не найдено")
	}
	if media.UserID != senderID {
		return apperror.New(apperror.ErrCodeForbidden, "вложение принадлежит другому пользователю")
	}
	return nil
}

// broadcast уведомляет получателя в фоне: доставка события не должна
// задерживать ответ отправителю или ломать уже сохранённое сообщение.
func (s *MessageService) broadcast(userID uuid.UUID, event string, data any) {
	if s.hub == nil {
		return
	}
	goroutine.SafeGo(func() {
		if err := s.hub.BroadcastToUser(userID, event, data); err != nil && logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"user_id": userID,
				"event":   event,
				"error":   err.Error(),
			}).Warn("message service: не удалось отправить уведомление")
		}
	})
}
