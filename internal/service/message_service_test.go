package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dailyhire/backend/internal/models"
	"github.com/dailyhire/backend/internal/pkg/apperror"
)

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) CreateBookingMessage(ctx context.Context, msg *models.BookingMessage) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockMessageRepo) ListBookingMessages(ctx context.Context, bookingID uuid.UUID, limit, offset int) ([]models.BookingMessage, error) {
	args := m.Called(ctx, bookingID, limit, offset)
	return args.Get(0).([]models.BookingMessage), args.Error(1)
}

func (m *mockMessageRepo) CreateDirectMessage(ctx context.Context, msg *models.DirectMessage) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockMessageRepo) GetDirectMessage(ctx context.Context, id uuid.UUID) (*models.DirectMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DirectMessage), args.Error(1)
}

func (m *mockMessageRepo) ListDialog(ctx context.Context, firstID, secondID uuid.UUID, limit, offset int) ([]models.DirectMessage, error) {
	args := m.Called(ctx, firstID, secondID, limit, offset)
	return args.Get(0).([]models.DirectMessage), args.Error(1)
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, messageID, receiverID uuid.UUID) error {
	args := m.Called(ctx, messageID, receiverID)
	return args.Error(0)
}

func (m *mockMessageRepo) CountUnreadBySender(ctx context.Context, receiverID uuid.UUID) ([]models.UnreadCount, error) {
	args := m.Called(ctx, receiverID)
	return args.Get(0).([]models.UnreadCount), args.Error(1)
}

type mockMediaReader struct {
	mock.Mock
}

func (m *mockMediaReader) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaFile), args.Error(1)
}

func newMessageServiceForTest() (*MessageService, *mockMessageRepo, *mockBookingRepo, *mockUserReader, *mockMediaReader) {
	messages := new(mockMessageRepo)
	bookings := new(mockBookingRepo)
	users := new(mockUserReader)
	media := new(mockMediaReader)
	svc := NewMessageService(messages, bookings, users, media)
	return svc, messages, bookings, users, media
}

func TestMessageService_SendBookingMessage_Participant(t *testing.T) {
	svc, messages, bookings, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	booking := &models.Booking{ID: uuid.New(), HirerID: hirerID, WorkerID: uuid.New(), Status: models.BookingStatusConfirmed}

	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	messages.On("CreateBookingMessage", ctx, mock.AnythingOfType("*models.BookingMessage")).Return(nil)

	msg, err := svc.SendBookingMessage(ctx, booking.ID, hirerID, "Подъезд со двора, код 4521", nil)

	assert.NoError(t, err)
	assert.NotNil(t, msg)
	assert.Equal(t, booking.ID, msg.BookingID)
	assert.Equal(t, hirerID, msg.SenderID)
}

func TestMessageService_SendBookingMessage_Stranger(t *testing.T) {
	svc, _, bookings, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	booking := &models.Booking{ID: uuid.New(), HirerID: uuid.New(), WorkerID: uuid.New()}
	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)

	_, err := svc.SendBookingMessage(ctx, booking.ID, uuid.New(), "привет", nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Contains(t, err.Error(), "заказ не найден")
}

func TestMessageService_SendBookingMessage_EmptyContent(t *testing.T) {
	svc, _, bookings, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	booking := &models.Booking{ID: uuid.New(), HirerID: hirerID, WorkerID: uuid.New()}
	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)

	_, err := svc.SendBookingMessage(ctx, booking.ID, hirerID, "   ", nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestMessageService_SendDirectMessage_ToSelf(t *testing.T) {
	svc, _, _, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	userID := uuid.New()
	_, err := svc.SendDirectMessage(ctx, userID, userID, "заметка", nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "самому себе")
}

func TestMessageService_SendDirectMessage_UnknownReceiver(t *testing.T) {
	svc, _, _, users, _ := newMessageServiceForTest()
	ctx := context.Background()

	receiverID := uuid.New()
	users.On("GetByID", ctx, receiverID).Return(nil, assert.AnError)

	_, err := svc.SendDirectMessage(ctx, uuid.New(), receiverID, "вы свободны завтра?", nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestMessageService_SendDirectMessage_ForeignAttachment(t *testing.T) {
	svc, _, _, users, media := newMessageServiceForTest()
	ctx := context.Background()

	senderID := uuid.New()
	receiverID := uuid.New()
	mediaID := uuid.New()

	users.On("GetByID", ctx, receiverID).Return(&models.User{ID: receiverID}, nil)
	media.On("GetByID", ctx, mediaID).Return(&models.MediaFile{ID: mediaID, UserID: uuid.New()}, nil)

	_, err := svc.SendDirectMessage(ctx, senderID, receiverID, "фото объекта", &mediaID)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Contains(t, err.Error(), "другому пользователю")
}

func TestMessageService_MarkRead_ReceiverOnly(t *testing.T) {
	svc, messages, _, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	senderID := uuid.New()
	receiverID := uuid.New()
	msg := &models.DirectMessage{ID: uuid.New(), SenderID: senderID, ReceiverID: receiverID}

	messages.On("GetDirectMessage", ctx, msg.ID).Return(msg, nil)

	// Отправитель не может отметить своё сообщение прочитанным
	_, err := svc.MarkRead(ctx, msg.ID, senderID)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Contains(t, err.Error(), "только получатель")
}

func TestMessageService_MarkRead_Stranger(t *testing.T) {
	svc, messages, _, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	msg := &models.DirectMessage{ID: uuid.New(), SenderID: uuid.New(), ReceiverID: uuid.New()}
	messages.On("GetDirectMessage", ctx, msg.ID).Return(msg, nil)

	_, err := svc.MarkRead(ctx, msg.ID, uuid.New())

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestMessageService_MarkRead_Idempotent(t *testing.T) {
	svc, messages, _, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	receiverID := uuid.New()
	readAt := time.Now().Add(-time.Hour)
	msg := &models.DirectMessage{ID: uuid.New(), SenderID: uuid.New(), ReceiverID: receiverID, ReadAt: &readAt}

	messages.On("GetDirectMessage", ctx, msg.ID).Return(msg, nil)

	got, err := svc.MarkRead(ctx, msg.ID, receiverID)

	assert.NoError(t, err)
	// Первая отметка сохраняется, повторный вызов ничего не пишет
	assert.Equal(t, &readAt, got.ReadAt)
	messages.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMessageService_MarkRead_FirstTime(t *testing.T) {
	svc, messages, _, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	receiverID := uuid.New()
	msg := &models.DirectMessage{ID: uuid.New(), SenderID: uuid.New(), ReceiverID: receiverID}
	readAt := time.Now()
	read := &models.DirectMessage{ID: msg.ID, SenderID: msg.SenderID, ReceiverID: receiverID, ReadAt: &readAt}

	messages.On("GetDirectMessage", ctx, msg.ID).Return(msg, nil).Once()
	messages.On("MarkRead", ctx, msg.ID, receiverID).Return(nil)
	messages.On("GetDirectMessage", ctx, msg.ID).Return(read, nil).Once()

	got, err := svc.MarkRead(ctx, msg.ID, receiverID)

	assert.NoError(t, err)
	assert.NotNil(t, got.ReadAt)
}

func TestMessageService_CountUnread(t *testing.T) {
	svc, messages, _, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	receiverID := uuid.New()
	first := uuid.New()
	second := uuid.New()
	messages.On("CountUnreadBySender", ctx, receiverID).Return([]models.UnreadCount{
		{SenderID: first, Count: 3},
		{SenderID: second, Count: 1},
	}, nil)

	counts, err := svc.CountUnread(ctx, receiverID)

	assert.NoError(t, err)
	assert.Len(t, counts, 2)
	assert.Equal(t, 3, counts[first])
	assert.Equal(t, 1, counts[second])
}

func TestMessageService_ListBookingMessages_LimitDefaults(t *testing.T) {
	svc, messages, bookings, _, _ := newMessageServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	booking := &models.Booking{ID: uuid.New(), HirerID: hirerID, WorkerID: uuid.New()}
	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	messages.On("ListBookingMessages", ctx, booking.ID, 50, 0).Return([]models.BookingMessage{}, nil)

	_, err := svc.ListBookingMessages(ctx, booking.ID, hirerID, 0, -1)

	assert.NoError(t, err)
	messages.AssertCalled(t, "ListBookingMessages", ctx, booking.ID, 50, 0)
}

// failingNotifier имитирует hub, у которого доставка всегда падает.
type failingNotifier struct {
	delivered chan struct{}
}

func (n *failingNotifier) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	n.delivered <- struct{}{}
	return assert.AnError
}

func TestMessageService_SendDirectMessage_HubFailureDoesNotFailSend(t *testing.T) {
	svc, messages, _, users, _ := newMessageServiceForTest()
	ctx := context.Background()

	notifier := &failingNotifier{delivered: make(chan struct{}, 1)}
	svc.SetHub(notifier)

	senderID := uuid.New()
	receiverID := uuid.New()
	users.On("GetByID", ctx, receiverID).Return(&models.User{ID: receiverID}, nil)
	messages.On("CreateDirectMessage", ctx, mock.AnythingOfType("*models.DirectMessage")).Return(nil)

	msg, err := svc.SendDirectMessage(ctx, senderID, receiverID, "Завтра в 9 утра удобно?", nil)

	assert.NoError(t, err)
	assert.NotNil(t, msg)

	// Событие уходит в фоне и его сбой не влияет на результат отправки
	select {
	case <-notifier.delivered:
	case <-time.After(time.Second):
		t.Fatal("уведомление не было отправлено в hub")
	}
}
