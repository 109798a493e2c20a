package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dailyhire/backend/internal/models"
	"github.com/dailyhire/backend/internal/pkg/apperror"
	"github.com/dailyhire/backend/internal/repository"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	if args.Error(0) == nil {
		review.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByWorker(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	args := m.Called(ctx, workerID, limit, offset)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepo) GetWorkerRating(ctx context.Context, workerID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func completedBooking(hirerID, workerID uuid.UUID) *models.Booking {
	return &models.Booking{
		ID:       uuid.New(),
		HirerID:  hirerID,
		WorkerID: workerID,
		Status:   models.BookingStatusCompleted,
	}
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	reviews := new(mockReviewRepo)
	bookings := new(mockBookingRepo)
	svc := NewReviewService(reviews, bookings)
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()
	booking := completedBooking(hirerID, workerID)

	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	reviews.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(nil)

	comment := "Отличная работа, всё сделано в срок"
	review, err := svc.CreateReview(ctx, booking.ID, hirerID, 5, &comment)

	assert.NoError(t, err)
	assert.NotNil(t, review)
	assert.Equal(t, workerID, review.WorkerID)
	assert.Equal(t, 5, review.Rating)
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	svc := NewReviewService(new(mockReviewRepo), new(mockBookingRepo))
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.CreateReview(ctx, uuid.New(), uuid.New(), rating, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "от 1 до 5")
	}
}

func TestReviewService_CreateReview_OnlyHirer(t *testing.T) {
	reviews := new(mockReviewRepo)
	bookings := new(mockBookingRepo)
	svc := NewReviewService(reviews, bookings)
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()
	booking := completedBooking(hirerID, workerID)
	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)

	_, err := svc.CreateReview(ctx, booking.ID, workerID, 4, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Contains(t, err.Error(), "только наниматель")
}

func TestReviewService_CreateReview_NotCompleted(t *testing.T) {
	reviews := new(mockReviewRepo)
	bookings := new(mockBookingRepo)
	svc := NewReviewService(reviews, bookings)
	ctx := context.Background()

	hirerID := uuid.New()
	booking := completedBooking(hirerID, uuid.New())
	booking.Status = models.BookingStatusConfirmed
	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)

	_, err := svc.CreateReview(ctx, booking.ID, hirerID, 4, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "после завершения")
}

func TestReviewService_CreateReview_Stranger(t *testing.T) {
	reviews := new(mockReviewRepo)
	bookings := new(mockBookingRepo)
	svc := NewReviewService(reviews, bookings)
	ctx := context.Background()

	booking := completedBooking(uuid.New(), uuid.New())
	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)

	_, err := svc.CreateReview(ctx, booking.ID, uuid.New(), 5, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	reviews := new(mockReviewRepo)
	bookings := new(mockBookingRepo)
	svc := NewReviewService(reviews, bookings)
	ctx := context.Background()

	hirerID := uuid.New()
	booking := completedBooking(hirerID, uuid.New())
	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	reviews.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(repository.ErrDuplicateReview)

	_, err := svc.CreateReview(ctx, booking.ID, hirerID, 5, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "уже оставлен")
}

func TestReviewService_UpdateReview_OnlyAuthor(t *testing.T) {
	reviews := new(mockReviewRepo)
	svc := NewReviewService(reviews, new(mockBookingRepo))
	ctx := context.Background()

	review := &models.Review{ID: uuid.New(), HirerID: uuid.New(), Rating: 4}
	reviews.On("GetByID", ctx, review.ID).Return(review, nil)

	_, err := svc.UpdateReview(ctx, review.ID, uuid.New(), 2, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestReviewService_CanLeaveReview(t *testing.T) {
	reviews := new(mockReviewRepo)
	bookings := new(mockBookingRepo)
	svc := NewReviewService(reviews, bookings)
	ctx := context.Background()

	hirerID := uuid.New()
	booking := completedBooking(hirerID, uuid.New())

	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	reviews.On("GetByBookingID", ctx, booking.ID).Return(nil, nil).Once()

	ok, err := svc.CanLeaveReview(ctx, booking.ID, hirerID)
	assert.NoError(t, err)
	assert.True(t, ok)

	// Отзыв уже есть — второй не разрешён
	reviews.On("GetByBookingID", ctx, booking.ID).Return(&models.Review{ID: uuid.New()}, nil).Once()
	ok, err = svc.CanLeaveReview(ctx, booking.ID, hirerID)
	assert.NoError(t, err)
	assert.False(t, ok)

	// Исполнителю отзыв недоступен
	ok, err = svc.CanLeaveReview(ctx, booking.ID, booking.WorkerID)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestReviewService_GetWorkerRating_Rounding(t *testing.T) {
	reviews := new(mockReviewRepo)
	svc := NewReviewService(reviews, new(mockBookingRepo))
	ctx := context.Background()

	workerID := uuid.New()
	reviews.On("GetWorkerRating", ctx, workerID).Return(4.666666, 3, nil)

	rating, err := svc.GetWorkerRating(ctx, workerID)

	assert.NoError(t, err)
	assert.Equal(t, 3, rating.Count)
	assert.NotNil(t, rating.Average)
	assert.Equal(t, 4.7, *rating.Average)
}

func TestReviewService_GetWorkerRating_NoReviews(t *testing.T) {
	reviews := new(mockReviewRepo)
	svc := NewReviewService(reviews, new(mockBookingRepo))
	ctx := context.Background()

	workerID := uuid.New()
	reviews.On("GetWorkerRating", ctx, workerID).Return(0.0, 0, nil)

	rating, err := svc.GetWorkerRating(ctx, workerID)

	assert.NoError(t, err)
	assert.Equal(t, 0, rating.Count)
	// Нет отзывов — рейтинг отсутствует, а не равен нулю
	assert.Nil(t, rating.Average)
}
