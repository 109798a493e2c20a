package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/dailyhire/backend/internal/models"
	"github.com/dailyhire/backend/internal/pkg/apperror"
	"github.com/dailyhire/backend/internal/repository"
	"github.com/dailyhire/backend/internal/validation"
)

// ReviewRepository описывает взаимодействие сервиса с хранилищем отзывов.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Review, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Review, error)
	GetWorkerRating(ctx context.Context, workerID uuid.UUID) (float64, int, error)
	Update(ctx context.Context, review *models.Review) error
}

// BookingReader даёт доступ к заказам для проверки права на отзыв.
type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

// ReviewService содержит правила создания и изменения отзывов.
type ReviewService struct {
	repo     ReviewRepository
	bookings BookingReader
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(repo ReviewRepository, bookings BookingReader) *ReviewService {
	return &ReviewService{repo: repo, bookings: bookings}
}

// CreateReview создаёт отзыв о завершённом заказе. Автором может быть
// только наниматель этого заказа, и только после перехода заказа в
// completed; на заказ допускается один отзыв.
func (s *ReviewService) CreateReview(ctx context.Context, bookingID, actorID uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.New(apperror.ErrCodeValidation, "рейтинг должен быть от 1 до 5")
	}
	if comment != nil {
		if err := validation.ValidateReviewComment(*comment); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperror.ErrBookingNotFound
	}
	// Посторонний не должен узнать о существовании заказа.
	if !booking.IsParticipant(actorID) {
		return nil, apperror.ErrBookingNotFound
	}
	if actorID != booking.HirerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отзыв оставляет только наниматель")
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeValidation, "отзыв можно оставить только после завершения заказа")
	}

	review := &models.Review{
		BookingID: bookingID,
		HirerID:   booking.HirerID,
		WorkerID:  booking.WorkerID,
		Rating:    rating,
		Comment:   comment,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, apperror.New(apperror.ErrCodeConflict, "отзыв на этот заказ уже оставлен")
		}
		return nil, err
	}

	return review, nil
}

// UpdateReview изменяет текст и оценку отзыва. Редактировать отзыв может
// только его автор.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, actorID uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.New(apperror.ErrCodeValidation, "рейтинг должен быть от 1 до 5")
	}

	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, apperror.ErrReviewNotFound
	}
	if review.HirerID != actorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "редактировать отзыв может только его автор")
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// CanLeaveReview проверяет, доступно ли пользователю оставить отзыв на заказ.
func (s *ReviewService) CanLeaveReview(ctx context.Context, bookingID, actorID uuid.UUID) (bool, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return false, nil
	}
	if actorID != booking.HirerID {
		return false, nil
	}
	if booking.Status != models.BookingStatusCompleted {
		return false, nil
	}
	existing, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

// ListWorkerReviews возвращает отзывы об исполнителе. Отзывы публичны.
func (s *ReviewService) ListWorkerReviews(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByWorker(ctx, workerID, limit, offset)
}

// GetWorkerRating возвращает агрегированный рейтинг исполнителя: среднее
// по всем отзывам, округлённое до одного знака. При нуле отзывов рейтинг
// отсутствует, а не равен нулю.
func (s *ReviewService) GetWorkerRating(ctx context.Context, workerID uuid.UUID) (*models.WorkerRating, error) {
	avg, count, err := s.repo.GetWorkerRating(ctx, workerID)
	if err != nil {
		return nil, err
	}

	rating := &models.WorkerRating{Count: count}
	if count > 0 {
		rounded := math.Round(avg*10) / 10
		rating.Average = &rounded
	}

	return rating, nil
}
