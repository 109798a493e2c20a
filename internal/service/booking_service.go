package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dailyhire/backend/internal/goroutine"
	"github.com/dailyhire/backend/internal/logger"
	"github.com/dailyhire/backend/internal/models"
	"github.com/dailyhire/backend/internal/pkg/apperror"
	"github.com/dailyhire/backend/internal/repository"
	"github.com/dailyhire/backend/internal/validation"
)

// Количество часов, на которое считается ставка при заказе «на день»,
// если у исполнителя не задана дневная ставка.
const defaultWorkdayHours = 8

// BookingRepository описывает взаимодействие сервиса с хранилищем заказов.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*models.Booking, error)
	ListByHirer(ctx context.Context, hirerID uuid.UUID, limit, offset int) ([]models.Booking, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Booking, error)
}

// WorkerProfileReader даёт доступ к анкете исполнителя для расчёта ставки.
type WorkerProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.WorkerProfile, error)
}

// AvailabilityReader даёт доступ к календарю занятости исполнителя.
type AvailabilityReader interface {
	GetByWorkerAndDate(ctx context.Context, workerID uuid.UUID, date time.Time) (*models.AvailabilityRecord, error)
}

// UserReader даёт доступ к аккаунтам пользователей.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// WSNotifier отправляет realtime-события пользователю.
type WSNotifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// BookingService инкапсулирует жизненный цикл заказа: создание с расчётом
// зафиксированной ставки и переходы статусов по таблице допустимых переходов.
type BookingService struct {
	repo         BookingRepository
	workers      WorkerProfileReader
	availability AvailabilityReader
	users        UserReader
	hub          WSNotifier
}

// NewBookingService создаёт сервис заказов.
func NewBookingService(repo BookingRepository, workers WorkerProfileReader, availability AvailabilityReader, users UserReader) *BookingService {
	return &BookingService{
		repo:         repo,
		workers:      workers,
		availability: availability,
		users:        users,
	}
}

// SetHub устанавливает WebSocket hub для отправки уведомлений.
func (s *BookingService) SetHub(hub WSNotifier) {
	s.hub = hub
}

// CreateBookingInput содержит данные нового заказа.
type CreateBookingInput struct {
	HirerID       uuid.UUID
	WorkerID      uuid.UUID
	BookingDate   time.Time
	StartTime     *string
	DurationHours *float64
	Description   string
}

// CreateBooking создаёт заказ в статусе pending. Занятость исполнителя
// перепроверяется по свежей записи прямо перед вставкой: между показом
// календаря и отправкой формы статус мог измениться. Узкое окно, в котором
// два нанимателя успевают пройти проверку на одну дату, допустимо —
// исполнитель может осознанно взять несколько заказов в день.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	hirer, err := s.users.GetByID(ctx, in.HirerID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "пользователь не найден")
	}
	if hirer.Role != models.RoleHirer {
		return nil, apperror.New(apperror.ErrCodeForbidden, "создавать заказы может только наниматель")
	}

	if err := validation.ValidateBookingDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.DurationHours != nil && (*in.DurationHours < 0 || *in.DurationHours > 24) {
		return nil, apperror.New(apperror.ErrCodeValidation, "длительность должна быть от 0 до 24 часов")
	}

	worker, err := s.users.GetByID(ctx, in.WorkerID)
	if err != nil || worker.Role != models.RoleWorker {
		return nil, apperror.ErrWorkerNotFound
	}

	profile, err := s.workers.GetProfile(ctx, in.WorkerID)
	if err != nil {
		return nil, apperror.ErrWorkerNotFound
	}

	if err := s.checkDateEligible(ctx, in.WorkerID, in.BookingDate); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		HirerID:       in.HirerID,
		WorkerID:      in.WorkerID,
		BookingDate:   truncateToDay(in.BookingDate),
		StartTime:     in.StartTime,
		DurationHours: in.DurationHours,
		Status:        models.BookingStatusPending,
		Description:   in.Description,
		AgreedRate:    computeAgreedRate(profile, in.DurationHours),
		PaymentStatus: models.PaymentStatusUnpaid,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(ctx, booking.WorkerID, "booking.created", booking)

	return booking, nil
}

// GetBooking возвращает заказ его участнику. Для постороннего пользователя
// «нет доступа» и «не существует» намеренно неразличимы.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperror.ErrBookingNotFound
	}
	if !booking.IsParticipant(actorID) {
		return nil, apperror.ErrBookingNotFound
	}
	return booking, nil
}

// UpdateStatus переводит заказ в новый статус от имени участника. Переход
// выполняется одним условным UPDATE: при конкурирующем изменении статуса
// выигрывает ровно один из переходов, второй получает InvalidTransition
// с актуальным статусом.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, actorID uuid.UUID, targetStatus string) (*models.Booking, error) {
	if _, ok := models.ValidBookingStatuses[targetStatus]; !ok {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестный статус %q", targetStatus)
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperror.ErrBookingNotFound
	}
	if !booking.IsParticipant(actorID) {
		return nil, apperror.ErrBookingNotFound
	}

	actorIsWorker := actorID == booking.WorkerID
	if !transitionAllowed(booking.Status, targetStatus, actorIsWorker) {
		return nil, invalidTransition(booking.Status, targetStatus)
	}

	updated, err := s.repo.UpdateStatus(ctx, bookingID, booking.Status, targetStatus)
	if err != nil {
		if errors.Is(err, repository.ErrStaleBookingStatus) {
			// Статус сменили между чтением и записью: сообщаем актуальное
			// состояние, сам заказ не трогаем.
			fresh, freshErr := s.repo.GetByID(ctx, bookingID)
			if freshErr != nil {
				return nil, apperror.ErrBookingNotFound
			}
			return nil, invalidTransition(fresh.Status, targetStatus)
		}
		return nil, err
	}

	s.notifyStatusChange(ctx, updated, actorID)

	return updated, nil
}

// ListMyBookings возвращает заказы пользователя в роли, соответствующей
// его аккаунту.
func (s *BookingService) ListMyBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}

	if user.Role == models.RoleWorker {
		return s.repo.ListByWorker(ctx, userID, limit, offset)
	}
	return s.repo.ListByHirer(ctx, userID, limit, offset)
}

// transitionAllowed реализует таблицу допустимых переходов:
//
//	pending   -> confirmed  только исполнитель заказа
//	pending   -> cancelled  любая из сторон
//	confirmed -> completed  только исполнитель заказа
//	confirmed -> cancelled  любая из сторон
//
// Конечные статусы (completed, cancelled) не покидаются никогда.
func transitionAllowed(from, to string, actorIsWorker bool) bool {
	switch {
	case from == models.BookingStatusPending && to == models.BookingStatusConfirmed:
		return actorIsWorker
	case from == models.BookingStatusConfirmed && to == models.BookingStatusCompleted:
		return actorIsWorker
	case to == models.BookingStatusCancelled && !models.IsTerminalBookingStatus(from):
		return true
	default:
		return false
	}
}

func invalidTransition(current, requested string) *apperror.AppError {
	return apperror.Newf(
		apperror.ErrCodeInvalidTransition,
		"переход в статус %q невозможен: заказ находится в статусе %q",
		requested, current,
	)
}

// computeAgreedRate фиксирует цену заказа на момент создания:
// часы * почасовая ставка, при заказе на весь день — дневная ставка,
// а если она не задана — почасовая за стандартный рабочий день.
func computeAgreedRate(profile *models.WorkerProfile, durationHours *float64) float64 {
	if durationHours != nil && *durationHours > 0 {
		return *durationHours * profile.HourlyRate
	}
	if profile.DailyRate != nil {
		return *profile.DailyRate
	}
	return profile.HourlyRate * defaultWorkdayHours
}

// checkDateEligible проверяет, что дата не в прошлом и исполнитель на неё
// не закрыл запись. Отсутствие записи занятости означает «свободен».
func (s *BookingService) checkDateEligible(ctx context.Context, workerID uuid.UUID, date time.Time) error {
	day := truncateToDay(date)
	today := truncateToDay(time.Now())
	if day.Before(today) {
		return apperror.New(apperror.ErrCodeValidation, "дата заказа уже прошла")
	}

	record, err := s.availability.GetByWorkerAndDate(ctx, workerID, day)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}
	if record.Status != models.AvailabilityStatusAvailable {
		return apperror.New(apperror.ErrCodeConflict, "исполнитель недоступен в выбранную дату")
	}

	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// notifyStatusChange рассылает событие о смене статуса второй стороне.
// Завершение заказа дополнительно открывает нанимателю возможность
// оставить отзыв, о чём ему приходит отдельное событие.
func (s *BookingService) notifyStatusChange(ctx context.Context, booking *models.Booking, actorID uuid.UUID) {
	s.notify(ctx, booking.OtherParty(actorID), "booking.status_changed", booking)

	if booking.Status == models.BookingStatusCompleted {
		s.notify(ctx, booking.HirerID, "booking.review_available", map[string]any{
			"booking_id": booking.ID,
			"worker_id":  booking.WorkerID,
		})
	}
}

func (s *BookingService) notify(ctx context.Context, userID uuid.UUID, event string, data any) {
	if s.hub == nil {
		return
	}
	goroutine.SafeGo(func() {
		if err := s.hub.BroadcastToUser(userID, event, data); err != nil && logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"user_id": userID,
				"event":   event,
				"error":   err.Error(),
			}).Warn("booking service: не удалось отправить уведомление")
		}
	})
}
