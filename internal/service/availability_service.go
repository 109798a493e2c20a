package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dailyhire/backend/internal/models"
	"github.com/dailyhire/backend/internal/pkg/apperror"
)

// AvailabilityRepository описывает взаимодействие сервиса с календарём
// занятости.
type AvailabilityRepository interface {
	Upsert(ctx context.Context, record *models.AvailabilityRecord) error
	GetByWorkerAndDate(ctx context.Context, workerID uuid.UUID, date time.Time) (*models.AvailabilityRecord, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID, from, to time.Time) ([]models.AvailabilityRecord, error)
	Delete(ctx context.Context, workerID uuid.UUID, date time.Time) error
}

// AvailabilityService управляет календарём занятости исполнителя.
type AvailabilityService struct {
	repo  AvailabilityRepository
	users UserReader
}

// NewAvailabilityService создаёт сервис календаря занятости.
func NewAvailabilityService(repo AvailabilityRepository, users UserReader) *AvailabilityService {
	return &AvailabilityService{repo: repo, users: users}
}

// SetStatus выставляет статус занятости на дату. Менять свой календарь
// может только сам исполнитель.
func (s *AvailabilityService) SetStatus(ctx context.Context, actorID uuid.UUID, date time.Time, status string) (*models.AvailabilityRecord, error) {
	if _, ok := models.ValidAvailabilityStatuses[status]; !ok {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "неизвестный статус занятости %q", status)
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}
	if actor.Role != models.RoleWorker {
		return nil, apperror.New(apperror.ErrCodeForbidden, "календарь занятости есть только у исполнителей")
	}

	record := &models.AvailabilityRecord{
		WorkerID: actorID,
		Date:     truncateToDay(date),
		Status:   status,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// ClearStatus удаляет запись занятости на дату: дата снова считается
// свободной по умолчанию.
func (s *AvailabilityService) ClearStatus(ctx context.Context, actorID uuid.UUID, date time.Time) error {
	return s.repo.Delete(ctx, actorID, truncateToDay(date))
}

// ListForWorker возвращает календарь исполнителя за период. Календарь
// публичен: наниматель смотрит его перед выбором даты.
func (s *AvailabilityService) ListForWorker(ctx context.Context, workerID uuid.UUID, from, to time.Time) ([]models.AvailabilityRecord, error) {
	if to.Before(from) {
		return nil, apperror.New(apperror.ErrCodeValidation, "конец периода раньше его начала")
	}
	return s.repo.ListByWorker(ctx, workerID, truncateToDay(from), truncateToDay(to))
}
