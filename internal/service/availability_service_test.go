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

type mockAvailabilityRepo struct {
	mock.Mock
}

func (m *mockAvailabilityRepo) Upsert(ctx context.Context, record *models.AvailabilityRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockAvailabilityRepo) GetByWorkerAndDate(ctx context.Context, workerID uuid.UUID, date time.Time) (*models.AvailabilityRecord, error) {
	args := m.Called(ctx, workerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AvailabilityRecord), args.Error(1)
}

func (m *mockAvailabilityRepo) ListByWorker(ctx context.Context, workerID uuid.UUID, from, to time.Time) ([]models.AvailabilityRecord, error) {
	args := m.Called(ctx, workerID, from, to)
	return args.Get(0).([]models.AvailabilityRecord), args.Error(1)
}

func (m *mockAvailabilityRepo) Delete(ctx context.Context, workerID uuid.UUID, date time.Time) error {
	args := m.Called(ctx, workerID, date)
	return args.Error(0)
}

func TestAvailabilityService_SetStatus_Success(t *testing.T) {
	repo := new(mockAvailabilityRepo)
	users := new(mockUserReader)
	svc := NewAvailabilityService(repo, users)
	ctx := context.Background()

	workerID := uuid.New()
	users.On("GetByID", ctx, workerID).Return(&models.User{ID: workerID, Role: models.RoleWorker}, nil)
	repo.On("Upsert", ctx, mock.AnythingOfType("*models.AvailabilityRecord")).Return(nil)

	record, err := svc.SetStatus(ctx, workerID, time.Now().AddDate(0, 0, 2), models.AvailabilityStatusUnavailable)

	assert.NoError(t, err)
	assert.Equal(t, models.AvailabilityStatusUnavailable, record.Status)
	// Дата нормализуется до календарного дня
	assert.Equal(t, 0, record.Date.Hour())
	assert.Equal(t, time.UTC, record.Date.Location())
}

func TestAvailabilityService_SetStatus_UnknownStatus(t *testing.T) {
	svc := NewAvailabilityService(new(mockAvailabilityRepo), new(mockUserReader))
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, uuid.New(), time.Now(), "busy")

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "неизвестный статус")
}

func TestAvailabilityService_SetStatus_HirerForbidden(t *testing.T) {
	repo := new(mockAvailabilityRepo)
	users := new(mockUserReader)
	svc := NewAvailabilityService(repo, users)
	ctx := context.Background()

	hirerID := uuid.New()
	users.On("GetByID", ctx, hirerID).Return(&models.User{ID: hirerID, Role: models.RoleHirer}, nil)

	_, err := svc.SetStatus(ctx, hirerID, time.Now(), models.AvailabilityStatusHoliday)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestAvailabilityService_ListForWorker_InvalidRange(t *testing.T) {
	svc := NewAvailabilityService(new(mockAvailabilityRepo), new(mockUserReader))
	ctx := context.Background()

	now := time.Now()
	_, err := svc.ListForWorker(ctx, uuid.New(), now, now.AddDate(0, 0, -7))

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAvailabilityService_ClearStatus(t *testing.T) {
	repo := new(mockAvailabilityRepo)
	svc := NewAvailabilityService(repo, new(mockUserReader))
	ctx := context.Background()

	workerID := uuid.New()
	repo.On("Delete", ctx, workerID, mock.AnythingOfType("time.Time")).Return(nil)

	err := svc.ClearStatus(ctx, workerID, time.Now().AddDate(0, 0, 1))

	assert.NoError(t, err)
	repo.AssertCalled(t, "Delete", ctx, workerID, mock.AnythingOfType("time.Time"))
}
