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
	"github.com/dailyhire/backend/internal/repository"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil {
		booking.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*models.Booking, error) {
	args := m.Called(ctx, id, fromStatus, toStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListByHirer(ctx context.Context, hirerID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	args := m.Called(ctx, hirerID, limit, offset)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListByWorker(ctx context.Context, workerID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	args := m.Called(ctx, workerID, limit, offset)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockBookingRepo) CountCompletedByWorker(ctx context.Context, workerID uuid.UUID) (int, error) {
	args := m.Called(ctx, workerID)
	return args.Int(0), args.Error(1)
}

type mockWorkerProfileReader struct {
	mock.Mock
}

func (m *mockWorkerProfileReader) GetProfile(ctx context.Context, userID uuid.UUID) (*models.WorkerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkerProfile), args.Error(1)
}

type mockAvailabilityReader struct {
	mock.Mock
}

func (m *mockAvailabilityReader) GetByWorkerAndDate(ctx context.Context, workerID uuid.UUID, date time.Time) (*models.AvailabilityRecord, error) {
	args := m.Called(ctx, workerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AvailabilityRecord), args.Error(1)
}

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newBookingServiceForTest() (*BookingService, *mockBookingRepo, *mockWorkerProfileReader, *mockAvailabilityReader, *mockUserReader) {
	bookings := new(mockBookingRepo)
	workers := new(mockWorkerProfileReader)
	availability := new(mockAvailabilityReader)
	users := new(mockUserReader)
	svc := NewBookingService(bookings, workers, availability, users)
	return svc, bookings, workers, availability, users
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	svc, bookings, workers, availability, users := newBookingServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()
	date := time.Now().AddDate(0, 0, 3)

	users.On("GetByID", ctx, hirerID).Return(&models.User{ID: hirerID, Role: models.RoleHirer}, nil)
	users.On("GetByID", ctx, workerID).Return(&models.User{ID: workerID, Role: models.RoleWorker}, nil)
	workers.On("GetProfile", ctx, workerID).Return(&models.WorkerProfile{
		UserID:     workerID,
		HourlyRate: 500,
	}, nil)
	availability.On("GetByWorkerAndDate", ctx, workerID, mock.AnythingOfType("time.Time")).Return(nil, nil)
	bookings.On("Create", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	booking, err := svc.CreateBooking(ctx, CreateBookingInput{
		HirerID:     hirerID,
		WorkerID:    workerID,
		BookingDate: date,
		Description: "Починить смеситель на кухне",
	})

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, booking.PaymentStatus)
	// Ставка за день без указанной длительности: почасовая за 8 часов
	assert.Equal(t, float64(4000), booking.AgreedRate)
}

func TestBookingService_CreateBooking_OnlyHirer(t *testing.T) {
	svc, _, _, _, users := newBookingServiceForTest()
	ctx := context.Background()

	workerID := uuid.New()
	users.On("GetByID", ctx, workerID).Return(&models.User{ID: workerID, Role: models.RoleWorker}, nil)

	_, err := svc.CreateBooking(ctx, CreateBookingInput{
		HirerID:     workerID,
		WorkerID:    uuid.New(),
		BookingDate: time.Now().AddDate(0, 0, 1),
		Description: "Помочь с переездом",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestBookingService_CreateBooking_PastDate(t *testing.T) {
	svc, _, workers, _, users := newBookingServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()

	users.On("GetByID", ctx, hirerID).Return(&models.User{ID: hirerID, Role: models.RoleHirer}, nil)
	users.On("GetByID", ctx, workerID).Return(&models.User{ID: workerID, Role: models.RoleWorker}, nil)
	workers.On("GetProfile", ctx, workerID).Return(&models.WorkerProfile{UserID: workerID, HourlyRate: 300}, nil)

	_, err := svc.CreateBooking(ctx, CreateBookingInput{
		HirerID:     hirerID,
		WorkerID:    workerID,
		BookingDate: time.Now().AddDate(0, 0, -2),
		Description: "Покрасить забор на даче",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestBookingService_CreateBooking_WorkerUnavailable(t *testing.T) {
	svc, _, workers, availability, users := newBookingServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()

	users.On("GetByID", ctx, hirerID).Return(&models.User{ID: hirerID, Role: models.RoleHirer}, nil)
	users.On("GetByID", ctx, workerID).Return(&models.User{ID: workerID, Role: models.RoleWorker}, nil)
	workers.On("GetProfile", ctx, workerID).Return(&models.WorkerProfile{UserID: workerID, HourlyRate: 300}, nil)
	availability.On("GetByWorkerAndDate", ctx, workerID, mock.AnythingOfType("time.Time")).Return(&models.AvailabilityRecord{
		WorkerID: workerID,
		Status:   models.AvailabilityStatusHoliday,
	}, nil)

	_, err := svc.CreateBooking(ctx, CreateBookingInput{
		HirerID:     hirerID,
		WorkerID:    workerID,
		BookingDate: time.Now().AddDate(0, 0, 5),
		Description: "Собрать шкаф из IKEA",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestBookingService_CreateBooking_ExplicitlyAvailableDate(t *testing.T) {
	svc, bookings, workers, availability, users := newBookingServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()

	users.On("GetByID", ctx, hirerID).Return(&models.User{ID: hirerID, Role: models.RoleHirer}, nil)
	users.On("GetByID", ctx, workerID).Return(&models.User{ID: workerID, Role: models.RoleWorker}, nil)
	workers.On("GetProfile", ctx, workerID).Return(&models.WorkerProfile{UserID: workerID, HourlyRate: 400}, nil)
	// Явная запись "available" пропускает заказ так же, как её отсутствие
	availability.On("GetByWorkerAndDate", ctx, workerID, mock.AnythingOfType("time.Time")).Return(&models.AvailabilityRecord{
		WorkerID: workerID,
		Status:   models.AvailabilityStatusAvailable,
	}, nil)
	bookings.On("Create", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	booking, err := svc.CreateBooking(ctx, CreateBookingInput{
		HirerID:     hirerID,
		WorkerID:    workerID,
		BookingDate: time.Now().AddDate(0, 0, 2),
		Description: "Поклеить обои в спальне",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	bookings.AssertExpectations(t)
}

func TestBookingService_CreateBooking_UnavailableStatus(t *testing.T) {
	svc, bookings, workers, availability, users := newBookingServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()

	users.On("GetByID", ctx, hirerID).Return(&models.User{ID: hirerID, Role: models.RoleHirer}, nil)
	users.On("GetByID", ctx, workerID).Return(&models.User{ID: workerID, Role: models.RoleWorker}, nil)
	workers.On("GetProfile", ctx, workerID).Return(&models.WorkerProfile{UserID: workerID, HourlyRate: 400}, nil)
	availability.On("GetByWorkerAndDate", ctx, workerID, mock.AnythingOfType("time.Time")).Return(&models.AvailabilityRecord{
		WorkerID: workerID,
		Status:   models.AvailabilityStatusUnavailable,
	}, nil)

	_, err := svc.CreateBooking(ctx, CreateBookingInput{
		HirerID:     hirerID,
		WorkerID:    workerID,
		BookingDate: time.Now().AddDate(0, 0, 4),
		Description: "Перевезти пианино",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "недоступен в выбранную дату")
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_WorkerWithoutProfile(t *testing.T) {
	svc, _, workers, _, users := newBookingServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()

	users.On("GetByID", ctx, hirerID).Return(&models.User{ID: hirerID, Role: models.RoleHirer}, nil)
	users.On("GetByID", ctx, workerID).Return(&models.User{ID: workerID, Role: models.RoleWorker}, nil)
	workers.On("GetProfile", ctx, workerID).Return(nil, repository.ErrWorkerProfileNotFound)

	_, err := svc.CreateBooking(ctx, CreateBookingInput{
		HirerID:     hirerID,
		WorkerID:    workerID,
		BookingDate: time.Now().AddDate(0, 0, 1),
		Description: "Вскопать грядки на участке",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestComputeAgreedRate(t *testing.T) {
	hours := func(v float64) *float64 { return &v }
	daily := 2500.0

	hourlyOnly := &models.WorkerProfile{HourlyRate: 300}
	withDaily := &models.WorkerProfile{HourlyRate: 300, DailyRate: &daily}

	// Часы указаны: часы * почасовая, дневная ставка не участвует
	assert.Equal(t, 1500.0, computeAgreedRate(withDaily, hours(5)))
	// Часы не указаны, дневная задана
	assert.Equal(t, 2500.0, computeAgreedRate(withDaily, nil))
	// Часы не указаны, дневной нет: почасовая за стандартный день
	assert.Equal(t, 2400.0, computeAgreedRate(hourlyOnly, nil))
	// Нулевая длительность равносильна отсутствию
	assert.Equal(t, 2500.0, computeAgreedRate(withDaily, hours(0)))
}

func TestTransitionAllowed_FullTable(t *testing.T) {
	statuses := []string{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
	}

	type key struct {
		from, to string
		worker   bool
	}
	allowed := map[key]bool{
		{models.BookingStatusPending, models.BookingStatusConfirmed, true}:    true,
		{models.BookingStatusPending, models.BookingStatusCancelled, true}:    true,
		{models.BookingStatusPending, models.BookingStatusCancelled, false}:   true,
		{models.BookingStatusConfirmed, models.BookingStatusCompleted, true}:  true,
		{models.BookingStatusConfirmed, models.BookingStatusCancelled, true}:  true,
		{models.BookingStatusConfirmed, models.BookingStatusCancelled, false}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			for _, worker := range []bool{true, false} {
				want := allowed[key{from, to, worker}]
				got := transitionAllowed(from, to, worker)
				assert.Equalf(t, want, got, "%s -> %s (worker=%v)", from, to, worker)
			}
		}
	}
}

func TestBookingService_UpdateStatus_WorkerConfirms(t *testing.T) {
	svc, bookings, _, _, _ := newBookingServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()
	bookingID := uuid.New()

	pending := &models.Booking{ID: bookingID, HirerID: hirerID, WorkerID: workerID, Status: models.BookingStatusPending}
	confirmed := &models.Booking{ID: bookingID, HirerID: hirerID, WorkerID: workerID, Status: models.BookingStatusConfirmed}

	bookings.On("GetByID", ctx, bookingID).Return(pending, nil)
	bookings.On("UpdateStatus", ctx, bookingID, models.BookingStatusPending, models.BookingStatusConfirmed).Return(confirmed, nil)

	updated, err := svc.UpdateStatus(ctx, bookingID, workerID, models.BookingStatusConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
}

func TestBookingService_UpdateStatus_HirerCannotConfirm(t *testing.T) {
	svc, bookings, _, _, _ := newBookingServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	bookingID := uuid.New()

	pending := &models.Booking{ID: bookingID, HirerID: hirerID, WorkerID: uuid.New(), Status: models.BookingStatusPending}
	bookings.On("GetByID", ctx, bookingID).Return(pending, nil)

	_, err := svc.UpdateStatus(ctx, bookingID, hirerID, models.BookingStatusConfirmed)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestBookingService_UpdateStatus_TerminalIsFinal(t *testing.T) {
	svc, bookings, _, _, _ := newBookingServiceForTest()
	ctx := context.Background()

	workerID := uuid.New()
	bookingID := uuid.New()

	cancelled := &models.Booking{ID: bookingID, HirerID: uuid.New(), WorkerID: workerID, Status: models.BookingStatusCancelled}
	bookings.On("GetByID", ctx, bookingID).Return(cancelled, nil)

	_, err := svc.UpdateStatus(ctx, bookingID, workerID, models.BookingStatusConfirmed)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestBookingService_UpdateStatus_NonParticipant(t *testing.T) {
	svc, bookings, _, _, _ := newBookingServiceForTest()
	ctx := context.Background()

	bookingID := uuid.New()
	booking := &models.Booking{ID: bookingID, HirerID: uuid.New(), WorkerID: uuid.New(), Status: models.BookingStatusPending}
	bookings.On("GetByID", ctx, bookingID).Return(booking, nil)

	// Посторонний получает «не найден», а не «нет прав»
	_, err := svc.UpdateStatus(ctx, bookingID, uuid.New(), models.BookingStatusCancelled)

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestBookingService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc, _, _, _, _ := newBookingServiceForTest()
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, uuid.New(), uuid.New(), "archived")

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestBookingService_UpdateStatus_ConcurrentChange(t *testing.T) {
	svc, bookings, _, _, _ := newBookingServiceForTest()
	ctx := context.Background()

	hirerID := uuid.New()
	workerID := uuid.New()
	bookingID := uuid.New()

	pending := &models.Booking{ID: bookingID, HirerID: hirerID, WorkerID: workerID, Status: models.BookingStatusPending}
	cancelled := &models.Booking{ID: bookingID, HirerID: hirerID, WorkerID: workerID, Status: models.BookingStatusCancelled}

	// Между чтением и условным UPDATE статус успел смениться
	bookings.On("GetByID", ctx, bookingID).Return(pending, nil).Once()
	bookings.On("UpdateStatus", ctx, bookingID, models.BookingStatusPending, models.BookingStatusConfirmed).Return(nil, repository.ErrStaleBookingStatus)
	bookings.On("GetByID", ctx, bookingID).Return(cancelled, nil).Once()

	_, err := svc.UpdateStatus(ctx, bookingID, workerID, models.BookingStatusConfirmed)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
	assert.Contains(t, err.Error(), models.BookingStatusCancelled)
}

func TestBookingService_GetBooking_NonParticipant(t *testing.T) {
	svc, bookings, _, _, _ := newBookingServiceForTest()
	ctx := context.Background()

	bookingID := uuid.New()
	booking := &models.Booking{ID: bookingID, HirerID: uuid.New(), WorkerID: uuid.New(), Status: models.BookingStatusPending}
	bookings.On("GetByID", ctx, bookingID).Return(booking, nil)

	_, err := svc.GetBooking(ctx, bookingID, uuid.New())

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestBookingService_ListMyBookings_ByRole(t *testing.T) {
	svc, bookings, _, _, users := newBookingServiceForTest()
	ctx := context.Background()

	workerID := uuid.New()
	users.On("GetByID", ctx, workerID).Return(&models.User{ID: workerID, Role: models.RoleWorker}, nil)
	bookings.On("ListByWorker", ctx, workerID, 20, 0).Return([]models.Booking{}, nil)

	_, err := svc.ListMyBookings(ctx, workerID, 0, -5)

	assert.NoError(t, err)
	bookings.AssertCalled(t, "ListByWorker", ctx, workerID, 20, 0)
}
