package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dailyhire/backend/internal/models"
	"github.com/dailyhire/backend/internal/pkg/apperror"
	"github.com/dailyhire/backend/internal/repository"
	"github.com/dailyhire/backend/internal/validation"
)

// WorkerRepository описывает взаимодействие сервиса с хранилищем анкет.
type WorkerRepository interface {
	CreateProfile(ctx context.Context, profile *models.WorkerProfile) error
	UpdateProfile(ctx context.Context, profile *models.WorkerProfile) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.WorkerProfile, error)
	Search(ctx context.Context, in repository.SearchInput) ([]models.WorkerSearchResult, error)
}

// BookingCounter считает завершённые заказы исполнителя.
type BookingCounter interface {
	CountCompletedByWorker(ctx context.Context, workerID uuid.UUID) (int, error)
}

// RatingReader отдаёт агрегированный рейтинг исполнителя.
type RatingReader interface {
	GetWorkerRating(ctx context.Context, workerID uuid.UUID) (*models.WorkerRating, error)
}

// WorkerService управляет анкетами исполнителей и их публичными карточками.
type WorkerService struct {
	repo     WorkerRepository
	users    UserReader
	bookings BookingCounter
	ratings  RatingReader
}

// NewWorkerService создаёт сервис анкет исполнителей.
func NewWorkerService(repo WorkerRepository, users UserReader, bookings BookingCounter, ratings RatingReader) *WorkerService {
	return &WorkerService{
		repo:     repo,
		users:    users,
		bookings: bookings,
		ratings:  ratings,
	}
}

// WorkerProfileInput содержит изменяемые поля анкеты.
type WorkerProfileInput struct {
	CategoryID      *uuid.UUID
	HourlyRate      float64
	DailyRate       *float64
	ExperienceYears int
	Skills          []string
	Bio             *string
	PhotoID         *uuid.UUID
}

// WorkerCard — публичная карточка исполнителя: анкета плюс агрегаты,
// посчитанные из отзывов и завершённых заказов.
type WorkerCard struct {
	UserID        uuid.UUID             `json:"user_id"`
	Username      string                `json:"username"`
	DisplayName   string                `json:"display_name"`
	Location      *string               `json:"location,omitempty"`
	Profile       *models.WorkerProfile `json:"profile"`
	Rating        *models.WorkerRating  `json:"rating"`
	CompletedJobs int                   `json:"completed_jobs"`
}

// CreateProfile заводит анкету исполнителя. Анкета доступна только
// пользователям с ролью worker, и только одна на пользователя.
func (s *WorkerService) CreateProfile(ctx context.Context, actorID uuid.UUID, in WorkerProfileInput) (*models.WorkerProfile, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}
	if actor.Role != models.RoleWorker {
		return nil, apperror.New(apperror.ErrCodeForbidden, "анкета доступна только исполнителям")
	}

	if err := validateProfileInput(in); err != nil {
		return nil, err
	}

	profile := profileFromInput(actorID, in)
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrWorkerProfileExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "анкета уже создана")
		}
		return nil, err
	}

	return profile, nil
}

// UpdateProfile обновляет анкету. Редактировать анкету может только её
// владелец.
func (s *WorkerService) UpdateProfile(ctx context.Context, actorID uuid.UUID, in WorkerProfileInput) (*models.WorkerProfile, error) {
	if err := validateProfileInput(in); err != nil {
		return nil, err
	}

	profile := profileFromInput(actorID, in)
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrWorkerProfileNotFound) {
			return nil, apperror.ErrWorkerNotFound
		}
		return nil, err
	}

	return profile, nil
}

// GetCard возвращает публичную карточку исполнителя. Карточка доступна без
// авторизации: по ней наниматель выбирает, кого звать.
func (s *WorkerService) GetCard(ctx context.Context, workerID uuid.UUID) (*WorkerCard, error) {
	user, err := s.users.GetByID(ctx, workerID)
	if err != nil || user.Role != models.RoleWorker {
		return nil, apperror.ErrWorkerNotFound
	}

	profile, err := s.repo.GetProfile(ctx, workerID)
	if err != nil {
		if errors.Is(err, repository.ErrWorkerProfileNotFound) {
			return nil, apperror.ErrWorkerNotFound
		}
		return nil, err
	}

	rating, err := s.ratings.GetWorkerRating(ctx, workerID)
	if err != nil {
		return nil, err
	}

	completed, err := s.bookings.CountCompletedByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	return &WorkerCard{
		UserID:        workerID,
		Username:      user.Username,
		DisplayName:   user.DisplayName,
		Location:      user.Location,
		Profile:       profile,
		Rating:        rating,
		CompletedJobs: completed,
	}, nil
}

// Search ищет исполнителей по категории и текстовому запросу.
func (s *WorkerService) Search(ctx context.Context, in repository.SearchInput) ([]models.WorkerSearchResult, error) {
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	return s.repo.Search(ctx, in)
}

func validateProfileInput(in WorkerProfileInput) error {
	if err := validation.ValidateRate("почасовая ставка", in.HourlyRate); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.HourlyRate == 0 {
		return apperror.New(apperror.ErrCodeValidation, "почасовая ставка обязательна")
	}
	if in.DailyRate != nil {
		if err := validation.ValidateRate("дневная ставка", *in.DailyRate); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if in.ExperienceYears < 0 || in.ExperienceYears > 80 {
		return apperror.New(apperror.ErrCodeValidation, "стаж должен быть от 0 до 80 лет")
	}
	if err := validation.ValidateSkills(in.Skills); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateBio(in.Bio); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

func profileFromInput(userID uuid.UUID, in WorkerProfileInput) *models.WorkerProfile {
	return &models.WorkerProfile{
		UserID:          userID,
		CategoryID:      in.CategoryID,
		HourlyRate:      in.HourlyRate,
		DailyRate:       in.DailyRate,
		ExperienceYears: in.ExperienceYears,
		Skills:          in.Skills,
		Bio:             in.Bio,
		PhotoID:         in.PhotoID,
	}
}
