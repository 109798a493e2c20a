package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dailyhire/backend/internal/models"
)

// Ошибки уровня репозитория.
var (
	ErrWorkerProfileNotFound = errors.New("worker profile not found")
	ErrWorkerProfileExists   = errors.New("worker profile already exists")
)

// WorkerRepository отвечает за анкеты исполнителей и их поиск.
type WorkerRepository struct {
	db *sqlx.DB
}

// NewWorkerRepository создаёт экземпляр репозитория.
func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// CreateProfile создаёт анкету исполнителя. На пользователя допускается
// ровно одна анкета: повторная вставка упирается в PRIMARY KEY(user_id).
func (r *WorkerRepository) CreateProfile(ctx context.Context, profile *models.WorkerProfile) error {
	query := `
		INSERT INTO worker_profiles (user_id, category_id, hourly_rate, daily_rate, experience_years, skills, bio, photo_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		profile.UserID,
		profile.CategoryID,
		profile.HourlyRate,
		profile.DailyRate,
		profile.ExperienceYears,
		pq.Array(profile.Skills),
		profile.Bio,
		profile.PhotoID,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrWorkerProfileExists
		}
		return fmt.Errorf("worker repository: create profile %w", err)
	}

	return nil
}

// UpdateProfile обновляет анкету исполнителя.
func (r *WorkerRepository) UpdateProfile(ctx context.Context, profile *models.WorkerProfile) error {
	query := `
		UPDATE worker_profiles
		SET category_id = $2,
			hourly_rate = $3,
			daily_rate = $4,
			experience_years = $5,
			skills = $6,
			bio = $7,
			photo_id = $8,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		profile.UserID,
		profile.CategoryID,
		profile.HourlyRate,
		profile.DailyRate,
		profile.ExperienceYears,
		pq.Array(profile.Skills),
		profile.Bio,
		profile.PhotoID,
	).Scan(&profile.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWorkerProfileNotFound
		}
		return fmt.Errorf("worker repository: update profile %w", err)
	}

	return nil
}

// GetProfile возвращает анкету исполнителя.
func (r *WorkerRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.WorkerProfile, error) {
	query := `
		SELECT user_id, category_id, hourly_rate, daily_rate, experience_years, skills, bio, photo_id, created_at, updated_at
		FROM worker_profiles
		WHERE user_id = $1
	`
	row := r.db.QueryRowxContext(ctx, query, userID)

	var profile models.WorkerProfile
	var skills pq.StringArray
	if err := row.Scan(
		&profile.UserID,
		&profile.CategoryID,
		&profile.HourlyRate,
		&profile.DailyRate,
		&profile.ExperienceYears,
		&skills,
		&profile.Bio,
		&profile.PhotoID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkerProfileNotFound
		}
		return nil, fmt.Errorf("worker repository: get profile %w", err)
	}
	profile.Skills = []string(skills)

	return &profile, nil
}

// SearchInput параметры поиска исполнителей.
type SearchInput struct {
	CategoryID *uuid.UUID
	Query      string
	Limit      int
	Offset     int
}

// Search возвращает анкеты исполнителей с агрегированным рейтингом.
// Текстовый фильтр ищет подстроку без учёта регистра в имени, bio и навыках;
// запись попадает в выдачу при совпадении хотя бы одного поля.
func (r *WorkerRepository) Search(ctx context.Context, in SearchInput) ([]models.WorkerSearchResult, error) {
	query := `
		SELECT
			wp.user_id,
			u.username,
			u.display_name,
			u.location,
			wp.category_id,
			wp.hourly_rate,
			wp.daily_rate,
			wp.experience_years,
			wp.skills,
			wp.bio,
			AVG(rv.rating) AS avg_rating,
			COUNT(DISTINCT rv.id) AS review_count,
			COUNT(DISTINCT b.id) FILTER (WHERE b.status = 'completed') AS completed_jobs
		FROM worker_profiles wp
		JOIN users u ON u.id = wp.user_id
		LEFT JOIN reviews rv ON rv.worker_id = wp.user_id
		LEFT JOIN bookings b ON b.worker_id = wp.user_id
		WHERE u.is_active = TRUE
	`
	args := []interface{}{}
	argNum := 1

	if in.CategoryID != nil {
		query += fmt.Sprintf(` AND wp.category_id = $%d`, argNum)
		args = append(args, *in.CategoryID)
		argNum++
	}

	if q := strings.TrimSpace(in.Query); q != "" {
		// Совпадение по любому из полей имени, bio или навыков
		// (union-семантика); username тоже имя, клиенты его показывают.
		query += fmt.Sprintf(
			` AND (u.display_name ILIKE $%d OR u.username ILIKE $%d OR wp.bio ILIKE $%d OR EXISTS (
				SELECT 1 FROM unnest(wp.skills) AS skill WHERE skill ILIKE $%d
			))`,
			argNum, argNum, argNum, argNum,
		)
		args = append(args, "%"+q+"%")
		argNum++
	}

	query += `
		GROUP BY wp.user_id, u.username, u.display_name, u.location, wp.category_id,
			wp.hourly_rate, wp.daily_rate, wp.experience_years, wp.skills, wp.bio
		ORDER BY avg_rating DESC NULLS LAST, completed_jobs DESC
	`

	if in.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, in.Limit)
		argNum++
	}
	if in.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, in.Offset)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("worker repository: search %w", err)
	}
	defer rows.Close()

	var results []models.WorkerSearchResult
	for rows.Next() {
		var res models.WorkerSearchResult
		var skills pq.StringArray
		if err := rows.Scan(
			&res.UserID,
			&res.Username,
			&res.DisplayName,
			&res.Location,
			&res.CategoryID,
			&res.HourlyRate,
			&res.DailyRate,
			&res.ExperienceYears,
			&skills,
			&res.Bio,
			&res.AvgRating,
			&res.ReviewCount,
			&res.CompletedJobs,
		); err != nil {
			return nil, fmt.Errorf("worker repository: scan search row %w", err)
		}
		res.Skills = []string(skills)
		results = append(results, res)
	}

	return results, rows.Err()
}

// isUniqueViolation распознаёт нарушение уникальности в PostgreSQL.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
