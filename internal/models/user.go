package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает аккаунт пользователя платформы.
// Роль назначается один раз при регистрации и далее не меняется.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	DisplayName  string     `db:"display_name" json:"display_name"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Location     *string    `db:"location" json:"location,omitempty"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// WorkerProfile описывает анкету исполнителя. Одна анкета на пользователя
// с ролью worker, уникальность обеспечивается ограничением в БД.
type WorkerProfile struct {
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	CategoryID      *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	HourlyRate      float64    `db:"hourly_rate" json:"hourly_rate"`
	DailyRate       *float64   `db:"daily_rate" json:"daily_rate,omitempty"`
	ExperienceYears int        `db:"experience_years" json:"experience_years"`
	Skills          []string   `db:"skills" json:"skills"`
	Bio             *string    `db:"bio" json:"bio,omitempty"`
	PhotoID         *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// WorkerSearchResult — строка в выдаче поиска исполнителей. Рейтинг и число
// завершённых заказов считаются на лету из отзывов и заказов.
type WorkerSearchResult struct {
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	Username        string     `db:"username" json:"username"`
	DisplayName     string     `db:"display_name" json:"display_name"`
	CategoryID      *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	HourlyRate      float64    `db:"hourly_rate" json:"hourly_rate"`
	DailyRate       *float64   `db:"daily_rate" json:"daily_rate,omitempty"`
	ExperienceYears int        `db:"experience_years" json:"experience_years"`
	Skills          []string   `db:"skills" json:"skills"`
	Bio             *string    `db:"bio" json:"bio,omitempty"`
	Location        *string    `db:"location" json:"location,omitempty"`
	AvgRating       *float64   `db:"avg_rating" json:"avg_rating,omitempty"`
	ReviewCount     int        `db:"review_count" json:"review_count"`
	CompletedJobs   int        `db:"completed_jobs" json:"completed_jobs"`
}
