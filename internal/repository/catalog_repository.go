package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dailyhire/backend/internal/models"
)

// ErrCategoryNotFound возвращается, когда категория не найдена.
var ErrCategoryNotFound = errors.New("category not found")

// CatalogRepository отвечает за справочник категорий работ.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository создаёт экземпляр репозитория.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories возвращает активные категории в порядке сортировки.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	query := `
		SELECT id, slug, name, description, sort_order, is_active, created_at
		FROM categories
		WHERE is_active = TRUE
		ORDER BY sort_order, name
	`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("catalog repository: list categories %w", err)
	}
	return categories, nil
}

// GetCategoryBySlug возвращает категорию по slug.
func (r *CatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	query := `
		SELECT id, slug, name, description, sort_order, is_active, created_at
		FROM categories
		WHERE slug = $1
	`
	if err := r.db.GetContext(ctx, &category, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("catalog repository: get category by slug %w", err)
	}
	return &category, nil
}
