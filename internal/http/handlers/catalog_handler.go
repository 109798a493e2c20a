package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dailyhire/backend/internal/http/handlers/common"
	"github.com/dailyhire/backend/internal/repository"
)

// CatalogHandler отдаёт справочник категорий работ.
type CatalogHandler struct {
	repo *repository.CatalogRepository
}

// NewCatalogHandler создаёт хэндлер.
func NewCatalogHandler(repo *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// ListCategories обрабатывает GET /catalog/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.repo.ListCategories(c.Request.Context())
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory обрабатывает GET /catalog/categories/:slug.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.repo.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			common.RespondNotFound(c, "категория не найдена")
			return
		}
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}
