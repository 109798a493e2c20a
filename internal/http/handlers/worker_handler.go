package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dailyhire/backend/internal/http/handlers/common"
	"github.com/dailyhire/backend/internal/repository"
	"github.com/dailyhire/backend/internal/service"
)

// WorkerHandler отвечает за анкеты исполнителей и поиск.
type WorkerHandler struct {
	workers *service.WorkerService
	reviews *service.ReviewService
}

// NewWorkerHandler создаёт хэндлер.
func NewWorkerHandler(workers *service.WorkerService, reviews *service.ReviewService) *WorkerHandler {
	return &WorkerHandler{workers: workers, reviews: reviews}
}

type workerProfileRequest struct {
	CategoryID      *uuid.UUID `json:"category_id"`
	HourlyRate      float64    `json:"hourly_rate" binding:"required"`
	DailyRate       *float64   `json:"daily_rate"`
	ExperienceYears int        `json:"experience_years"`
	Skills          []string   `json:"skills"`
	Bio             *string    `json:"bio"`
	PhotoID         *uuid.UUID `json:"photo_id"`
}

func (r workerProfileRequest) toInput() service.WorkerProfileInput {
	return service.WorkerProfileInput{
		CategoryID:      r.CategoryID,
		HourlyRate:      r.HourlyRate,
		DailyRate:       r.DailyRate,
		ExperienceYears: r.ExperienceYears,
		Skills:          r.Skills,
		Bio:             r.Bio,
		PhotoID:         r.PhotoID,
	}
}

// CreateProfile обрабатывает POST /workers/profile.
func (h *WorkerHandler) CreateProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req workerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "hourly_rate обязателен")
		return
	}

	profile, err := h.workers.CreateProfile(c.Request.Context(), userID, req.toInput())
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// UpdateProfile обрабатывает PUT /workers/profile.
func (h *WorkerHandler) UpdateProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req workerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "hourly_rate обязателен")
		return
	}

	profile, err := h.workers.UpdateProfile(c.Request.Context(), userID, req.toInput())
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetCard обрабатывает GET /workers/:id.
func (h *WorkerHandler) GetCard(c *gin.Context) {
	workerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный worker_id")
		return
	}

	card, err := h.workers.GetCard(c.Request.Context(), workerID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// Search обрабатывает GET /workers.
func (h *WorkerHandler) Search(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	in := repository.SearchInput{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "неверный category_id")
			return
		}
		in.CategoryID = &categoryID
	}

	results, err := h.workers.Search(c.Request.Context(), in)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workers": results,
		"limit":   in.Limit,
		"offset":  in.Offset,
	})
}

// ListReviews обрабатывает GET /workers/:id/reviews.
func (h *WorkerHandler) ListReviews(c *gin.Context) {
	workerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный worker_id")
		return
	}

	limit, offset := common.GetPagination(c)

	reviews, err := h.reviews.ListWorkerReviews(c.Request.Context(), workerID, limit, offset)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	rating, err := h.reviews.GetWorkerRating(c.Request.Context(), workerID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": rating.Average,
		"total_reviews":  rating.Count,
	})
}
