package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dailyhire/backend/internal/http/handlers/common"
	"github.com/dailyhire/backend/internal/service"
	"github.com/dailyhire/backend/internal/validation"
)

// AvailabilityHandler отвечает за календарь занятости исполнителя.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

// NewAvailabilityHandler создаёт хэндлер.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// SetStatus обрабатывает PUT /availability.
func (h *AvailabilityHandler) SetStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Date   string `json:"date" binding:"required"`
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "date и status обязательны")
		return
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	record, err := h.availability.SetStatus(c.Request.Context(), userID, date, req.Status)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ClearStatus обрабатывает DELETE /availability/:date.
func (h *AvailabilityHandler) ClearStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	date, err := validation.ParseDate(c.Param("date"))
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.availability.ClearStatus(c.Request.Context(), userID, date); err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListForWorker обрабатывает GET /workers/:id/availability. По умолчанию
// отдаётся ближайший месяц.
func (h *AvailabilityHandler) ListForWorker(c *gin.Context) {
	workerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный worker_id")
		return
	}

	from := time.Now()
	to := from.AddDate(0, 1, 0)

	if raw := c.Query("from"); raw != "" {
		if from, err = validation.ParseDate(raw); err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = validation.ParseDate(raw); err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
	}

	records, err := h.availability.ListForWorker(c.Request.Context(), workerID, from, to)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"availability": records})
}
