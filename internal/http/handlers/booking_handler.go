package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dailyhire/backend/internal/http/handlers/common"
	"github.com/dailyhire/backend/internal/service"
	"github.com/dailyhire/backend/internal/validation"
)

// BookingHandler отвечает за жизненный цикл заказов и чат заказа.
type BookingHandler struct {
	bookings *service.BookingService
	messages *service.MessageService
	reviews  *service.ReviewService
}

// NewBookingHandler создаёт хэндлер.
func NewBookingHandler(bookings *service.BookingService, messages *service.MessageService, reviews *service.ReviewService) *BookingHandler {
	return &BookingHandler{bookings: bookings, messages: messages, reviews: reviews}
}

// Create обрабатывает POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		WorkerID      uuid.UUID `json:"worker_id" binding:"required"`
		Date          string    `json:"date" binding:"required"`
		StartTime     *string   `json:"start_time"`
		DurationHours *float64  `json:"duration_hours"`
		Description   string    `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "worker_id, date и description обязательны")
		return
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateStartTime(req.StartTime); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), service.CreateBookingInput{
		HirerID:       userID,
		WorkerID:      req.WorkerID,
		BookingDate:   date,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		Description:   req.Description,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// Get обрабатывает GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный booking_id")
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// UpdateStatus обрабатывает PATCH /bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный booking_id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "status обязателен")
		return
	}

	booking, err := h.bookings.UpdateStatus(c.Request.Context(), bookingID, userID, req.Status)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListMy обрабатывает GET /bookings.
func (h *BookingHandler) ListMy(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	bookings, err := h.bookings.ListMyBookings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// SendMessage обрабатывает POST /bookings/:id/messages.
func (h *BookingHandler) SendMessage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный booking_id")
		return
	}

	var req struct {
		Content string     `json:"content" binding:"required"`
		MediaID *uuid.UUID `json:"media_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "content обязателен")
		return
	}

	msg, err := h.messages.SendBookingMessage(c.Request.Context(), bookingID, userID, req.Content, req.MediaID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// ListMessages обрабатывает GET /bookings/:id/messages.
func (h *BookingHandler) ListMessages(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный booking_id")
		return
	}

	limit := common.ParseIntQuery(c, "limit", 50)
	offset := common.ParseIntQuery(c, "offset", 0)

	messages, err := h.messages.ListBookingMessages(c.Request.Context(), bookingID, userID, limit, offset)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// CreateReview обрабатывает POST /bookings/:id/review.
func (h *BookingHandler) CreateReview(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный booking_id")
		return
	}

	var req struct {
		Rating  int     `json:"rating" binding:"required"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "rating обязателен")
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), bookingID, userID, req.Rating, req.Comment)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// UpdateReview обрабатывает PUT /reviews/:id. Редактировать отзыв может
// только его автор.
func (h *BookingHandler) UpdateReview(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор отзыва")
		return
	}

	var req struct {
		Rating  int     `json:"rating" binding:"required"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "rating обязателен")
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), reviewID, userID, req.Rating, req.Comment)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// CanReview обрабатывает GET /bookings/:id/can-review.
func (h *BookingHandler) CanReview(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный booking_id")
		return
	}

	canReview, err := h.reviews.CanLeaveReview(c.Request.Context(), bookingID, userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"can_review": canReview})
}
