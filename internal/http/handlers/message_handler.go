package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dailyhire/backend/internal/http/handlers/common"
	"github.com/dailyhire/backend/internal/service"
)

// MessageHandler отвечает за личные сообщения между пользователями.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler создаёт хэндлер.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send обрабатывает POST /messages.
func (h *MessageHandler) Send(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		ReceiverID uuid.UUID  `json:"receiver_id" binding:"required"`
		Content    string     `json:"content" binding:"required"`
		MediaID    *uuid.UUID `json:"media_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "receiver_id и content обязательны")
		return
	}

	msg, err := h.messages.SendDirectMessage(c.Request.Context(), userID, req.ReceiverID, req.Content, req.MediaID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// Dialog обрабатывает GET /messages/dialog/:userId.
func (h *MessageHandler) Dialog(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	peerID, err := common.ParseUUIDParam(c, "userId")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор собеседника")
		return
	}

	limit := common.ParseIntQuery(c, "limit", 50)
	offset := common.ParseIntQuery(c, "offset", 0)

	messages, err := h.messages.ListDialog(c.Request.Context(), userID, peerID, limit, offset)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkRead обрабатывает POST /messages/:id/read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	messageID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный message_id")
		return
	}

	msg, err := h.messages.MarkRead(c.Request.Context(), messageID, userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

// UnreadCounts обрабатывает GET /messages/unread.
func (h *MessageHandler) UnreadCounts(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	counts, err := h.messages.CountUnread(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": counts})
}
