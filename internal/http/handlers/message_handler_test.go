package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMessageHandler_Send_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &MessageHandler{messages: nil}
	r.POST("/messages", handler.Send)

	req, _ := http.NewRequest("POST", "/messages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMessageHandler_Dialog_InvalidUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &MessageHandler{messages: nil}
	r.GET("/messages/dialog/:userId", handler.Dialog)

	req, _ := http.NewRequest("GET", "/messages/dialog/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessageHandler_MarkRead_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &MessageHandler{messages: nil}
	r.POST("/messages/:id/read", handler.MarkRead)

	messageID := uuid.New()
	req, _ := http.NewRequest("POST", "/messages/"+messageID.String()+"/read", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMessageHandler_UnreadCounts_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &MessageHandler{messages: nil}
	r.GET("/messages/unread", handler.UnreadCounts)

	req, _ := http.NewRequest("GET", "/messages/unread", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
