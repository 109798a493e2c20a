package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBookingHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BookingHandler{bookings: nil}
	r.POST("/bookings", handler.Create)

	req, _ := http.NewRequest("POST", "/bookings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandler_Get_InvalidBookingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &BookingHandler{bookings: nil}
	r.GET("/bookings/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/bookings/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_UpdateStatus_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &BookingHandler{bookings: nil}
	r.PATCH("/bookings/:id/status", handler.UpdateStatus)

	bookingID := uuid.New()
	req, _ := http.NewRequest("PATCH", "/bookings/"+bookingID.String()+"/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandler_CreateReview_InvalidBookingID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &BookingHandler{reviews: nil}
	r.POST("/bookings/:id/review", handler.CreateReview)

	req, _ := http.NewRequest("POST", "/bookings/invalid-uuid/review", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_SendMessage_InvalidBookingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler := &BookingHandler{messages: nil}
	r.POST("/bookings/:id/messages", handler.SendMessage)

	req, _ := http.NewRequest("POST", "/bookings/not-a-uuid/messages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
