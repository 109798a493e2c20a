package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dailyhire/backend/internal/config"
	"github.com/dailyhire/backend/internal/http/handlers"
	"github.com/dailyhire/backend/internal/http/middleware"
	"github.com/dailyhire/backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	workerHandler *handlers.WorkerHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	messageHandler *handlers.MessageHandler,
	catalogHandler *handlers.CatalogHandler,
	mediaHandler *handlers.MediaHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", authHandler.DeleteSession)
		protectedAuth.DELETE("/sessions", authHandler.DeleteAllSessionsExcept)
	}

	// Публичные маршруты: карточки, поиск, календарь и отзывы видны без входа
	api.GET("/ws", wsHandler.Handle)
	api.GET("/workers", workerHandler.Search)
	api.GET("/workers/:id", middleware.UUIDValidator("id"), workerHandler.GetCard)
	api.GET("/workers/:id/reviews", middleware.UUIDValidator("id"), workerHandler.ListReviews)
	api.GET("/workers/:id/availability", middleware.UUIDValidator("id"), availabilityHandler.ListForWorker)
	api.GET("/catalog/categories", catalogHandler.ListCategories)
	api.GET("/catalog/categories/:slug", catalogHandler.GetCategory)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.Me)
		protected.PUT("/profile", profileHandler.UpdateMe)

		protected.POST("/workers/profile", workerHandler.CreateProfile)
		protected.PUT("/workers/profile", workerHandler.UpdateProfile)

		protected.PUT("/availability", availabilityHandler.SetStatus)
		protected.DELETE("/availability/:date", availabilityHandler.ClearStatus)

		protected.POST("/bookings", bookingHandler.Create)
		protected.GET("/bookings", bookingHandler.ListMy)
		protected.GET("/bookings/:id", middleware.UUIDValidator("id"), bookingHandler.Get)
		protected.PATCH("/bookings/:id/status", middleware.UUIDValidator("id"), bookingHandler.UpdateStatus)
		protected.POST("/bookings/:id/messages", middleware.UUIDValidator("id"), bookingHandler.SendMessage)
		protected.GET("/bookings/:id/messages", middleware.UUIDValidator("id"), bookingHandler.ListMessages)
		protected.POST("/bookings/:id/review", middleware.UUIDValidator("id"), bookingHandler.CreateReview)
		protected.GET("/bookings/:id/can-review", middleware.UUIDValidator("id"), bookingHandler.CanReview)

		protected.PUT("/reviews/:id", middleware.UUIDValidator("id"), bookingHandler.UpdateReview)

		protected.POST("/messages", messageHandler.Send)
		protected.GET("/messages/unread", messageHandler.UnreadCounts)
		protected.GET("/messages/dialog/:userId", middleware.UUIDValidator("userId"), messageHandler.Dialog)
		protected.POST("/messages/:id/read", middleware.UUIDValidator("id"), messageHandler.MarkRead)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), notificationHandler.Delete)

		protected.POST("/media", mediaHandler.Upload)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), mediaHandler.Delete)
	}

	return r
}
