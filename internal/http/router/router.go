package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/innies-app/innies-backend/internal/config"
	"github.com/innies-app/innies-backend/internal/http/handlers"
	"github.com/innies-app/innies-backend/internal/http/middleware"
)

// Лимит публичной формы обратной связи с одного IP.
const contactRateLimit = 5

// Handlers набор хэндлеров API.
type Handlers struct {
	Health       *handlers.HealthHandler
	Users        *handlers.UserHandler
	Catalog      *handlers.CatalogHandler
	Bookings     *handlers.BookingHandler
	Payments     *handlers.PaymentHandler
	Reviews      *handlers.ReviewHandler
	Chats        *handlers.ChatHandler
	Contacts     *handlers.ContactHandler
	Webhooks     *handlers.WebhookHandler
	Video        *handlers.VideoHandler
	Notification *handlers.NotificationHandler
	WS           *handlers.WSHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	auth *middleware.Authenticator,
	limiterStore limiter.Store,
	attachmentsRoot string,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.Static(handlers.AttachmentsURLPrefix, attachmentsRoot)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(limiterStore, "api", cfg.RateLimitLimit, cfg.RateLimitPeriod))

	api.POST("/webhooks/identity", h.Webhooks.Identity)
	api.POST("/contact", middleware.RateLimitMiddleware(limiterStore, "contact", contactRateLimit, time.Minute), h.Contacts.Submit)
	api.GET("/ws", h.WS.Handle)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyMiddleware(cfg.AdminAPIKey))
	{
		admin.GET("/contact", h.Contacts.List)
		admin.GET("/contact/:id", middleware.UUIDValidator("id"), h.Contacts.Get)
		admin.PUT("/contact/:id/status", middleware.UUIDValidator("id"), h.Contacts.UpdateStatus)
	}

	// Публичные маршруты
	api.GET("/users/:id", middleware.UUIDValidator("id"), h.Users.GetUser)
	api.GET("/users/:id/skills", middleware.UUIDValidator("id"), h.Catalog.ListUserSkills)
	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), h.Reviews.ListUserReviews)
	api.GET("/users/:id/reviews/top", middleware.UUIDValidator("id"), h.Reviews.ListTopReviews)
	api.GET("/users/:id/rating", middleware.UUIDValidator("id"), h.Reviews.RatingSummary)
	api.GET("/providers", h.Users.ListProviders)
	api.GET("/providers/:id/upcoming", middleware.UUIDValidator("id"), h.Bookings.ListProviderUpcoming)
	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/categories/by-name/:name", h.Catalog.GetCategoryByName)
	api.GET("/categories/:id", middleware.UUIDValidator("id"), h.Catalog.GetCategory)
	api.GET("/categories/:id/skills", middleware.UUIDValidator("id"), h.Catalog.ListCategorySkills)
	api.GET("/skills/search", h.Catalog.SearchSkills)
	api.GET("/reviews/:id", middleware.UUIDValidator("id"), h.Reviews.GetReview)

	// Защищённые маршруты
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(auth))
	{
		protected.GET("/me", h.Users.GetMe)
		protected.PUT("/me", h.Users.UpdateMe)
		protected.GET("/me/skills", h.Catalog.ListMySkills)

		protected.POST("/categories", h.Catalog.CreateCategory)
		protected.PUT("/categories/:id", middleware.UUIDValidator("id"), h.Catalog.UpdateCategory)
		protected.DELETE("/categories/:id", middleware.UUIDValidator("id"), h.Catalog.DeleteCategory)

		protected.POST("/skills", h.Catalog.AddSkill)
		protected.PUT("/skills/:id", middleware.UUIDValidator("id"), h.Catalog.UpdateSkill)
		protected.DELETE("/skills/:id", middleware.UUIDValidator("id"), h.Catalog.RemoveSkill)

		protected.POST("/bookings", h.Bookings.CreateBooking)
		protected.GET("/bookings", h.Bookings.ListBookings)
		protected.GET("/bookings/:id", middleware.UUIDValidator("id"), h.Bookings.GetBooking)
		protected.PUT("/bookings/:id/status", middleware.UUIDValidator("id"), h.Bookings.UpdateStatus)
		protected.POST("/bookings/:id/cancel", middleware.UUIDValidator("id"), h.Bookings.CancelBooking)
		protected.GET("/bookings/:id/payment", middleware.UUIDValidator("id"), h.Payments.GetBookingPayment)
		protected.GET("/bookings/:id/reviews", middleware.UUIDValidator("id"), h.Reviews.ListBookingReviews)

		protected.POST("/payments", h.Payments.CreatePayment)
		protected.GET("/payments", h.Payments.ListPayments)
		protected.GET("/payments/earnings", h.Payments.Earnings)
		protected.GET("/payments/:id", middleware.UUIDValidator("id"), h.Payments.GetPayment)
		protected.PUT("/payments/:id/status", middleware.UUIDValidator("id"), h.Payments.UpdateStatus)
		protected.POST("/payments/:id/refund", middleware.UUIDValidator("id"), h.Payments.Refund)

		protected.POST("/reviews", h.Reviews.CreateReview)
		protected.PUT("/reviews/:id", middleware.UUIDValidator("id"), h.Reviews.UpdateReview)
		protected.DELETE("/reviews/:id", middleware.UUIDValidator("id"), h.Reviews.DeleteReview)

		protected.POST("/chats", h.Chats.CreateChat)
		protected.GET("/chats", h.Chats.ListChats)
		protected.GET("/chats/:id", middleware.UUIDValidator("id"), h.Chats.GetChat)
		protected.GET("/chats/:id/messages", middleware.UUIDValidator("id"), h.Chats.ListMessages)
		protected.POST("/chats/:id/messages", middleware.UUIDValidator("id"), h.Chats.SendMessage)
		protected.POST("/chats/:id/attachments", middleware.UUIDValidator("id"), h.Chats.UploadAttachment)
		protected.POST("/messages/read", h.Chats.MarkRead)

		protected.GET("/video-call/token", h.Video.Token)

		protected.GET("/notifications", h.Notification.ListNotifications)
		protected.GET("/notifications/unread/count", h.Notification.CountUnread)
		protected.GET("/notifications/:id", middleware.UUIDValidator("id"), h.Notification.GetNotification)
		protected.PUT("/notifications/read-all", h.Notification.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), h.Notification.DeleteNotification)
	}

	return r
}
