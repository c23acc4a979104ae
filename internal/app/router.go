// internal/app/router.go
package app

import (
	authHandler "hrayfi-service/internal/handlers/auth"
	bookingHandler "hrayfi-service/internal/handlers/booking"
	chatHandler "hrayfi-service/internal/handlers/chat"
	reviewHandler "hrayfi-service/internal/handlers/review"
	ticketHandler "hrayfi-service/internal/handlers/ticket"
	uploadHandler "hrayfi-service/internal/handlers/upload"
	userHandler "hrayfi-service/internal/handlers/user"
	wsHandler "hrayfi-service/internal/handlers/websocket"
	"hrayfi-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	UserHandler    *userHandler.UserHandler
	BookingHandler *bookingHandler.BookingHandler
	ReviewHandler  *reviewHandler.ReviewHandler
	TicketHandler  *ticketHandler.TicketHandler
	ChatHandler    *chatHandler.ChatHandler
	UploadHandler  *uploadHandler.UploadHandler
	WSHandler      *wsHandler.WSHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws/chat", h.WSHandler.Serve)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register/client", h.AuthHandler.RegisterClient)
		authPublic.POST("/register/artisan", h.AuthHandler.RegisterArtisan)
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.GET("/check-email/:email", h.AuthHandler.CheckEmail)
		authPublic.POST("/forgot-password", h.AuthHandler.ForgotPassword)
		authPublic.POST("/verify-reset-code", h.AuthHandler.VerifyResetCode)
		authPublic.POST("/reset-password", h.AuthHandler.ResetPassword)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.GET("/me", h.AuthHandler.Me)
		authProtected.POST("/refresh", h.AuthHandler.RefreshToken)
		authProtected.POST("/logout", h.AuthHandler.Logout)
	}

	// ==================== Users & Artisans ====================
	users := api.Group("/users")
	users.Use(h.AuthMiddleware.Auth())
	{
		users.GET("", h.AuthMiddleware.RequireAdmin(), h.UserHandler.ListClients)
		users.PUT("/me", h.UserHandler.UpdateMe)
		users.GET("/:id", h.UserHandler.Get)
		users.DELETE("/:id", h.UserHandler.Delete)
	}

	artisans := api.Group("/artisans")
	{
		artisans.GET("", h.UserHandler.SearchArtisans)
		artisans.GET("/:id", h.UserHandler.GetArtisan)
		artisans.GET("/:id/reviews", h.ReviewHandler.ListByArtisan)
		artisans.GET("/:id/reviews/stats", h.ReviewHandler.Stats)

		artisans.PUT("/:id/verify",
			h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireAdmin(), h.UserHandler.VerifyArtisan)
	}

	// ==================== Bookings ====================
	bookings := api.Group("/bookings")
	bookings.Use(h.AuthMiddleware.Auth())
	{
		bookings.POST("", h.AuthMiddleware.RequireUserType("client"), h.BookingHandler.Create)
		bookings.GET("", h.BookingHandler.List)
		bookings.GET("/stats", h.BookingHandler.Stats)
		bookings.GET("/:id", h.BookingHandler.Get)
		bookings.PUT("/:id", h.BookingHandler.Update)
		bookings.DELETE("/:id", h.BookingHandler.Delete)

		bookings.PUT("/:id/schedule",
			h.AuthMiddleware.RequireUserType("artisan", "admin"), h.BookingHandler.Schedule)
		bookings.PUT("/:id/status",
			h.AuthMiddleware.RequireUserType("artisan", "admin"), h.BookingHandler.UpdateStatus)
		bookings.GET("/:id/review", h.ReviewHandler.GetByBooking)
	}

	// ==================== Reviews ====================
	reviews := api.Group("/reviews")
	reviews.Use(h.AuthMiddleware.Auth())
	{
		reviews.POST("", h.AuthMiddleware.RequireUserType("client"), h.ReviewHandler.Create)
		reviews.GET("/my-reviews", h.ReviewHandler.ListMine)
		reviews.GET("/:id", h.ReviewHandler.Get)
		reviews.PUT("/:id", h.ReviewHandler.Update)
		reviews.DELETE("/:id", h.ReviewHandler.Delete)
	}

	// ==================== Chat ====================
	chat := api.Group("/chat")
	chat.Use(h.AuthMiddleware.Auth())
	{
		chat.GET("/conversations", h.ChatHandler.Conversations)
		chat.GET("/conversations/:id/messages", h.ChatHandler.Messages)
		chat.POST("/conversations/:id/messages", h.ChatHandler.CreateMessage)
		chat.POST("/conversations/:id/read", h.ChatHandler.MarkRead)
		chat.GET("/stats", h.ChatHandler.Stats)
	}

	// ==================== Support Tickets ====================
	tickets := api.Group("/tickets")
	tickets.Use(h.AuthMiddleware.Auth())
	{
		tickets.POST("", h.TicketHandler.Create)
		tickets.GET("", h.TicketHandler.List)
		tickets.GET("/stats/overview", h.AuthMiddleware.RequireAdmin(), h.TicketHandler.Stats)
		tickets.GET("/stats/my-stats", h.TicketHandler.MyStats)
		tickets.GET("/:id", h.TicketHandler.Get)
		tickets.PUT("/:id", h.TicketHandler.Update)
		tickets.PUT("/:id/status", h.AuthMiddleware.RequireAdmin(), h.TicketHandler.UpdateStatus)
		tickets.POST("/:id/responses", h.TicketHandler.AddResponse)
		tickets.DELETE("/:id", h.AuthMiddleware.RequireAdmin(), h.TicketHandler.Delete)
	}

	// ==================== Media Upload ====================
	uploads := api.Group("/upload")
	uploads.Use(h.AuthMiddleware.Auth())
	{
		uploads.POST("/profile-picture", h.UploadHandler.ProfilePicture)
		uploads.DELETE("/profile-picture", h.UploadHandler.DeleteProfilePicture)

		artisanUploads := uploads.Group("/artisans", h.AuthMiddleware.RequireUserType("artisan"))
		{
			artisanUploads.POST("/portfolio", h.UploadHandler.Portfolio)
			artisanUploads.GET("/portfolio", h.UploadHandler.ListPortfolio)
			artisanUploads.DELETE("/portfolio/:index", h.UploadHandler.DeletePortfolioItem)
			artisanUploads.POST("/identity-documents/:document_type", h.UploadHandler.IdentityDocument)
		}
	}
}
