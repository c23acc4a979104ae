// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"os"

	"hrayfi-service/internal/chat"
	"hrayfi-service/internal/config"
	"hrayfi-service/internal/db"
	authHandler "hrayfi-service/internal/handlers/auth"
	bookingHandler "hrayfi-service/internal/handlers/booking"
	chatHandler "hrayfi-service/internal/handlers/chat"
	reviewHandler "hrayfi-service/internal/handlers/review"
	ticketHandler "hrayfi-service/internal/handlers/ticket"
	uploadHandler "hrayfi-service/internal/handlers/upload"
	userHandler "hrayfi-service/internal/handlers/user"
	wsHandler "hrayfi-service/internal/handlers/websocket"
	"hrayfi-service/internal/middleware"
	"hrayfi-service/internal/pkg/jwt"
	"hrayfi-service/internal/pkg/session"
	"hrayfi-service/internal/repository/postgres"
	authService "hrayfi-service/internal/service/auth"
	bookingService "hrayfi-service/internal/service/booking"
	chatService "hrayfi-service/internal/service/chat"
	"hrayfi-service/internal/service/email"
	reviewService "hrayfi-service/internal/service/review"
	ticketService "hrayfi-service/internal/service/ticket"
	uploadService "hrayfi-service/internal/service/upload"
	userService "hrayfi-service/internal/service/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis", zap.String("addr", s.cfg.RedisAddr))

	// ----- JWT Manager -----
	jwtManager, err := jwt.NewManager(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}

	// ----- Reset store & rate limiter -----
	resetStore := session.NewResetStore(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Email -----
	emailSender := email.NewEmailSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)

	// ----- Chat hub -----
	hub := chat.NewHub(bookingRepo, userRepo, chatRepo, logger)

	// ----- Services -----
	authSvc := authService.NewAuthService(userRepo, jwtManager, resetStore, rateLimiter, emailSender, logger)
	userSvc := userService.NewUserService(userRepo, logger)
	bookingSvc := bookingService.NewBookingService(bookingRepo, userRepo, logger)
	reviewSvc := reviewService.NewReviewService(reviewRepo, bookingRepo, userRepo, logger)
	ticketSvc := ticketService.NewTicketService(ticketRepo, userRepo, logger)
	chatSvc := chatService.NewChatService(chatRepo, bookingRepo, logger)
	uploadSvc := uploadService.NewUploadService(s.cfg.UploadURL, s.cfg.UploadPreset, s.cfg.MaxUploadMB, logger)

	// ----- Bootstrap admin -----
	if err := authSvc.EnsureAdminExists(ctx,
		os.Getenv("ADMIN_EMAIL"),
		os.Getenv("ADMIN_PASSWORD"),
		getEnvDefault("ADMIN_FIRST_NAME", "Admin"),
		getEnvDefault("ADMIN_LAST_NAME", "HrayfiConnect"),
	); err != nil {
		// Startup continues; the API works without a bootstrap admin.
		logger.Warn("admin bootstrap skipped", zap.Error(err))
	}

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.AllowedOrigins),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:    authHandler.NewAuthHandler(authSvc, logger),
		UserHandler:    userHandler.NewUserHandler(userSvc, logger),
		BookingHandler: bookingHandler.NewBookingHandler(bookingSvc, logger),
		ReviewHandler:  reviewHandler.NewReviewHandler(reviewSvc, logger),
		TicketHandler:  ticketHandler.NewTicketHandler(ticketSvc, logger),
		ChatHandler:    chatHandler.NewChatHandler(chatSvc, logger),
		UploadHandler:  uploadHandler.NewUploadHandler(uploadSvc, userRepo, logger),
		WSHandler:      wsHandler.NewWSHandler(hub, jwtManager, logger),
		AuthMiddleware: authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
