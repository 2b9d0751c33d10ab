// Package server contains the HTTP handlers and route setup for the API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"feedbacknexus/internal/cache"
	"feedbacknexus/internal/config"
	"feedbacknexus/internal/database"
	"feedbacknexus/internal/email"
	"feedbacknexus/internal/middleware"
	"feedbacknexus/internal/models"
	"feedbacknexus/internal/repository"
	"feedbacknexus/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	pageRepo    repository.PageRepository
	messageRepo repository.MessageRepository

	pageService    *service.PageService
	messageService *service.MessageService
	userService    *service.UserService
	aiService      *service.AIService
	mailer         *email.Mailer
}

// NewServer creates a server instance, connecting to the database and Redis.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and no Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	pageRepo := repository.NewPageRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	prom := fiberprometheus.New("feedbacknexus-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		pageRepo:       pageRepo,
		messageRepo:    messageRepo,
	}

	server.pageService = service.NewPageService(pageRepo)
	server.messageService = service.NewMessageService(messageRepo, pageRepo)
	server.userService = service.NewUserService(userRepo)
	server.aiService = service.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	server.mailer = email.NewMailer(cfg)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagate request ID, trace ID, and user ID into the request context
	// for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP).
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/verify", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "verify"), s.VerifyEmail)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/check-username", s.CheckUsername)

	// Public feedback surface
	api.Get("/feedback-pages/:slug", s.GetPublicPage)
	api.Post("/send-message", middleware.RateLimit(
		s.redis, 10, time.Minute, "send_message"), s.SendMessage)
	api.Get("/profiles/:username", s.GetProfile)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Feedback page management
	pages := protected.Group("/feedback-pages")
	pages.Post("/", s.CreatePage)
	pages.Get("/", s.GetMyPages)
	// Specific /:slug/:resource routes before the generic /:slug ones.
	pages.Post("/:slug/toggle-messages", s.ToggleMessages)
	pages.Get("/:slug/messages", s.GetPageMessages)
	pages.Delete("/:slug/messages/:messageId", s.DeleteMessage)
	pages.Put("/:slug", s.UpdatePage)
	pages.Delete("/:slug", s.DeletePage)

	// Inbox across all pages
	protected.Get("/getmessages", s.GetAllMessages)

	// Analytics
	protected.Get("/analytics/overview", s.GetAnalyticsOverview)

	// AI assistance
	ai := protected.Group("/ai")
	ai.Post("/generate", middleware.RateLimit(
		s.redis, 10, time.Minute, "ai_generate"), s.GenerateMessage)
	ai.Post("/improve", middleware.RateLimit(
		s.redis, 10, time.Minute, "ai_improve"), s.ImproveMessage)
	ai.Post("/replies", middleware.RateLimit(
		s.redis, 10, time.Minute, "ai_replies"), s.ReplySuggestions)

	// Profile management
	protected.Put("/profile", s.UpdateProfile)

	// Legacy account-wide acceptance flag
	protected.Get("/accept-messages", s.GetAcceptMessages)
	protected.Post("/accept-messages", s.SetAcceptMessages)
}

// AuthRequired returns the authentication middleware bound to this server's
// JWT secret.
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.AuthRequired(s.config.JWTSecret)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so a
// missing Redis degrades the report without failing readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the fiber app and listens on the configured port.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Feedback Nexus API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server and closes its connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if err := database.Close(s.db); err != nil {
		log.Printf("error closing sql DB: %v", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
