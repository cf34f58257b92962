// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"auroric/internal/cache"
	"auroric/internal/config"
	"auroric/internal/database"
	"auroric/internal/middleware"
	"auroric/internal/models"
	"auroric/internal/repository"
	"auroric/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	followRepo       repository.FollowRepository
	pinRepo          repository.PinRepository
	commentRepo      repository.CommentRepository
	boardRepo        repository.BoardRepository
	notificationRepo repository.NotificationRepository

	notifier            *service.Notifier
	userService         *service.UserService
	pinService          *service.PinService
	commentService      *service.CommentService
	boardService        *service.BoardService
	notificationService *service.NotificationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("auroric-api"),
		userRepo:         repository.NewUserRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		pinRepo:          repository.NewPinRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		boardRepo:        repository.NewBoardRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
	}

	server.notifier = service.NewNotifier(server.notificationRepo, server.userRepo)
	server.userService = service.NewUserService(server.userRepo, server.followRepo, server.notifier)
	server.pinService = service.NewPinService(server.pinRepo, server.boardRepo, server.commentRepo, server.notificationRepo, server.notifier)
	server.commentService = service.NewCommentService(server.commentRepo, server.pinRepo, server.notifier)
	server.boardService = service.NewBoardService(server.boardRepo, server.pinRepo, server.userRepo, server.notifier)
	server.notificationService = service.NewNotificationService(server.notificationRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; CORS handles them.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	// Category list for pin/board forms and feed filters
	api.Get("/categories", s.GetCategories)

	// Public pin routes (browse/search); the viewer is resolved from the
	// token when one is present so liked/saved flags come back correct.
	publicPins := api.Group("/pins")
	publicPins.Get("/", s.GetPins)
	publicPins.Get("/trending", s.GetTrendingPins)
	publicPins.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchPins)
	publicPins.Get("/:id/comments", s.GetComments)
	publicPins.Get("/:id", s.GetPin)

	// Public board routes
	publicBoards := api.Group("/boards")
	publicBoards.Get("/", s.GetBoards)
	publicBoards.Get("/search", s.SearchBoards)
	publicBoards.Get("/:id/pins", s.GetBoardPins)
	publicBoards.Get("/:id", s.GetBoard)

	// User routes. Profile reads are public; /me and mutations carry
	// per-route auth so they register ahead of the group-level guard
	// below (a group Use would gate everything added after it).
	users := api.Group("/users")
	users.Get("/search", s.SearchUsers)
	users.Get("/me", s.AuthRequired(), s.GetMyProfile)
	users.Put("/me", s.AuthRequired(), s.UpdateMyProfile)
	users.Get("/me/saved", s.AuthRequired(), s.GetMySavedPins)
	users.Get("/me/boards", s.AuthRequired(), s.GetMyBoards)
	users.Get("/", s.AuthRequired(), s.GetAllUsers)
	users.Post("/:id/follow", s.AuthRequired(), s.ToggleFollow)

	// Specific /:id/:resource routes BEFORE the generic /:id route
	users.Get("/:id/pins", s.GetUserPins)
	users.Get("/:id/saved", s.GetUserSavedPins)
	users.Get("/:id/boards", s.GetUserBoards)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id", s.GetUserProfile)

	// Development-only seed endpoint. Registered before the auth guard:
	// it gates itself on the environment, not on a login.
	api.Post("/seed", s.SeedDatabase)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Protected pin routes
	pins := protected.Group("/pins")
	pins.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_pin"), s.CreatePin)
	pins.Post("/:id/like", s.TogglePinLike)
	pins.Post("/:id/save", s.TogglePinSave)
	pins.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	pins.Put("/:id", s.UpdatePin)
	pins.Delete("/:id", s.DeletePin)

	// Comment routes
	comments := protected.Group("/comments")
	comments.Post("/:id/like", s.ToggleCommentLike)
	comments.Delete("/:id", s.DeleteComment)

	// Protected board routes
	boards := protected.Group("/boards")
	boards.Post("/", s.CreateBoard)
	boards.Post("/:id/follow", s.ToggleBoardFollow)
	boards.Post("/:id/collaborators", s.InviteCollaborator)
	boards.Delete("/:id/collaborators/:userId", s.RemoveCollaborator)
	boards.Post("/:id/pins/:pinId", s.SavePinToBoard)
	boards.Put("/:id", s.UpdateBoard)
	boards.Delete("/:id", s.DeleteBoard)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", s.GetNotifications)
	notifications.Get("/unread-count", s.GetUnreadCount)
	notifications.Post("/read-all", s.MarkAllNotificationsRead)
	notifications.Post("/:id/read", s.MarkNotificationRead)
}

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": models.Categories})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
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

	// The app degrades gracefully without Redis, so the cache never
	// fails readiness; its state is reported for operators.
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

// AuthRequired returns the authentication middleware. It accepts a
// bearer token and falls back to the auth cookie so browser clients
// work without local token storage.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			tokenString = c.Cookies(s.config.CookieName)
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseToken(c, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(err.Error()))
		}

		// Store user ID in locals and sync to UserContext for logging
		// and downstream services.
		c.Locals("userID", userID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// parseToken validates a JWT and returns the user ID from its subject.
func (s *Server) parseToken(c *fiber.Ctx, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != jwtIssuer {
		return 0, fmt.Errorf("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != jwtAudience {
		return 0, fmt.Errorf("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("Invalid user ID in token")
	}

	// Check JTI for revocation
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		blacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
		if err == nil && blacklisted > 0 {
			return 0, fmt.Errorf("Token has been revoked")
		}
	}

	return uint(userID), nil
}

// bearerToken extracts the token from an Authorization header, if any.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// viewerID resolves the caller's user ID on public routes without
// enforcing authentication. Anonymous viewers get 0.
func (s *Server) viewerID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	tokenString := bearerToken(c)
	if tokenString == "" {
		tokenString = c.Cookies(s.config.CookieName)
	}
	if tokenString == "" {
		return 0
	}
	userID, err := s.parseToken(c, tokenString)
	if err != nil {
		return 0
	}
	return userID
}

// Shutdown closes the server's database and redis connections. The
// Fiber app itself belongs to the caller and is stopped there.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
