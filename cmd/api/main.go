package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/Talhabhatti2981/Finance-Tracker/docs"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/config"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/handler"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/middleware"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/repository/postgres"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/repository/storage"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/service"
	"github.com/Talhabhatti2981/Finance-Tracker/internal/websocket"
)

// @title Finance Tracker API
// @version 1.0
// @description Personal finance tracker with transaction management and dashboard aggregates.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Auth0 JWT access token. Format: Bearer <token>
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)

	// Avatar storage is optional; without credentials the profile endpoints
	// still work, uploads return an error.
	var avatarRepo storage.AvatarRepository
	if cfg.S3.AccessKeyID != "" && cfg.S3.SecretAccessKey != "" {
		s3Repo, err := storage.NewS3AvatarRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize avatar storage")
		}
		avatarRepo = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Avatar storage initialized")
	} else {
		log.Warn().Msg("Avatar storage not configured, uploads disabled")
	}

	// WebSocket hub for real-time updates
	hub := websocket.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo, workspaceRepo)
	avatarService := service.NewAvatarService(avatarRepo)
	profileService := service.NewProfileService(userRepo, workspaceRepo, avatarService, hub)
	transactionService := service.NewTransactionService(transactionRepo, hub)
	dashboardService := service.NewDashboardService(transactionRepo)

	// Create workspace provider adapter for auth middleware
	workspaceProvider := &workspaceProviderAdapter{authService: authService}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, workspaceProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Per-workspace rate limiter for mutating endpoints
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// WebSocket JWT validator (token arrives as a query parameter)
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, workspaceProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket JWT validator")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, authHandler, profileHandler, transactionHandler, dashboardHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// workspaceProviderAdapter adapts AuthService to the workspace lookup
// interfaces used by the auth middleware and WebSocket validator
type workspaceProviderAdapter struct {
	authService *service.AuthService
}

// GetWorkspaceByAuth0ID implements middleware.WorkspaceProvider and
// websocket.WorkspaceLookup
func (a *workspaceProviderAdapter) GetWorkspaceByAuth0ID(auth0ID string) (int32, error) {
	workspace, err := a.authService.GetWorkspaceByAuth0ID(auth0ID)
	if err != nil {
		return 0, err
	}
	return workspace.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
