package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Talhabhatti2981/Finance-Tracker/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	profileHandler *ProfileHandler,
	transactionHandler *TransactionHandler,
	dashboardHandler *DashboardHandler,
	wsHandler *WebSocketHandler,
) {
	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", ServeOpenAPI3Spec)

	// WebSocket endpoint (authenticates via token query param)
	e.GET("/ws", wsHandler.HandleWS)

	// API version 1
	api := e.Group("/api/v1")

	// Rate limiting needs the workspace ID, so it runs after authentication
	// in every protected group.
	rateLimit := middleware.RateLimitMiddleware(rateLimiter)

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate(), rateLimit)
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(authMiddleware.Authenticate(), rateLimit)
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("", profileHandler.UpdateProfile)
	profile.DELETE("", profileHandler.DeleteAccount)
	profile.POST("/avatar", profileHandler.UploadAvatar)
	profile.DELETE("/avatar", profileHandler.DeleteAvatar)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate(), rateLimit)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate())
	dashboard.GET("/balance", dashboardHandler.GetBalance)
	dashboard.GET("/categories", dashboardHandler.GetCategories)
	dashboard.GET("/weekly", dashboardHandler.GetWeekly)
}
