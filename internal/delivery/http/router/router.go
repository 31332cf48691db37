// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"fintrack/internal/delivery/http/middleware"
	"fintrack/internal/delivery/http/router/handler"
	"fintrack/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler        *handler.AuthHandler
	TransactionHandler *handler.TransactionHandler
	BudgetHandler      *handler.BudgetHandler
	AnalyticsHandler   *handler.AnalyticsHandler
	AuthMiddleware     *middleware.AuthMiddleware
	RateLimit          *middleware.RateLimitMiddleware
	Registry           *prometheus.Registry
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler        *handler.AuthHandler
	transactionHandler *handler.TransactionHandler
	budgetHandler      *handler.BudgetHandler
	analyticsHandler   *handler.AnalyticsHandler
	authMiddleware     *middleware.AuthMiddleware
	rateLimit          *middleware.RateLimitMiddleware
	registry           *prometheus.Registry
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:        params.AuthHandler,
		transactionHandler: params.TransactionHandler,
		budgetHandler:      params.BudgetHandler,
		analyticsHandler:   params.AnalyticsHandler,
		authMiddleware:     params.AuthMiddleware,
		rateLimit:          params.RateLimit,
		registry:           params.Registry,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check and scrape endpoints
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(r.registry)))

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup)
		authGroup.POST("/login", r.authHandler.Login, r.rateLimit.LimitLogin)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	// Profile routes require a valid access token
	meGroup := e.Group("/auth/me")
	meGroup.Use(r.authMiddleware.Authenticate)
	{
		meGroup.GET("", r.authHandler.GetProfile)
		meGroup.PATCH("", r.authHandler.UpdateProfile)
		meGroup.DELETE("", r.authHandler.DeleteAccount)
	}

	// Transaction and category routes
	v1Group := e.Group("/v1")
	v1Group.Use(r.authMiddleware.Authenticate)
	{
		v1Group.GET("/transactions", r.transactionHandler.List)
		v1Group.POST("/transactions", r.transactionHandler.Create)
		v1Group.PUT("/transactions/:id", r.transactionHandler.Update)
		v1Group.DELETE("/transactions/:id", r.transactionHandler.Delete)

		v1Group.GET("/categories", r.transactionHandler.ListCategories)
		v1Group.POST("/categories", r.transactionHandler.CreateCategory)
		v1Group.DELETE("/categories/:id", r.transactionHandler.DeleteCategory)
	}

	// Budget routes
	budgetGroup := e.Group("/budgets")
	budgetGroup.Use(r.authMiddleware.Authenticate)
	{
		budgetGroup.GET("", r.budgetHandler.List)
		budgetGroup.POST("", r.budgetHandler.Create)
		budgetGroup.GET("/status", r.budgetHandler.Status)
		budgetGroup.GET("/:month/:year", r.budgetHandler.Get)
		budgetGroup.PATCH("/:month/:year", r.budgetHandler.Update)
		budgetGroup.DELETE("/:month/:year", r.budgetHandler.Delete)
		budgetGroup.POST("/:month/:year/preserve", r.budgetHandler.Preserve)
		budgetGroup.PATCH("/:month/:year/toggle-preserve", r.budgetHandler.TogglePreserve)
	}

	// Analytics routes
	analyticsGroup := e.Group("/analytics")
	analyticsGroup.Use(r.authMiddleware.Authenticate)
	{
		analyticsGroup.GET("/overview", r.analyticsHandler.Overview)
		analyticsGroup.GET("/monthly", r.analyticsHandler.Monthly)
		analyticsGroup.GET("/categories", r.analyticsHandler.Categories)
		analyticsGroup.GET("/daily", r.analyticsHandler.Daily)
	}
}
