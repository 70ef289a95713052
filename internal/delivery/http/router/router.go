// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authd/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler *handler.AuthHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler *handler.AuthHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler: params.AuthHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Authentication API
	apiGroup := e.Group("/api")
	{
		apiGroup.POST("/register", r.authHandler.Register)
		apiGroup.POST("/login", r.authHandler.Login)
		apiGroup.GET("/check-username/:username", r.authHandler.CheckUsername)
		apiGroup.GET("/users", r.authHandler.ListUsers)
	}
}
