// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"niaga/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler  *handler.AuthHandler
	TokenHandler *handler.TokenHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler  *handler.AuthHandler
	tokenHandler *handler.TokenHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:  params.AuthHandler,
		tokenHandler: params.TokenHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/healthz", handler.HealthCheck)

	// Federated login routes
	inapasGroup := e.Group("/auth/inapas")
	{
		inapasGroup.GET("/login", r.authHandler.Login)
		inapasGroup.GET("/callback", r.authHandler.Callback)
		inapasGroup.POST("/refresh", r.authHandler.Refresh)
	}

	// Bridge API for trusted first-party frontends
	apiGroup := e.Group("/api")
	{
		apiGroup.POST("/create-custom-token", r.tokenHandler.CreateCustomToken)
	}
}
