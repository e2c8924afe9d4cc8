package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/franchise-service/internal/api/http/handlers"
	"github.com/spec-kit/franchise-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Users         *handlers.UsersHandler
	Franchises    *handlers.FranchiseHandler
	Authenticator *auth.SessionAuthenticator
}

// RegisterRoutes wires HTTP routes. The session authenticator runs on every
// /api route; authorization decisions happen in the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.Authenticator.Handle)

	api.Post("/auth", cfg.Users.Register)
	api.Put("/auth", cfg.Users.Login)
	api.Delete("/auth", cfg.Users.Logout)

	api.Get("/user/me", cfg.Users.Me)
	api.Put("/user/:userId", cfg.Users.Update)

	api.Get("/franchise", cfg.Franchises.List)
	api.Get("/franchise/:userId", cfg.Franchises.ListForUser)
	api.Post("/franchise", cfg.Franchises.Create)
	api.Delete("/franchise/:franchiseId", cfg.Franchises.Delete)
	api.Post("/franchise/:franchiseId/store", cfg.Franchises.CreateStore)
	api.Delete("/franchise/:franchiseId/store/:storeId", cfg.Franchises.DeleteStore)
}
