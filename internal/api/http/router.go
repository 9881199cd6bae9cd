package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crp-service/internal/api/http/handlers"
	"github.com/spec-kit/crp-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Threads        *handlers.ThreadsHandler
	Engineers      *handlers.EngineersHandler
	Workflow       *handlers.WorkflowHandler
	AuthMiddleware *auth.Middleware

	// RequireAuth guards mutation routes. Leave false for local
	// development without operator credentials.
	RequireAuth bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	guard := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.RequireAuth {
		guard = cfg.AuthMiddleware.Handle
	}

	tickets := app.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/lead-recommendations", cfg.Tickets.LeadRecommendations)
	tickets.Get("/:id/lead-dominance", cfg.Tickets.LeadDominance)
	tickets.Post("/", guard, cfg.Tickets.SubmitTicket)
	tickets.Post("/:id/classify", guard, cfg.Tickets.ClassifyTicket)
	tickets.Post("/:id/launch", guard, cfg.Tickets.LaunchResolution)

	threads := app.Group("/threads")
	threads.Get("/:id", cfg.Threads.GetThread)
	threads.Get("/:id/candidates", cfg.Threads.Candidates)
	threads.Post("/:id/assign", guard, cfg.Threads.Assign)
	threads.Post("/:id/complete", guard, cfg.Threads.Complete)

	engineers := app.Group("/engineers")
	engineers.Get("/", cfg.Engineers.ListEngineers)
	engineers.Get("/:id", cfg.Engineers.GetEngineer)
	engineers.Post("/:id/availability", guard, cfg.Engineers.SetAvailability)

	app.Get("/workflow", cfg.Workflow.Current)
	app.Post("/workflow/reset", guard, cfg.Workflow.Reset)
	app.Get("/events", cfg.Workflow.Events)
}
