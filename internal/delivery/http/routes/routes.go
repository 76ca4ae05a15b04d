package routes

import (
	"jobfinder/internal/delivery/http/handler"
	v1 "jobfinder/internal/delivery/http/routes/v1"
	"jobfinder/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry holds the wired handlers and mounts them onto the app.
type Registry struct {
	Health   *handler.HealthHandler
	Matches  *handler.MatchesHandler
	Criteria *handler.CriteriaHandler
	Scrapes  *handler.ScrapeHandler
	WS       *ws.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.WS != nil {
		app.Get("/ws", r.WS.HandleMatchesWS)
	}

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.Matches, r.Criteria, r.Scrapes)
}
