package handler

import (
	"context"

	"jobfinder/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger reports reachability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.HandleHealth)
}

// HandleHealth reports component status. The cache being down degrades
// the report but not the status code: the API works without it.
func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	out := fiber.Map{"database": "up", "cache": "up"}
	status := fiber.StatusOK

	if h.db != nil {
		if err := h.db.Ping(c.Context()); err != nil {
			out["database"] = "down"
			status = fiber.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(c.Context()); err != nil {
			out["cache"] = "down"
		}
	}

	return response.Success(c, status, response.MessageOK, out)
}
