package v1

import (
	"jobfinder/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func Register(
	r fiber.Router,
	matches *handler.MatchesHandler,
	criteria *handler.CriteriaHandler,
	scrapes *handler.ScrapeHandler,
) {
	if r == nil {
		return
	}

	if matches != nil {
		matches.RegisterRoutes(r)
	}
	if criteria != nil {
		criteria.RegisterRoutes(r.Group("/criteria"))
	}
	if scrapes != nil {
		scrapes.RegisterRoutes(r.Group("/scrapes"))
	}
}
