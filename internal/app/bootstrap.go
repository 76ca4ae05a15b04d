package app

import (
	"fmt"
	"log"
	"strings"

	"jobfinder/internal/delivery/http/handler"
	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/delivery/http/routes"
	"jobfinder/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// New builds the HTTP surface on top of a wired container. The trigger
// is optional; without one the manual-scrape endpoint reports conflict.
func New(c *Container, trigger handler.ScrapeTrigger, logger *log.Logger) *App {
	f := fiber.New(fiber.Config{})

	accessMw := middleware.NewAccessLogMiddleware(logger)
	errMw := middleware.NewErrorMiddleware()
	f.Use(accessMw.Middleware())
	f.Use(errMw.Middleware())

	reg := &routes.Registry{
		Health:   handler.NewHealthHandler(c.DB, c.Cache),
		Matches:  handler.NewMatchesHandler(c.Listing, c.Matcher),
		Criteria: handler.NewCriteriaHandler(c.CritUC),
		Scrapes:  handler.NewScrapeHandler(c.Listing, c.Registry, trigger),
		WS:       ws.NewHandler(c.Hub, logger),
	}
	reg.Register(f)

	return &App{Fiber: f}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
