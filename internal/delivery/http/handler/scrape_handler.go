package handler

import (
	"context"
	"time"

	"jobfinder/internal/delivery/http/dto"
	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/pkg/response"
	"jobfinder/internal/scraper"
	"jobfinder/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// ScrapeTrigger is the manual-run hook, satisfied by the scheduler.
type ScrapeTrigger interface {
	RunAll(ctx context.Context)
	RunSource(ctx context.Context, name string)
}

type ScrapeHandler struct {
	list     usecase.JobListUsecase
	registry *scraper.Registry
	trigger  ScrapeTrigger
}

func NewScrapeHandler(list usecase.JobListUsecase, registry *scraper.Registry, trigger ScrapeTrigger) *ScrapeHandler {
	return &ScrapeHandler{list: list, registry: registry, trigger: trigger}
}

func (h *ScrapeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.HandleListRuns)
	r.Get("/sources", h.HandleListSources)
	r.Post("/trigger", h.HandleTrigger)
}

func (h *ScrapeHandler) HandleListRuns(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	runs, err := h.list.ListRuns(c.Context(), limit)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.ScrapeRunResponse, 0, len(runs))
	for _, run := range runs {
		item := dto.ScrapeRunResponse{
			ID:        run.ID.String(),
			Source:    run.Source,
			StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
			JobsFound: run.JobsFound,
			JobsNew:   run.JobsNew,
			Error:     run.Error,
		}
		if run.FinishedAt != nil {
			item.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, item)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ScrapeHandler) HandleListSources(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.registry.Sources())
}

// HandleTrigger kicks off a scrape in the background and returns
// immediately; progress lands in the runs list. Without a source query
// parameter every registered producer runs.
func (h *ScrapeHandler) HandleTrigger(c fiber.Ctx) error {
	if h.trigger == nil {
		return middleware.NewAppError(fiber.StatusConflict, "Scheduler not running", nil, nil)
	}

	bg := context.WithoutCancel(c.Context())

	if name := c.Query("source"); name != "" {
		if _, ok := h.registry.Lookup(name); !ok {
			return middleware.NewAppError(fiber.StatusNotFound, "Unknown source", nil, nil)
		}
		go h.trigger.RunSource(bg, name)
		return response.Success(c, fiber.StatusAccepted, "accepted", dto.TriggerScrapeResponse{
			Sources: []string{name},
			Status:  "started",
		})
	}

	go h.trigger.RunAll(bg)

	return response.Success(c, fiber.StatusAccepted, "accepted", dto.TriggerScrapeResponse{
		Sources: h.registry.Sources(),
		Status:  "started",
	})
}
