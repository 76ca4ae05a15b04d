package handler

import (
	"errors"
	"strconv"
	"time"

	"jobfinder/internal/delivery/http/dto"
	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/pkg/response"
	"jobfinder/internal/repository"
	"jobfinder/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchesHandler struct {
	list    usecase.JobListUsecase
	matcher usecase.MatchUsecase
}

func NewMatchesHandler(list usecase.JobListUsecase, matcher usecase.MatchUsecase) *MatchesHandler {
	return &MatchesHandler{list: list, matcher: matcher}
}

func (h *MatchesHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs", h.HandleList)
	r.Patch("/matches/:match_id/status", h.HandleUpdateStatus)
}

func (h *MatchesHandler) HandleList(c fiber.Ctx) error {
	minScore, err := parseQueryIntStrict(c, "min_score", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var criteriaID uuid.UUID
	if raw := c.Query("criteria_id"); raw != "" {
		criteriaID, err = uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	items, err := h.list.ListMatches(c.Context(), usecase.MatchListParams{
		Status:     c.Query("status"),
		MinScore:   minScore,
		CriteriaID: criteriaID,
		Limit:      limit,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.MatchResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toMatchResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchesHandler) HandleUpdateStatus(c fiber.Ctx) error {
	matchID, err := uuid.Parse(c.Params("match_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.UpdateMatchStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.matcher.UpdateStatus(c.Context(), matchID, req.Status); err != nil {
		if errors.Is(err, usecase.ErrInvalidStatus) {
			return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Unknown status", nil, err)
		}
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func toMatchResponse(it repository.MatchWithJob) dto.MatchResponse {
	out := dto.MatchResponse{
		MatchID:    it.Match.ID.String(),
		CriteriaID: it.Match.CriteriaID.String(),
		Score:      it.Match.Score,
		Status:     it.Match.Status,
		JobID:      it.Job.ID.String(),
		Source:     it.Job.Source,
		URL:        it.Job.URL,
		Title:      it.Job.Title,
		Company:    it.Job.Company,
		Location:   it.Job.Location,
		IsRemote:   it.Job.IsRemote,
		SalaryMin:  it.Job.SalaryMin,
		SalaryMax:  it.Job.SalaryMax,
		TechTags:   it.Job.TechTags,
		ScrapedAt:  it.Job.ScrapedAt.UTC().Format(time.RFC3339),
	}
	if it.Match.ReviewedAt != nil {
		out.ReviewedAt = it.Match.ReviewedAt.UTC().Format(time.RFC3339)
	}
	if it.Job.PostedAt != nil {
		out.PostedAt = it.Job.PostedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
