package handler

import (
	"jobfinder/internal/delivery/http/dto"
	"jobfinder/internal/delivery/http/middleware"
	"jobfinder/internal/pkg/response"
	"jobfinder/internal/repository"
	"jobfinder/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CriteriaHandler struct {
	uc usecase.CriteriaUsecase
}

func NewCriteriaHandler(uc usecase.CriteriaUsecase) *CriteriaHandler {
	return &CriteriaHandler{uc: uc}
}

func (h *CriteriaHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Put("/:criteria_id", h.HandleUpdate)
	r.Delete("/:criteria_id", h.HandleDelete)
}

func (h *CriteriaHandler) HandleList(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.CriteriaResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toCriteriaResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *CriteriaHandler) HandleCreate(c fiber.Ctx) error {
	var req dto.CriteriaRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Create(c.Context(), fromCriteriaRequest(req, uuid.Nil))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", toCriteriaResponse(created))
}

func (h *CriteriaHandler) HandleUpdate(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("criteria_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.CriteriaRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.Update(c.Context(), fromCriteriaRequest(req, id))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toCriteriaResponse(updated))
}

func (h *CriteriaHandler) HandleDelete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("criteria_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func toCriteriaResponse(c repository.SearchCriteria) dto.CriteriaResponse {
	return dto.CriteriaResponse{
		ID:               c.ID.String(),
		Name:             c.Name,
		Titles:           c.Titles,
		TechStack:        c.TechStack,
		MinSalary:        c.MinSalary,
		ExcludeKeywords:  c.ExcludeKeywords,
		CompanyBlacklist: c.CompanyBlacklist,
		CompanyWhitelist: c.CompanyWhitelist,
		IsActive:         c.IsActive,
	}
}

func fromCriteriaRequest(req dto.CriteriaRequest, id uuid.UUID) repository.SearchCriteria {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return repository.SearchCriteria{
		ID:               id,
		Name:             req.Name,
		Titles:           req.Titles,
		TechStack:        req.TechStack,
		MinSalary:        req.MinSalary,
		ExcludeKeywords:  req.ExcludeKeywords,
		CompanyBlacklist: req.CompanyBlacklist,
		CompanyWhitelist: req.CompanyWhitelist,
		IsActive:         active,
	}
}
