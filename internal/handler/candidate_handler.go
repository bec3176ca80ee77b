package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentvet/internal/domain"
	"talentvet/internal/middleware"
	"talentvet/internal/service/candidate"
)

type CandidateHandler struct {
	candidateService candidate.Service
}

func NewCandidateHandler(candidateService candidate.Service) *CandidateHandler {
	return &CandidateHandler{candidateService: candidateService}
}

func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	var input domain.CreateCandidateInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.FullName == "" || input.Email == "" {
		return middleware.BadRequest("full_name and email are required")
	}

	created, err := h.candidateService.Create(c.Context(), user.CompanyID, user.ID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not found")
	}

	result, err := h.candidateService.List(c.Context(), user.CompanyID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return middleware.BadRequest("Invalid candidate ID")
	}

	found, err := h.candidateService.GetByID(c.Context(), candidateID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *CandidateHandler) ListProfiles(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return middleware.BadRequest("Invalid candidate ID")
	}

	profiles, err := h.candidateService.ListProfiles(c.Context(), candidateID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(profiles)
}
