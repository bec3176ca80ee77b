package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentvet/internal/middleware"
	"talentvet/internal/service/screening"
)

type ScreeningHandler struct {
	screeningService screening.Service
}

func NewScreeningHandler(screeningService screening.Service) *ScreeningHandler {
	return &ScreeningHandler{screeningService: screeningService}
}

// Trigger starts an on-demand screening run for a candidate. Typed
// failures (unknown candidate, no active profiles, a run already in
// flight) surface through the error handler as coded responses; a failure
// mid-run additionally notifies the requesting user.
func (h *ScreeningHandler) Trigger(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return middleware.BadRequest("Invalid candidate ID")
	}

	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	result, err := h.screeningService.RunManual(c.Context(), candidateID, userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *ScreeningHandler) ListByCandidate(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return middleware.BadRequest("Invalid candidate ID")
	}

	screenings, err := h.screeningService.ListByCandidate(c.Context(), candidateID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(screenings)
}

func (h *ScreeningHandler) Latest(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return middleware.BadRequest("Invalid candidate ID")
	}

	latest, err := h.screeningService.LatestByCandidate(c.Context(), candidateID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(latest)
}

func (h *ScreeningHandler) Get(c *fiber.Ctx) error {
	screeningID, err := uuid.Parse(c.Params("screeningId"))
	if err != nil {
		return middleware.BadRequest("Invalid screening ID")
	}

	found, err := h.screeningService.GetByID(c.Context(), screeningID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}
