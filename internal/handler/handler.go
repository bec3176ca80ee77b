package handler

import (
	"github.com/gofiber/fiber/v2"

	"talentvet/internal/domain"
	"talentvet/internal/service"
)

type Handlers struct {
	Candidate    *CandidateHandler
	Screening    *ScreeningHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Candidate:    NewCandidateHandler(services.Candidate),
		Screening:    NewScreeningHandler(services.Screening),
		Notification: NewNotificationHandler(services.Notification),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	params.Validate()
	return params
}
