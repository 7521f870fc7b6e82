package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-agent/internal/models"
	"alfredoptarigan/hiring-agent/internal/repositories"
	"alfredoptarigan/hiring-agent/internal/services"
)

type ResultHandler struct {
	screenRepo repositories.ScreeningRepository
}

func NewResultHandler(screenRepo repositories.ScreeningRepository) *ResultHandler {
	return &ResultHandler{screenRepo: screenRepo}
}

func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid screening id")
	}

	job, err := h.screenRepo.FindByID(id)
	if err != nil {
		return toFiberError(err)
	}

	resp := models.ResultResponse{
		ID:     job.ID.String(),
		Status: string(job.Status),
	}

	switch job.Status {
	case models.StatusCompleted:
		resp.Result = services.ResultFromScreening(job)
	case models.StatusFailed:
		resp.ErrorMessage = job.ErrorMessage
	}

	return c.JSON(resp)
}
