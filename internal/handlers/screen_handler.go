package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/logger"
	"alfredoptarigan/hiring-agent/internal/models"
	"alfredoptarigan/hiring-agent/internal/repositories"
	"alfredoptarigan/hiring-agent/internal/services"
)

// Enqueuer hands a persisted screening to the background worker. EnqueueJob
// must not block; a job it cannot take stays queued for the poller.
type Enqueuer interface {
	EnqueueJob(id uuid.UUID)
}

type ScreenHandler struct {
	screenRepo repositories.ScreeningRepository
	docRepo    repositories.DocumentRepository
	service    services.ScreeningService
	queue      Enqueuer
	logger     *zap.Logger
}

func NewScreenHandler(
	screenRepo repositories.ScreeningRepository,
	docRepo repositories.DocumentRepository,
	service services.ScreeningService,
	queue Enqueuer,
	log *zap.Logger,
) *ScreenHandler {
	return &ScreenHandler{
		screenRepo: screenRepo,
		docRepo:    docRepo,
		service:    service,
		queue:      queue,
		logger:     logger.OrNop(log).Named("screen_handler"),
	}
}

// HandleScreen queues a screening and answers 202 with its id.
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	in, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	if in.DocumentID != nil {
		if _, err := h.docRepo.FindByID(*in.DocumentID); err != nil {
			return toFiberError(err)
		}
	}

	job := models.Screening{
		ID:             uuid.New(),
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		ResumeText:     in.ResumeText,
		DocumentID:     in.DocumentID,
		Status:         models.StatusQueued,
	}

	if err := h.screenRepo.Create(&job); err != nil {
		h.logger.Error("failed to create screening", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create screening job")
	}

	h.queue.EnqueueJob(job.ID)
	h.logger.Info("screening queued", zap.String(logger.FieldScreeningID, job.ID.String()))

	return c.Status(fiber.StatusAccepted).JSON(models.ScreenResponse{
		ID:     job.ID.String(),
		Status: string(job.Status),
	})
}

// HandleScreenSync runs the screening inside the request and returns the result.
func (h *ScreenHandler) HandleScreenSync(c *fiber.Ctx) error {
	in, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	state, err := h.service.Screen(c.UserContext(), in)
	if err != nil {
		h.logger.Warn("synchronous screening failed", zap.Error(err))
		return toFiberError(err)
	}

	return c.JSON(fiber.Map{
		"status": string(models.StatusCompleted),
		"result": services.ResultFromState(state),
	})
}

func (h *ScreenHandler) parseRequest(c *fiber.Ctx) (services.ScreeningInput, error) {
	var req models.ScreenRequest
	if err := c.BodyParser(&req); err != nil {
		return services.ScreeningInput{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	in := services.ScreeningInput{
		ResumeText:     strings.TrimSpace(req.ResumeText),
		JobTitle:       strings.TrimSpace(req.JobTitle),
		JobDescription: strings.TrimSpace(req.JobDescription),
	}

	if req.DocumentID != "" {
		id, err := uuid.Parse(req.DocumentID)
		if err != nil {
			return in, fiber.NewError(fiber.StatusBadRequest, "invalid document_id")
		}
		in.DocumentID = &id
	}

	if in.DocumentID == nil && in.ResumeText == "" {
		return in, fiber.NewError(fiber.StatusBadRequest, services.ErrNoResumeText.Error())
	}
	if in.JobTitle == "" && in.JobDescription == "" {
		return in, fiber.NewError(fiber.StatusBadRequest, services.ErrJobDescriptionRequired.Error())
	}

	return in, nil
}

// toFiberError maps domain errors onto HTTP status codes.
func toFiberError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoResumeText),
		errors.Is(err, services.ErrJobDescriptionRequired):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, services.ErrJobDescriptionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrRetrievalDisabled):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
