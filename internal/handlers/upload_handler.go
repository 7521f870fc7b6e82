package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/logger"
	"alfredoptarigan/hiring-agent/internal/models"
	"alfredoptarigan/hiring-agent/internal/repositories"
	"alfredoptarigan/hiring-agent/internal/services"
)

const resumeFormField = "resume"

type UploadHandler struct {
	docRepo     repositories.DocumentRepository
	storage     services.ResumeStorage
	maxFileSize int64
	logger      *zap.Logger
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storage services.ResumeStorage,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		docRepo:     docRepo,
		storage:     storage,
		maxFileSize: maxFileSize,
		logger:      logger.OrNop(log).Named("upload_handler"),
	}
}

// HandleUpload stores a resume PDF and returns the document id used by /screen.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile(resumeFormField)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing 'resume' PDF file in multipart form")
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	stored, err := h.storage.SaveResume(file)
	switch {
	case errors.Is(err, services.ErrResumeTooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, services.ErrUnsupportedResume):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.Error("failed to store resume", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store resume")
	}

	now := time.Now()
	doc := models.Document{
		ID:               uuid.New(),
		Filename:         stored.Filename,
		OriginalFileName: file.Filename,
		FileType:         models.FileTypeResume,
		FilePath:         stored.Path,
		SizeBytes:        stored.Size,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.docRepo.Create(&doc); err != nil {
		if delErr := h.storage.DeleteResume(stored.Filename); delErr != nil {
			h.logger.Warn("failed to clean up orphaned upload", zap.String("file", stored.Filename), zap.Error(delErr))
		}
		h.logger.Error("failed to save document record", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save resume document record")
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
	})
}
