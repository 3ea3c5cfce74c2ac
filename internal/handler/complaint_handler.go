package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/service"
	"github.com/helwan-dev/smart-campus-api/internal/utils"
)

// ComplaintHandler wires the student complaint routes.
type ComplaintHandler struct {
	service service.ComplaintService
	logger  zerolog.Logger
}

// NewComplaintHandler constructs the handler.
func NewComplaintHandler(service service.ComplaintService, logger zerolog.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		service: service,
		logger:  logger.With().Str("component", "complaint_handler").Logger(),
	}
}

// Register attaches the student-facing complaint endpoints.
func (h *ComplaintHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("/mine", h.listMine)
}

func (h *ComplaintHandler) submit(c *fiber.Ctx) error {
	payload := dto.ComplaintRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("type"),
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["attachments"]
	}

	complaint, err := h.service.Submit(c.Context(), payload, files, requesterFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "missing or invalid fields")
		case errors.Is(err, service.ErrTooManyAttachments):
			return utils.SendError(c, fiber.StatusBadRequest, "too many attachments")
		case errors.Is(err, service.ErrFileTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds maximum allowed size")
		case errors.Is(err, service.ErrFileTypeNotAllowed):
			return utils.SendError(c, fiber.StatusBadRequest, "file type not allowed")
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendJSON(c, fiber.StatusCreated, complaint)
}

func (h *ComplaintHandler) listMine(c *fiber.Ctx) error {
	complaints, err := h.service.ListMine(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, complaints)
}

func (h *ComplaintHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
