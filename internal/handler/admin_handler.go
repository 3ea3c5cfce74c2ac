package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/service"
	"github.com/helwan-dev/smart-campus-api/internal/utils"
)

// AdminHandler groups the admin-only reporting and moderation routes.
type AdminHandler struct {
	stats      service.StatsService
	complaints service.ComplaintService
	logger     zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(stats service.StatsService, complaints service.ComplaintService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		stats:      stats,
		complaints: complaints,
		logger:     logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches admin endpoints to the router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/stats", h.basicStats)
	router.Get("/full-stats", h.fullStats)
	router.Get("/complaints", h.listComplaints)
	router.Patch("/complaints/:id/status", h.updateComplaintStatus)
}

func (h *AdminHandler) basicStats(c *fiber.Ctx) error {
	stats, err := h.stats.BasicStats(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, stats)
}

func (h *AdminHandler) fullStats(c *fiber.Ctx) error {
	stats, err := h.stats.FullStats(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, stats)
}

func (h *AdminHandler) listComplaints(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListAll(c.Context(), c.Query("status"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid complaint status")
		}
		return h.internalError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, complaints)
}

func (h *AdminHandler) updateComplaintStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ComplaintStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	complaint, err := h.complaints.UpdateStatus(c.Context(), id, payload.Status)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidStatus):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid complaint status")
		case errors.Is(err, service.ErrComplaintNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "complaint not found")
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendJSON(c, fiber.StatusOK, complaint)
}

func (h *AdminHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
