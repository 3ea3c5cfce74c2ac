package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/service"
	"github.com/helwan-dev/smart-campus-api/internal/utils"
)

// AttendanceHandler exposes the QR session lifecycle over HTTP.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches staff-only session routes to the router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("/:courseId/generate", h.generate)
	router.Get("/:courseId/sessions", h.sessions)
}

// RegisterScan attaches the student-facing scan route.
func (h *AttendanceHandler) RegisterScan(router fiber.Router) {
	router.Post("/scan", h.scan)
}

func (h *AttendanceHandler) generate(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	session, err := h.service.GenerateSession(c.Context(), courseID, requesterFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendJSON(c, fiber.StatusCreated, session)
}

func (h *AttendanceHandler) scan(c *fiber.Ctx) error {
	var payload dto.ScanRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Payload == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid QR payload")
	}

	result, err := h.service.Redeem(c.Context(), payload.Payload, requesterFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidPayload):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid QR payload")
		case errors.Is(err, service.ErrSessionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		case errors.Is(err, service.ErrSessionExpired):
			return utils.SendError(c, fiber.StatusBadRequest, "session expired")
		case errors.Is(err, service.ErrAlreadyScanned):
			return utils.SendError(c, fiber.StatusConflict, "attendance already recorded")
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendJSON(c, fiber.StatusOK, result)
}

func (h *AttendanceHandler) sessions(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	sessions, err := h.service.ListSessions(c.Context(), courseID, requesterFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendJSON(c, fiber.StatusOK, sessions)
}

func (h *AttendanceHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
