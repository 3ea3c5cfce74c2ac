package service

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
	"github.com/helwan-dev/smart-campus-api/pkg/storage"
)

const maxComplaintAttachments = 5

var (
	// ErrComplaintNotFound indicates the complaint does not exist.
	ErrComplaintNotFound = errors.New("complaint not found")
	// ErrTooManyAttachments indicates the attachment limit was exceeded.
	ErrTooManyAttachments = errors.New("too many attachments")
	// ErrInvalidStatus indicates an unknown complaint status value.
	ErrInvalidStatus = errors.New("invalid complaint status")
)

// ComplaintService exposes complaint submission and the admin review flow.
type ComplaintService interface {
	Submit(ctx context.Context, payload dto.ComplaintRequest, attachments []*multipart.FileHeader, requester Requester) (dto.ComplaintResponse, error)
	ListMine(ctx context.Context, userID uint) ([]dto.ComplaintResponse, error)
	ListAll(ctx context.Context, status string) ([]dto.ComplaintResponse, error)
	UpdateStatus(ctx context.Context, id uint, status string) (dto.ComplaintResponse, error)
}

type complaintService struct {
	repo      repository.ComplaintRepository
	storage   storage.Storage
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewComplaintService builds the complaint service.
func NewComplaintService(repo repository.ComplaintRepository, store storage.Storage, validate *validator.Validate, logger zerolog.Logger) ComplaintService {
	return &complaintService{
		repo:      repo,
		storage:   store,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "complaint_service").Logger(),
	}
}

func (s *complaintService) Submit(ctx context.Context, payload dto.ComplaintRequest, attachments []*multipart.FileHeader, requester Requester) (dto.ComplaintResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ComplaintResponse{}, err
	}

	if len(attachments) > maxComplaintAttachments {
		return dto.ComplaintResponse{}, ErrTooManyAttachments
	}

	urls := make([]string, 0, len(attachments))
	for _, attachment := range attachments {
		src, err := attachment.Open()
		if err != nil {
			return dto.ComplaintResponse{}, err
		}

		url, err := s.storage.Upload(ctx, attachment.Filename, src)
		src.Close()
		if err != nil {
			return dto.ComplaintResponse{}, err
		}
		urls = append(urls, url)
	}

	encoded, err := json.Marshal(urls)
	if err != nil {
		return dto.ComplaintResponse{}, err
	}

	complaint := models.Complaint{
		UserID:      requester.ID,
		Title:       strings.TrimSpace(s.sanitizer.Sanitize(payload.Title)),
		Description: strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		Category:    strings.TrimSpace(s.sanitizer.Sanitize(payload.Category)),
		Attachments: encoded,
		Status:      models.ComplaintStatusOpen,
	}

	if err := s.repo.Create(ctx, &complaint); err != nil {
		return dto.ComplaintResponse{}, err
	}

	s.logger.Info().Uint("complaint_id", complaint.ID).Uint("user_id", requester.ID).Msg("complaint submitted")

	return dto.NewComplaintResponse(complaint), nil
}

func (s *complaintService) ListMine(ctx context.Context, userID uint) ([]dto.ComplaintResponse, error) {
	complaints, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewComplaintResponseSlice(complaints), nil
}

func (s *complaintService) ListAll(ctx context.Context, status string) ([]dto.ComplaintResponse, error) {
	if status != "" && !models.IsValidComplaintStatus(status) {
		return nil, ErrInvalidStatus
	}

	complaints, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	return dto.NewComplaintResponseSlice(complaints), nil
}

func (s *complaintService) UpdateStatus(ctx context.Context, id uint, status string) (dto.ComplaintResponse, error) {
	if !models.IsValidComplaintStatus(status) {
		return dto.ComplaintResponse{}, ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ComplaintResponse{}, ErrComplaintNotFound
		}
		return dto.ComplaintResponse{}, err
	}

	complaint, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ComplaintResponse{}, err
	}

	s.logger.Info().Uint("complaint_id", id).Str("status", status).Msg("complaint status updated")

	return dto.NewComplaintResponse(complaint), nil
}
