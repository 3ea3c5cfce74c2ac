package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/observability"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
	"github.com/helwan-dev/smart-campus-api/pkg/storage"
)

var (
	// ErrCourseNotFound indicates the requested course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrCourseCodeTaken indicates the course code is already in use.
	ErrCourseCodeTaken = errors.New("course code already exists")
	// ErrForbidden indicates the caller's role does not permit the operation.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrFileTooLarge indicates an upload exceeded the configured limit.
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrFileTypeNotAllowed indicates the detected MIME type is not permitted.
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

// CourseService exposes catalog and material upload use cases.
type CourseService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest, file *multipart.FileHeader, requester Requester) (dto.CourseResponse, error)
	AddMaterials(ctx context.Context, courseID uint, files []*multipart.FileHeader, requester Requester) (dto.CourseResponse, error)
}

type courseService struct {
	repo      repository.CourseRepository
	storage   storage.Storage
	validator *validator.Validate
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
	now       func() time.Time
}

// NewCourseService builds the course catalog service.
func NewCourseService(repo repository.CourseRepository, store storage.Storage, validate *validator.Validate, maxSizeMB int, logger zerolog.Logger) CourseService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &courseService{
		repo:      repo,
		storage:   store,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/helwan-dev/smart-campus-api/internal/service/course"),
		now:       time.Now,
	}
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest, file *multipart.FileHeader, requester Requester) (dto.CourseResponse, error) {
	if !requester.CanManageCourses() {
		return dto.CourseResponse{}, ErrForbidden
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if _, err := s.repo.GetByCode(ctx, payload.Code); err == nil {
		return dto.CourseResponse{}, ErrCourseCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CourseResponse{}, err
	}

	lecturerID := payload.LecturerID
	if lecturerID == 0 {
		lecturerID = requester.ID
	}

	course := models.Course{
		Code:       payload.Code,
		Title:      payload.Title,
		Faculty:    payload.Faculty,
		Department: payload.Department,
		LecturerID: lecturerID,
	}

	if file != nil {
		material, err := s.storeMaterial(ctx, file)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		course.Materials = append(course.Materials, material)
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Str("code", course.Code).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) AddMaterials(ctx context.Context, courseID uint, files []*multipart.FileHeader, requester Requester) (dto.CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if !requester.CanManageCourses() {
		return dto.CourseResponse{}, ErrForbidden
	}

	materials := make([]models.Material, 0, len(files))
	for _, file := range files {
		material, err := s.storeMaterial(ctx, file)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		materials = append(materials, material)
	}

	if len(materials) > 0 {
		if err := s.repo.AppendMaterials(ctx, courseID, materials); err != nil {
			// The files are already on storage with no record pointing at
			// them; log the orphan, there is no reconciliation.
			for _, material := range materials {
				s.logger.Error().Str("file_url", material.FileURL).Msg("orphaned material upload")
			}
			return dto.CourseResponse{}, err
		}
	}

	course, err = s.repo.GetByID(ctx, courseID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", courseID).Int("materials", len(materials)).Msg("materials added")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) storeMaterial(ctx context.Context, file *multipart.FileHeader) (models.Material, error) {
	ctx, span := s.tracer.Start(ctx, "course.store_material")
	defer span.End()

	span.SetAttributes(
		attribute.String("upload.original_name", file.Filename),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		observability.UploadsRejected().WithLabelValues("size").Inc()
		span.SetStatus(codes.Error, "payload too large")
		return models.Material{}, ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return models.Material{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(src, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return models.Material{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadsRejected().WithLabelValues("size").Inc()
		span.SetStatus(codes.Error, "payload too large")
		return models.Material{}, ErrFileTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", mime.String()))
	if !isAllowedMaterialType(mime.String()) {
		observability.UploadsRejected().WithLabelValues("type").Inc()
		span.SetStatus(codes.Error, "type not allowed")
		return models.Material{}, ErrFileTypeNotAllowed
	}

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.UploadsRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return models.Material{}, fmt.Errorf("failed to store file: %w", err)
	}

	span.SetStatus(codes.Ok, "stored")

	return models.Material{
		Title:      file.Filename,
		FileURL:    url,
		UploadedAt: s.now(),
	}, nil
}

func isAllowedMaterialType(m string) bool {
	if strings.HasPrefix(m, "image/") || strings.HasPrefix(m, "text/") {
		return true
	}
	switch m {
	case "application/pdf", "application/zip", "application/x-zip-compressed",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return true
	default:
		return false
	}
}
