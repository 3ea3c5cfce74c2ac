package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/observability"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
	"github.com/helwan-dev/smart-campus-api/pkg/qr"
)

var (
	// ErrSessionNotFound indicates no session matches the scanned payload.
	ErrSessionNotFound = errors.New("lecture session not found")
	// ErrSessionExpired indicates the session no longer accepts scans.
	ErrSessionExpired = errors.New("lecture session expired")
	// ErrInvalidPayload indicates the scanned payload could not be parsed.
	ErrInvalidPayload = errors.New("invalid attendance payload")
	// ErrAlreadyScanned indicates the user already checked in to the session.
	ErrAlreadyScanned = errors.New("attendance already recorded")
)

// AttendanceService covers the QR issuance and redemption flow.
type AttendanceService interface {
	GenerateSession(ctx context.Context, courseID uint, requester Requester) (dto.GenerateSessionResponse, error)
	Redeem(ctx context.Context, payload string, requester Requester) (dto.ScanResponse, error)
	ListSessions(ctx context.Context, courseID uint, requester Requester) ([]dto.SessionSummary, error)
}

type attendanceService struct {
	sessions   repository.AttendanceRepository
	courses    repository.CourseRepository
	cache      *redis.Client
	sessionTTL time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAttendanceService builds the attendance service. sessionTTL bounds how
// long a generated code stays redeemable.
func NewAttendanceService(sessions repository.AttendanceRepository, courses repository.CourseRepository, cache *redis.Client, sessionTTL time.Duration, logger zerolog.Logger) AttendanceService {
	if sessionTTL <= 0 {
		sessionTTL = 3 * time.Hour
	}
	return &attendanceService{
		sessions:   sessions,
		courses:    courses,
		cache:      cache,
		sessionTTL: sessionTTL,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
		now:        time.Now,
	}
}

func (s *attendanceService) GenerateSession(ctx context.Context, courseID uint, requester Requester) (dto.GenerateSessionResponse, error) {
	if !requester.CanManageCourses() {
		return dto.GenerateSessionResponse{}, ErrForbidden
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GenerateSessionResponse{}, ErrCourseNotFound
		}
		return dto.GenerateSessionResponse{}, err
	}

	now := s.now()
	lectureID := "lec-" + uuid.NewString()

	payloadBytes, err := json.Marshal(dto.QRPayload{
		CourseID:  courseID,
		LectureID: lectureID,
		IssuedAt:  now,
	})
	if err != nil {
		return dto.GenerateSessionResponse{}, err
	}
	payload := string(payloadBytes)

	dataURL, err := qr.DataURL(payload)
	if err != nil {
		return dto.GenerateSessionResponse{}, err
	}

	session := models.LectureSession{
		CourseID:  courseID,
		LectureID: lectureID,
		Date:      now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, &session); err != nil {
		return dto.GenerateSessionResponse{}, err
	}

	observability.SessionsGenerated().Inc()
	s.logger.Info().Uint("course_id", courseID).Str("lecture_id", lectureID).Msg("lecture session generated")

	return dto.GenerateSessionResponse{
		LectureID: lectureID,
		QRDataURL: dataURL,
		Payload:   payload,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *attendanceService) Redeem(ctx context.Context, payload string, requester Requester) (dto.ScanResponse, error) {
	var decoded dto.QRPayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		observability.ScansTotal().WithLabelValues("invalid_payload").Inc()
		return dto.ScanResponse{}, ErrInvalidPayload
	}
	if decoded.LectureID == "" || decoded.CourseID == 0 {
		observability.ScansTotal().WithLabelValues("invalid_payload").Inc()
		return dto.ScanResponse{}, ErrInvalidPayload
	}

	session, err := s.sessions.GetSession(ctx, decoded.CourseID, decoded.LectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.ScansTotal().WithLabelValues("not_found").Inc()
			return dto.ScanResponse{}, ErrSessionNotFound
		}
		return dto.ScanResponse{}, err
	}

	now := s.now()
	if session.IsExpired(now) {
		observability.ScansTotal().WithLabelValues("expired").Inc()
		return dto.ScanResponse{}, ErrSessionExpired
	}

	// Redis short-circuits racing duplicate scans; the composite unique
	// index on (session_id, user_id) is the backstop.
	if s.cache != nil {
		key := fmt.Sprintf("attendance:scan:%d:%d", session.ID, requester.ID)
		set, err := s.cache.SetNX(ctx, key, 1, s.sessionTTL).Result()
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to mark scan in cache")
		} else if !set {
			observability.ScansTotal().WithLabelValues("duplicate").Inc()
			return dto.ScanResponse{}, ErrAlreadyScanned
		}
	}

	exists, err := s.sessions.HasRecord(ctx, session.ID, requester.ID)
	if err != nil {
		return dto.ScanResponse{}, err
	}
	if exists {
		observability.ScansTotal().WithLabelValues("duplicate").Inc()
		return dto.ScanResponse{}, ErrAlreadyScanned
	}

	record := models.AttendanceRecord{
		SessionID: session.ID,
		UserID:    requester.ID,
		Status:    models.AttendanceStatusPresent,
		Timestamp: now,
	}
	if err := s.sessions.AppendRecord(ctx, &record); err != nil {
		return dto.ScanResponse{}, err
	}

	observability.ScansTotal().WithLabelValues("ok").Inc()
	s.logger.Info().
		Uint("user_id", requester.ID).
		Str("lecture_id", session.LectureID).
		Msg("attendance recorded")

	return dto.ScanResponse{
		OK:        true,
		LectureID: session.LectureID,
		Status:    record.Status,
		Timestamp: record.Timestamp,
	}, nil
}

func (s *attendanceService) ListSessions(ctx context.Context, courseID uint, requester Requester) ([]dto.SessionSummary, error) {
	if !requester.CanManageCourses() {
		return nil, ErrForbidden
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	sessions, err := s.sessions.ListSessionsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewSessionSummarySlice(sessions), nil
}
