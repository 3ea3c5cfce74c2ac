package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/models"
)

// AttendanceRepository defines persistence operations for lecture sessions
// and their check-in records.
type AttendanceRepository interface {
	CreateSession(ctx context.Context, session *models.LectureSession) error
	GetSession(ctx context.Context, courseID uint, lectureID string) (models.LectureSession, error)
	ListSessionsByCourse(ctx context.Context, courseID uint) ([]models.LectureSession, error)
	HasRecord(ctx context.Context, sessionID, userID uint) (bool, error)
	AppendRecord(ctx context.Context, record *models.AttendanceRecord) error
	CountSessions(ctx context.Context) (int64, error)
	CountRecords(ctx context.Context) (int64, error)
	CountRecordsByStatus(ctx context.Context, status string) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) CreateSession(ctx context.Context, session *models.LectureSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *attendanceRepository) GetSession(ctx context.Context, courseID uint, lectureID string) (models.LectureSession, error) {
	var session models.LectureSession
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND lecture_id = ?", courseID, lectureID).
		First(&session).Error
	if err != nil {
		return models.LectureSession{}, err
	}

	return session, nil
}

func (r *attendanceRepository) ListSessionsByCourse(ctx context.Context, courseID uint) ([]models.LectureSession, error) {
	var sessions []models.LectureSession
	err := r.db.WithContext(ctx).
		Preload("Records").
		Where("course_id = ?", courseID).
		Order("date DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *attendanceRepository) HasRecord(ctx context.Context, sessionID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *attendanceRepository) AppendRecord(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepository) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LectureSession{}).Count(&count).Error
	return count, err
}

func (r *attendanceRepository) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).Count(&count).Error
	return count, err
}

func (r *attendanceRepository) CountRecordsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
