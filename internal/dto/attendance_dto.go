package dto

import (
	"time"

	"github.com/helwan-dev/smart-campus-api/internal/models"
)

// QRPayload is the tuple embedded in a scannable code.
type QRPayload struct {
	CourseID  uint      `json:"course_id"`
	LectureID string    `json:"lecture_id"`
	IssuedAt  time.Time `json:"issued_at"`
}

// GenerateSessionResponse is returned after minting a lecture session.
type GenerateSessionResponse struct {
	LectureID string    `json:"lecture_id"`
	QRDataURL string    `json:"qr_data_url"`
	Payload   string    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ScanRequest carries the payload read from a QR code.
type ScanRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// ScanResponse acknowledges a recorded check-in.
type ScanResponse struct {
	OK        bool      `json:"ok"`
	LectureID string    `json:"lecture_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionSummary is the lecturer view of one session.
type SessionSummary struct {
	LectureID   string    `json:"lecture_id"`
	CourseID    uint      `json:"course_id"`
	Date        time.Time `json:"date"`
	ExpiresAt   time.Time `json:"expires_at"`
	RecordCount int       `json:"record_count"`
}

// NewSessionSummary converts a model into a DTO.
func NewSessionSummary(session models.LectureSession) SessionSummary {
	return SessionSummary{
		LectureID:   session.LectureID,
		CourseID:    session.CourseID,
		Date:        session.Date,
		ExpiresAt:   session.ExpiresAt,
		RecordCount: len(session.Records),
	}
}

// NewSessionSummarySlice converts a slice of models into DTOs.
func NewSessionSummarySlice(sessions []models.LectureSession) []SessionSummary {
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, NewSessionSummary(session))
	}

	return summaries
}
