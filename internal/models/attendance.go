package models

import "time"

// LectureSession is a single course meeting accepting QR check-ins.
// A session is open from creation until ExpiresAt; there is no explicit
// close operation.
type LectureSession struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	CourseID  uint               `gorm:"index;not null" json:"course_id"`
	LectureID string             `gorm:"size:64;uniqueIndex;not null" json:"lecture_id"`
	Date      time.Time          `gorm:"not null" json:"date"`
	ExpiresAt time.Time          `gorm:"not null" json:"expires_at"`
	Records   []AttendanceRecord `gorm:"foreignKey:SessionID" json:"records"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// IsExpired reports whether the session no longer accepts scans.
func (s LectureSession) IsExpired(reference time.Time) bool {
	return reference.After(s.ExpiresAt)
}

// AttendanceStatusPresent is the only status a scan can record.
const AttendanceStatusPresent = "present"

// AttendanceRecord marks one user present in one session. Records are
// immutable; the composite unique index keeps a user from being recorded
// twice for the same session.
type AttendanceRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"uniqueIndex:idx_session_user;not null" json:"session_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_session_user;not null" json:"user_id"`
	Status    string    `gorm:"size:32;not null" json:"status"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}
