package models

import (
	"time"

	"gorm.io/datatypes"
)

// Complaint statuses. A complaint starts open and moves forward only.
const (
	ComplaintStatusOpen     = "open"
	ComplaintStatusInReview = "in_review"
	ComplaintStatusResolved = "resolved"
	ComplaintStatusRejected = "rejected"
)

// Complaint is a user-submitted report with optional file attachments.
type Complaint struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:64" json:"category"`
	Attachments datatypes.JSON `gorm:"type:json" json:"attachments"`
	Status      string         `gorm:"size:32;not null;default:open" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsValidComplaintStatus reports whether status is a known complaint state.
func IsValidComplaintStatus(status string) bool {
	switch status {
	case ComplaintStatusOpen, ComplaintStatusInReview, ComplaintStatusResolved, ComplaintStatusRejected:
		return true
	default:
		return false
	}
}
