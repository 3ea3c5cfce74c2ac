package dto

import (
	"encoding/json"
	"time"

	"github.com/helwan-dev/smart-campus-api/internal/models"
)

// ComplaintRequest describes the submission payload.
type ComplaintRequest struct {
	Title       string `form:"title" json:"title" validate:"required,min=3"`
	Description string `form:"description" json:"description" validate:"required,min=10"`
	Category    string `form:"type" json:"type"`
}

// ComplaintStatusRequest carries the target status for an admin update.
type ComplaintStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_review resolved rejected"`
}

// ComplaintResponse is the serialized representation returned to API clients.
type ComplaintResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"type"`
	Attachments []string  `json:"attachments"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewComplaintResponse converts a model into a DTO.
func NewComplaintResponse(complaint models.Complaint) ComplaintResponse {
	attachments := []string{}
	if len(complaint.Attachments) > 0 {
		_ = json.Unmarshal(complaint.Attachments, &attachments)
	}

	return ComplaintResponse{
		ID:          complaint.ID,
		UserID:      complaint.UserID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    complaint.Category,
		Attachments: attachments,
		Status:      complaint.Status,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
}

// NewComplaintResponseSlice converts a slice of models into DTOs.
func NewComplaintResponseSlice(complaints []models.Complaint) []ComplaintResponse {
	responses := make([]ComplaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		responses = append(responses, NewComplaintResponse(complaint))
	}

	return responses
}
