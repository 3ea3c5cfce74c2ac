package dto

import (
	"time"

	"github.com/helwan-dev/smart-campus-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Code       string `form:"code" json:"code" validate:"required,min=2"`
	Title      string `form:"title" json:"title" validate:"required,min=3"`
	Faculty    string `form:"faculty" json:"faculty"`
	Department string `form:"department" json:"department"`
	LecturerID uint   `form:"lecturer_id" json:"lecturer_id"`
}

// MaterialResponse is the serialized view of an uploaded material.
type MaterialResponse struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// CourseResponse is the serialized representation returned to API clients.
type CourseResponse struct {
	ID         uint               `json:"id"`
	Code       string             `json:"code"`
	Title      string             `json:"title"`
	Faculty    string             `json:"faculty"`
	Department string             `json:"department"`
	LecturerID uint               `json:"lecturer_id"`
	Materials  []MaterialResponse `json:"materials"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(course models.Course) CourseResponse {
	materials := make([]MaterialResponse, 0, len(course.Materials))
	for _, material := range course.Materials {
		materials = append(materials, MaterialResponse{
			ID:         material.ID,
			Title:      material.Title,
			FileURL:    material.FileURL,
			UploadedAt: material.UploadedAt,
		})
	}

	return CourseResponse{
		ID:         course.ID,
		Code:       course.Code,
		Title:      course.Title,
		Faculty:    course.Faculty,
		Department: course.Department,
		LecturerID: course.LecturerID,
		Materials:  materials,
		CreatedAt:  course.CreatedAt,
		UpdatedAt:  course.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
