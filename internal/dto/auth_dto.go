package dto

import "github.com/helwan-dev/smart-campus-api/internal/models"

// RegisterRequest describes the payload for creating a new account.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"omitempty,oneof=student lecturer admin"`
	StudentID  string `json:"student_id"`
	Faculty    string `json:"faculty"`
	Department string `json:"department"`
}

// LoginRequest describes the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the public view of an account. The password hash never
// leaves the auth service.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// LoginResponse carries the bearer token and the authenticated user.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// ProfileResponse is the full profile returned by the me endpoint.
type ProfileResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Faculty    string `json:"faculty"`
	Department string `json:"department"`
	StudentID  string `json:"student_id"`
}

// NewUserSummary converts a model into its public view.
func NewUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Role:  user.Role,
		Email: user.Email,
	}
}

// NewProfileResponse converts a model into the profile DTO.
func NewProfileResponse(user models.User) ProfileResponse {
	return ProfileResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Faculty:    user.Faculty,
		Department: user.Department,
		StudentID:  user.StudentID,
	}
}
