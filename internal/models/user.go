package models

import "time"

// Role values accepted for a campus user.
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

// User represents a registered campus account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role         string    `gorm:"size:32;not null;default:student" json:"role"`
	Faculty      string    `gorm:"size:255" json:"faculty"`
	Department   string    `gorm:"size:255" json:"department"`
	StudentID    string    `gorm:"size:64" json:"student_id"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValidRole reports whether role is one of the three accepted values.
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManageCourses reports whether the user may create courses or upload materials.
func (u User) CanManageCourses() bool {
	return u.Role == RoleLecturer || u.Role == RoleAdmin
}
