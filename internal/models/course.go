package models

import "time"

// Course represents a catalog entry owned by a lecturer.
type Course struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Code       string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Faculty    string     `gorm:"size:255" json:"faculty"`
	Department string     `gorm:"size:255" json:"department"`
	LecturerID uint       `gorm:"index" json:"lecturer_id"`
	Materials  []Material `json:"materials"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Material is a file attached to a course. Materials are append-only.
type Material struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CourseID   uint      `gorm:"index;not null" json:"course_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	FileURL    string    `gorm:"size:512;not null" json:"file_url"`
	UploadedAt time.Time `gorm:"not null" json:"uploaded_at"`
}
