package service

import "github.com/helwan-dev/smart-campus-api/internal/models"

// Requester identifies the authenticated caller of a service operation.
type Requester struct {
	ID   uint
	Role string
}

// CanManageCourses reports whether the caller may create courses, upload
// materials or run attendance sessions.
func (r Requester) CanManageCourses() bool {
	return r.Role == models.RoleLecturer || r.Role == models.RoleAdmin
}
