package service

import "github.com/prepforge/cbt-backend/internal/model"

// Identity is the authenticated requester as seen by the domain services:
// who they are and what role they hold. Derived from validated JWT claims,
// trusted as-is below the transport layer.
type Identity struct {
	UserID int64
	Role   model.Role
}

// IsAdmin reports whether the identity holds the administrator role.
func (id Identity) IsAdmin() bool {
	return id.Role == model.RoleAdministrator
}

// CanManageContent reports whether the identity may manage exams, subjects,
// topics and questions.
func (id Identity) CanManageContent() bool {
	return id.Role == model.RoleAdministrator || id.Role == model.RoleContentCreator
}
