package model

import "time"

// Role enumerates user roles.
type Role string

const (
	RoleStudent        Role = "student"
	RoleContentCreator Role = "content_creator"
	RoleAdministrator  Role = "administrator"
)

// NormalizeRole maps accepted aliases onto canonical role names.
// "admin" has always been accepted as a synonym for "administrator".
func NormalizeRole(raw string) Role {
	if raw == "admin" {
		return RoleAdministrator
	}
	return Role(raw)
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleContentCreator, RoleAdministrator:
		return true
	}
	return false
}

// User represents a platform account.
type User struct {
	ID             int64      `json:"id"`
	Role           Role       `json:"role"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	FullName       string     `json:"full_name"`
	Institution    *string    `json:"institution,omitempty"`
	StudyLevel     *string    `json:"study_level,omitempty"`
	IsActive       bool       `json:"is_active"`
	RegisteredAt   time.Time  `json:"registered_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=72"`
	Role        string  `json:"role" binding:"required"`
	FullName    string  `json:"full_name" binding:"required,min=2,max=120"`
	Institution *string `json:"institution" binding:"omitempty,max=150"`
	StudyLevel  *string `json:"study_level" binding:"omitempty,max=60"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the payload for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// PasswordResetRequest asks for a reset mail.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirm sets a new password using a reset token.
type PasswordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserPatch enumerates the mutable account fields. Every field maps to a
// fixed column; nil means "leave unchanged".
type UserPatch struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=8,max=72"`
	FullName    *string `json:"full_name" binding:"omitempty,min=2,max=120"`
	Role        *string `json:"role" binding:"omitempty"`
	IsActive    *bool   `json:"is_active" binding:"omitempty"`
	Institution *string `json:"institution" binding:"omitempty,max=150"`
	StudyLevel  *string `json:"study_level" binding:"omitempty,max=60"`
}

// Empty reports whether the patch changes nothing.
func (p *UserPatch) Empty() bool {
	return p.Email == nil && p.Password == nil && p.FullName == nil &&
		p.Role == nil && p.IsActive == nil && p.Institution == nil && p.StudyLevel == nil
}
