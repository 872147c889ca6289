package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole defines the roles a user can hold within an organization.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// IsValidUserRole checks if the provided role string is a known role.
func IsValidUserRole(role string) bool {
	switch UserRole(role) {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// Organization is the tenant boundary. Every entity belongs to exactly one.
type Organization struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// User is a login profile scoped to one organization.
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Email          string    `json:"email" db:"email" binding:"required,email"`
	FullName       string    `json:"full_name" db:"full_name"`
	Role           UserRole  `json:"role" db:"role"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
