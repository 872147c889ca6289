package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a shop customer. CarModel is free text; the same person with two
// vehicles is simply two entries, matching how the counter actually works.
type Client struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name" binding:"required"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	CarModel       *string   `json:"car_model,omitempty" db:"car_model"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ClientFilters defines the available filters for querying clients.
type ClientFilters struct {
	Search   *string `form:"search"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
