package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillKind defines whether a recurring bill has a known amount.
type BillKind string

const (
	// BillKindFixed bills carry their template's default amount.
	BillKindFixed BillKind = "fixed"
	// BillKindVariable bills are generated with amount zero until the user
	// fills in the month's actual value.
	BillKindVariable BillKind = "variable"
)

// IsValidBillKind checks if the provided kind string is a known bill kind.
func IsValidBillKind(k string) bool {
	switch BillKind(k) {
	case BillKindFixed, BillKindVariable:
		return true
	default:
		return false
	}
}

// BillTemplate is a recurring monthly obligation. Templates never expire; the
// generator expands each into at most one ledger entry per calendar month,
// dated on DueDay clamped to the month's last valid day.
type BillTemplate struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	Name           string          `json:"name" db:"name" binding:"required"`
	DueDay         int             `json:"due_day" db:"due_day" binding:"required,min=1,max=31"`
	Category       *string         `json:"category,omitempty" db:"category"`
	Kind           BillKind        `json:"kind" db:"kind"`
	DefaultAmount  decimal.Decimal `json:"default_amount" db:"default_amount"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}
