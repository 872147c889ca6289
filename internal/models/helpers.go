package models

import "github.com/shopspring/decimal"

// NewNullString is a helper for string pointers, returning nil if string is empty.
// Useful for fields that are optional and should be NULL in DB if not provided.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// DecimalPtr returns a pointer to the given decimal.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
