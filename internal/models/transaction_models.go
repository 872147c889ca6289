package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType defines the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValidTransactionType checks if the provided type string is a known transaction type.
func IsValidTransactionType(t string) bool {
	switch TransactionType(t) {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}

// TransactionStatus defines the settlement state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusPaid    TransactionStatus = "paid"
)

// IsValidTransactionStatus checks if the provided status string is a known status.
func IsValidTransactionStatus(s string) bool {
	switch TransactionStatus(s) {
	case TransactionStatusPending, TransactionStatusPaid:
		return true
	default:
		return false
	}
}

// Transaction is one financial event in the append-only ledger: a sale
// (income), an expense, or a generated bill instance. CostAmount carries the
// cost of goods sold and is set only on income entries that came from a sale.
// Date is the calendar day used for period bucketing; CreatedAt breaks ordering
// ties for same-day entries.
type Transaction struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	OrganizationID uuid.UUID         `json:"organization_id" db:"organization_id"`
	Description    string            `json:"description" db:"description"`
	Amount         decimal.Decimal   `json:"amount" db:"amount"`
	CostAmount     *decimal.Decimal  `json:"cost_amount,omitempty" db:"cost_amount"`
	Category       *string           `json:"category,omitempty" db:"category"`
	PaymentMethod  *string           `json:"payment_method,omitempty" db:"payment_method"`
	Type           TransactionType   `json:"type" db:"type"`
	Status         TransactionStatus `json:"status" db:"status"`
	Date           CivilDate         `json:"date" db:"date"`
	BillTemplateID *uuid.UUID        `json:"bill_template_id,omitempty" db:"bill_template_id"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// IsSettled reports whether the entry counts toward period totals.
func (t *Transaction) IsSettled() bool {
	return t.Status == TransactionStatusPaid
}
