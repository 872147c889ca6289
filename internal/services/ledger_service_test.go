package services

import (
	"errors"
	"testing"

	"tintshop_backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestAppendRejectsInvalidInput(t *testing.T) {
	svc := NewLedgerService(newMockTransactionRepo(), newTestDB())
	orgID := uuid.New()

	badStatus := "refunded"
	tests := []struct {
		name string
		req  AppendTransactionRequest
	}{
		{"empty description", AppendTransactionRequest{Type: "income", Amount: decimal.NewFromInt(10)}},
		{"negative amount", AppendTransactionRequest{Description: "tint job", Type: "income", Amount: decimal.NewFromInt(-1)}},
		{"unknown type", AppendTransactionRequest{Description: "tint job", Type: "transfer", Amount: decimal.NewFromInt(10)}},
		{"unknown status", AppendTransactionRequest{Description: "tint job", Type: "income", Amount: decimal.NewFromInt(10), Status: &badStatus}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Append(orgID, tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAppendDefaults(t *testing.T) {
	repo := newMockTransactionRepo()
	svc := NewLedgerService(repo, newTestDB())
	orgID := uuid.New()

	tx, err := svc.Append(orgID, AppendTransactionRequest{
		Description: "Window tint, sedan",
		Amount:      decimal.NewFromInt(150),
		Type:        "income",
	})
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if tx.Status != models.TransactionStatusPending {
		t.Errorf("status = %s, want pending", tx.Status)
	}
	if tx.Date.IsZero() {
		t.Error("date not defaulted to today")
	}
	if tx.ID == uuid.Nil {
		t.Error("id not assigned")
	}
	if len(repo.transactions) != 1 {
		t.Errorf("stored transactions = %d, want 1", len(repo.transactions))
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := NewLedgerService(newMockTransactionRepo(), newTestDB())
	if _, err := svc.Update(uuid.New(), uuid.New(), UpdateTransactionRequest{}); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("err = %v, want ErrTransactionNotFound", err)
	}
	if err := svc.Remove(uuid.New(), uuid.New()); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Remove err = %v, want ErrTransactionNotFound", err)
	}
}

func TestUpdateSettlesBill(t *testing.T) {
	repo := newMockTransactionRepo()
	svc := NewLedgerService(repo, newTestDB())
	orgID := uuid.New()

	appended, err := svc.Append(orgID, AppendTransactionRequest{
		Description: "Rent",
		Amount:      decimal.NewFromInt(500),
		Type:        "expense",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	paid := "paid"
	amount := decimal.NewFromInt(520)
	updated, err := svc.Update(orgID, appended.ID, UpdateTransactionRequest{
		Status: &paid,
		Amount: &amount,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !updated.IsSettled() {
		t.Error("transaction not settled after status update")
	}
	if !updated.Amount.Equal(amount) {
		t.Errorf("amount = %s, want %s", updated.Amount, amount)
	}
}

func TestQueryByPeriodValidation(t *testing.T) {
	svc := NewLedgerService(newMockTransactionRepo(), newTestDB())
	orgID := uuid.New()

	start := models.CivilDate{Year: 2026, Month: 5, Day: 10}
	end := models.CivilDate{Year: 2026, Month: 5, Day: 1}
	if _, err := svc.QueryByPeriod(orgID, start, end); !errors.Is(err, ErrValidation) {
		t.Errorf("inverted range err = %v, want ErrValidation", err)
	}
	if _, err := svc.QueryByPeriod(orgID, models.CivilDate{}, end); !errors.Is(err, ErrValidation) {
		t.Errorf("zero start err = %v, want ErrValidation", err)
	}
}
