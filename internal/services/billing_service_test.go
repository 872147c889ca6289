package services

import (
	"testing"
	"time"

	"tintshop_backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestEnsureMonthGeneratesOncePerTemplate(t *testing.T) {
	templateRepo := newMockTemplateRepo()
	transactionRepo := newMockTransactionRepo()
	svc := NewBillingService(templateRepo, transactionRepo, newTestDB())
	orgID := uuid.New()

	rent := decimal.NewFromInt(800)
	if _, err := svc.CreateTemplate(orgID, CreateBillTemplateRequest{
		Name:          "Rent",
		DueDay:        1,
		Kind:          string(models.BillKindFixed),
		DefaultAmount: &rent,
	}); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if _, err := svc.CreateTemplate(orgID, CreateBillTemplateRequest{
		Name:   "Electricity",
		DueDay: 15,
		Kind:   string(models.BillKindVariable),
	}); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	ref := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	generated, err := svc.EnsureMonth(orgID, ref)
	if err != nil {
		t.Fatalf("EnsureMonth returned error: %v", err)
	}
	if generated != 2 {
		t.Fatalf("generated = %d, want 2", generated)
	}

	// Second run is a no-op.
	generated, err = svc.EnsureMonth(orgID, ref)
	if err != nil {
		t.Fatalf("EnsureMonth second run: %v", err)
	}
	if generated != 0 {
		t.Errorf("second run generated = %d, want 0", generated)
	}
	if len(transactionRepo.transactions) != 2 {
		t.Errorf("stored transactions = %d, want 2", len(transactionRepo.transactions))
	}

	for _, tx := range transactionRepo.transactions {
		if tx.Type != models.TransactionTypeExpense {
			t.Errorf("%s: type = %s, want expense", tx.Description, tx.Type)
		}
		if tx.Status != models.TransactionStatusPending {
			t.Errorf("%s: status = %s, want pending", tx.Description, tx.Status)
		}
		if tx.BillTemplateID == nil {
			t.Errorf("%s: bill_template_id not set", tx.Description)
		}
		switch tx.Description {
		case "Rent":
			if !tx.Amount.Equal(rent) {
				t.Errorf("Rent amount = %s, want %s", tx.Amount, rent)
			}
		case "Electricity":
			if !tx.Amount.IsZero() {
				t.Errorf("Electricity amount = %s, want 0", tx.Amount)
			}
		}
	}
}

func TestEnsureMonthClampsDueDay(t *testing.T) {
	templateRepo := newMockTemplateRepo()
	transactionRepo := newMockTransactionRepo()
	svc := NewBillingService(templateRepo, transactionRepo, newTestDB())
	orgID := uuid.New()

	amount := decimal.NewFromInt(120)
	if _, err := svc.CreateTemplate(orgID, CreateBillTemplateRequest{
		Name:          "Insurance",
		DueDay:        31,
		Kind:          string(models.BillKindFixed),
		DefaultAmount: &amount,
	}); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	tests := []struct {
		ref     time.Time
		wantDay int
	}{
		{time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2026, time.July, 5, 0, 0, 0, 0, time.UTC), 31},
		{time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2028, time.February, 5, 0, 0, 0, 0, time.UTC), 29},
	}
	for _, tt := range tests {
		if _, err := svc.EnsureMonth(orgID, tt.ref); err != nil {
			t.Fatalf("EnsureMonth(%s): %v", tt.ref.Month(), err)
		}
	}

	byMonth := make(map[string]models.CivilDate)
	for _, tx := range transactionRepo.transactions {
		byMonth[tx.Date.String()[:7]] = tx.Date
	}
	for _, tt := range tests {
		key := tt.ref.Format("2006-01")
		date, ok := byMonth[key]
		if !ok {
			t.Errorf("no bill generated for %s", key)
			continue
		}
		if date.Day != tt.wantDay {
			t.Errorf("%s: due date day = %d, want %d", key, date.Day, tt.wantDay)
		}
	}
}

func TestCreateTemplateValidation(t *testing.T) {
	svc := NewBillingService(newMockTemplateRepo(), newMockTransactionRepo(), newTestDB())
	orgID := uuid.New()
	amount := decimal.NewFromInt(50)

	tests := []struct {
		name string
		req  CreateBillTemplateRequest
	}{
		{"empty name", CreateBillTemplateRequest{DueDay: 5, Kind: "fixed", DefaultAmount: &amount}},
		{"due day too low", CreateBillTemplateRequest{Name: "Water", DueDay: 0, Kind: "fixed", DefaultAmount: &amount}},
		{"due day too high", CreateBillTemplateRequest{Name: "Water", DueDay: 32, Kind: "fixed", DefaultAmount: &amount}},
		{"unknown kind", CreateBillTemplateRequest{Name: "Water", DueDay: 5, Kind: "quarterly"}},
		{"fixed without amount", CreateBillTemplateRequest{Name: "Water", DueDay: 5, Kind: "fixed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateTemplate(orgID, tt.req); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
