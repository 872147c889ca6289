package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tintshop_backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type checkoutFixture struct {
	productRepo     *mockProductRepo
	movementRepo    *mockMovementRepo
	transactionRepo *mockTransactionRepo
	appointmentRepo *mockAppointmentRepo
	svc             CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		productRepo:     newMockProductRepo(),
		movementRepo:    &mockMovementRepo{},
		transactionRepo: newMockTransactionRepo(),
		appointmentRepo: newMockAppointmentRepo(),
	}
	f.svc = NewCheckoutService(f.productRepo, f.movementRepo, f.transactionRepo, f.appointmentRepo, newTestDB())
	return f
}

func TestCheckoutRecordsSaleAndDeductsStock(t *testing.T) {
	f := newCheckoutFixture()
	orgID := uuid.New()
	film := f.productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Ceramic film",
		Type:           models.ProductTypeLengthBased,
		StockQuantity:  decimal.NewFromInt(10),
		CostPrice:      decimal.NewFromInt(20),
		SalePrice:      decimal.NewFromInt(45),
	})

	result, err := f.svc.Checkout(orgID, CheckoutRequest{
		Items: []CheckoutLine{{ProductID: film.ID, Quantity: decimal.NewFromInt(2)}},
	})
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", result.Warnings)
	}

	tx := result.Transaction
	if tx.Type != models.TransactionTypeIncome {
		t.Errorf("type = %s, want income", tx.Type)
	}
	if tx.Status != models.TransactionStatusPaid {
		t.Errorf("status = %s, want paid", tx.Status)
	}
	if want := decimal.NewFromInt(90); !tx.Amount.Equal(want) {
		t.Errorf("amount = %s, want %s", tx.Amount, want)
	}
	if tx.CostAmount == nil {
		t.Fatal("cost_amount not set on sale income")
	}
	if want := decimal.NewFromInt(40); !tx.CostAmount.Equal(want) {
		t.Errorf("cost_amount = %s, want %s", tx.CostAmount, want)
	}

	if tx.Date != models.Today() {
		t.Errorf("date = %s, want today", tx.Date)
	}

	stored := f.productRepo.products[film.ID]
	if want := decimal.NewFromInt(8); !stored.StockQuantity.Equal(want) {
		t.Errorf("stock after sale = %s, want %s", stored.StockQuantity, want)
	}
	if len(f.movementRepo.movements) != 1 || f.movementRepo.movements[0].Reason != models.MovementReasonSale {
		t.Errorf("movements = %+v, want one sale movement", f.movementRepo.movements)
	}
}

func TestCheckoutBestEffortContinuesPastFailedLines(t *testing.T) {
	f := newCheckoutFixture()
	orgID := uuid.New()
	good := f.productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Tint film",
		StockQuantity:  decimal.NewFromInt(5),
		SalePrice:      decimal.NewFromInt(30),
	})
	flaky := f.productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Primer",
		StockQuantity:  decimal.NewFromInt(5),
		SalePrice:      decimal.NewFromInt(10),
	})
	f.productRepo.adjustErr[flaky.ID] = errors.New("connection reset")

	result, err := f.svc.Checkout(orgID, CheckoutRequest{
		Items: []CheckoutLine{
			{ProductID: good.ID, Quantity: decimal.NewFromInt(1)},
			{ProductID: flaky.ID, Quantity: decimal.NewFromInt(1)},
		},
	})
	if err != nil {
		t.Fatalf("Checkout must not fail after the ledger entry committed: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly 1", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "Primer") {
		t.Errorf("warning %q does not name the failed product", result.Warnings[0])
	}
	if len(f.transactionRepo.transactions) != 1 {
		t.Errorf("transactions = %d, want 1 (sale kept)", len(f.transactionRepo.transactions))
	}
	if want := decimal.NewFromInt(4); !f.productRepo.products[good.ID].StockQuantity.Equal(want) {
		t.Errorf("good product stock = %s, want %s", f.productRepo.products[good.ID].StockQuantity, want)
	}
	if want := decimal.NewFromInt(5); !f.productRepo.products[flaky.ID].StockQuantity.Equal(want) {
		t.Errorf("flaky product stock = %s, want %s (untouched)", f.productRepo.products[flaky.ID].StockQuantity, want)
	}
}

func TestCheckoutValidationAbortsBeforeAnyWrite(t *testing.T) {
	f := newCheckoutFixture()
	orgID := uuid.New()
	film := f.productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Film",
		StockQuantity:  decimal.NewFromInt(5),
		SalePrice:      decimal.NewFromInt(30),
	})

	negative := decimal.NewFromInt(-1)
	tests := []struct {
		name string
		req  CheckoutRequest
	}{
		{"empty cart", CheckoutRequest{}},
		{"zero quantity", CheckoutRequest{Items: []CheckoutLine{{ProductID: film.ID, Quantity: decimal.Zero}}}},
		{"negative price", CheckoutRequest{Items: []CheckoutLine{{ProductID: film.ID, Quantity: decimal.NewFromInt(1), UnitPrice: &negative}}}},
		{"missing product", CheckoutRequest{Items: []CheckoutLine{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Checkout(orgID, tt.req); err == nil {
				t.Fatal("expected error, got nil")
			}
			if len(f.transactionRepo.transactions) != 0 {
				t.Errorf("transactions written = %d, want 0", len(f.transactionRepo.transactions))
			}
		})
	}
}

func TestCheckoutSkipsDeductionWhenAsked(t *testing.T) {
	f := newCheckoutFixture()
	orgID := uuid.New()
	film := f.productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Film",
		StockQuantity:  decimal.NewFromInt(5),
		SalePrice:      decimal.NewFromInt(30),
	})

	deduct := false
	if _, err := f.svc.Checkout(orgID, CheckoutRequest{
		Items:       []CheckoutLine{{ProductID: film.ID, Quantity: decimal.NewFromInt(2)}},
		DeductStock: &deduct,
	}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if want := decimal.NewFromInt(5); !f.productRepo.products[film.ID].StockQuantity.Equal(want) {
		t.Errorf("stock = %s, want %s (deduct_stock=false)", f.productRepo.products[film.ID].StockQuantity, want)
	}
	if len(f.movementRepo.movements) != 0 {
		t.Errorf("movements = %d, want 0", len(f.movementRepo.movements))
	}
}

func TestCheckoutOverrideTotalAndSchedule(t *testing.T) {
	f := newCheckoutFixture()
	orgID := uuid.New()
	film := f.productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Film",
		StockQuantity:  decimal.NewFromInt(5),
		CostPrice:      decimal.NewFromInt(10),
		SalePrice:      decimal.NewFromInt(30),
	})

	override := decimal.NewFromInt(50)
	start := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	result, err := f.svc.Checkout(orgID, CheckoutRequest{
		Items:         []CheckoutLine{{ProductID: film.ID, Quantity: decimal.NewFromInt(2)}},
		OverrideTotal: &override,
		Schedule: &CheckoutScheduleRequest{
			Title:     "Install: sedan full tint",
			StartTime: start,
			EndTime:   start.Add(2 * time.Hour),
		},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !result.Transaction.Amount.Equal(override) {
		t.Errorf("amount = %s, want override %s", result.Transaction.Amount, override)
	}
	if result.Appointment == nil {
		t.Fatal("appointment not created")
	}
	if result.Appointment.TransactionID == nil || *result.Appointment.TransactionID != result.Transaction.ID {
		t.Error("appointment not linked to the sale transaction")
	}
	if !result.Appointment.PriceTotal.Equal(override) {
		t.Errorf("appointment price_total = %s, want %s", result.Appointment.PriceTotal, override)
	}
}
