package services

import (
	"errors"
	"testing"

	"tintshop_backend/internal/models"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newCatalogFixture() (*mockProductRepo, *mockMovementRepo, EventBus.Bus, CatalogService) {
	productRepo := newMockProductRepo()
	movementRepo := &mockMovementRepo{}
	bus := EventBus.New()
	svc := NewCatalogService(productRepo, movementRepo, bus, newTestDB())
	return productRepo, movementRepo, bus, svc
}

func TestAdjustStockAppliesDeltaAndRecordsMovement(t *testing.T) {
	productRepo, movementRepo, _, svc := newCatalogFixture()
	orgID := uuid.New()
	product := productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Ceramic film roll",
		Type:           models.ProductTypeLengthBased,
		StockQuantity:  decimal.NewFromInt(10),
		MinStockAlert:  decimal.NewFromInt(2),
	})

	updated, err := svc.AdjustStock(orgID, product.ID, AdjustStockRequest{
		Delta:  decimal.RequireFromString("-2.5"),
		Reason: string(models.MovementReasonManualAdjust),
	})
	if err != nil {
		t.Fatalf("AdjustStock returned error: %v", err)
	}
	if want := decimal.RequireFromString("7.5"); !updated.StockQuantity.Equal(want) {
		t.Errorf("stock = %s, want %s", updated.StockQuantity, want)
	}
	if len(movementRepo.movements) != 1 {
		t.Fatalf("movements recorded = %d, want 1", len(movementRepo.movements))
	}
	if movementRepo.movements[0].Reason != models.MovementReasonManualAdjust {
		t.Errorf("movement reason = %s, want manual_adjust", movementRepo.movements[0].Reason)
	}
}

func TestAdjustStockNeverClamps(t *testing.T) {
	productRepo, _, _, svc := newCatalogFixture()
	orgID := uuid.New()
	product := productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Squeegee",
		Type:           models.ProductTypeCountedUnit,
		StockQuantity:  decimal.NewFromInt(1),
	})

	updated, err := svc.AdjustStock(orgID, product.ID, AdjustStockRequest{
		Delta:  decimal.NewFromInt(-3),
		Reason: string(models.MovementReasonSale),
	})
	if err != nil {
		t.Fatalf("AdjustStock returned error: %v", err)
	}
	if want := decimal.NewFromInt(-2); !updated.StockQuantity.Equal(want) {
		t.Errorf("stock = %s, want %s (negative stock must be allowed)", updated.StockQuantity, want)
	}
}

func TestAdjustStockPublishesLowStockOnDownwardCrossingOnly(t *testing.T) {
	productRepo, _, bus, svc := newCatalogFixture()
	orgID := uuid.New()
	product := productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Carbon film roll",
		Type:           models.ProductTypeLengthBased,
		StockQuantity:  decimal.NewFromInt(5),
		MinStockAlert:  decimal.NewFromInt(2),
	})

	var alerts []models.LowStockAlert
	if err := bus.Subscribe(TopicLowStock, func(a models.LowStockAlert) {
		alerts = append(alerts, a)
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	// 5 -> 3, still above threshold.
	if _, err := svc.AdjustStock(orgID, product.ID, AdjustStockRequest{
		Delta:  decimal.NewFromInt(-2),
		Reason: string(models.MovementReasonSale),
	}); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("alerts after first adjustment = %d, want 0", len(alerts))
	}

	// 3 -> 2, crosses the threshold.
	if _, err := svc.AdjustStock(orgID, product.ID, AdjustStockRequest{
		Delta:  decimal.NewFromInt(-1),
		Reason: string(models.MovementReasonSale),
	}); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts after crossing = %d, want 1", len(alerts))
	}
	if alerts[0].ProductID != product.ID {
		t.Errorf("alert product = %s, want %s", alerts[0].ProductID, product.ID)
	}

	// 2 -> 1, already below; no repeat alert.
	if _, err := svc.AdjustStock(orgID, product.ID, AdjustStockRequest{
		Delta:  decimal.NewFromInt(-1),
		Reason: string(models.MovementReasonSale),
	}); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("alerts after further draw-down = %d, want 1", len(alerts))
	}

	// Restock up; upward movement never alerts.
	if _, err := svc.AdjustStock(orgID, product.ID, AdjustStockRequest{
		Delta:  decimal.NewFromInt(10),
		Reason: string(models.MovementReasonRestock),
	}); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("alerts after restock = %d, want 1", len(alerts))
	}
}

func TestAdjustStockValidation(t *testing.T) {
	productRepo, _, _, svc := newCatalogFixture()
	orgID := uuid.New()
	product := productRepo.add(models.Product{
		OrganizationID: orgID,
		Name:           "Heat gun",
		Type:           models.ProductTypeCountedUnit,
		StockQuantity:  decimal.NewFromInt(3),
	})

	tests := []struct {
		name string
		req  AdjustStockRequest
	}{
		{"zero delta", AdjustStockRequest{Delta: decimal.Zero, Reason: string(models.MovementReasonSale)}},
		{"unknown reason", AdjustStockRequest{Delta: decimal.NewFromInt(1), Reason: "shrinkage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AdjustStock(orgID, product.ID, tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	_, _, _, svc := newCatalogFixture()
	_, err := svc.AdjustStock(uuid.New(), uuid.New(), AdjustStockRequest{
		Delta:  decimal.NewFromInt(1),
		Reason: string(models.MovementReasonRestock),
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}
