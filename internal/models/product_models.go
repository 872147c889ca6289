package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType defines how a product's stock is measured.
type ProductType string

const (
	// ProductTypeCountedUnit is stock counted in whole pieces (cameras, bulbs).
	ProductTypeCountedUnit ProductType = "counted_unit"
	// ProductTypeLengthBased is stock measured in meters (film rolls), so
	// quantities are fractional.
	ProductTypeLengthBased ProductType = "length_based"
)

// IsValidProductType checks if the provided type string is a known product type.
func IsValidProductType(t string) bool {
	switch ProductType(t) {
	case ProductTypeCountedUnit, ProductTypeLengthBased:
		return true
	default:
		return false
	}
}

// Product is a catalog item with authoritative stock and pricing.
// StockQuantity is a running total mutated only through deltas; it may go
// negative (backorder), the low-stock signal is advisory.
type Product struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	Name           string          `json:"name" db:"name" binding:"required"`
	Category       *string         `json:"category,omitempty" db:"category"`
	Type           ProductType     `json:"type" db:"type"`
	StockQuantity  decimal.Decimal `json:"stock_quantity" db:"stock_quantity"`
	MinStockAlert  decimal.Decimal `json:"min_stock_alert" db:"min_stock_alert"`
	CostPrice      decimal.Decimal `json:"cost_price" db:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price" db:"sale_price"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the product sits at or below its alert threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity.LessThanOrEqual(p.MinStockAlert)
}

// ProductFilters defines the available filters for querying products.
type ProductFilters struct {
	Search   *string `form:"search"`
	Category *string `form:"category"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// StockMovementReason classifies why a stock quantity changed.
type StockMovementReason string

const (
	MovementReasonSale               StockMovementReason = "sale"
	MovementReasonReservation        StockMovementReason = "reservation"
	MovementReasonReservationRelease StockMovementReason = "reservation_release"
	MovementReasonManualAdjust       StockMovementReason = "manual_adjust"
	MovementReasonRestock            StockMovementReason = "restock"
)

// IsValidMovementReason checks if the provided reason is a known movement reason.
func IsValidMovementReason(r string) bool {
	switch StockMovementReason(r) {
	case MovementReasonSale, MovementReasonReservation, MovementReasonReservationRelease,
		MovementReasonManualAdjust, MovementReasonRestock:
		return true
	default:
		return false
	}
}

// StockMovement is one delta applied to a product's stock. The trail makes
// every deduction and return auditable instead of hiding them behind inserts.
type StockMovement struct {
	ID             uuid.UUID           `json:"id" db:"id"`
	OrganizationID uuid.UUID           `json:"organization_id" db:"organization_id"`
	ProductID      uuid.UUID           `json:"product_id" db:"product_id"`
	QuantityDelta  decimal.Decimal     `json:"quantity_delta" db:"quantity_delta"`
	Reason         StockMovementReason `json:"reason" db:"reason"`
	Reference      *string             `json:"reference,omitempty" db:"reference"`
	MovementDate   time.Time           `json:"movement_date" db:"movement_date"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	Product        *Product            `json:"product,omitempty"`
}

// LowStockAlert is the payload published when an adjustment drives a product
// at or below its threshold.
type LowStockAlert struct {
	ProductID      uuid.UUID       `json:"product_id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Name           string          `json:"name"`
	StockQuantity  decimal.Decimal `json:"stock_quantity"`
	MinStockAlert  decimal.Decimal `json:"min_stock_alert"`
}
