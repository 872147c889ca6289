package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/repositories"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicLowStock is the event bus topic for low-stock alerts. Subscribers
// receive a models.LowStockAlert.
const TopicLowStock = "catalog:low_stock"

// --- DTOs ---

// CreateProductRequest is used for creating a new catalog product.
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	Category      *string          `json:"category"`
	Type          string           `json:"type" binding:"required"`
	StockQuantity *decimal.Decimal `json:"stock_quantity"`
	MinStockAlert *decimal.Decimal `json:"min_stock_alert"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
}

// UpdateProductRequest is used for editing product fields. Stock quantity is
// deliberately absent: stock changes only through AdjustStock deltas.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	Type          *string          `json:"type"`
	MinStockAlert *decimal.Decimal `json:"min_stock_alert"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
}

// AdjustStockRequest applies a signed delta to a product's stock.
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason string          `json:"reason" binding:"required"`
	Note   *string         `json:"note"`
}

// --- CatalogService Interface ---

type CatalogService interface {
	CreateProduct(orgID uuid.UUID, req CreateProductRequest) (*models.Product, error)
	GetProductByID(orgID, productID uuid.UUID) (*models.Product, error)
	GetProducts(orgID uuid.UUID, filters models.ProductFilters) ([]models.Product, int, error)
	UpdateProduct(orgID, productID uuid.UUID, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(orgID, productID uuid.UUID) error

	// AdjustStock applies the delta, records a stock movement, and publishes a
	// low-stock alert when the change drives the quantity at or below the
	// threshold from above. Stock is never clamped; negative results stand.
	AdjustStock(orgID, productID uuid.UUID, req AdjustStockRequest) (*models.Product, error)
	GetLowStockProducts(orgID uuid.UUID) ([]models.Product, error)
	GetStockMovements(orgID uuid.UUID, productID *uuid.UUID, page, pageSize int) ([]models.StockMovement, int, error)
}

type catalogService struct {
	productRepo  repositories.ProductRepository
	movementRepo repositories.StockMovementRepository
	bus          EventBus.Bus
	db           *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	pr repositories.ProductRepository,
	mr repositories.StockMovementRepository,
	bus EventBus.Bus,
	db *sql.DB,
) CatalogService {
	return &catalogService{
		productRepo:  pr,
		movementRepo: mr,
		bus:          bus,
		db:           db,
	}
}

func (s *catalogService) CreateProduct(orgID uuid.UUID, req CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if !models.IsValidProductType(req.Type) {
		return nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, req.Type)
	}

	product := models.Product{
		OrganizationID: orgID,
		Name:           req.Name,
		Category:       req.Category,
		Type:           models.ProductType(req.Type),
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.MinStockAlert != nil {
		if req.MinStockAlert.IsNegative() {
			return nil, fmt.Errorf("%w: min_stock_alert must not be negative", ErrValidation)
		}
		product.MinStockAlert = *req.MinStockAlert
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return nil, fmt.Errorf("%w: cost_price must not be negative", ErrValidation)
		}
		product.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return nil, fmt.Errorf("%w: sale_price must not be negative", ErrValidation)
		}
		product.SalePrice = *req.SalePrice
	}

	if _, err := s.productRepo.CreateProduct(s.db, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (s *catalogService) GetProductByID(orgID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(orgID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *catalogService) GetProducts(orgID uuid.UUID, filters models.ProductFilters) ([]models.Product, int, error) {
	products, totalCount, err := s.productRepo.GetProducts(orgID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, totalCount, nil
}

func (s *catalogService) UpdateProduct(orgID, productID uuid.UUID, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(orgID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product for update: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: product name must not be empty", ErrValidation)
		}
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	if req.Type != nil {
		if !models.IsValidProductType(*req.Type) {
			return nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, *req.Type)
		}
		product.Type = models.ProductType(*req.Type)
	}
	if req.MinStockAlert != nil {
		if req.MinStockAlert.IsNegative() {
			return nil, fmt.Errorf("%w: min_stock_alert must not be negative", ErrValidation)
		}
		product.MinStockAlert = *req.MinStockAlert
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return nil, fmt.Errorf("%w: cost_price must not be negative", ErrValidation)
		}
		product.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return nil, fmt.Errorf("%w: sale_price must not be negative", ErrValidation)
		}
		product.SalePrice = *req.SalePrice
	}

	if err := s.productRepo.UpdateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(orgID, productID uuid.UUID) error {
	err := s.productRepo.DeleteProduct(s.db, orgID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *catalogService) AdjustStock(orgID, productID uuid.UUID, req AdjustStockRequest) (*models.Product, error) {
	if req.Delta.IsZero() {
		return nil, fmt.Errorf("%w: delta must not be zero", ErrValidation)
	}
	if !models.IsValidMovementReason(req.Reason) {
		return nil, fmt.Errorf("%w: unknown movement reason %q", ErrValidation, req.Reason)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	product, err := s.productRepo.AdjustStock(tx, orgID, productID, req.Delta)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	movement := models.StockMovement{
		OrganizationID: orgID,
		ProductID:      productID,
		QuantityDelta:  req.Delta,
		Reason:         models.StockMovementReason(req.Reason),
		Reference:      req.Note,
	}
	if _, err := s.movementRepo.CreateMovement(tx, &movement); err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock adjustment: %w", err)
	}

	// Alert only on the downward crossing, not on every adjustment below the
	// threshold, so a product sitting at zero does not spam subscribers.
	previous := product.StockQuantity.Sub(req.Delta)
	wasLow := previous.LessThanOrEqual(product.MinStockAlert)
	if req.Delta.IsNegative() && product.IsLowStock() && !wasLow {
		s.bus.Publish(TopicLowStock, models.LowStockAlert{
			ProductID:      product.ID,
			OrganizationID: product.OrganizationID,
			Name:           product.Name,
			StockQuantity:  product.StockQuantity,
			MinStockAlert:  product.MinStockAlert,
		})
	}
	return product, nil
}

func (s *catalogService) GetLowStockProducts(orgID uuid.UUID) ([]models.Product, error) {
	products, err := s.productRepo.GetLowStockProducts(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get low stock products: %w", err)
	}
	return products, nil
}

func (s *catalogService) GetStockMovements(orgID uuid.UUID, productID *uuid.UUID, page, pageSize int) ([]models.StockMovement, int, error) {
	movements, totalCount, err := s.movementRepo.GetMovements(orgID, productID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock movements: %w", err)
	}
	return movements, totalCount, nil
}
