package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/repositories"
	"tintshop_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

// CheckoutLine is one cart line. UnitPrice overrides the product's sale price
// when set, covering ad-hoc discounts at the counter.
type CheckoutLine struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CheckoutScheduleRequest asks the sale to also book an installation slot.
type CheckoutScheduleRequest struct {
	ClientID  *uuid.UUID `json:"client_id"`
	Title     string     `json:"title" binding:"required"`
	StartTime time.Time  `json:"start_time" binding:"required"`
	EndTime   time.Time  `json:"end_time" binding:"required"`
	Notes     *string    `json:"notes"`
}

// CheckoutRequest is the full sale submitted from the counter. Date defaults
// to today; setting it backdates the ledger entry, which the counter uses when
// entering yesterday's unrecorded sales.
type CheckoutRequest struct {
	Items         []CheckoutLine           `json:"items" binding:"required,dive"`
	PaymentMethod *string                  `json:"payment_method"`
	OverrideTotal *decimal.Decimal         `json:"override_total"`
	DeductStock   *bool                    `json:"deduct_stock"`
	Date          *models.CivilDate        `json:"date"`
	Schedule      *CheckoutScheduleRequest `json:"schedule"`
}

// CheckoutResult is what a completed checkout returns. Warnings carry the
// steps that failed after the ledger entry was committed.
type CheckoutResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Appointment *models.Appointment `json:"appointment,omitempty"`
	Warnings    []string            `json:"warnings"`
}

// --- CheckoutService Interface ---

// CheckoutService turns a cart into a paid income entry plus best-effort stock
// deductions. The ledger write is the commit point: once it lands, stock or
// scheduling failures degrade to warnings instead of rolling the sale back.
type CheckoutService interface {
	Checkout(orgID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	productRepo     repositories.ProductRepository
	movementRepo    repositories.StockMovementRepository
	transactionRepo repositories.TransactionRepository
	appointmentRepo repositories.AppointmentRepository
	db              *sql.DB
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(
	pr repositories.ProductRepository,
	mr repositories.StockMovementRepository,
	tr repositories.TransactionRepository,
	ar repositories.AppointmentRepository,
	db *sql.DB,
) CheckoutService {
	return &checkoutService{
		productRepo:     pr,
		movementRepo:    mr,
		transactionRepo: tr,
		appointmentRepo: ar,
		db:              db,
	}
}

func (s *checkoutService) Checkout(orgID uuid.UUID, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart must not be empty", ErrValidation)
	}
	if req.OverrideTotal != nil && req.OverrideTotal.IsNegative() {
		return nil, fmt.Errorf("%w: override_total must not be negative", ErrValidation)
	}

	// Load and validate every line before writing anything. A missing product
	// aborts the whole sale; after this point failures no longer do.
	products := make([]*models.Product, len(req.Items))
	for i, line := range req.Items {
		if !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: quantity for product %s must be positive", ErrValidation, line.ProductID)
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit_price for product %s must not be negative", ErrValidation, line.ProductID)
		}
		product, err := s.productRepo.GetProductByID(orgID, line.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
			}
			return nil, fmt.Errorf("failed to load product %s: %w", line.ProductID, err)
		}
		products[i] = product
	}

	total := decimal.Zero
	cost := decimal.Zero
	names := make([]string, 0, len(req.Items))
	for i, line := range req.Items {
		unitPrice := products[i].SalePrice
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		total = total.Add(unitPrice.Mul(line.Quantity))
		// Cost of goods uses the product's cost price as of this sale, not a
		// historical snapshot.
		cost = cost.Add(products[i].CostPrice.Mul(line.Quantity))
		names = append(names, fmt.Sprintf("%s x%s", products[i].Name, line.Quantity))
	}
	if req.OverrideTotal != nil {
		total = *req.OverrideTotal
	}

	date := models.Today()
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}

	transaction := models.Transaction{
		OrganizationID: orgID,
		Description:    "Sale: " + strings.Join(names, ", "),
		Amount:         total,
		CostAmount:     models.DecimalPtr(cost),
		PaymentMethod:  req.PaymentMethod,
		Type:           models.TransactionTypeIncome,
		Status:         models.TransactionStatusPaid,
		Date:           date,
	}
	if _, err := s.transactionRepo.CreateTransaction(s.db, &transaction); err != nil {
		return nil, fmt.Errorf("failed to append sale transaction: %w", err)
	}

	result := &CheckoutResult{Transaction: &transaction, Warnings: []string{}}

	deductStock := req.DeductStock == nil || *req.DeductStock
	if deductStock {
		reference := "sale " + transaction.ID.String()
		for i, line := range req.Items {
			if err := s.deductLine(orgID, line.ProductID, line.Quantity, reference); err != nil {
				warning := fmt.Sprintf("stock deduction failed for %s: %v", products[i].Name, err)
				utils.LogError(err, "checkout: "+warning)
				result.Warnings = append(result.Warnings, warning)
			}
		}
	}

	if req.Schedule != nil {
		transactionID := transaction.ID
		appointment := models.Appointment{
			OrganizationID: orgID,
			ClientID:       req.Schedule.ClientID,
			Title:          req.Schedule.Title,
			StartTime:      req.Schedule.StartTime,
			EndTime:        req.Schedule.EndTime,
			Status:         models.AppointmentStatusConfirmed,
			PriceTotal:     total,
			TransactionID:  &transactionID,
			Notes:          req.Schedule.Notes,
		}
		if _, err := s.appointmentRepo.CreateAppointment(s.db, &appointment); err != nil {
			warning := fmt.Sprintf("failed to schedule installation: %v", err)
			utils.LogError(err, "checkout: "+warning)
			result.Warnings = append(result.Warnings, warning)
		} else {
			result.Appointment = &appointment
		}
	}

	return result, nil
}

// deductLine applies one sale deduction with its movement record atomically.
// Stock may go negative; only persistence failures bubble up.
func (s *checkoutService) deductLine(orgID, productID uuid.UUID, quantity decimal.Decimal, reference string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.productRepo.AdjustStock(tx, orgID, productID, quantity.Neg()); err != nil {
		return err
	}
	movement := models.StockMovement{
		OrganizationID: orgID,
		ProductID:      productID,
		QuantityDelta:  quantity.Neg(),
		Reason:         models.MovementReasonSale,
		Reference:      models.NewNullString(reference),
	}
	if _, err := s.movementRepo.CreateMovement(tx, &movement); err != nil {
		return err
	}
	return tx.Commit()
}
