package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

// AppendTransactionRequest is used for appending a ledger entry.
type AppendTransactionRequest struct {
	Description   string           `json:"description" binding:"required"`
	Amount        decimal.Decimal  `json:"amount"`
	CostAmount    *decimal.Decimal `json:"cost_amount"`
	Category      *string          `json:"category"`
	PaymentMethod *string          `json:"payment_method"`
	Type          string           `json:"type" binding:"required"`
	Status        *string          `json:"status"`
	Date          *models.CivilDate `json:"date"`
}

// UpdateTransactionRequest is used for editing a ledger entry. Type is fixed at
// append time; only settlement and descriptive fields change afterwards.
type UpdateTransactionRequest struct {
	Description   *string          `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	CostAmount    *decimal.Decimal `json:"cost_amount"`
	Category      *string          `json:"category"`
	PaymentMethod *string          `json:"payment_method"`
	Status        *string          `json:"status"`
	Date          *models.CivilDate `json:"date"`
}

// --- LedgerService Interface ---

type LedgerService interface {
	Append(orgID uuid.UUID, req AppendTransactionRequest) (*models.Transaction, error)
	GetByID(orgID, txID uuid.UUID) (*models.Transaction, error)
	Update(orgID, txID uuid.UUID, req UpdateTransactionRequest) (*models.Transaction, error)
	Remove(orgID, txID uuid.UUID) error
	QueryByPeriod(orgID uuid.UUID, start, end models.CivilDate) ([]models.Transaction, error)
}

type ledgerService struct {
	transactionRepo repositories.TransactionRepository
	db              *sql.DB
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(tr repositories.TransactionRepository, db *sql.DB) LedgerService {
	return &ledgerService{transactionRepo: tr, db: db}
}

func (s *ledgerService) Append(orgID uuid.UUID, req AppendTransactionRequest) (*models.Transaction, error) {
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if req.CostAmount != nil && req.CostAmount.IsNegative() {
		return nil, fmt.Errorf("%w: cost_amount must not be negative", ErrValidation)
	}
	if !models.IsValidTransactionType(req.Type) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, req.Type)
	}

	status := models.TransactionStatusPending
	if req.Status != nil {
		if !models.IsValidTransactionStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown transaction status %q", ErrValidation, *req.Status)
		}
		status = models.TransactionStatus(*req.Status)
	}

	date := models.Today()
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}

	tx := models.Transaction{
		OrganizationID: orgID,
		Description:    req.Description,
		Amount:         req.Amount,
		CostAmount:     req.CostAmount,
		Category:       req.Category,
		PaymentMethod:  req.PaymentMethod,
		Type:           models.TransactionType(req.Type),
		Status:         status,
		Date:           date,
	}
	if _, err := s.transactionRepo.CreateTransaction(s.db, &tx); err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}
	return &tx, nil
}

func (s *ledgerService) GetByID(orgID, txID uuid.UUID) (*models.Transaction, error) {
	tx, err := s.transactionRepo.GetTransactionByID(orgID, txID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

func (s *ledgerService) Update(orgID, txID uuid.UUID, req UpdateTransactionRequest) (*models.Transaction, error) {
	tx, err := s.transactionRepo.GetTransactionByID(orgID, txID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to fetch transaction for update: %w", err)
	}

	if req.Description != nil {
		if *req.Description == "" {
			return nil, fmt.Errorf("%w: description must not be empty", ErrValidation)
		}
		tx.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: amount must not be negative", ErrValidation)
		}
		tx.Amount = *req.Amount
	}
	if req.CostAmount != nil {
		if req.CostAmount.IsNegative() {
			return nil, fmt.Errorf("%w: cost_amount must not be negative", ErrValidation)
		}
		tx.CostAmount = req.CostAmount
	}
	if req.Category != nil {
		tx.Category = req.Category
	}
	if req.PaymentMethod != nil {
		tx.PaymentMethod = req.PaymentMethod
	}
	if req.Status != nil {
		if !models.IsValidTransactionStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown transaction status %q", ErrValidation, *req.Status)
		}
		tx.Status = models.TransactionStatus(*req.Status)
	}
	if req.Date != nil && !req.Date.IsZero() {
		tx.Date = *req.Date
	}

	if err := s.transactionRepo.UpdateTransaction(s.db, tx); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return tx, nil
}

func (s *ledgerService) Remove(orgID, txID uuid.UUID) error {
	err := s.transactionRepo.DeleteTransaction(s.db, orgID, txID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *ledgerService) QueryByPeriod(orgID uuid.UUID, start, end models.CivilDate) ([]models.Transaction, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}
	transactions, err := s.transactionRepo.GetTransactionsByPeriod(orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by period: %w", err)
	}
	return transactions, nil
}
