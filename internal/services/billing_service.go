package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/repositories"
	"tintshop_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

// CreateBillTemplateRequest is used for creating a recurring bill template.
type CreateBillTemplateRequest struct {
	Name          string           `json:"name" binding:"required"`
	DueDay        int              `json:"due_day" binding:"required"`
	Category      *string          `json:"category"`
	Kind          string           `json:"kind" binding:"required"`
	DefaultAmount *decimal.Decimal `json:"default_amount"`
}

// UpdateBillTemplateRequest is used for editing a recurring bill template.
// Edits affect future months only; already-generated instances keep their values.
type UpdateBillTemplateRequest struct {
	Name          *string          `json:"name"`
	DueDay        *int             `json:"due_day"`
	Category      *string          `json:"category"`
	Kind          *string          `json:"kind"`
	DefaultAmount *decimal.Decimal `json:"default_amount"`
}

// --- BillingService Interface ---

type BillingService interface {
	CreateTemplate(orgID uuid.UUID, req CreateBillTemplateRequest) (*models.BillTemplate, error)
	GetTemplateByID(orgID, templateID uuid.UUID) (*models.BillTemplate, error)
	GetTemplates(orgID uuid.UUID) ([]models.BillTemplate, error)
	UpdateTemplate(orgID, templateID uuid.UUID, req UpdateBillTemplateRequest) (*models.BillTemplate, error)
	DeleteTemplate(orgID, templateID uuid.UUID) error

	// EnsureMonth expands every template into at most one expense entry dated in
	// ref's calendar month. Re-running it for the same month appends nothing.
	// Returns the number of entries generated.
	EnsureMonth(orgID uuid.UUID, ref time.Time) (int, error)

	// MonthBills runs EnsureMonth and returns the month's bill instances.
	MonthBills(orgID uuid.UUID, ref time.Time) ([]models.Transaction, error)
}

type billingService struct {
	templateRepo    repositories.BillTemplateRepository
	transactionRepo repositories.TransactionRepository
	db              *sql.DB
}

// NewBillingService creates a new instance of BillingService.
func NewBillingService(
	btr repositories.BillTemplateRepository,
	tr repositories.TransactionRepository,
	db *sql.DB,
) BillingService {
	return &billingService{
		templateRepo:    btr,
		transactionRepo: tr,
		db:              db,
	}
}

func (s *billingService) CreateTemplate(orgID uuid.UUID, req CreateBillTemplateRequest) (*models.BillTemplate, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: template name is required", ErrValidation)
	}
	if req.DueDay < 1 || req.DueDay > 31 {
		return nil, fmt.Errorf("%w: due_day must be between 1 and 31, got %d", ErrValidation, req.DueDay)
	}
	if !models.IsValidBillKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown bill kind %q", ErrValidation, req.Kind)
	}

	template := models.BillTemplate{
		OrganizationID: orgID,
		Name:           req.Name,
		DueDay:         req.DueDay,
		Category:       req.Category,
		Kind:           models.BillKind(req.Kind),
	}
	if req.DefaultAmount != nil {
		if req.DefaultAmount.IsNegative() {
			return nil, fmt.Errorf("%w: default_amount must not be negative", ErrValidation)
		}
		template.DefaultAmount = *req.DefaultAmount
	}
	if template.Kind == models.BillKindFixed && template.DefaultAmount.IsZero() && req.DefaultAmount == nil {
		return nil, fmt.Errorf("%w: fixed bills require a default_amount", ErrValidation)
	}

	if _, err := s.templateRepo.CreateTemplate(s.db, &template); err != nil {
		return nil, fmt.Errorf("failed to create bill template: %w", err)
	}
	return &template, nil
}

func (s *billingService) GetTemplateByID(orgID, templateID uuid.UUID) (*models.BillTemplate, error) {
	template, err := s.templateRepo.GetTemplateByID(orgID, templateID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBillTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get bill template: %w", err)
	}
	return template, nil
}

func (s *billingService) GetTemplates(orgID uuid.UUID) ([]models.BillTemplate, error) {
	templates, err := s.templateRepo.GetTemplates(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill templates: %w", err)
	}
	return templates, nil
}

func (s *billingService) UpdateTemplate(orgID, templateID uuid.UUID, req UpdateBillTemplateRequest) (*models.BillTemplate, error) {
	template, err := s.templateRepo.GetTemplateByID(orgID, templateID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBillTemplateNotFound
		}
		return nil, fmt.Errorf("failed to fetch bill template for update: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: template name must not be empty", ErrValidation)
		}
		template.Name = *req.Name
	}
	if req.DueDay != nil {
		if *req.DueDay < 1 || *req.DueDay > 31 {
			return nil, fmt.Errorf("%w: due_day must be between 1 and 31, got %d", ErrValidation, *req.DueDay)
		}
		template.DueDay = *req.DueDay
	}
	if req.Category != nil {
		template.Category = req.Category
	}
	if req.Kind != nil {
		if !models.IsValidBillKind(*req.Kind) {
			return nil, fmt.Errorf("%w: unknown bill kind %q", ErrValidation, *req.Kind)
		}
		template.Kind = models.BillKind(*req.Kind)
	}
	if req.DefaultAmount != nil {
		if req.DefaultAmount.IsNegative() {
			return nil, fmt.Errorf("%w: default_amount must not be negative", ErrValidation)
		}
		template.DefaultAmount = *req.DefaultAmount
	}

	if err := s.templateRepo.UpdateTemplate(s.db, template); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBillTemplateNotFound
		}
		return nil, fmt.Errorf("failed to update bill template: %w", err)
	}
	return template, nil
}

func (s *billingService) DeleteTemplate(orgID, templateID uuid.UUID) error {
	err := s.templateRepo.DeleteTemplate(s.db, orgID, templateID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBillTemplateNotFound
		}
		return fmt.Errorf("failed to delete bill template: %w", err)
	}
	return nil
}

func (s *billingService) EnsureMonth(orgID uuid.UUID, ref time.Time) (int, error) {
	templates, err := s.templateRepo.GetTemplates(orgID)
	if err != nil {
		return 0, fmt.Errorf("failed to load templates for generation: %w", err)
	}

	month := models.CivilDateOf(ref)
	start, end := month.MonthStart(), month.MonthEnd()
	generated := 0

	for _, template := range templates {
		exists, err := s.transactionRepo.ExistsForTemplateInRange(orgID, template.ID, start, end)
		if err != nil {
			return generated, fmt.Errorf("failed idempotence check for template %s: %w", template.ID, err)
		}
		if exists {
			continue
		}

		// Variable bills start at zero; the user fills in the month's actual
		// value through a ledger update.
		amount := decimal.Zero
		if template.Kind == models.BillKindFixed {
			amount = template.DefaultAmount
		}

		templateID := template.ID
		entry := models.Transaction{
			OrganizationID: orgID,
			Description:    template.Name,
			Amount:         amount,
			Category:       template.Category,
			Type:           models.TransactionTypeExpense,
			Status:         models.TransactionStatusPending,
			Date:           month.WithDayClamped(template.DueDay),
			BillTemplateID: &templateID,
		}
		if _, err := s.transactionRepo.CreateTransaction(s.db, &entry); err != nil {
			return generated, fmt.Errorf("failed to generate bill for template %s: %w", template.ID, err)
		}
		generated++
		utils.LogInfo(fmt.Sprintf("generated bill %q for %s", template.Name, entry.Date))
	}
	return generated, nil
}

func (s *billingService) MonthBills(orgID uuid.UUID, ref time.Time) ([]models.Transaction, error) {
	if _, err := s.EnsureMonth(orgID, ref); err != nil {
		return nil, err
	}

	month := models.CivilDateOf(ref)
	all, err := s.transactionRepo.GetTransactionsByPeriod(orgID, month.MonthStart(), month.MonthEnd())
	if err != nil {
		return nil, fmt.Errorf("failed to list month bills: %w", err)
	}

	bills := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.BillTemplateID != nil {
			bills = append(bills, tx)
		}
	}
	return bills, nil
}
