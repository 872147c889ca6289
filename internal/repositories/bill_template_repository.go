package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tintshop_backend/internal/models"

	"github.com/google/uuid"
)

// BillTemplateRepository defines the interface for recurring-bill templates.
type BillTemplateRepository interface {
	CreateTemplate(executor SQLExecutor, template *models.BillTemplate) (uuid.UUID, error)
	GetTemplateByID(orgID, templateID uuid.UUID) (*models.BillTemplate, error)
	GetTemplates(orgID uuid.UUID) ([]models.BillTemplate, error)
	UpdateTemplate(executor SQLExecutor, template *models.BillTemplate) error
	DeleteTemplate(executor SQLExecutor, orgID, templateID uuid.UUID) error
}

type billTemplateRepository struct {
	db *sql.DB
}

// NewBillTemplateRepository creates a new instance of BillTemplateRepository.
func NewBillTemplateRepository(db *sql.DB) BillTemplateRepository {
	return &billTemplateRepository{db: db}
}

const billTemplateColumns = `id, organization_id, name, due_day, category, kind, default_amount, created_at, updated_at`

func scanBillTemplate(row interface{ Scan(...interface{}) error }, t *models.BillTemplate) error {
	return row.Scan(
		&t.ID, &t.OrganizationID, &t.Name, &t.DueDay, &t.Category, &t.Kind,
		&t.DefaultAmount, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *billTemplateRepository) CreateTemplate(executor SQLExecutor, template *models.BillTemplate) (uuid.UUID, error) {
	query := `INSERT INTO bill_templates
	            (id, organization_id, name, due_day, category, kind, default_amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	currentTime := time.Now()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = currentTime
	}
	template.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		template.ID, template.OrganizationID, template.Name, template.DueDay,
		template.Category, template.Kind, template.DefaultAmount,
		template.CreatedAt, template.UpdatedAt,
	).Scan(&template.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: creating bill template: %v", ErrDatabaseError, err)
	}
	return template.ID, nil
}

func (r *billTemplateRepository) GetTemplateByID(orgID, templateID uuid.UUID) (*models.BillTemplate, error) {
	template := &models.BillTemplate{}
	query := `SELECT ` + billTemplateColumns + ` FROM bill_templates WHERE organization_id = $1 AND id = $2`
	err := scanBillTemplate(r.db.QueryRow(query, orgID, templateID), template)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting bill template %s: %v", ErrDatabaseError, templateID, err)
	}
	return template, nil
}

func (r *billTemplateRepository) GetTemplates(orgID uuid.UUID) ([]models.BillTemplate, error) {
	templates := []models.BillTemplate{}
	query := `SELECT ` + billTemplateColumns + ` FROM bill_templates WHERE organization_id = $1 ORDER BY due_day, name`
	rows, err := r.db.Query(query, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying bill templates: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.BillTemplate
		if err := scanBillTemplate(rows, &t); err != nil {
			return nil, fmt.Errorf("%w: scanning bill template: %v", ErrDatabaseError, err)
		}
		templates = append(templates, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating bill template rows: %v", ErrDatabaseError, err)
	}
	return templates, nil
}

func (r *billTemplateRepository) UpdateTemplate(executor SQLExecutor, template *models.BillTemplate) error {
	query := `UPDATE bill_templates
	          SET name = $1, due_day = $2, category = $3, kind = $4, default_amount = $5, updated_at = $6
	          WHERE organization_id = $7 AND id = $8`
	result, err := executor.Exec(query,
		template.Name, template.DueDay, template.Category, template.Kind,
		template.DefaultAmount, time.Now(), template.OrganizationID, template.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating bill template %s: %v", ErrDatabaseError, template.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *billTemplateRepository) DeleteTemplate(executor SQLExecutor, orgID, templateID uuid.UUID) error {
	result, err := executor.Exec(`DELETE FROM bill_templates WHERE organization_id = $1 AND id = $2`, orgID, templateID)
	if err != nil {
		return fmt.Errorf("%w: deleting bill template %s: %v", ErrDatabaseError, templateID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
