package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tintshop_backend/internal/models"

	"github.com/google/uuid"
)

// TransactionRepository defines the interface for ledger database operations.
type TransactionRepository interface {
	CreateTransaction(executor SQLExecutor, tx *models.Transaction) (uuid.UUID, error)
	GetTransactionByID(orgID, txID uuid.UUID) (*models.Transaction, error)

	// GetTransactionsByPeriod returns entries with date in [start, end],
	// ordered date DESC with created_at DESC breaking same-day ties.
	GetTransactionsByPeriod(orgID uuid.UUID, start, end models.CivilDate) ([]models.Transaction, error)
	UpdateTransaction(executor SQLExecutor, tx *models.Transaction) error
	DeleteTransaction(executor SQLExecutor, orgID, txID uuid.UUID) error

	// ExistsForTemplateInRange reports whether the bill template already has an
	// instance dated within [start, end]. The generator's idempotence check.
	ExistsForTemplateInRange(orgID, templateID uuid.UUID, start, end models.CivilDate) (bool, error)
}

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, organization_id, description, amount, cost_amount, category,
	payment_method, type, status, date, bill_template_id, created_at, updated_at`

func scanTransaction(row interface{ Scan(...interface{}) error }, t *models.Transaction) error {
	return row.Scan(
		&t.ID, &t.OrganizationID, &t.Description, &t.Amount, &t.CostAmount, &t.Category,
		&t.PaymentMethod, &t.Type, &t.Status, &t.Date, &t.BillTemplateID, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *transactionRepository) CreateTransaction(executor SQLExecutor, tx *models.Transaction) (uuid.UUID, error) {
	query := `INSERT INTO transactions
	            (id, organization_id, description, amount, cost_amount, category,
	             payment_method, type, status, date, bill_template_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	currentTime := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = currentTime
	}
	tx.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		tx.ID, tx.OrganizationID, tx.Description, tx.Amount, tx.CostAmount, tx.Category,
		tx.PaymentMethod, tx.Type, tx.Status, tx.Date, tx.BillTemplateID, tx.CreatedAt, tx.UpdatedAt,
	).Scan(&tx.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: creating transaction: %v", ErrDatabaseError, err)
	}
	return tx.ID, nil
}

func (r *transactionRepository) GetTransactionByID(orgID, txID uuid.UUID) (*models.Transaction, error) {
	tx := &models.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE organization_id = $1 AND id = $2`
	err := scanTransaction(r.db.QueryRow(query, orgID, txID), tx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting transaction %s: %v", ErrDatabaseError, txID, err)
	}
	return tx, nil
}

func (r *transactionRepository) GetTransactionsByPeriod(orgID uuid.UUID, start, end models.CivilDate) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	query := `SELECT ` + transactionColumns + `
	          FROM transactions
	          WHERE organization_id = $1 AND date >= $2 AND date <= $3
	          ORDER BY date DESC, created_at DESC`
	rows, err := r.db.Query(query, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: querying transactions for period %s..%s: %v", ErrDatabaseError, start, end, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("%w: scanning transaction: %v", ErrDatabaseError, err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating transaction rows: %v", ErrDatabaseError, err)
	}
	return transactions, nil
}

func (r *transactionRepository) UpdateTransaction(executor SQLExecutor, tx *models.Transaction) error {
	query := `UPDATE transactions
	          SET description = $1, amount = $2, cost_amount = $3, category = $4,
	              payment_method = $5, status = $6, date = $7, updated_at = $8
	          WHERE organization_id = $9 AND id = $10`
	result, err := executor.Exec(query,
		tx.Description, tx.Amount, tx.CostAmount, tx.Category,
		tx.PaymentMethod, tx.Status, tx.Date, time.Now(),
		tx.OrganizationID, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating transaction %s: %v", ErrDatabaseError, tx.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transactionRepository) DeleteTransaction(executor SQLExecutor, orgID, txID uuid.UUID) error {
	result, err := executor.Exec(`DELETE FROM transactions WHERE organization_id = $1 AND id = $2`, orgID, txID)
	if err != nil {
		return fmt.Errorf("%w: deleting transaction %s: %v", ErrDatabaseError, txID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transactionRepository) ExistsForTemplateInRange(orgID, templateID uuid.UUID, start, end models.CivilDate) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM transactions
	          WHERE organization_id = $1 AND bill_template_id = $2 AND date >= $3 AND date <= $4`
	err := r.db.QueryRow(query, orgID, templateID, start, end).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: checking bill instance for template %s: %v", ErrDatabaseError, templateID, err)
	}
	return count > 0, nil
}
