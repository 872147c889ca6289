package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tintshop_backend/internal/models"

	"github.com/google/uuid"
)

// StockMovementRepository records and lists the stock audit trail.
type StockMovementRepository interface {
	CreateMovement(executor SQLExecutor, movement *models.StockMovement) (uuid.UUID, error)
	GetMovements(orgID uuid.UUID, productID *uuid.UUID, page, pageSize int) ([]models.StockMovement, int, error)
}

type stockMovementRepository struct {
	db *sql.DB
}

// NewStockMovementRepository creates a new instance of StockMovementRepository.
func NewStockMovementRepository(db *sql.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) CreateMovement(executor SQLExecutor, movement *models.StockMovement) (uuid.UUID, error) {
	query := `INSERT INTO stock_movements
	            (id, organization_id, product_id, quantity_delta, reason, reference, movement_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	if movement.MovementDate.IsZero() {
		movement.MovementDate = time.Now()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		movement.ID, movement.OrganizationID, movement.ProductID, movement.QuantityDelta,
		movement.Reason, movement.Reference, movement.MovementDate, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: creating stock movement: %v", ErrDatabaseError, err)
	}
	return movement.ID, nil
}

func (r *stockMovementRepository) GetMovements(orgID uuid.UUID, productID *uuid.UUID, page, pageSize int) ([]models.StockMovement, int, error) {
	movements := []models.StockMovement{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT sm.id, sm.organization_id, sm.product_id, sm.quantity_delta, sm.reason,
		       sm.reference, sm.movement_date, sm.created_at,
		       p.name AS product_name,
		       COUNT(*) OVER() AS total_count
		FROM stock_movements sm
		JOIN products p ON sm.product_id = p.id
		WHERE sm.organization_id = $1`)

	args := []interface{}{orgID}
	argCount := 2

	if productID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND sm.product_id = $%d", argCount))
		args = append(args, *productID)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY sm.movement_date DESC, sm.created_at DESC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying stock movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.StockMovement
		var productName sql.NullString
		if err := rows.Scan(
			&m.ID, &m.OrganizationID, &m.ProductID, &m.QuantityDelta, &m.Reason,
			&m.Reference, &m.MovementDate, &m.CreatedAt,
			&productName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock movement: %v", ErrDatabaseError, err)
		}
		if productName.Valid {
			m.Product = &models.Product{ID: m.ProductID, Name: productName.String}
		}
		movements = append(movements, m)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock movement rows: %v", ErrDatabaseError, err)
	}
	return movements, totalCount, nil
}
