package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tintshop_backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for catalog database operations.
// Every method is scoped by organization; cross-tenant reads are impossible by
// construction.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (uuid.UUID, error)
	GetProductByID(orgID, productID uuid.UUID) (*models.Product, error)
	GetProducts(orgID uuid.UUID, filters models.ProductFilters) ([]models.Product, int, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, orgID, productID uuid.UUID) error

	// AdjustStock applies a delta to stock_quantity in a single UPDATE so the
	// mutation is never an absolute overwrite from a stale read. Returns the
	// updated row.
	AdjustStock(executor SQLExecutor, orgID, productID uuid.UUID, delta decimal.Decimal) (*models.Product, error)
	GetLowStockProducts(orgID uuid.UUID) ([]models.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, organization_id, name, category, type, stock_quantity,
	min_stock_alert, cost_price, sale_price, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }, p *models.Product) error {
	return row.Scan(
		&p.ID, &p.OrganizationID, &p.Name, &p.Category, &p.Type, &p.StockQuantity,
		&p.MinStockAlert, &p.CostPrice, &p.SalePrice, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (uuid.UUID, error) {
	query := `INSERT INTO products
	            (id, organization_id, name, category, type, stock_quantity,
	             min_stock_alert, cost_price, sale_price, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	currentTime := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = currentTime
	}
	product.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		product.ID, product.OrganizationID, product.Name, product.Category, product.Type,
		product.StockQuantity, product.MinStockAlert, product.CostPrice, product.SalePrice,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return uuid.Nil, fmt.Errorf("%w: product %q (constraint: %s)", ErrDuplicateKey, product.Name, pqErr.Constraint)
		}
		return uuid.Nil, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *productRepository) GetProductByID(orgID, productID uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE organization_id = $1 AND id = $2`
	err := scanProduct(r.db.QueryRow(query, orgID, productID), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product %s: %v", ErrDatabaseError, productID, err)
	}
	return product, nil
}

func (r *productRepository) GetProducts(orgID uuid.UUID, filters models.ProductFilters) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + productColumns + `, COUNT(*) OVER() AS total_count
	  FROM products WHERE organization_id = $1`)

	args := []interface{}{orgID}
	argCount := 2

	if filters.Search != nil && *filters.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND name ILIKE $%d", argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}
	if filters.Category != nil && *filters.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY name")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (filters.Page-1)*filters.PageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.Name, &p.Category, &p.Type, &p.StockQuantity,
			&p.MinStockAlert, &p.CostPrice, &p.SalePrice, &p.CreatedAt, &p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products
	          SET name = $1, category = $2, type = $3, min_stock_alert = $4,
	              cost_price = $5, sale_price = $6, updated_at = $7
	          WHERE organization_id = $8 AND id = $9`
	result, err := executor.Exec(query,
		product.Name, product.Category, product.Type, product.MinStockAlert,
		product.CostPrice, product.SalePrice, time.Now(),
		product.OrganizationID, product.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating product %s: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(executor SQLExecutor, orgID, productID uuid.UUID) error {
	result, err := executor.Exec(`DELETE FROM products WHERE organization_id = $1 AND id = $2`, orgID, productID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: product %s is referenced by other records: %v", ErrDatabaseError, productID, err)
		}
		return fmt.Errorf("%w: deleting product %s: %v", ErrDatabaseError, productID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) AdjustStock(executor SQLExecutor, orgID, productID uuid.UUID, delta decimal.Decimal) (*models.Product, error) {
	product := &models.Product{}
	query := `UPDATE products
	          SET stock_quantity = stock_quantity + $1, updated_at = $2
	          WHERE organization_id = $3 AND id = $4
	          RETURNING ` + productColumns
	err := scanProduct(executor.QueryRow(query, delta, time.Now(), orgID, productID), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: adjusting stock for product %s: %v", ErrDatabaseError, productID, err)
	}
	return product, nil
}

func (r *productRepository) GetLowStockProducts(orgID uuid.UUID) ([]models.Product, error) {
	products := []models.Product{}
	query := `SELECT ` + productColumns + `
	          FROM products
	          WHERE organization_id = $1 AND stock_quantity <= min_stock_alert
	          ORDER BY name`
	rows, err := r.db.Query(query, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying low stock products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("%w: scanning low stock product: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating low stock rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}
