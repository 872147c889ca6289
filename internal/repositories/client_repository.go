package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tintshop_backend/internal/models"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client database operations.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (uuid.UUID, error)
	GetClientByID(orgID, clientID uuid.UUID) (*models.Client, error)
	GetClients(orgID uuid.UUID, filters models.ClientFilters) ([]models.Client, int, error)
	UpdateClient(executor SQLExecutor, client *models.Client) error
	DeleteClient(executor SQLExecutor, orgID, clientID uuid.UUID) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, organization_id, name, phone, car_model, notes, created_at, updated_at`

func scanClient(row interface{ Scan(...interface{}) error }, c *models.Client) error {
	return row.Scan(
		&c.ID, &c.OrganizationID, &c.Name, &c.Phone, &c.CarModel, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (uuid.UUID, error) {
	query := `INSERT INTO clients
	            (id, organization_id, name, phone, car_model, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	currentTime := time.Now()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = currentTime
	}
	client.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		client.ID, client.OrganizationID, client.Name, client.Phone,
		client.CarModel, client.Notes, client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
	}
	return client.ID, nil
}

func (r *clientRepository) GetClientByID(orgID, clientID uuid.UUID) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE organization_id = $1 AND id = $2`
	err := scanClient(r.db.QueryRow(query, orgID, clientID), client)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client %s: %v", ErrDatabaseError, clientID, err)
	}
	return client, nil
}

func (r *clientRepository) GetClients(orgID uuid.UUID, filters models.ClientFilters) ([]models.Client, int, error) {
	clients := []models.Client{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + clientColumns + `, COUNT(*) OVER() AS total_count
	  FROM clients WHERE organization_id = $1`)

	args := []interface{}{orgID}
	argCount := 2

	if filters.Search != nil && *filters.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d OR car_model ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, "%"+*filters.Search+"%")
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
		return nil, 0, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Client
		if err := rows.Scan(
			&c.ID, &c.OrganizationID, &c.Name, &c.Phone, &c.CarModel, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, totalCount, nil
}

func (r *clientRepository) UpdateClient(executor SQLExecutor, client *models.Client) error {
	query := `UPDATE clients
	          SET name = $1, phone = $2, car_model = $3, notes = $4, updated_at = $5
	          WHERE organization_id = $6 AND id = $7`
	result, err := executor.Exec(query,
		client.Name, client.Phone, client.CarModel, client.Notes, time.Now(),
		client.OrganizationID, client.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating client %s: %v", ErrDatabaseError, client.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *clientRepository) DeleteClient(executor SQLExecutor, orgID, clientID uuid.UUID) error {
	result, err := executor.Exec(`DELETE FROM clients WHERE organization_id = $1 AND id = $2`, orgID, clientID)
	if err != nil {
		return fmt.Errorf("%w: deleting client %s: %v", ErrDatabaseError, clientID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
