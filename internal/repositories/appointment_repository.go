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

// AppointmentRepository defines the interface for appointment database operations.
type AppointmentRepository interface {
	CreateAppointment(executor SQLExecutor, appointment *models.Appointment) (uuid.UUID, error)
	GetAppointmentByID(orgID, appointmentID uuid.UUID) (*models.Appointment, error)
	GetAppointments(orgID uuid.UUID, filters models.AppointmentFilters) ([]models.Appointment, int, error)
	UpdateAppointment(executor SQLExecutor, appointment *models.Appointment) error
	DeleteAppointment(executor SQLExecutor, orgID, appointmentID uuid.UUID) error
}

type appointmentRepository struct {
	db *sql.DB
}

// NewAppointmentRepository creates a new instance of AppointmentRepository.
func NewAppointmentRepository(db *sql.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) CreateAppointment(executor SQLExecutor, appointment *models.Appointment) (uuid.UUID, error) {
	query := `INSERT INTO appointments
	            (id, organization_id, client_id, title, start_time, end_time, status,
	             price_total, product_id, stock_reserved, transaction_id, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	currentTime := time.Now()
	if appointment.CreatedAt.IsZero() {
		appointment.CreatedAt = currentTime
	}
	appointment.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		appointment.ID, appointment.OrganizationID, appointment.ClientID, appointment.Title,
		appointment.StartTime, appointment.EndTime, appointment.Status, appointment.PriceTotal,
		appointment.ProductID, appointment.StockReserved, appointment.TransactionID,
		appointment.Notes, appointment.CreatedAt, appointment.UpdatedAt,
	).Scan(&appointment.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: creating appointment: %v", ErrDatabaseError, err)
	}
	return appointment.ID, nil
}

func (r *appointmentRepository) GetAppointmentByID(orgID, appointmentID uuid.UUID) (*models.Appointment, error) {
	appointment := &models.Appointment{}
	var clientName, clientPhone, clientCar sql.NullString

	query := `
		SELECT a.id, a.organization_id, a.client_id, a.title, a.start_time, a.end_time,
		       a.status, a.price_total, a.product_id, a.stock_reserved, a.transaction_id,
		       a.notes, a.created_at, a.updated_at,
		       c.name, c.phone, c.car_model
		FROM appointments a
		LEFT JOIN clients c ON a.client_id = c.id
		WHERE a.organization_id = $1 AND a.id = $2`

	err := r.db.QueryRow(query, orgID, appointmentID).Scan(
		&appointment.ID, &appointment.OrganizationID, &appointment.ClientID, &appointment.Title,
		&appointment.StartTime, &appointment.EndTime, &appointment.Status, &appointment.PriceTotal,
		&appointment.ProductID, &appointment.StockReserved, &appointment.TransactionID,
		&appointment.Notes, &appointment.CreatedAt, &appointment.UpdatedAt,
		&clientName, &clientPhone, &clientCar,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting appointment %s: %v", ErrDatabaseError, appointmentID, err)
	}

	if appointment.ClientID != nil && clientName.Valid {
		client := &models.Client{ID: *appointment.ClientID, Name: clientName.String}
		if clientPhone.Valid {
			phone := clientPhone.String
			client.Phone = &phone
		}
		if clientCar.Valid {
			car := clientCar.String
			client.CarModel = &car
		}
		appointment.Client = client
	}
	return appointment, nil
}

func (r *appointmentRepository) GetAppointments(orgID uuid.UUID, filters models.AppointmentFilters) ([]models.Appointment, int, error) {
	appointments := []models.Appointment{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT a.id, a.organization_id, a.client_id, a.title, a.start_time, a.end_time,
		       a.status, a.price_total, a.product_id, a.stock_reserved, a.transaction_id,
		       a.notes, a.created_at, a.updated_at,
		       c.name, c.phone, c.car_model,
		       COUNT(*) OVER() AS total_count
		FROM appointments a
		LEFT JOIN clients c ON a.client_id = c.id
		WHERE a.organization_id = $1`)

	args := []interface{}{orgID}
	argCount := 2

	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err == nil {
			startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
			endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
			queryBuilder.WriteString(fmt.Sprintf(" AND a.start_time BETWEEN $%d AND $%d", argCount, argCount+1))
			args = append(args, startOfDay, endOfDay)
			argCount += 2
		}
	}
	if filters.Status != nil && *filters.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND a.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.ClientID != nil && *filters.ClientID != "" {
		if clientID, err := uuid.Parse(*filters.ClientID); err == nil {
			queryBuilder.WriteString(fmt.Sprintf(" AND a.client_id = $%d", argCount))
			args = append(args, clientID)
			argCount++
		}
	}

	queryBuilder.WriteString(" ORDER BY a.start_time")

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
		return nil, 0, fmt.Errorf("%w: querying appointments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Appointment
		var clientName, clientPhone, clientCar sql.NullString
		if err := rows.Scan(
			&a.ID, &a.OrganizationID, &a.ClientID, &a.Title, &a.StartTime, &a.EndTime,
			&a.Status, &a.PriceTotal, &a.ProductID, &a.StockReserved, &a.TransactionID,
			&a.Notes, &a.CreatedAt, &a.UpdatedAt,
			&clientName, &clientPhone, &clientCar, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning appointment: %v", ErrDatabaseError, err)
		}
		if a.ClientID != nil && clientName.Valid {
			client := &models.Client{ID: *a.ClientID, Name: clientName.String}
			if clientPhone.Valid {
				phone := clientPhone.String
				client.Phone = &phone
			}
			if clientCar.Valid {
				car := clientCar.String
				client.CarModel = &car
			}
			a.Client = client
		}
		appointments = append(appointments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating appointment rows: %v", ErrDatabaseError, err)
	}
	return appointments, totalCount, nil
}

func (r *appointmentRepository) UpdateAppointment(executor SQLExecutor, appointment *models.Appointment) error {
	query := `UPDATE appointments
	          SET client_id = $1, title = $2, start_time = $3, end_time = $4, status = $5,
	              price_total = $6, product_id = $7, stock_reserved = $8, transaction_id = $9,
	              notes = $10, updated_at = $11
	          WHERE organization_id = $12 AND id = $13`
	result, err := executor.Exec(query,
		appointment.ClientID, appointment.Title, appointment.StartTime, appointment.EndTime,
		appointment.Status, appointment.PriceTotal, appointment.ProductID, appointment.StockReserved,
		appointment.TransactionID, appointment.Notes, time.Now(),
		appointment.OrganizationID, appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating appointment %s: %v", ErrDatabaseError, appointment.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) DeleteAppointment(executor SQLExecutor, orgID, appointmentID uuid.UUID) error {
	result, err := executor.Exec(`DELETE FROM appointments WHERE organization_id = $1 AND id = $2`, orgID, appointmentID)
	if err != nil {
		return fmt.Errorf("%w: deleting appointment %s: %v", ErrDatabaseError, appointmentID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
