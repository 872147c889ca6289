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

// AppointmentClientRequest creates a new client inline while booking.
type AppointmentClientRequest struct {
	Name     string  `json:"name" binding:"required"`
	Phone    *string `json:"phone"`
	CarModel *string `json:"car_model"`
}

// CreateAppointmentRequest books a service slot. Exactly one of ClientID or
// NewClient may be set. When ProductID is given with ReserveStock, one unit is
// deducted immediately and held until the slot is canceled or sold.
type CreateAppointmentRequest struct {
	ClientID          *uuid.UUID                `json:"client_id"`
	NewClient         *AppointmentClientRequest `json:"new_client"`
	Title             string                    `json:"title" binding:"required"`
	StartTime         time.Time                 `json:"start_time" binding:"required"`
	EndTime           time.Time                 `json:"end_time" binding:"required"`
	Status            *string                   `json:"status"`
	PriceTotal        *decimal.Decimal          `json:"price_total"`
	ProductID         *uuid.UUID                `json:"product_id"`
	ReserveStock      bool                      `json:"reserve_stock"`
	CreateTransaction bool                      `json:"create_transaction"`
	Notes             *string                   `json:"notes"`
}

// UpdateAppointmentRequest edits slot details. Status changes go through
// UpdateStatus so the transition table is never bypassed.
type UpdateAppointmentRequest struct {
	ClientID   *uuid.UUID       `json:"client_id"`
	Title      *string          `json:"title"`
	StartTime  *time.Time       `json:"start_time"`
	EndTime    *time.Time       `json:"end_time"`
	PriceTotal *decimal.Decimal `json:"price_total"`
	Notes      *string          `json:"notes"`
}

// CompleteAppointmentRequest finishes a slot, optionally recording the sale.
type CompleteAppointmentRequest struct {
	CreateSale    bool    `json:"create_sale"`
	PaymentMethod *string `json:"payment_method"`
}

// --- AppointmentService Interface ---

type AppointmentService interface {
	CreateAppointment(orgID uuid.UUID, req CreateAppointmentRequest) (*models.Appointment, error)
	GetAppointmentByID(orgID, appointmentID uuid.UUID) (*models.Appointment, error)
	GetAppointments(orgID uuid.UUID, filters models.AppointmentFilters) ([]models.Appointment, int, error)
	UpdateAppointment(orgID, appointmentID uuid.UUID, req UpdateAppointmentRequest) (*models.Appointment, error)

	// UpdateStatus applies one transition of the lifecycle. completed and
	// canceled are terminal. Canceling releases a held reservation.
	UpdateStatus(orgID, appointmentID uuid.UUID, status string) (*models.Appointment, error)

	// Complete moves the slot to completed and, when asked, records the sale
	// without deducting stock again.
	Complete(orgID, appointmentID uuid.UUID, req CompleteAppointmentRequest) (*models.Appointment, error)
	DeleteAppointment(orgID, appointmentID uuid.UUID) error
}

type appointmentService struct {
	appointmentRepo repositories.AppointmentRepository
	clientRepo      repositories.ClientRepository
	productRepo     repositories.ProductRepository
	movementRepo    repositories.StockMovementRepository
	transactionRepo repositories.TransactionRepository
	checkout        CheckoutService
	db              *sql.DB
}

// NewAppointmentService creates a new instance of AppointmentService.
func NewAppointmentService(
	ar repositories.AppointmentRepository,
	cr repositories.ClientRepository,
	pr repositories.ProductRepository,
	mr repositories.StockMovementRepository,
	tr repositories.TransactionRepository,
	checkout CheckoutService,
	db *sql.DB,
) AppointmentService {
	return &appointmentService{
		appointmentRepo: ar,
		clientRepo:      cr,
		productRepo:     pr,
		movementRepo:    mr,
		transactionRepo: tr,
		checkout:        checkout,
		db:              db,
	}
}

func (s *appointmentService) CreateAppointment(orgID uuid.UUID, req CreateAppointmentRequest) (*models.Appointment, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.EndTime.Before(req.StartTime) {
		return nil, fmt.Errorf("%w: end_time precedes start_time", ErrValidation)
	}
	if req.ClientID != nil && req.NewClient != nil {
		return nil, fmt.Errorf("%w: give either client_id or new_client, not both", ErrValidation)
	}
	if req.PriceTotal != nil && req.PriceTotal.IsNegative() {
		return nil, fmt.Errorf("%w: price_total must not be negative", ErrValidation)
	}
	if req.ReserveStock && req.ProductID == nil {
		return nil, fmt.Errorf("%w: reserve_stock requires a product_id", ErrValidation)
	}

	status := models.AppointmentStatusPending
	if req.Status != nil {
		if !models.IsValidAppointmentStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown appointment status %q", ErrValidation, *req.Status)
		}
		status = models.AppointmentStatus(*req.Status)
	}

	if req.ClientID != nil {
		if _, err := s.clientRepo.GetClientByID(orgID, *req.ClientID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, fmt.Errorf("failed to load client: %w", err)
		}
	}
	if req.ProductID != nil {
		if _, err := s.productRepo.GetProductByID(orgID, *req.ProductID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	clientID := req.ClientID
	if req.NewClient != nil {
		client := models.Client{
			OrganizationID: orgID,
			Name:           req.NewClient.Name,
			Phone:          req.NewClient.Phone,
			CarModel:       req.NewClient.CarModel,
		}
		if _, err := s.clientRepo.CreateClient(tx, &client); err != nil {
			return nil, fmt.Errorf("failed to create client for appointment: %w", err)
		}
		clientID = &client.ID
	}

	appointment := models.Appointment{
		OrganizationID: orgID,
		ClientID:       clientID,
		Title:          req.Title,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         status,
		ProductID:      req.ProductID,
		Notes:          req.Notes,
	}
	if req.PriceTotal != nil {
		appointment.PriceTotal = *req.PriceTotal
	}

	if req.ReserveStock {
		// One unit per appointment, the reservation granularity of the counter.
		if _, err := s.productRepo.AdjustStock(tx, orgID, *req.ProductID, decimal.NewFromInt(-1)); err != nil {
			return nil, fmt.Errorf("failed to reserve stock: %w", err)
		}
		appointment.StockReserved = true
	}

	if _, err := s.appointmentRepo.CreateAppointment(tx, &appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if req.ReserveStock {
		movement := models.StockMovement{
			OrganizationID: orgID,
			ProductID:      *req.ProductID,
			QuantityDelta:  decimal.NewFromInt(-1),
			Reason:         models.MovementReasonReservation,
			Reference:      models.NewNullString("appointment " + appointment.ID.String()),
		}
		if _, err := s.movementRepo.CreateMovement(tx, &movement); err != nil {
			return nil, fmt.Errorf("failed to record reservation movement: %w", err)
		}
	}

	if req.CreateTransaction && req.PriceTotal != nil && req.PriceTotal.IsPositive() {
		entry := models.Transaction{
			OrganizationID: orgID,
			Description:    "Appointment: " + req.Title,
			Amount:         *req.PriceTotal,
			Type:           models.TransactionTypeIncome,
			Status:         models.TransactionStatusPending,
			Date:           models.CivilDateOf(req.StartTime),
		}
		if _, err := s.transactionRepo.CreateTransaction(tx, &entry); err != nil {
			return nil, fmt.Errorf("failed to create pending transaction for appointment: %w", err)
		}
		appointment.TransactionID = &entry.ID
		if err := s.appointmentRepo.UpdateAppointment(tx, &appointment); err != nil {
			return nil, fmt.Errorf("failed to link pending transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit appointment creation: %w", err)
	}
	return s.GetAppointmentByID(orgID, appointment.ID)
}

func (s *appointmentService) GetAppointmentByID(orgID, appointmentID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetAppointmentByID(orgID, appointmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *appointmentService) GetAppointments(orgID uuid.UUID, filters models.AppointmentFilters) ([]models.Appointment, int, error) {
	appointments, totalCount, err := s.appointmentRepo.GetAppointments(orgID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get appointments: %w", err)
	}
	return appointments, totalCount, nil
}

func (s *appointmentService) UpdateAppointment(orgID, appointmentID uuid.UUID, req UpdateAppointmentRequest) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetAppointmentByID(orgID, appointmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment for update: %w", err)
	}

	if req.ClientID != nil {
		if _, err := s.clientRepo.GetClientByID(orgID, *req.ClientID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, fmt.Errorf("failed to load client: %w", err)
		}
		appointment.ClientID = req.ClientID
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		appointment.Title = *req.Title
	}
	if req.StartTime != nil {
		appointment.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		appointment.EndTime = *req.EndTime
	}
	if appointment.EndTime.Before(appointment.StartTime) {
		return nil, fmt.Errorf("%w: end_time precedes start_time", ErrValidation)
	}
	if req.PriceTotal != nil {
		if req.PriceTotal.IsNegative() {
			return nil, fmt.Errorf("%w: price_total must not be negative", ErrValidation)
		}
		appointment.PriceTotal = *req.PriceTotal
	}
	if req.Notes != nil {
		appointment.Notes = req.Notes
	}

	if err := s.appointmentRepo.UpdateAppointment(s.db, appointment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return s.GetAppointmentByID(orgID, appointmentID)
}

func (s *appointmentService) UpdateStatus(orgID, appointmentID uuid.UUID, status string) (*models.Appointment, error) {
	if !models.IsValidAppointmentStatus(status) {
		return nil, fmt.Errorf("%w: unknown appointment status %q", ErrValidation, status)
	}
	target := models.AppointmentStatus(status)

	appointment, err := s.appointmentRepo.GetAppointmentByID(orgID, appointmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment for status update: %w", err)
	}

	if !models.CanTransitionAppointment(appointment.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, target)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if target == models.AppointmentStatusCanceled {
		if err := s.releaseOnCancel(tx, appointment); err != nil {
			return nil, err
		}
	}

	appointment.Status = target
	if err := s.appointmentRepo.UpdateAppointment(tx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}
	return s.GetAppointmentByID(orgID, appointmentID)
}

func (s *appointmentService) Complete(orgID, appointmentID uuid.UUID, req CompleteAppointmentRequest) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetAppointmentByID(orgID, appointmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment for completion: %w", err)
	}
	if !models.CanTransitionAppointment(appointment.Status, models.AppointmentStatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, models.AppointmentStatusCompleted)
	}

	if req.CreateSale && appointment.TransactionID == nil && appointment.PriceTotal.IsPositive() {
		transactionID, err := s.recordCompletionSale(orgID, appointment, req.PaymentMethod)
		if err != nil {
			return nil, err
		}
		appointment.TransactionID = &transactionID
	}

	appointment.Status = models.AppointmentStatusCompleted
	if err := s.appointmentRepo.UpdateAppointment(s.db, appointment); err != nil {
		return nil, fmt.Errorf("failed to complete appointment: %w", err)
	}
	return s.GetAppointmentByID(orgID, appointmentID)
}

func (s *appointmentService) DeleteAppointment(orgID, appointmentID uuid.UUID) error {
	appointment, err := s.appointmentRepo.GetAppointmentByID(orgID, appointmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("failed to fetch appointment for deletion: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	// Canceled slots already returned their unit; completed slots consumed it
	// during the service. Only live bookings still hold returnable stock.
	if appointment.Status != models.AppointmentStatusCanceled && appointment.Status != models.AppointmentStatusCompleted {
		if err := s.releaseOnCancel(tx, appointment); err != nil {
			return err
		}
	}
	if err := s.appointmentRepo.DeleteAppointment(tx, orgID, appointmentID); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return tx.Commit()
}

// recordCompletionSale writes the paid income entry for a completed slot.
// When stock was reserved at booking the unit is already deducted, so the
// checkout path runs with deduct_stock=false; without a reservation the sale
// deducts normally. A slot without a product books plain income.
func (s *appointmentService) recordCompletionSale(orgID uuid.UUID, appointment *models.Appointment, paymentMethod *string) (uuid.UUID, error) {
	if appointment.ProductID != nil {
		deduct := !appointment.StockReserved
		result, err := s.checkout.Checkout(orgID, CheckoutRequest{
			Items: []CheckoutLine{{
				ProductID: *appointment.ProductID,
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: models.DecimalPtr(appointment.PriceTotal),
			}},
			PaymentMethod: paymentMethod,
			DeductStock:   &deduct,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to record sale for appointment: %w", err)
		}
		for _, warning := range result.Warnings {
			utils.LogInfo("appointment completion warning: " + warning)
		}
		return result.Transaction.ID, nil
	}

	entry := models.Transaction{
		OrganizationID: orgID,
		Description:    "Appointment: " + appointment.Title,
		Amount:         appointment.PriceTotal,
		PaymentMethod:  paymentMethod,
		Type:           models.TransactionTypeIncome,
		Status:         models.TransactionStatusPaid,
		Date:           models.Today(),
	}
	if _, err := s.transactionRepo.CreateTransaction(s.db, &entry); err != nil {
		return uuid.Nil, fmt.Errorf("failed to record income for appointment: %w", err)
	}
	return entry.ID, nil
}

// releaseOnCancel returns reserved stock when the slot still owns the
// deduction. A paid sale linked to the slot keeps the deduction; a pending
// booking entry is removed along with the reservation.
func (s *appointmentService) releaseOnCancel(tx *sql.Tx, appointment *models.Appointment) error {
	shouldRelease := appointment.HoldsReservation()

	if appointment.TransactionID != nil {
		linked, err := s.transactionRepo.GetTransactionByID(appointment.OrganizationID, *appointment.TransactionID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to load linked transaction: %w", err)
		}
		if linked != nil && !linked.IsSettled() {
			if err := s.transactionRepo.DeleteTransaction(tx, appointment.OrganizationID, linked.ID); err != nil {
				return fmt.Errorf("failed to remove pending appointment transaction: %w", err)
			}
			appointment.TransactionID = nil
			shouldRelease = appointment.StockReserved && appointment.ProductID != nil
		}
	}

	if !shouldRelease {
		return nil
	}

	if _, err := s.productRepo.AdjustStock(tx, appointment.OrganizationID, *appointment.ProductID, decimal.NewFromInt(1)); err != nil {
		return fmt.Errorf("failed to release reserved stock: %w", err)
	}
	movement := models.StockMovement{
		OrganizationID: appointment.OrganizationID,
		ProductID:      *appointment.ProductID,
		QuantityDelta:  decimal.NewFromInt(1),
		Reason:         models.MovementReasonReservationRelease,
		Reference:      models.NewNullString("appointment " + appointment.ID.String() + " canceled"),
	}
	if _, err := s.movementRepo.CreateMovement(tx, &movement); err != nil {
		return fmt.Errorf("failed to record release movement: %w", err)
	}
	appointment.StockReserved = false
	return nil
}
