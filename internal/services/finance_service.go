package services

import (
	"fmt"
	"time"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- FinanceService Interface ---

// FinanceService derives financial totals. Nothing here is stored; every
// report recomputes from the ledger so there is no summary row to drift.
type FinanceService interface {
	PeriodReport(orgID uuid.UUID, start, end models.CivilDate) (*models.FinanceReport, error)
	Dashboard(orgID uuid.UUID, now time.Time) (*models.DashboardSummary, error)
}

type financeService struct {
	transactionRepo repositories.TransactionRepository
	productRepo     repositories.ProductRepository
	appointmentRepo repositories.AppointmentRepository
}

// NewFinanceService creates a new instance of FinanceService.
func NewFinanceService(
	tr repositories.TransactionRepository,
	pr repositories.ProductRepository,
	ar repositories.AppointmentRepository,
) FinanceService {
	return &financeService{
		transactionRepo: tr,
		productRepo:     pr,
		appointmentRepo: ar,
	}
}

// Summarize folds ledger entries into period totals. Only settled entries
// count; "completed" is accepted as a legacy spelling of paid on imported rows.
func Summarize(transactions []models.Transaction) models.PeriodSummary {
	summary := models.PeriodSummary{
		Income:  decimal.Zero,
		Cost:    decimal.Zero,
		Expense: decimal.Zero,
		Net:     decimal.Zero,
	}
	for _, tx := range transactions {
		if !tx.IsSettled() && tx.Status != "completed" {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			summary.Income = summary.Income.Add(tx.Amount)
			if tx.CostAmount != nil {
				summary.Cost = summary.Cost.Add(*tx.CostAmount)
			}
		case models.TransactionTypeExpense:
			summary.Expense = summary.Expense.Add(tx.Amount)
		}
	}
	summary.Net = summary.Income.Sub(summary.Cost).Sub(summary.Expense)
	return summary
}

func (s *financeService) PeriodReport(orgID uuid.UUID, start, end models.CivilDate) (*models.FinanceReport, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}

	transactions, err := s.transactionRepo.GetTransactionsByPeriod(orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for report: %w", err)
	}

	return &models.FinanceReport{
		StartDate:    start,
		EndDate:      end,
		Summary:      Summarize(transactions),
		Transactions: transactions,
	}, nil
}

func (s *financeService) Dashboard(orgID uuid.UUID, now time.Time) (*models.DashboardSummary, error) {
	today := models.CivilDateOf(now)

	monthTxs, err := s.transactionRepo.GetTransactionsByPeriod(orgID, today.MonthStart(), today.MonthEnd())
	if err != nil {
		return nil, fmt.Errorf("failed to load month transactions: %w", err)
	}

	salesToday := decimal.Zero
	pendingBills := 0
	for _, tx := range monthTxs {
		if tx.Type == models.TransactionTypeIncome && tx.IsSettled() && tx.Date == today {
			salesToday = salesToday.Add(tx.Amount)
		}
		if tx.BillTemplateID != nil && tx.Status == models.TransactionStatusPending {
			pendingBills++
		}
	}

	lowStock, err := s.productRepo.GetLowStockProducts(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load low stock products: %w", err)
	}

	dateFilter := today.String()
	_, appointmentsToday, err := s.appointmentRepo.GetAppointments(orgID, models.AppointmentFilters{Date: &dateFilter})
	if err != nil {
		return nil, fmt.Errorf("failed to load today's appointments: %w", err)
	}

	return &models.DashboardSummary{
		SalesToday:        salesToday,
		MonthNet:          Summarize(monthTxs).Net,
		PendingBillsCount: pendingBills,
		LowStockCount:     len(lowStock),
		AppointmentsToday: appointmentsToday,
	}, nil
}
