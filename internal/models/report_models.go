package models

import "github.com/shopspring/decimal"

// PeriodSummary holds the derived totals for a date range.
// Net = Income - Cost - Expense.
type PeriodSummary struct {
	Income  decimal.Decimal `json:"income"`
	Cost    decimal.Decimal `json:"cost"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// FinanceReport is the period summary together with the entries it was
// computed from, recomputed on every read.
type FinanceReport struct {
	StartDate    CivilDate     `json:"start_date"`
	EndDate      CivilDate     `json:"end_date"`
	Summary      PeriodSummary `json:"summary"`
	Transactions []Transaction `json:"transactions"`
}

// DashboardSummary holds the headline numbers for the home screen.
type DashboardSummary struct {
	SalesToday        decimal.Decimal `json:"sales_today"`
	MonthNet          decimal.Decimal `json:"month_net"`
	PendingBillsCount int             `json:"pending_bills_count"`
	LowStockCount     int             `json:"low_stock_count"`
	AppointmentsToday int             `json:"appointments_today"`
}
