package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"time"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// A no-op sql driver backs the services' transaction plumbing in tests; every
// actual query goes through the repository mocks below.

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return fakeConn{}, nil }

type fakeConn struct{}

func (fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (fakeConn) Close() error                        { return nil }
func (fakeConn) Begin() (driver.Tx, error)           { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

var registerFakeDriver sync.Once

func newTestDB() *sql.DB {
	registerFakeDriver.Do(func() {
		sql.Register("services-test", fakeDriver{})
	})
	db, err := sql.Open("services-test", "")
	if err != nil {
		panic(err)
	}
	return db
}

// --- repository mocks ---

type mockProductRepo struct {
	products  map[uuid.UUID]*models.Product
	adjustErr map[uuid.UUID]error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products:  make(map[uuid.UUID]*models.Product),
		adjustErr: make(map[uuid.UUID]error),
	}
}

func (m *mockProductRepo) add(p models.Product) *models.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.products[p.ID] = &p
	return &p
}

func (m *mockProductRepo) CreateProduct(_ repositories.SQLExecutor, p *models.Product) (uuid.UUID, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	stored := *p
	m.products[p.ID] = &stored
	return p.ID, nil
}

func (m *mockProductRepo) GetProductByID(_, productID uuid.UUID) (*models.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepo) GetProducts(uuid.UUID, models.ProductFilters) ([]models.Product, int, error) {
	out := []models.Product{}
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockProductRepo) UpdateProduct(_ repositories.SQLExecutor, p *models.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *p
	m.products[p.ID] = &stored
	return nil
}

func (m *mockProductRepo) DeleteProduct(_ repositories.SQLExecutor, _, productID uuid.UUID) error {
	if _, ok := m.products[productID]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.products, productID)
	return nil
}

func (m *mockProductRepo) AdjustStock(_ repositories.SQLExecutor, _, productID uuid.UUID, delta decimal.Decimal) (*models.Product, error) {
	if err := m.adjustErr[productID]; err != nil {
		return nil, err
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.StockQuantity = p.StockQuantity.Add(delta)
	copied := *p
	return &copied, nil
}

func (m *mockProductRepo) GetLowStockProducts(uuid.UUID) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range m.products {
		if p.IsLowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

type mockMovementRepo struct {
	movements []models.StockMovement
}

func (m *mockMovementRepo) CreateMovement(_ repositories.SQLExecutor, movement *models.StockMovement) (uuid.UUID, error) {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	m.movements = append(m.movements, *movement)
	return movement.ID, nil
}

func (m *mockMovementRepo) GetMovements(uuid.UUID, *uuid.UUID, int, int) ([]models.StockMovement, int, error) {
	return m.movements, len(m.movements), nil
}

type mockTransactionRepo struct {
	transactions map[uuid.UUID]*models.Transaction
	order        []uuid.UUID
	createErr    error
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{transactions: make(map[uuid.UUID]*models.Transaction)}
}

func (m *mockTransactionRepo) CreateTransaction(_ repositories.SQLExecutor, tx *models.Transaction) (uuid.UUID, error) {
	if m.createErr != nil {
		return uuid.Nil, m.createErr
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	stored := *tx
	m.transactions[tx.ID] = &stored
	m.order = append(m.order, tx.ID)
	return tx.ID, nil
}

func (m *mockTransactionRepo) GetTransactionByID(_, txID uuid.UUID) (*models.Transaction, error) {
	tx, ok := m.transactions[txID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *tx
	return &copied, nil
}

func (m *mockTransactionRepo) GetTransactionsByPeriod(_ uuid.UUID, start, end models.CivilDate) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for _, id := range m.order {
		tx, ok := m.transactions[id]
		if !ok {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

func (m *mockTransactionRepo) UpdateTransaction(_ repositories.SQLExecutor, tx *models.Transaction) error {
	if _, ok := m.transactions[tx.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *tx
	m.transactions[tx.ID] = &stored
	return nil
}

func (m *mockTransactionRepo) DeleteTransaction(_ repositories.SQLExecutor, _, txID uuid.UUID) error {
	if _, ok := m.transactions[txID]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.transactions, txID)
	return nil
}

func (m *mockTransactionRepo) ExistsForTemplateInRange(_, templateID uuid.UUID, start, end models.CivilDate) (bool, error) {
	for _, tx := range m.transactions {
		if tx.BillTemplateID == nil || *tx.BillTemplateID != templateID {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		return true, nil
	}
	return false, nil
}

type mockTemplateRepo struct {
	templates map[uuid.UUID]*models.BillTemplate
	order     []uuid.UUID
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{templates: make(map[uuid.UUID]*models.BillTemplate)}
}

func (m *mockTemplateRepo) CreateTemplate(_ repositories.SQLExecutor, t *models.BillTemplate) (uuid.UUID, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	stored := *t
	m.templates[t.ID] = &stored
	m.order = append(m.order, t.ID)
	return t.ID, nil
}

func (m *mockTemplateRepo) GetTemplateByID(_, templateID uuid.UUID) (*models.BillTemplate, error) {
	t, ok := m.templates[templateID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTemplateRepo) GetTemplates(uuid.UUID) ([]models.BillTemplate, error) {
	out := []models.BillTemplate{}
	for _, id := range m.order {
		if t, ok := m.templates[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTemplateRepo) UpdateTemplate(_ repositories.SQLExecutor, t *models.BillTemplate) error {
	if _, ok := m.templates[t.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *t
	m.templates[t.ID] = &stored
	return nil
}

func (m *mockTemplateRepo) DeleteTemplate(_ repositories.SQLExecutor, _, templateID uuid.UUID) error {
	if _, ok := m.templates[templateID]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.templates, templateID)
	return nil
}

type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*models.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*models.Appointment)}
}

func (m *mockAppointmentRepo) CreateAppointment(_ repositories.SQLExecutor, a *models.Appointment) (uuid.UUID, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	stored := *a
	m.appointments[a.ID] = &stored
	return a.ID, nil
}

func (m *mockAppointmentRepo) GetAppointmentByID(_, appointmentID uuid.UUID) (*models.Appointment, error) {
	a, ok := m.appointments[appointmentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockAppointmentRepo) GetAppointments(uuid.UUID, models.AppointmentFilters) ([]models.Appointment, int, error) {
	out := []models.Appointment{}
	for _, a := range m.appointments {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockAppointmentRepo) UpdateAppointment(_ repositories.SQLExecutor, a *models.Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *a
	m.appointments[a.ID] = &stored
	return nil
}

func (m *mockAppointmentRepo) DeleteAppointment(_ repositories.SQLExecutor, _, appointmentID uuid.UUID) error {
	if _, ok := m.appointments[appointmentID]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.appointments, appointmentID)
	return nil
}

type mockClientRepo struct {
	clients map[uuid.UUID]*models.Client
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[uuid.UUID]*models.Client)}
}

func (m *mockClientRepo) CreateClient(_ repositories.SQLExecutor, c *models.Client) (uuid.UUID, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	stored := *c
	m.clients[c.ID] = &stored
	return c.ID, nil
}

func (m *mockClientRepo) GetClientByID(_, clientID uuid.UUID) (*models.Client, error) {
	c, ok := m.clients[clientID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockClientRepo) GetClients(uuid.UUID, models.ClientFilters) ([]models.Client, int, error) {
	out := []models.Client{}
	for _, c := range m.clients {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockClientRepo) UpdateClient(_ repositories.SQLExecutor, c *models.Client) error {
	if _, ok := m.clients[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *c
	m.clients[c.ID] = &stored
	return nil
}

func (m *mockClientRepo) DeleteClient(_ repositories.SQLExecutor, _, clientID uuid.UUID) error {
	if _, ok := m.clients[clientID]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.clients, clientID)
	return nil
}
