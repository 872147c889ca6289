package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tintshop_backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AuthRepository persists organizations and login users.
type AuthRepository interface {
	CreateOrganization(executor SQLExecutor, org *models.Organization) (uuid.UUID, error)
	CreateUser(executor SQLExecutor, user *models.User, passwordHash string) (uuid.UUID, error)

	// GetUserByEmail returns the user and their password hash. Lookup is global,
	// not org-scoped, because email is the login key.
	GetUserByEmail(email string) (*models.User, string, error)
	GetUserByID(userID uuid.UUID) (*models.User, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateOrganization(executor SQLExecutor, org *models.Organization) (uuid.UUID, error) {
	query := `INSERT INTO organizations (id, name, slug, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`

	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query, org.ID, org.Name, org.Slug, org.CreatedAt).Scan(&org.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return uuid.Nil, fmt.Errorf("%w: organization slug %q", ErrDuplicateKey, org.Slug)
		}
		return uuid.Nil, fmt.Errorf("%w: creating organization: %v", ErrDatabaseError, err)
	}
	return org.ID, nil
}

func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User, passwordHash string) (uuid.UUID, error) {
	query := `INSERT INTO users
	            (id, organization_id, email, password_hash, full_name, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	currentTime := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = currentTime
	}
	user.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		user.ID, user.OrganizationID, user.Email, passwordHash,
		user.FullName, user.Role, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return uuid.Nil, fmt.Errorf("%w: user email %q", ErrDuplicateKey, user.Email)
		}
		return uuid.Nil, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return user.ID, nil
}

func (r *authRepository) GetUserByEmail(email string) (*models.User, string, error) {
	user := &models.User{}
	var passwordHash string
	query := `SELECT id, organization_id, email, password_hash, full_name, role, created_at, updated_at
	          FROM users WHERE email = $1`
	err := r.db.QueryRow(query, email).Scan(
		&user.ID, &user.OrganizationID, &user.Email, &passwordHash,
		&user.FullName, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: getting user by email: %v", ErrDatabaseError, err)
	}
	return user, passwordHash, nil
}

func (r *authRepository) GetUserByID(userID uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, organization_id, email, full_name, role, created_at, updated_at
	          FROM users WHERE id = $1`
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.OrganizationID, &user.Email,
		&user.FullName, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user %s: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}
