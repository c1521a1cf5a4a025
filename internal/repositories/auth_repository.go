package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"canchas_backend/internal/models"
)

// AuthRepository defines the interface for administrator account storage.
type AuthRepository interface {
	CreateAdministrator(ctx context.Context, admin *models.Administrator) (*models.Administrator, error)
	FindAdministratorByEmail(ctx context.Context, email string) (*models.Administrator, error) // PasswordHash populated
	FindAdministratorByID(ctx context.Context, id int64) (*models.Administrator, error)
}

// authRepository implements the AuthRepository interface.
type authRepository struct {
	db *sql.DB // The direct database connection pool
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

func scanAdministratorRow(row scanner) (*models.Administrator, error) {
	admin := &models.Administrator{}
	err := row.Scan(&admin.ID, &admin.Email, &admin.FirstName, &admin.LastName, &admin.PasswordHash,
		&admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning administrator: %v", ErrDatabaseError, err)
	}
	return admin, nil
}

// CreateAdministrator inserts an administrator whose PasswordHash is already computed.
// Emails are stored lower-cased.
func (r *authRepository) CreateAdministrator(ctx context.Context, admin *models.Administrator) (*models.Administrator, error) {
	query := `INSERT INTO administrators (email, first_name, last_name, password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	currentTime := time.Now()
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	admin.CreatedAt = currentTime
	admin.UpdatedAt = currentTime

	err := r.db.QueryRowContext(ctx, query, admin.Email, admin.FirstName, admin.LastName, admin.PasswordHash,
		admin.CreatedAt, admin.UpdatedAt).Scan(&admin.ID)
	if err != nil {
		return nil, classifyWriteError(err, "creating administrator")
	}
	return admin, nil
}

// FindAdministratorByEmail retrieves an administrator by email, including the password hash.
func (r *authRepository) FindAdministratorByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	query := `SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
	          FROM administrators WHERE email = $1`
	return scanAdministratorRow(r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// FindAdministratorByID retrieves an administrator by ID.
func (r *authRepository) FindAdministratorByID(ctx context.Context, id int64) (*models.Administrator, error) {
	query := `SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
	          FROM administrators WHERE id = $1`
	return scanAdministratorRow(r.db.QueryRowContext(ctx, query, id))
}
