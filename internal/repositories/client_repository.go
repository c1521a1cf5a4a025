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

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(ctx context.Context, client *models.Client) (*models.Client, error)
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)
	GetClientByDNI(ctx context.Context, dni int64) (*models.Client, error)
	GetClients(ctx context.Context, searchTerm *string) ([]models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) (*models.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const selectClientFields = `id, first_name, last_name, dni, birth_date, street, street_number, phone, created_at, updated_at`

func applyClientNullables(client *models.Client, birthDate sql.NullTime, street sql.NullString, streetNumber sql.NullInt32, phone sql.NullInt64) {
	if birthDate.Valid {
		d := models.DateOf(birthDate.Time)
		client.BirthDate = &d
	}
	if street.Valid {
		client.Street = &street.String
	}
	if streetNumber.Valid {
		n := int(streetNumber.Int32)
		client.StreetNumber = &n
	}
	if phone.Valid {
		client.Phone = &phone.Int64
	}
}

func scanClientRow(row scanner) (*models.Client, error) {
	var client models.Client
	var birthDate sql.NullTime
	var street sql.NullString
	var streetNumber sql.NullInt32
	var phone sql.NullInt64

	err := row.Scan(&client.ID, &client.FirstName, &client.LastName, &client.DNI, &birthDate, &street,
		&streetNumber, &phone, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
	}
	applyClientNullables(&client, birthDate, street, streetNumber, phone)
	return &client, nil
}

func nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(models.DateLayout)
}

// CreateClient inserts a new client into the database.
func (r *clientRepository) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	query := `INSERT INTO clients (first_name, last_name, dni, birth_date, street, street_number, phone, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	currentTime := time.Now()
	client.CreatedAt = currentTime
	client.UpdatedAt = currentTime

	err := r.db.QueryRowContext(ctx, query,
		client.FirstName, client.LastName, client.DNI, nullableDate(client.BirthDate), client.Street,
		client.StreetNumber, client.Phone, client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	if err != nil {
		return nil, classifyWriteError(err, "creating client")
	}
	return client, nil
}

// GetClientByID retrieves a client by their ID.
func (r *clientRepository) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	query := `SELECT ` + selectClientFields + ` FROM clients WHERE id = $1`
	return scanClientRow(r.db.QueryRowContext(ctx, query, id))
}

// GetClientByDNI retrieves a client by national id number.
func (r *clientRepository) GetClientByDNI(ctx context.Context, dni int64) (*models.Client, error) {
	query := `SELECT ` + selectClientFields + ` FROM clients WHERE dni = $1`
	return scanClientRow(r.db.QueryRowContext(ctx, query, dni))
}

// GetClients retrieves clients, optionally filtered by a name/surname substring.
func (r *clientRepository) GetClients(ctx context.Context, searchTerm *string) ([]models.Client, error) {
	clients := []models.Client{}

	query := `SELECT ` + selectClientFields + ` FROM clients`
	var args []interface{}
	if searchTerm != nil && strings.TrimSpace(*searchTerm) != "" {
		query += ` WHERE first_name ILIKE $1 OR last_name ILIKE $1`
		args = append(args, containsPattern(strings.TrimSpace(*searchTerm)))
	}
	query += ` ORDER BY last_name, first_name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		client, scanErr := scanClientRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// UpdateClient replaces every mutable field of a client.
func (r *clientRepository) UpdateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	query := `UPDATE clients SET
	            first_name = $1, last_name = $2, dni = $3, birth_date = $4, street = $5, street_number = $6,
	            phone = $7, updated_at = $8
	          WHERE id = $9
	          RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		client.FirstName, client.LastName, client.DNI, nullableDate(client.BirthDate), client.Street,
		client.StreetNumber, client.Phone, time.Now(), client.ID,
	).Scan(&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyWriteError(err, fmt.Sprintf("updating client ID %d", client.ID))
	}
	return client, nil
}

// DeleteClient removes a client. Clients holding reservations yield ErrForeignKey.
func (r *clientRepository) DeleteClient(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return classifyWriteError(err, fmt.Sprintf("deleting client ID %d", id))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
