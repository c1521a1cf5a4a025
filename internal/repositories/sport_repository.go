package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"canchas_backend/internal/models"
)

// SportRepository defines the interface for sport-related database operations.
type SportRepository interface {
	CreateSport(ctx context.Context, sport *models.Sport) (*models.Sport, error)
	GetSportByID(ctx context.Context, id int64) (*models.Sport, error)
	GetSports(ctx context.Context) ([]models.Sport, error)
	UpdateSport(ctx context.Context, sport *models.Sport) (*models.Sport, error)
	DeleteSport(ctx context.Context, id int64) error
}

type sportRepository struct {
	db *sql.DB
}

// NewSportRepository creates a new instance of SportRepository.
func NewSportRepository(db *sql.DB) SportRepository {
	return &sportRepository{db: db}
}

func scanSportRow(row scanner) (*models.Sport, error) {
	var sport models.Sport
	err := row.Scan(&sport.ID, &sport.Name, &sport.PlayersPerMatch, &sport.CreatedAt, &sport.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning sport: %v", ErrDatabaseError, err)
	}
	return &sport, nil
}

func (r *sportRepository) CreateSport(ctx context.Context, sport *models.Sport) (*models.Sport, error) {
	query := `INSERT INTO sports (name, players_per_match, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	currentTime := time.Now()
	sport.CreatedAt = currentTime
	sport.UpdatedAt = currentTime

	err := r.db.QueryRowContext(ctx, query, sport.Name, sport.PlayersPerMatch, sport.CreatedAt, sport.UpdatedAt).Scan(&sport.ID)
	if err != nil {
		return nil, classifyWriteError(err, "creating sport")
	}
	return sport, nil
}

func (r *sportRepository) GetSportByID(ctx context.Context, id int64) (*models.Sport, error) {
	query := `SELECT id, name, players_per_match, created_at, updated_at FROM sports WHERE id = $1`
	return scanSportRow(r.db.QueryRowContext(ctx, query, id))
}

func (r *sportRepository) GetSports(ctx context.Context) ([]models.Sport, error) {
	sports := []models.Sport{}
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, players_per_match, created_at, updated_at FROM sports ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sports: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		sport, scanErr := scanSportRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sports = append(sports, *sport)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sport rows: %v", ErrDatabaseError, err)
	}
	return sports, nil
}

func (r *sportRepository) UpdateSport(ctx context.Context, sport *models.Sport) (*models.Sport, error) {
	query := `UPDATE sports SET name = $1, players_per_match = $2, updated_at = $3
	          WHERE id = $4
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, sport.Name, sport.PlayersPerMatch, time.Now(), sport.ID).
		Scan(&sport.CreatedAt, &sport.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyWriteError(err, fmt.Sprintf("updating sport ID %d", sport.ID))
	}
	return sport, nil
}

func (r *sportRepository) DeleteSport(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sports WHERE id = $1`, id)
	if err != nil {
		return classifyWriteError(err, fmt.Sprintf("deleting sport ID %d", id))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
