package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"canchas_backend/internal/models"
)

// CourtRepository defines the interface for court-related database operations.
// Reads include the court's Sport when it has one.
type CourtRepository interface {
	CreateCourt(ctx context.Context, court *models.Court) (*models.Court, error)
	GetCourtByID(ctx context.Context, id int64) (*models.Court, error)
	GetCourts(ctx context.Context) ([]models.Court, error)
	UpdateCourt(ctx context.Context, court *models.Court) (*models.Court, error)
	DeleteCourt(ctx context.Context, id int64) error
}

type courtRepository struct {
	db *sql.DB
}

// NewCourtRepository creates a new instance of CourtRepository.
func NewCourtRepository(db *sql.DB) CourtRepository {
	return &courtRepository{db: db}
}

const selectCourtWithSport = `
	SELECT ct.id, ct.name, ct.price, ct.sport_id, ct.created_at, ct.updated_at,
	       s.id, s.name, s.players_per_match, s.created_at, s.updated_at
	FROM courts ct
	LEFT JOIN sports s ON ct.sport_id = s.id
`

func scanCourtRow(row scanner) (*models.Court, error) {
	var court models.Court
	var sportID, joinedSportID, joinedPlayers sql.NullInt64
	var joinedSportName sql.NullString
	var joinedSportCreated, joinedSportUpdated sql.NullTime

	err := row.Scan(&court.ID, &court.Name, &court.Price, &sportID, &court.CreatedAt, &court.UpdatedAt,
		&joinedSportID, &joinedSportName, &joinedPlayers, &joinedSportCreated, &joinedSportUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning court: %v", ErrDatabaseError, err)
	}
	if sportID.Valid {
		court.SportID = &sportID.Int64
	}
	if joinedSportID.Valid {
		court.Sport = &models.Sport{
			ID:              joinedSportID.Int64,
			Name:            joinedSportName.String,
			PlayersPerMatch: int(joinedPlayers.Int64),
			CreatedAt:       joinedSportCreated.Time,
			UpdatedAt:       joinedSportUpdated.Time,
		}
	}
	return &court, nil
}

func (r *courtRepository) CreateCourt(ctx context.Context, court *models.Court) (*models.Court, error) {
	query := `INSERT INTO courts (name, price, sport_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	currentTime := time.Now()
	court.CreatedAt = currentTime
	court.UpdatedAt = currentTime

	err := r.db.QueryRowContext(ctx, query, court.Name, court.Price, court.SportID, court.CreatedAt, court.UpdatedAt).Scan(&court.ID)
	if err != nil {
		return nil, classifyWriteError(err, "creating court")
	}
	return court, nil
}

func (r *courtRepository) GetCourtByID(ctx context.Context, id int64) (*models.Court, error) {
	return scanCourtRow(r.db.QueryRowContext(ctx, selectCourtWithSport+" WHERE ct.id = $1", id))
}

func (r *courtRepository) GetCourts(ctx context.Context) ([]models.Court, error) {
	courts := []models.Court{}
	rows, err := r.db.QueryContext(ctx, selectCourtWithSport+" ORDER BY ct.name, ct.id")
	if err != nil {
		return nil, fmt.Errorf("%w: querying courts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		court, scanErr := scanCourtRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		courts = append(courts, *court)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating court rows: %v", ErrDatabaseError, err)
	}
	return courts, nil
}

func (r *courtRepository) UpdateCourt(ctx context.Context, court *models.Court) (*models.Court, error) {
	query := `UPDATE courts SET name = $1, price = $2, sport_id = $3, updated_at = $4
	          WHERE id = $5
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, court.Name, court.Price, court.SportID, time.Now(), court.ID).
		Scan(&court.CreatedAt, &court.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyWriteError(err, fmt.Sprintf("updating court ID %d", court.ID))
	}
	return court, nil
}

func (r *courtRepository) DeleteCourt(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courts WHERE id = $1`, id)
	if err != nil {
		return classifyWriteError(err, fmt.Sprintf("deleting court ID %d", id))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
