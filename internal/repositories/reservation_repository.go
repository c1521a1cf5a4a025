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

// ReservationRepository defines the interface for reservation storage.
// Every read returns reservations with Client and Court (and the court's Sport) populated.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error)
	GetReservationByID(ctx context.Context, id int64) (*models.Reservation, error)
	GetReservations(ctx context.Context, filters models.ReservationFilters) ([]models.Reservation, error)
	UpdateReservation(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
	// CheckCourtAvailability reports whether no reservation other than excludeID holds the court slot.
	CheckCourtAvailability(ctx context.Context, courtID int64, date time.Time, at models.TimeOfDay, excludeID *int64) (bool, error)
	// CheckClientAvailability reports whether the client holds no reservation other than excludeID at the slot.
	CheckClientAvailability(ctx context.Context, clientID int64, date time.Time, at models.TimeOfDay, excludeID *int64) (bool, error)
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository backed by PostgreSQL.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

const getReservationJoins = `
	FROM reservations r
	JOIN clients c ON r.client_id = c.id
	JOIN courts ct ON r.court_id = ct.id
	LEFT JOIN sports s ON ct.sport_id = s.id
`

const selectReservationFields = `
	r.id, r.client_id, r.court_id, r.reservation_date, r.reservation_time, r.created_at, r.updated_at,
	c.id, c.first_name, c.last_name, c.dni, c.birth_date, c.street, c.street_number, c.phone, c.created_at, c.updated_at,
	ct.id, ct.name, ct.price, ct.sport_id, ct.created_at, ct.updated_at,
	s.id, s.name, s.players_per_match, s.created_at, s.updated_at
`

// scanReservationRow scans a reservation row with its client, court and sport joins.
func scanReservationRow(row scanner) (*models.Reservation, error) {
	var reservation models.Reservation
	var client models.Client
	var court models.Court

	var birthDate sql.NullTime
	var street sql.NullString
	var streetNumber sql.NullInt32
	var phone, sportID sql.NullInt64

	// LEFT JOIN on sports
	var joinedSportID, joinedPlayers sql.NullInt64
	var joinedSportName sql.NullString
	var joinedSportCreated, joinedSportUpdated sql.NullTime

	err := row.Scan(
		&reservation.ID, &reservation.ClientID, &reservation.CourtID, &reservation.Date, &reservation.Time,
		&reservation.CreatedAt, &reservation.UpdatedAt,
		&client.ID, &client.FirstName, &client.LastName, &client.DNI, &birthDate, &street, &streetNumber, &phone,
		&client.CreatedAt, &client.UpdatedAt,
		&court.ID, &court.Name, &court.Price, &sportID, &court.CreatedAt, &court.UpdatedAt,
		&joinedSportID, &joinedSportName, &joinedPlayers, &joinedSportCreated, &joinedSportUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning reservation with details: %v", ErrDatabaseError, err)
	}

	reservation.Date = models.DateOf(reservation.Date)
	applyClientNullables(&client, birthDate, street, streetNumber, phone)
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
	reservation.Client = &client
	reservation.Court = &court
	return &reservation, nil
}

func (r *reservationRepository) CreateReservation(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	query := `INSERT INTO reservations (client_id, court_id, reservation_date, reservation_time, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		reservation.ClientID, reservation.CourtID, reservation.Date.Format(models.DateLayout), reservation.Time,
		currentTime, currentTime,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)
	if err != nil {
		return nil, classifyWriteError(err, "creating reservation")
	}
	return reservation, nil
}

func (r *reservationRepository) GetReservationByID(ctx context.Context, id int64) (*models.Reservation, error) {
	query := "SELECT " + selectReservationFields + getReservationJoins + " WHERE r.id = $1"
	return scanReservationRow(r.db.QueryRowContext(ctx, query, id))
}

func (r *reservationRepository) GetReservations(ctx context.Context, filters models.ReservationFilters) ([]models.Reservation, error) {
	reservations := []models.Reservation{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectReservationFields + getReservationJoins)

	var conditions []string
	var args []interface{}
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.DateFrom != nil {
		conditions = append(conditions, "r.reservation_date >= "+next(filters.DateFrom.Format(models.DateLayout)))
	}
	if filters.DateTo != nil {
		conditions = append(conditions, "r.reservation_date <= "+next(filters.DateTo.Format(models.DateLayout)))
	}
	if filters.ClientID != nil {
		conditions = append(conditions, "r.client_id = "+next(*filters.ClientID))
	}
	if filters.CourtID != nil {
		conditions = append(conditions, "r.court_id = "+next(*filters.CourtID))
	}

	var clientConditions []string
	if filters.ClientTerm != nil {
		p := next(containsPattern(*filters.ClientTerm))
		clientConditions = append(clientConditions, "c.first_name ILIKE "+p, "c.last_name ILIKE "+p)
	}
	if filters.ClientDNI != nil {
		clientConditions = append(clientConditions, "c.dni = "+next(*filters.ClientDNI))
	}
	if len(clientConditions) > 0 {
		conditions = append(conditions, "("+strings.Join(clientConditions, " OR ")+")")
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY r.reservation_date, r.reservation_time, r.id")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying reservations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		reservation, scanErr := scanReservationRow(rows)
		if scanErr != nil {
			return nil, scanErr // Error already wrapped in scanReservationRow
		}
		reservations = append(reservations, *reservation)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating reservation rows: %v", ErrDatabaseError, err)
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateReservation(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	query := `UPDATE reservations SET
	            client_id = $1, court_id = $2, reservation_date = $3, reservation_time = $4, updated_at = $5
	          WHERE id = $6
	          RETURNING updated_at`
	reservation.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		reservation.ClientID, reservation.CourtID, reservation.Date.Format(models.DateLayout), reservation.Time,
		reservation.UpdatedAt, reservation.ID,
	).Scan(&reservation.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyWriteError(err, fmt.Sprintf("updating reservation ID %d", reservation.ID))
	}
	return reservation, nil
}

func (r *reservationRepository) DeleteReservation(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting reservation ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) CheckCourtAvailability(ctx context.Context, courtID int64, date time.Time, at models.TimeOfDay, excludeID *int64) (bool, error) {
	return r.slotAvailable(ctx, "court_id", courtID, date, at, excludeID)
}

func (r *reservationRepository) CheckClientAvailability(ctx context.Context, clientID int64, date time.Time, at models.TimeOfDay, excludeID *int64) (bool, error) {
	return r.slotAvailable(ctx, "client_id", clientID, date, at, excludeID)
}

// slotAvailable runs an exact-match lookup served by the slot unique indexes.
func (r *reservationRepository) slotAvailable(ctx context.Context, ownerColumn string, ownerID int64, date time.Time, at models.TimeOfDay, excludeID *int64) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM reservations
	          WHERE %s = $1 AND reservation_date = $2 AND reservation_time = $3`, ownerColumn)
	args := []interface{}{ownerID, date.Format(models.DateLayout), at}
	if excludeID != nil {
		query += " AND id <> $4"
		args = append(args, *excludeID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: checking %s availability: %v", ErrDatabaseError, ownerColumn, err)
	}
	return count == 0, nil
}
