package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"canchas_backend/internal/models"
)

// EquipmentRepository manages equipment stock and the units placed on courts.
// Moving units between storage and a court changes both counters in one transaction.
type EquipmentRepository interface {
	CreateEquipment(ctx context.Context, equipment *models.Equipment) (*models.Equipment, error)
	GetEquipmentByID(ctx context.Context, id int64) (*models.Equipment, error)
	GetEquipment(ctx context.Context) ([]models.Equipment, error)
	RenameEquipment(ctx context.Context, id int64, name string) (*models.Equipment, error)
	AdjustStock(ctx context.Context, id int64, delta int) (*models.Equipment, error)
	DeleteEquipment(ctx context.Context, id int64) error

	AssignEquipment(ctx context.Context, assignment *models.CourtEquipment) (*models.CourtEquipment, error)
	GetAssignmentByID(ctx context.Context, id int64) (*models.CourtEquipment, error)
	GetAssignments(ctx context.Context, courtID *int64) ([]models.CourtEquipment, error)
	AdjustAssignment(ctx context.Context, id int64, delta int) (*models.CourtEquipment, error)
	DeleteAssignment(ctx context.Context, id int64) error
}

type equipmentRepository struct {
	db *sql.DB
}

// NewEquipmentRepository creates a new instance of EquipmentRepository.
func NewEquipmentRepository(db *sql.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

// withTx runs fn inside a transaction and commits when it returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", ErrDatabaseError, err)
	}
	return nil
}

const selectEquipment = `SELECT id, name, stock, created_at, updated_at FROM equipment`

func scanEquipmentRow(row scanner) (*models.Equipment, error) {
	var e models.Equipment
	err := row.Scan(&e.ID, &e.Name, &e.Stock, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning equipment: %v", ErrDatabaseError, err)
	}
	return &e, nil
}

func (r *equipmentRepository) CreateEquipment(ctx context.Context, equipment *models.Equipment) (*models.Equipment, error) {
	query := `INSERT INTO equipment (name, stock, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	currentTime := time.Now()
	equipment.CreatedAt = currentTime
	equipment.UpdatedAt = currentTime

	err := r.db.QueryRowContext(ctx, query, equipment.Name, equipment.Stock, equipment.CreatedAt, equipment.UpdatedAt).Scan(&equipment.ID)
	if err != nil {
		return nil, classifyWriteError(err, "creating equipment")
	}
	return equipment, nil
}

func (r *equipmentRepository) GetEquipmentByID(ctx context.Context, id int64) (*models.Equipment, error) {
	return scanEquipmentRow(r.db.QueryRowContext(ctx, selectEquipment+" WHERE id = $1", id))
}

func (r *equipmentRepository) GetEquipment(ctx context.Context) ([]models.Equipment, error) {
	items := []models.Equipment{}
	rows, err := r.db.QueryContext(ctx, selectEquipment+" ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("%w: querying equipment: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, scanErr := scanEquipmentRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating equipment rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *equipmentRepository) RenameEquipment(ctx context.Context, id int64, name string) (*models.Equipment, error) {
	query := `UPDATE equipment SET name = $1, updated_at = $2
	          WHERE id = $3
	          RETURNING id, name, stock, created_at, updated_at`
	row := r.db.QueryRowContext(ctx, query, name, time.Now(), id)
	var e models.Equipment
	if err := row.Scan(&e.ID, &e.Name, &e.Stock, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyWriteError(err, fmt.Sprintf("renaming equipment ID %d", id))
	}
	return &e, nil
}

// AdjustStock adds delta (negative to take units out) and returns the new row.
func (r *equipmentRepository) AdjustStock(ctx context.Context, id int64, delta int) (*models.Equipment, error) {
	query := `UPDATE equipment SET stock = stock + $1, updated_at = $2
	          WHERE id = $3
	          RETURNING id, name, stock, created_at, updated_at`
	row := r.db.QueryRowContext(ctx, query, delta, time.Now(), id)
	var e models.Equipment
	if err := row.Scan(&e.ID, &e.Name, &e.Stock, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classifyWriteError(err, fmt.Sprintf("updating stock of equipment ID %d", id))
	}
	return &e, nil
}

func (r *equipmentRepository) DeleteEquipment(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return classifyWriteError(err, fmt.Sprintf("deleting equipment ID %d", id))
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- court assignments ---

// takeStock moves units out of storage (or back in when units is negative).
func takeStock(ctx context.Context, tx *sql.Tx, equipmentID int64, units int) error {
	var stock int
	err := tx.QueryRowContext(ctx, `UPDATE equipment SET stock = stock - $1, updated_at = $2 WHERE id = $3 RETURNING stock`,
		units, time.Now(), equipmentID).Scan(&stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: equipment %d does not exist", ErrForeignKey, equipmentID)
		}
		return classifyWriteError(err, fmt.Sprintf("moving stock of equipment ID %d", equipmentID))
	}
	return nil
}

const selectAssignment = `
	SELECT ce.id, ce.court_id, ce.equipment_id, ce.quantity, ce.created_at, ce.updated_at,
	       ct.id, ct.name, ct.price, ct.sport_id, ct.created_at, ct.updated_at,
	       e.id, e.name, e.stock, e.created_at, e.updated_at
	FROM court_equipment ce
	JOIN courts ct ON ce.court_id = ct.id
	JOIN equipment e ON ce.equipment_id = e.id
`

func scanAssignmentRow(row scanner) (*models.CourtEquipment, error) {
	var a models.CourtEquipment
	var court models.Court
	var equipment models.Equipment
	var sportID sql.NullInt64

	err := row.Scan(&a.ID, &a.CourtID, &a.EquipmentID, &a.Quantity, &a.CreatedAt, &a.UpdatedAt,
		&court.ID, &court.Name, &court.Price, &sportID, &court.CreatedAt, &court.UpdatedAt,
		&equipment.ID, &equipment.Name, &equipment.Stock, &equipment.CreatedAt, &equipment.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning court equipment: %v", ErrDatabaseError, err)
	}
	if sportID.Valid {
		court.SportID = &sportID.Int64
	}
	a.Court = &court
	a.Equipment = &equipment
	return &a, nil
}

func (r *equipmentRepository) AssignEquipment(ctx context.Context, assignment *models.CourtEquipment) (*models.CourtEquipment, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := takeStock(ctx, tx, assignment.EquipmentID, assignment.Quantity); err != nil {
			return err
		}
		query := `INSERT INTO court_equipment (court_id, equipment_id, quantity, created_at, updated_at)
		          VALUES ($1, $2, $3, $4, $4)
		          RETURNING id`
		err := tx.QueryRowContext(ctx, query, assignment.CourtID, assignment.EquipmentID, assignment.Quantity, time.Now()).
			Scan(&assignment.ID)
		if err != nil {
			return classifyWriteError(err, "assigning equipment to court")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetAssignmentByID(ctx, assignment.ID)
}

func (r *equipmentRepository) GetAssignmentByID(ctx context.Context, id int64) (*models.CourtEquipment, error) {
	return scanAssignmentRow(r.db.QueryRowContext(ctx, selectAssignment+" WHERE ce.id = $1", id))
}

// GetAssignments lists every assignment, or only those of courtID when it is set.
func (r *equipmentRepository) GetAssignments(ctx context.Context, courtID *int64) ([]models.CourtEquipment, error) {
	query := selectAssignment
	var args []interface{}
	if courtID != nil {
		query += " WHERE ce.court_id = $1"
		args = append(args, *courtID)
	}
	query += " ORDER BY ct.name, e.name, ce.id"

	assignments := []models.CourtEquipment{}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying court equipment: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		a, scanErr := scanAssignmentRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		assignments = append(assignments, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating court equipment rows: %v", ErrDatabaseError, err)
	}
	return assignments, nil
}

// AdjustAssignment adds delta units to the court, taking them from stock, or returns
// units to stock when delta is negative.
func (r *equipmentRepository) AdjustAssignment(ctx context.Context, id int64, delta int) (*models.CourtEquipment, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var equipmentID int64
		err := tx.QueryRowContext(ctx, `SELECT equipment_id FROM court_equipment WHERE id = $1 FOR UPDATE`, id).Scan(&equipmentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("%w: locking court equipment ID %d: %v", ErrDatabaseError, id, err)
		}
		if err := takeStock(ctx, tx, equipmentID, delta); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE court_equipment SET quantity = quantity + $1, updated_at = $2 WHERE id = $3`,
			delta, time.Now(), id)
		if err != nil {
			return classifyWriteError(err, fmt.Sprintf("updating court equipment ID %d", id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetAssignmentByID(ctx, id)
}

// DeleteAssignment removes the assignment and puts its units back in stock.
func (r *equipmentRepository) DeleteAssignment(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var equipmentID int64
		var quantity int
		err := tx.QueryRowContext(ctx, `DELETE FROM court_equipment WHERE id = $1 RETURNING equipment_id, quantity`, id).
			Scan(&equipmentID, &quantity)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return classifyWriteError(err, fmt.Sprintf("deleting court equipment ID %d", id))
		}
		return takeStock(ctx, tx, equipmentID, -quantity)
	})
}
