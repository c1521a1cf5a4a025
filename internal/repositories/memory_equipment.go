package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"canchas_backend/internal/models"
)

// --- equipment ---

func (m *MemoryStore) equipmentNameTaken(name string, excludeID int64) bool {
	for _, e := range m.equipment {
		if e.ID != excludeID && e.Name == name {
			return true
		}
	}
	return false
}

func (m *MemoryStore) CreateEquipment(_ context.Context, equipment *models.Equipment) (*models.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.equipmentNameTaken(equipment.Name, 0) {
		return nil, fmt.Errorf("%w: equipment name %q (constraint: equipment_name_key)", ErrDuplicateKey, equipment.Name)
	}
	if equipment.Stock < 0 {
		return nil, fmt.Errorf("%w: stock %d (constraint: %s)", ErrInsufficientQuantity, equipment.Stock, constraintEquipmentStock)
	}
	now := time.Now()
	stored := *equipment
	stored.ID = m.nextID()
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.equipment[stored.ID] = stored
	*equipment = stored
	return equipment, nil
}

func (m *MemoryStore) GetEquipmentByID(_ context.Context, id int64) (*models.Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.equipment[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *MemoryStore) GetEquipment(_ context.Context) ([]models.Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]models.Equipment, 0, len(m.equipment))
	for _, e := range m.equipment {
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (m *MemoryStore) RenameEquipment(_ context.Context, id int64, name string) (*models.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.equipment[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.equipmentNameTaken(name, id) {
		return nil, fmt.Errorf("%w: equipment name %q (constraint: equipment_name_key)", ErrDuplicateKey, name)
	}
	e.Name = name
	e.UpdatedAt = time.Now()
	m.equipment[id] = e
	return &e, nil
}

func (m *MemoryStore) AdjustStock(_ context.Context, id int64, delta int) (*models.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.equipment[id]
	if !ok {
		return nil, ErrNotFound
	}
	if e.Stock+delta < 0 {
		return nil, fmt.Errorf("%w: equipment %d has %d in stock (constraint: %s)", ErrInsufficientQuantity, id, e.Stock, constraintEquipmentStock)
	}
	e.Stock += delta
	e.UpdatedAt = time.Now()
	m.equipment[id] = e
	return &e, nil
}

func (m *MemoryStore) DeleteEquipment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.equipment[id]; !ok {
		return ErrNotFound
	}
	for _, a := range m.assignments {
		if a.EquipmentID == id {
			return fmt.Errorf("%w: equipment %d is on court %d", ErrForeignKey, id, a.CourtID)
		}
	}
	delete(m.equipment, id)
	return nil
}

// --- court assignments ---

func (m *MemoryStore) hydrateAssignment(a models.CourtEquipment) *models.CourtEquipment {
	a.Court, a.Equipment = nil, nil
	if court, ok := m.courts[a.CourtID]; ok {
		court.Sport = nil
		a.Court = &court
	}
	if e, ok := m.equipment[a.EquipmentID]; ok {
		a.Equipment = &e
	}
	return &a
}

// moveStock takes units out of storage, or puts them back when units is negative.
// Callers hold the write lock.
func (m *MemoryStore) moveStock(equipmentID int64, units int, now time.Time) error {
	e, ok := m.equipment[equipmentID]
	if !ok {
		return fmt.Errorf("%w: equipment %d does not exist", ErrForeignKey, equipmentID)
	}
	if e.Stock-units < 0 {
		return fmt.Errorf("%w: equipment %d has %d in stock (constraint: %s)", ErrInsufficientQuantity, equipmentID, e.Stock, constraintEquipmentStock)
	}
	e.Stock -= units
	e.UpdatedAt = now
	m.equipment[equipmentID] = e
	return nil
}

func (m *MemoryStore) AssignEquipment(_ context.Context, assignment *models.CourtEquipment) (*models.CourtEquipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.courts[assignment.CourtID]; !ok {
		return nil, fmt.Errorf("%w: court %d does not exist", ErrForeignKey, assignment.CourtID)
	}
	for _, a := range m.assignments {
		if a.CourtID == assignment.CourtID && a.EquipmentID == assignment.EquipmentID {
			return nil, fmt.Errorf("%w: court %d already has equipment %d (constraint: court_equipment_key)",
				ErrDuplicateKey, a.CourtID, a.EquipmentID)
		}
	}
	if assignment.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity %d (constraint: %s)", ErrInsufficientQuantity, assignment.Quantity, constraintCourtEquipmentQuantity)
	}
	now := time.Now()
	if err := m.moveStock(assignment.EquipmentID, assignment.Quantity, now); err != nil {
		return nil, err
	}
	stored := *assignment
	stored.ID = m.nextID()
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.assignments[stored.ID] = stored
	return m.hydrateAssignment(stored), nil
}

func (m *MemoryStore) GetAssignmentByID(_ context.Context, id int64) (*models.CourtEquipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.hydrateAssignment(a), nil
}

func (m *MemoryStore) GetAssignments(_ context.Context, courtID *int64) ([]models.CourtEquipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	assignments := []models.CourtEquipment{}
	for _, a := range m.assignments {
		if courtID != nil && a.CourtID != *courtID {
			continue
		}
		assignments = append(assignments, *m.hydrateAssignment(a))
	}
	sort.Slice(assignments, func(i, j int) bool {
		ai, aj := assignments[i], assignments[j]
		if ai.Court.Name != aj.Court.Name {
			return ai.Court.Name < aj.Court.Name
		}
		if ai.Equipment.Name != aj.Equipment.Name {
			return ai.Equipment.Name < aj.Equipment.Name
		}
		return ai.ID < aj.ID
	})
	return assignments, nil
}

func (m *MemoryStore) AdjustAssignment(_ context.Context, id int64, delta int) (*models.CourtEquipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if a.Quantity+delta < 0 {
		return nil, fmt.Errorf("%w: court equipment %d has %d units (constraint: %s)",
			ErrInsufficientQuantity, id, a.Quantity, constraintCourtEquipmentQuantity)
	}
	now := time.Now()
	if err := m.moveStock(a.EquipmentID, delta, now); err != nil {
		return nil, err
	}
	a.Quantity += delta
	a.UpdatedAt = now
	m.assignments[id] = a
	return m.hydrateAssignment(a), nil
}

func (m *MemoryStore) DeleteAssignment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.assignments[id]
	if !ok {
		return ErrNotFound
	}
	if err := m.moveStock(a.EquipmentID, -a.Quantity, time.Now()); err != nil {
		return err
	}
	delete(m.assignments, id)
	return nil
}
