package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"canchas_backend/internal/models"
)

// slotKey identifies a (owner, date, time) triple; owner is a court or a client.
type slotKey struct {
	ownerID int64
	date    string
	at      models.TimeOfDay
}

func newSlotKey(ownerID int64, date time.Time, at models.TimeOfDay) slotKey {
	return slotKey{ownerID: ownerID, date: date.Format(models.DateLayout), at: at}
}

// MemoryStore keeps every entity in process memory. It implements every repository of Set
// with the constraints the PostgreSQL schema declares: unique court names, DNIs, admin
// emails and equipment names, unique (court, date, time) and (client, date, time) slots,
// non-negative equipment counts, and restrictive foreign keys.
// Writes hold an exclusive lock, so a uniqueness check and its commit are atomic.
type MemoryStore struct {
	mu sync.RWMutex

	sports       map[int64]models.Sport
	courts       map[int64]models.Court
	clients      map[int64]models.Client
	admins       map[int64]models.Administrator
	reservations map[int64]models.Reservation
	equipment    map[int64]models.Equipment
	assignments  map[int64]models.CourtEquipment

	courtSlots  map[slotKey]int64
	clientSlots map[slotKey]int64

	lastID int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sports:       map[int64]models.Sport{},
		courts:       map[int64]models.Court{},
		clients:      map[int64]models.Client{},
		admins:       map[int64]models.Administrator{},
		reservations: map[int64]models.Reservation{},
		equipment:    map[int64]models.Equipment{},
		assignments:  map[int64]models.CourtEquipment{},
		courtSlots:   map[slotKey]int64{},
		clientSlots:  map[slotKey]int64{},
	}
}

func (m *MemoryStore) nextID() int64 {
	m.lastID++
	return m.lastID
}

// --- sports ---

func (m *MemoryStore) CreateSport(_ context.Context, sport *models.Sport) (*models.Sport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	stored := *sport
	stored.ID = m.nextID()
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.sports[stored.ID] = stored
	*sport = stored
	return sport, nil
}

func (m *MemoryStore) GetSportByID(_ context.Context, id int64) (*models.Sport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sport, ok := m.sports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sport, nil
}

func (m *MemoryStore) GetSports(_ context.Context) ([]models.Sport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sports := make([]models.Sport, 0, len(m.sports))
	for _, s := range m.sports {
		sports = append(sports, s)
	}
	sort.Slice(sports, func(i, j int) bool {
		if sports[i].Name != sports[j].Name {
			return sports[i].Name < sports[j].Name
		}
		return sports[i].ID < sports[j].ID
	})
	return sports, nil
}

func (m *MemoryStore) UpdateSport(_ context.Context, sport *models.Sport) (*models.Sport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sports[sport.ID]
	if !ok {
		return nil, ErrNotFound
	}
	existing.Name = sport.Name
	existing.PlayersPerMatch = sport.PlayersPerMatch
	existing.UpdatedAt = time.Now()
	m.sports[existing.ID] = existing
	*sport = existing
	return sport, nil
}

func (m *MemoryStore) DeleteSport(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sports[id]; !ok {
		return ErrNotFound
	}
	for _, c := range m.courts {
		if c.SportID != nil && *c.SportID == id {
			return fmt.Errorf("%w: sport %d is used by court %d", ErrForeignKey, id, c.ID)
		}
	}
	delete(m.sports, id)
	return nil
}

// --- courts ---

func (m *MemoryStore) courtNameTaken(name string, excludeID int64) bool {
	for _, c := range m.courts {
		if c.ID != excludeID && c.Name == name {
			return true
		}
	}
	return false
}

func (m *MemoryStore) checkSportRef(sportID *int64) error {
	if sportID == nil {
		return nil
	}
	if _, ok := m.sports[*sportID]; !ok {
		return fmt.Errorf("%w: sport %d does not exist", ErrForeignKey, *sportID)
	}
	return nil
}

// hydrateCourt returns a copy of the court with its Sport attached.
func (m *MemoryStore) hydrateCourt(court models.Court) *models.Court {
	court.Sport = nil
	if court.SportID != nil {
		if sport, ok := m.sports[*court.SportID]; ok {
			court.Sport = &sport
		}
	}
	return &court
}

func (m *MemoryStore) CreateCourt(_ context.Context, court *models.Court) (*models.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.courtNameTaken(court.Name, 0) {
		return nil, fmt.Errorf("%w: court name %q (constraint: courts_name_key)", ErrDuplicateKey, court.Name)
	}
	if err := m.checkSportRef(court.SportID); err != nil {
		return nil, err
	}
	now := time.Now()
	stored := *court
	stored.Sport = nil
	stored.ID = m.nextID()
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.courts[stored.ID] = stored
	*court = stored
	return court, nil
}

func (m *MemoryStore) GetCourtByID(_ context.Context, id int64) (*models.Court, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	court, ok := m.courts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.hydrateCourt(court), nil
}

func (m *MemoryStore) GetCourts(_ context.Context) ([]models.Court, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	courts := make([]models.Court, 0, len(m.courts))
	for _, c := range m.courts {
		courts = append(courts, *m.hydrateCourt(c))
	}
	sort.Slice(courts, func(i, j int) bool {
		if courts[i].Name != courts[j].Name {
			return courts[i].Name < courts[j].Name
		}
		return courts[i].ID < courts[j].ID
	})
	return courts, nil
}

func (m *MemoryStore) UpdateCourt(_ context.Context, court *models.Court) (*models.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.courts[court.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if m.courtNameTaken(court.Name, court.ID) {
		return nil, fmt.Errorf("%w: court name %q (constraint: courts_name_key)", ErrDuplicateKey, court.Name)
	}
	if err := m.checkSportRef(court.SportID); err != nil {
		return nil, err
	}
	existing.Name = court.Name
	existing.Price = court.Price
	existing.SportID = court.SportID
	existing.UpdatedAt = time.Now()
	m.courts[existing.ID] = existing
	*court = existing
	return court, nil
}

func (m *MemoryStore) DeleteCourt(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.courts[id]; !ok {
		return ErrNotFound
	}
	for _, r := range m.reservations {
		if r.CourtID == id {
			return fmt.Errorf("%w: court %d has reservation %d", ErrForeignKey, id, r.ID)
		}
	}
	for _, a := range m.assignments {
		if a.CourtID == id {
			return fmt.Errorf("%w: court %d has equipment assignment %d", ErrForeignKey, id, a.ID)
		}
	}
	delete(m.courts, id)
	return nil
}

// --- clients ---

func (m *MemoryStore) dniTaken(dni, excludeID int64) bool {
	for _, c := range m.clients {
		if c.ID != excludeID && c.DNI == dni {
			return true
		}
	}
	return false
}

func (m *MemoryStore) CreateClient(_ context.Context, client *models.Client) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dniTaken(client.DNI, 0) {
		return nil, fmt.Errorf("%w: dni %d (constraint: clients_dni_key)", ErrDuplicateKey, client.DNI)
	}
	now := time.Now()
	stored := *client
	stored.ID = m.nextID()
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.clients[stored.ID] = stored
	*client = stored
	return client, nil
}

func (m *MemoryStore) GetClientByID(_ context.Context, id int64) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &client, nil
}

func (m *MemoryStore) GetClientByDNI(_ context.Context, dni int64) (*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clients {
		if c.DNI == dni {
			client := c
			return &client, nil
		}
	}
	return nil, ErrNotFound
}

func clientNameContains(c *models.Client, term string) bool {
	term = strings.ToUpper(term)
	return strings.Contains(strings.ToUpper(c.FirstName), term) || strings.Contains(strings.ToUpper(c.LastName), term)
}

func (m *MemoryStore) GetClients(_ context.Context, searchTerm *string) ([]models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clients := []models.Client{}
	for _, c := range m.clients {
		if searchTerm != nil && strings.TrimSpace(*searchTerm) != "" && !clientNameContains(&c, strings.TrimSpace(*searchTerm)) {
			continue
		}
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].LastName != clients[j].LastName {
			return clients[i].LastName < clients[j].LastName
		}
		if clients[i].FirstName != clients[j].FirstName {
			return clients[i].FirstName < clients[j].FirstName
		}
		return clients[i].ID < clients[j].ID
	})
	return clients, nil
}

func (m *MemoryStore) UpdateClient(_ context.Context, client *models.Client) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.clients[client.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if m.dniTaken(client.DNI, client.ID) {
		return nil, fmt.Errorf("%w: dni %d (constraint: clients_dni_key)", ErrDuplicateKey, client.DNI)
	}
	updated := *client
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	m.clients[updated.ID] = updated
	*client = updated
	return client, nil
}

func (m *MemoryStore) DeleteClient(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	for _, r := range m.reservations {
		if r.ClientID == id {
			return fmt.Errorf("%w: client %d has reservation %d", ErrForeignKey, id, r.ID)
		}
	}
	delete(m.clients, id)
	return nil
}

// --- reservations ---

// hydrateReservation returns a copy of r with Client and Court (and Sport) attached.
func (m *MemoryStore) hydrateReservation(r models.Reservation) *models.Reservation {
	r.Client, r.Court = nil, nil
	if client, ok := m.clients[r.ClientID]; ok {
		r.Client = &client
	}
	if court, ok := m.courts[r.CourtID]; ok {
		r.Court = m.hydrateCourt(court)
	}
	return &r
}

// claimSlots validates references and slot uniqueness for r, ignoring r's own current slots.
func (m *MemoryStore) claimSlots(r *models.Reservation) error {
	if _, ok := m.clients[r.ClientID]; !ok {
		return fmt.Errorf("%w: client %d does not exist", ErrForeignKey, r.ClientID)
	}
	if _, ok := m.courts[r.CourtID]; !ok {
		return fmt.Errorf("%w: court %d does not exist", ErrForeignKey, r.CourtID)
	}
	if owner, ok := m.courtSlots[newSlotKey(r.CourtID, r.Date, r.Time)]; ok && owner != r.ID {
		return ErrCourtSlotTaken
	}
	if owner, ok := m.clientSlots[newSlotKey(r.ClientID, r.Date, r.Time)]; ok && owner != r.ID {
		return ErrClientSlotTaken
	}
	return nil
}

func (m *MemoryStore) indexReservation(r models.Reservation) {
	m.courtSlots[newSlotKey(r.CourtID, r.Date, r.Time)] = r.ID
	m.clientSlots[newSlotKey(r.ClientID, r.Date, r.Time)] = r.ID
}

func (m *MemoryStore) unindexReservation(r models.Reservation) {
	delete(m.courtSlots, newSlotKey(r.CourtID, r.Date, r.Time))
	delete(m.clientSlots, newSlotKey(r.ClientID, r.Date, r.Time))
}

func (m *MemoryStore) CreateReservation(_ context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *reservation
	stored.ID = 0
	stored.Date = models.DateOf(stored.Date)
	stored.Client, stored.Court = nil, nil
	if err := m.claimSlots(&stored); err != nil {
		return nil, err
	}
	now := time.Now()
	stored.ID = m.nextID()
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.reservations[stored.ID] = stored
	m.indexReservation(stored)

	reservation.ID = stored.ID
	reservation.Date = stored.Date
	reservation.CreatedAt, reservation.UpdatedAt = now, now
	return reservation, nil
}

func (m *MemoryStore) GetReservationByID(_ context.Context, id int64) (*models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.hydrateReservation(r), nil
}

func (m *MemoryStore) matches(r *models.Reservation, f models.ReservationFilters) bool {
	if f.DateFrom != nil && r.Date.Before(models.DateOf(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && r.Date.After(models.DateOf(*f.DateTo)) {
		return false
	}
	if f.ClientID != nil && r.ClientID != *f.ClientID {
		return false
	}
	if f.CourtID != nil && r.CourtID != *f.CourtID {
		return false
	}
	if f.ClientTerm == nil && f.ClientDNI == nil {
		return true
	}
	if r.Client == nil {
		return false
	}
	if f.ClientTerm != nil && clientNameContains(r.Client, *f.ClientTerm) {
		return true
	}
	return f.ClientDNI != nil && r.Client.DNI == *f.ClientDNI
}

func (m *MemoryStore) GetReservations(_ context.Context, filters models.ReservationFilters) ([]models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reservations := []models.Reservation{}
	for _, r := range m.reservations {
		hydrated := m.hydrateReservation(r)
		if m.matches(hydrated, filters) {
			reservations = append(reservations, *hydrated)
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
	return reservations, nil
}

func (m *MemoryStore) UpdateReservation(_ context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.reservations[reservation.ID]
	if !ok {
		return nil, ErrNotFound
	}
	updated := existing
	updated.ClientID = reservation.ClientID
	updated.CourtID = reservation.CourtID
	updated.Date = models.DateOf(reservation.Date)
	updated.Time = reservation.Time
	if err := m.claimSlots(&updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()
	m.unindexReservation(existing)
	m.reservations[updated.ID] = updated
	m.indexReservation(updated)

	reservation.Date = updated.Date
	reservation.CreatedAt, reservation.UpdatedAt = updated.CreatedAt, updated.UpdatedAt
	return reservation, nil
}

func (m *MemoryStore) DeleteReservation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reservations[id]
	if !ok {
		return ErrNotFound
	}
	m.unindexReservation(r)
	delete(m.reservations, id)
	return nil
}

func (m *MemoryStore) CheckCourtAvailability(_ context.Context, courtID int64, date time.Time, at models.TimeOfDay, excludeID *int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slotFree(m.courtSlots, newSlotKey(courtID, models.DateOf(date), at), excludeID), nil
}

func (m *MemoryStore) CheckClientAvailability(_ context.Context, clientID int64, date time.Time, at models.TimeOfDay, excludeID *int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slotFree(m.clientSlots, newSlotKey(clientID, models.DateOf(date), at), excludeID), nil
}

func slotFree(index map[slotKey]int64, key slotKey, excludeID *int64) bool {
	owner, taken := index[key]
	if !taken {
		return true
	}
	return excludeID != nil && owner == *excludeID
}

// --- administrators ---

func (m *MemoryStore) CreateAdministrator(_ context.Context, admin *models.Administrator) (*models.Administrator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	for _, a := range m.admins {
		if a.Email == email {
			return nil, fmt.Errorf("%w: email %q (constraint: administrators_email_key)", ErrDuplicateKey, email)
		}
	}
	now := time.Now()
	stored := *admin
	stored.Email = email
	stored.ID = m.nextID()
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.admins[stored.ID] = stored
	*admin = stored
	return admin, nil
}

func (m *MemoryStore) FindAdministratorByEmail(_ context.Context, email string) (*models.Administrator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range m.admins {
		if a.Email == email {
			admin := a
			return &admin, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindAdministratorByID(_ context.Context, id int64) (*models.Administrator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	admin, ok := m.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &admin, nil
}

var (
	_ SportRepository       = (*MemoryStore)(nil)
	_ CourtRepository       = (*MemoryStore)(nil)
	_ ClientRepository      = (*MemoryStore)(nil)
	_ ReservationRepository = (*MemoryStore)(nil)
	_ AuthRepository        = (*MemoryStore)(nil)
	_ EquipmentRepository   = (*MemoryStore)(nil)
)
