package repositories

import "database/sql"

// Set bundles one implementation of every repository.
type Set struct {
	Sports       SportRepository
	Courts       CourtRepository
	Clients      ClientRepository
	Reservations ReservationRepository
	Auth         AuthRepository
	Equipment    EquipmentRepository
}

// NewPostgresSet builds every repository over the same connection pool.
func NewPostgresSet(db *sql.DB) Set {
	return Set{
		Sports:       NewSportRepository(db),
		Courts:       NewCourtRepository(db),
		Clients:      NewClientRepository(db),
		Reservations: NewReservationRepository(db),
		Auth:         NewAuthRepository(db),
		Equipment:    NewEquipmentRepository(db),
	}
}

// NewMemorySet serves every repository from m.
func NewMemorySet(m *MemoryStore) Set {
	return Set{Sports: m, Courts: m, Clients: m, Reservations: m, Auth: m, Equipment: m}
}
