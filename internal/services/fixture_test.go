package services

import (
	"context"
	"testing"
	"time"

	"canchas_backend/internal/cache"
	"canchas_backend/internal/events/eventstest"
	"canchas_backend/internal/models"
	"canchas_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// Friday 2025-05-09 15:30 UTC.
var testNow = time.Date(2025, time.May, 9, 15, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

type testEnv struct {
	ctx          context.Context
	store        *repositories.MemoryStore
	recorder     *eventstest.Recorder
	revenue      *cache.MemoryRevenueCache
	reservations ReservationService
	reports      ReportService
	sport        *models.Sport
	court        *models.Court
	client       *models.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	env := &testEnv{
		ctx:      ctx,
		store:    store,
		recorder: &eventstest.Recorder{},
		revenue:  cache.NewMemoryRevenueCache(),
	}
	clock := fixedClock(testNow)
	env.reservations = NewReservationService(store, store, store, env.recorder, env.revenue, clock)
	env.reports = NewReportService(store, env.revenue, clock)

	var err error
	env.sport, err = store.CreateSport(ctx, &models.Sport{Name: "Paddle", PlayersPerMatch: 4})
	if err != nil {
		t.Fatalf("create sport: %v", err)
	}
	env.court = env.addCourt(t, "Cancha 1", "100.00", &env.sport.ID)
	env.client = env.addClient(t, "Juan", "Perez", 30111222)
	return env
}

func (e *testEnv) addCourt(t *testing.T, name, price string, sportID *int64) *models.Court {
	t.Helper()
	court, err := e.store.CreateCourt(e.ctx, &models.Court{Name: name, Price: decimal.RequireFromString(price), SportID: sportID})
	if err != nil {
		t.Fatalf("create court %q: %v", name, err)
	}
	return court
}

func (e *testEnv) addClient(t *testing.T, first, last string, dni int64) *models.Client {
	t.Helper()
	client, err := e.store.CreateClient(e.ctx, &models.Client{FirstName: first, LastName: last, DNI: dni})
	if err != nil {
		t.Fatalf("create client %s %s: %v", first, last, err)
	}
	return client
}

func (e *testEnv) book(t *testing.T, clientID, courtID int64, date, at string) *models.ReservationConfirmation {
	t.Helper()
	confirmation, err := e.reservations.CreateReservation(e.ctx, CreateReservationRequest{
		ClientID: clientID, CourtID: courtID, Date: date, Time: at,
	})
	if err != nil {
		t.Fatalf("book court %d for client %d on %s %s: %v", courtID, clientID, date, at, err)
	}
	return confirmation
}

func (e *testEnv) count(t *testing.T) int {
	t.Helper()
	all, err := e.store.GetReservations(e.ctx, models.ReservationFilters{})
	if err != nil {
		t.Fatalf("list reservations: %v", err)
	}
	return len(all)
}
