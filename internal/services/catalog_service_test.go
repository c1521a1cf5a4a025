package services

import (
	"errors"
	"testing"

	"canchas_backend/internal/models"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func TestClientService(t *testing.T) {
	env := newTestEnv(t)
	clients := NewClientService(env.store, fixedClock(testNow))

	created, err := clients.CreateClient(env.ctx, CreateClientRequest{
		FirstName: " Lucia ", LastName: "Diaz", DNI: 35123456,
		BirthDate: strPtr("1990-04-02"), Street: strPtr("   "),
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if created.FirstName != "Lucia" || created.Street != nil || created.BirthDate == nil {
		t.Errorf("created client = %+v", created)
	}

	if _, err := clients.CreateClient(env.ctx, CreateClientRequest{FirstName: "Otra", LastName: "Diaz", DNI: 35123456}); !errors.Is(err, ErrDNITaken) {
		t.Errorf("duplicate DNI error = %v, want ErrDNITaken", err)
	}
	if _, err := clients.CreateClient(env.ctx, CreateClientRequest{FirstName: "Nadie", LastName: "Futuro", DNI: 1, BirthDate: strPtr("2030-01-01")}); !errors.Is(err, ErrValidation) {
		t.Errorf("future birth date error = %v, want ErrValidation", err)
	}

	byDNI, err := clients.GetClientByDNI(env.ctx, 35123456)
	if err != nil || byDNI.ID != created.ID {
		t.Errorf("GetClientByDNI = %+v, %v", byDNI, err)
	}

	updated, err := clients.UpdateClient(env.ctx, created.ID, UpdateClientRequest{LastName: strPtr("Diaz Paz")})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if updated.LastName != "Diaz Paz" || updated.DNI != 35123456 {
		t.Errorf("updated client = %+v", updated)
	}

	found, err := clients.GetClients(env.ctx, strPtr("paz"))
	if err != nil || len(found) != 1 {
		t.Errorf("GetClients(paz) = %d clients, %v", len(found), err)
	}

	env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00")
	if err := clients.DeleteClient(env.ctx, env.client.ID); !errors.Is(err, ErrEntityInUse) {
		t.Errorf("delete of a booked client error = %v, want ErrEntityInUse", err)
	}
	if err := clients.DeleteClient(env.ctx, created.ID); err != nil {
		t.Errorf("DeleteClient: %v", err)
	}
	if _, err := clients.GetClientByID(env.ctx, created.ID); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("get after delete error = %v, want ErrEntityNotFound", err)
	}
}

func TestCourtService(t *testing.T) {
	env := newTestEnv(t)
	sports := NewSportService(env.store)
	courts := NewCourtService(env.store, env.store, env.revenue)

	tennis, err := sports.CreateSport(env.ctx, SportRequest{Name: "Tenis", PlayersPerMatch: 2})
	if err != nil {
		t.Fatalf("CreateSport: %v", err)
	}
	if _, err := sports.CreateSport(env.ctx, SportRequest{Name: "Nada", PlayersPerMatch: 0}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero players error = %v, want ErrValidation", err)
	}

	court, err := courts.CreateCourt(env.ctx, CourtRequest{Name: "Central", Price: decimal.NewFromInt(60), SportID: &tennis.ID})
	if err != nil {
		t.Fatalf("CreateCourt: %v", err)
	}
	if court.Sport == nil || court.Sport.Name != "Tenis" {
		t.Errorf("court sport = %+v", court.Sport)
	}
	perPlayer, err := PricePerPlayer(court)
	if err != nil || !perPlayer.Equal(decimal.NewFromInt(30)) {
		t.Errorf("PricePerPlayer = %s, %v; want 30", perPlayer, err)
	}

	if _, err := courts.CreateCourt(env.ctx, CourtRequest{Name: "Central", Price: decimal.NewFromInt(10)}); !errors.Is(err, ErrCourtNameTaken) {
		t.Errorf("duplicate name error = %v, want ErrCourtNameTaken", err)
	}
	if _, err := courts.CreateCourt(env.ctx, CourtRequest{Name: "Barata", Price: decimal.NewFromInt(-1)}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative price error = %v, want ErrValidation", err)
	}
	missing := int64(9999)
	if _, err := courts.CreateCourt(env.ctx, CourtRequest{Name: "Huerfana", SportID: &missing}); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("unknown sport error = %v, want ErrEntityNotFound", err)
	}

	if err := sports.DeleteSport(env.ctx, tennis.ID); !errors.Is(err, ErrEntityInUse) {
		t.Errorf("delete of a sport in use error = %v, want ErrEntityInUse", err)
	}

	env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00")
	if err := courts.DeleteCourt(env.ctx, env.court.ID); !errors.Is(err, ErrEntityInUse) {
		t.Errorf("delete of a booked court error = %v, want ErrEntityInUse", err)
	}
	if err := courts.DeleteCourt(env.ctx, court.ID); err != nil {
		t.Errorf("DeleteCourt: %v", err)
	}
}

func TestPricePerPlayerRounding(t *testing.T) {
	court := &models.Court{
		Name:  "Trio",
		Price: decimal.NewFromInt(100),
		Sport: &models.Sport{Name: "Pelota", PlayersPerMatch: 3},
	}
	got, err := PricePerPlayer(court)
	if err != nil {
		t.Fatalf("PricePerPlayer: %v", err)
	}
	if s := got.StringFixed(2); s != "33.33" {
		t.Errorf("PricePerPlayer = %s, want 33.33", s)
	}
}

func TestPricePerPlayerWithoutSport(t *testing.T) {
	if _, err := PricePerPlayer(&models.Court{Name: "Libre", Price: decimal.NewFromInt(10)}); !errors.Is(err, ErrInvalidSportConfiguration) {
		t.Errorf("error = %v, want ErrInvalidSportConfiguration", err)
	}
}
