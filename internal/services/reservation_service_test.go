package services

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"canchas_backend/internal/events"
	"canchas_backend/internal/models"

	"github.com/shopspring/decimal"
)

func TestCreateReservationReportsPricePerPlayer(t *testing.T) {
	env := newTestEnv(t)

	confirmation := env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00")

	if !confirmation.PricePerPlayer.Equal(decimal.NewFromInt(25)) {
		t.Errorf("PricePerPlayer = %s, want 25", confirmation.PricePerPlayer)
	}
	if confirmation.Date != "2025-05-10" || confirmation.Time != "18:00" {
		t.Errorf("slot = %s %s, want 2025-05-10 18:00", confirmation.Date, confirmation.Time)
	}
	if confirmation.CourtName != "Cancha 1" || confirmation.ClientName != "Juan Perez" {
		t.Errorf("names = %q / %q", confirmation.CourtName, confirmation.ClientName)
	}
	if !strings.Contains(confirmation.Message, "Price per player: $25.00") {
		t.Errorf("message %q does not show the per-player price", confirmation.Message)
	}
	if confirmation.Reservation == nil || confirmation.Reservation.ID == 0 {
		t.Fatalf("reservation was not stored: %+v", confirmation.Reservation)
	}

	stored, err := env.reservations.GetReservationByID(env.ctx, confirmation.Reservation.ID)
	if err != nil {
		t.Fatalf("GetReservationByID: %v", err)
	}
	if stored.Client == nil || stored.Court == nil {
		t.Fatalf("reservation read without client or court: %+v", stored)
	}
	if stored.Time != models.NewTimeOfDay(18, 0) {
		t.Errorf("stored time = %s", stored.Time)
	}

	published := env.recorder.Events()
	if len(published) != 1 || published[0].Type != events.ReservationCreated {
		t.Errorf("published events = %+v, want one %s", published, events.ReservationCreated)
	}
}

func TestCreateReservationDuplicateSlot(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, env.client.ID, env.court.ID, "2025-05-10", "10:00")

	_, err := env.reservations.CreateReservation(env.ctx, CreateReservationRequest{
		ClientID: env.client.ID, CourtID: env.court.ID, Date: "2025-05-10", Time: "10:00",
	})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("second booking error = %v, want ErrSlotAlreadyBooked", err)
	}

	other := env.addClient(t, "Maria", "Lopez", 28999111)
	_, err = env.reservations.CreateReservation(env.ctx, CreateReservationRequest{
		ClientID: other.ID, CourtID: env.court.ID, Date: "2025-05-10", Time: "10:00",
	})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Errorf("other client on the same court slot: error = %v, want ErrSlotAlreadyBooked", err)
	}

	// Slots are exact: one minute later is a different slot.
	env.book(t, other.ID, env.court.ID, "2025-05-10", "10:01")

	if n := env.count(t); n != 2 {
		t.Errorf("stored reservations = %d, want 2", n)
	}
}

func TestCreateReservationClientDoubleBooked(t *testing.T) {
	env := newTestEnv(t)
	secondCourt := env.addCourt(t, "Cancha 2", "80", &env.sport.ID)
	env.book(t, env.client.ID, env.court.ID, "2025-05-12", "20:00")

	_, err := env.reservations.CreateReservation(env.ctx, CreateReservationRequest{
		ClientID: env.client.ID, CourtID: secondCourt.ID, Date: "2025-05-12", Time: "20:00",
	})
	if !errors.Is(err, ErrClientDoubleBooked) {
		t.Fatalf("error = %v, want ErrClientDoubleBooked", err)
	}
	if n := env.count(t); n != 1 {
		t.Errorf("stored reservations = %d, want 1", n)
	}
}

func TestCreateReservationRejections(t *testing.T) {
	env := newTestEnv(t)
	noSport := env.addCourt(t, "Sin deporte", "50", nil)

	tests := []struct {
		name string
		req  CreateReservationRequest
		want error
	}{
		{"past date", CreateReservationRequest{ClientID: env.client.ID, CourtID: env.court.ID, Date: "2025-05-08", Time: "23:00"}, ErrPastDate},
		{"past time today", CreateReservationRequest{ClientID: env.client.ID, CourtID: env.court.ID, Date: "2025-05-09", Time: "15:29"}, ErrPastTime},
		{"unparsable time", CreateReservationRequest{ClientID: env.client.ID, CourtID: env.court.ID, Date: "2025-05-10", Time: "25:99"}, ErrInvalidTimeFormat},
		{"bad date", CreateReservationRequest{ClientID: env.client.ID, CourtID: env.court.ID, Date: "10/05/2025", Time: "10:00"}, ErrValidation},
		{"zero client id", CreateReservationRequest{ClientID: 0, CourtID: env.court.ID, Date: "2025-05-10", Time: "10:00"}, ErrValidation},
		{"unknown court", CreateReservationRequest{ClientID: env.client.ID, CourtID: 9999, Date: "2025-05-10", Time: "10:00"}, ErrEntityNotFound},
		{"unknown client", CreateReservationRequest{ClientID: 9999, CourtID: env.court.ID, Date: "2025-05-10", Time: "10:00"}, ErrEntityNotFound},
		{"court without sport", CreateReservationRequest{ClientID: env.client.ID, CourtID: noSport.ID, Date: "2025-05-10", Time: "10:00"}, ErrInvalidSportConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.reservations.CreateReservation(env.ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if n := env.count(t); n != 0 {
		t.Errorf("failed bookings left %d reservations behind", n)
	}
	if got := env.recorder.Events(); len(got) != 0 {
		t.Errorf("failed bookings published %d events", len(got))
	}
}

func TestCreateReservationLaterToday(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, env.client.ID, env.court.ID, "2025-05-09", "15:30")
}

func TestCreateReservationConcurrentSameSlot(t *testing.T) {
	env := newTestEnv(t)
	const attempts = 16
	clients := make([]int64, attempts)
	for i := range clients {
		clients[i] = env.addClient(t, "Cliente", "Concurrente", int64(40000000+i)).ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for _, clientID := range clients {
		wg.Add(1)
		go func(clientID int64) {
			defer wg.Done()
			_, err := env.reservations.CreateReservation(env.ctx, CreateReservationRequest{
				ClientID: clientID, CourtID: env.court.ID, Date: "2025-05-20", Time: "19:00",
			})
			errs <- err
		}(clientID)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !errors.Is(err, ErrSlotAlreadyBooked):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d bookings succeeded, want exactly 1", succeeded)
	}
}

func TestUpdateReservation(t *testing.T) {
	env := newTestEnv(t)
	secondCourt := env.addCourt(t, "Cancha 2", "80", &env.sport.ID)
	other := env.addClient(t, "Maria", "Lopez", 28999111)
	first := env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00").Reservation
	env.book(t, other.ID, secondCourt.ID, "2025-05-10", "19:00")

	t.Run("same slot does not collide with itself", func(t *testing.T) {
		msg, err := env.reservations.UpdateReservation(env.ctx, first.ID, UpdateReservationRequest{
			ClientID: env.client.ID, CourtID: env.court.ID, Date: "2025-05-10", Time: "18:00",
		})
		if err != nil {
			t.Fatalf("UpdateReservation: %v", err)
		}
		if msg != ReservationUpdatedMessage {
			t.Errorf("ack = %q", msg)
		}
	})

	t.Run("court taken by another reservation", func(t *testing.T) {
		_, err := env.reservations.UpdateReservation(env.ctx, first.ID, UpdateReservationRequest{
			ClientID: env.client.ID, CourtID: secondCourt.ID, Date: "2025-05-10", Time: "19:00",
		})
		if !errors.Is(err, ErrCourtDoubleBooked) {
			t.Errorf("error = %v, want ErrCourtDoubleBooked", err)
		}
	})

	t.Run("client busy at the new slot", func(t *testing.T) {
		_, err := env.reservations.UpdateReservation(env.ctx, first.ID, UpdateReservationRequest{
			ClientID: other.ID, CourtID: env.court.ID, Date: "2025-05-10", Time: "19:00",
		})
		if !errors.Is(err, ErrClientDoubleBooked) {
			t.Errorf("error = %v, want ErrClientDoubleBooked", err)
		}
	})

	t.Run("past date", func(t *testing.T) {
		_, err := env.reservations.UpdateReservation(env.ctx, first.ID, UpdateReservationRequest{
			ClientID: env.client.ID, CourtID: env.court.ID, Date: "2025-05-01", Time: "18:00",
		})
		if !errors.Is(err, ErrPastDate) {
			t.Errorf("error = %v, want ErrPastDate", err)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		_, err := env.reservations.UpdateReservation(env.ctx, 9999, UpdateReservationRequest{
			ClientID: env.client.ID, CourtID: env.court.ID, Date: "2025-05-10", Time: "18:00",
		})
		if !errors.Is(err, ErrEntityNotFound) {
			t.Errorf("error = %v, want ErrEntityNotFound", err)
		}
	})

	t.Run("moves every field", func(t *testing.T) {
		_, err := env.reservations.UpdateReservation(env.ctx, first.ID, UpdateReservationRequest{
			ClientID: other.ID, CourtID: secondCourt.ID, Date: "2025-05-11", Time: "9:15",
		})
		if err != nil {
			t.Fatalf("UpdateReservation: %v", err)
		}
		got, err := env.reservations.GetReservationByID(env.ctx, first.ID)
		if err != nil {
			t.Fatalf("GetReservationByID: %v", err)
		}
		if got.ClientID != other.ID || got.CourtID != secondCourt.ID ||
			got.Date.Format(models.DateLayout) != "2025-05-11" || got.Time != models.NewTimeOfDay(9, 15) {
			t.Errorf("reservation after update = %+v", got)
		}

		// The old slot is free again.
		env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00")
	})
}

func TestDeleteReservation(t *testing.T) {
	env := newTestEnv(t)
	r := env.book(t, env.client.ID, env.court.ID, "2025-05-10", "18:00").Reservation

	if err := env.reservations.DeleteReservation(env.ctx, r.ID); err != nil {
		t.Fatalf("DeleteReservation: %v", err)
	}
	if err := env.reservations.DeleteReservation(env.ctx, r.ID); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("second delete error = %v, want ErrEntityNotFound", err)
	}
	if _, err := env.reservations.GetReservationByID(env.ctx, r.ID); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("get after delete error = %v, want ErrEntityNotFound", err)
	}

	published := env.recorder.Events()
	if last := published[len(published)-1]; last.Type != events.ReservationDeleted || last.CourtName != "Cancha 1" {
		t.Errorf("last event = %+v", last)
	}
}
