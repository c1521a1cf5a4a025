package eventstest

import (
	"context"
	"testing"

	"canchas_backend/internal/events"
)

func TestRecorder(t *testing.T) {
	var rec Recorder
	var p events.Publisher = &rec
	_ = p.Publish(context.Background(), events.ReservationEvent{Type: events.ReservationCreated})
	_ = p.Publish(context.Background(), events.ReservationEvent{Type: events.ReservationDeleted})

	got := rec.Events()
	if len(got) != 2 || got[1].Type != events.ReservationDeleted {
		t.Errorf("events = %+v", got)
	}
	got[0].Type = "mutated"
	if rec.Events()[0].Type != events.ReservationCreated {
		t.Error("Events returned shared storage")
	}
}
