// Package eventstest provides an events.Publisher that keeps what it is given, for tests.
package eventstest

import (
	"context"
	"sync"

	"canchas_backend/internal/events"
)

// Recorder keeps published events in memory, in publish order.
type Recorder struct {
	mu     sync.Mutex
	events []events.ReservationEvent
}

func (r *Recorder) Publish(_ context.Context, event events.ReservationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []events.ReservationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.ReservationEvent(nil), r.events...)
}
