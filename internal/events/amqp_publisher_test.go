package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNextReconnectDelay(t *testing.T) {
	d := reconnectInitialDelay
	var seen []time.Duration
	for i := 0; i < 7; i++ {
		d = nextReconnectDelay(d)
		seen = append(seen, d)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 30 * time.Second, 30 * time.Second, 30 * time.Second}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("delays = %v, want %v", seen, want)
		}
	}
}

func TestAMQPPublisherWhileDisconnected(t *testing.T) {
	// The state left behind by watch after the broker drops the connection.
	p := &AMQPPublisher{exchange: "canchas.reservations", done: make(chan struct{})}

	err := p.Publish(context.Background(), ReservationEvent{Type: ReservationCreated, ReservationID: 4})
	if !errors.Is(err, ErrPublisherDisconnected) {
		t.Fatalf("Publish while disconnected = %v", err)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-p.done:
	default:
		t.Fatal("Close did not stop reconnecting")
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if conn, ch := p.redial(); conn != nil || ch != nil {
		t.Error("redial dialed after Close")
	}
}
