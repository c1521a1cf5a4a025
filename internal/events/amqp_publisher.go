package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	reconnectInitialDelay = time.Second
	reconnectMaxDelay     = 30 * time.Second
)

// ErrPublisherDisconnected is returned by Publish while the broker link is being restored.
var ErrPublisherDisconnected = errors.New("rabbitmq connection is down")

// AMQPPublisher publishes events as persistent JSON messages on a topic exchange,
// routed by event type. When the broker drops the connection or channel it re-dials
// in the background with exponential backoff.
type AMQPPublisher struct {
	url      string
	exchange string
	done     chan struct{}

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange, done: make(chan struct{})}
	conn, ch, err := p.connect()
	if err != nil {
		return nil, err
	}
	p.conn, p.ch = conn, ch
	go p.watch(conn, ch)
	return p, nil
}

func (p *AMQPPublisher) connect() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	return conn, ch, nil
}

// watch waits for conn or ch to close and replaces both, until Close is called.
func (p *AMQPPublisher) watch(conn *amqp.Connection, ch *amqp.Channel) {
	for {
		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

		var cause *amqp.Error
		select {
		case <-p.done:
			return
		case cause = <-connClosed:
		case cause = <-chClosed:
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		p.conn, p.ch = nil, nil
		p.mu.Unlock()
		_ = ch.Close()
		_ = conn.Close()

		event := log.Warn().Str("exchange", p.exchange)
		if cause != nil {
			event = event.Err(cause)
		}
		event.Msg("RabbitMQ connection lost; reconnecting")

		if conn, ch = p.redial(); conn == nil {
			return
		}
		log.Info().Str("exchange", p.exchange).Msg("RabbitMQ connection restored")
	}
}

// redial retries connect until it succeeds or the publisher is closed, in which
// case it returns nils.
func (p *AMQPPublisher) redial() (*amqp.Connection, *amqp.Channel) {
	delay := reconnectInitialDelay
	for {
		select {
		case <-p.done:
			return nil, nil
		case <-time.After(delay):
		}

		conn, ch, err := p.connect()
		if err != nil {
			delay = nextReconnectDelay(delay)
			log.Warn().Err(err).Dur("retry_in", delay).Msg("RabbitMQ reconnect failed")
			continue
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = ch.Close()
			_ = conn.Close()
			return nil, nil
		}
		p.conn, p.ch = conn, ch
		p.mu.Unlock()
		return conn, ch
	}
}

func nextReconnectDelay(d time.Duration) time.Duration {
	d *= 2
	if d > reconnectMaxDelay {
		return reconnectMaxDelay
	}
	return d
}

func (p *AMQPPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return fmt.Errorf("%w: dropping %s for reservation %d", ErrPublisherDisconnected, event.Type, event.ReservationID)
	}
	return p.ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Close stops reconnecting and closes the current connection, if any.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	conn, ch := p.conn, p.ch
	p.conn, p.ch = nil, nil
	p.mu.Unlock()

	if ch != nil {
		_ = ch.Close()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}
