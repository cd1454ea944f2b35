package floor

import (
	"context"
	"time"

	"github.com/yeremiapane/reservation-app/models"
)

// Event types
const (
	EventReservationCreated = "reservation.created"
	EventReservationUpdated = "reservation.updated"
	EventReservationStatus  = "reservation.status_changed"
	EventTableCreated       = "table.created"
	EventTableSeated        = "table.seated"
	EventTableFinished      = "table.finished"
)

type Event struct {
	Type           string              `json:"event"`
	Reservation    *models.Reservation `json:"reservation,omitempty"`
	Table          *models.Table       `json:"table,omitempty"`
	PreviousStatus string              `json:"previous_status,omitempty"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

func NewEvent(eventType string, r *models.Reservation, t *models.Table) Event {
	return Event{Type: eventType, Reservation: r, Table: t, OccurredAt: time.Now().UTC()}
}

// Publisher delivers floor events to whoever is watching the dining room.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi fans an event out to every publisher and returns the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
