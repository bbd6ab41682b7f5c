package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened. Consumers fan these out to email,
// analytics and back-office tooling.
type EventType string

const (
	EventOrderConfirmed EventType = "order.confirmed"
	EventOrderFailed    EventType = "order.failed"
	EventSeatsBlocked   EventType = "seats.blocked"
	EventSeatsUnblocked EventType = "seats.unblocked"
)

// DomainEvent is the wire envelope published to the ticketing topic.
// Events for the same event ID share a partition so consumers see them
// in order.
type DomainEvent struct {
	ID         uuid.UUID              `json:"id"`
	Type       EventType              `json:"type"`
	EventID    string                 `json:"event_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

func NewDomainEvent(eventType EventType, eventID string, payload map[string]interface{}) *DomainEvent {
	return &DomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		EventID:    eventID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func (e *DomainEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events for one ticketed event to one partition.
func (e *DomainEvent) PartitionKey() string {
	return e.EventID
}
