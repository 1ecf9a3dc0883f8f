package events

import (
	"context"
	"time"
)

// Tipos de evento publicados após cada alteração bem-sucedida.
// Também são usados como routing key.
const (
	PropertyCreated = "property.created"
	PropertyUpdated = "property.updated"
	PropertyDeleted = "property.deleted"
)

// PropertyEvent notifica que um imóvel foi criado, alterado ou removido.
type PropertyEvent struct {
	Type       string    `json:"type"`
	PropertyID string    `json:"property_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewPropertyEvent cria um evento do tipo informado.
func NewPropertyEvent(eventType, propertyID string, occurredAt time.Time) PropertyEvent {
	return PropertyEvent{Type: eventType, PropertyID: propertyID, OccurredAt: occurredAt}
}

// NoopPublisher descarta os eventos. Usado quando não há broker configurado.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event PropertyEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
