package services

import (
	"context"

	"github.com/ferreirogomes/propfolio/events"
	"github.com/ferreirogomes/propfolio/models"
)

// PropertyStore é o que os serviços precisam de um backend de armazenamento.
// Implementado por storage.MongoStore, storage.DB e storage.MemoryStore.
type PropertyStore interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	ListProperties(ctx context.Context) ([]models.Property, error)
	GetProperty(ctx context.Context, id string) (models.Property, bool, error)
	InsertProperty(ctx context.Context, p models.Property) (string, error)
	UpdateProperty(ctx context.Context, id string, patch models.PropertyPatch) error
	DeleteProperty(ctx context.Context, id string) (bool, error)

	CountProperties(ctx context.Context, f models.MetricsFilter) (int64, error)
	AveragePurchasePrice(ctx context.Context, f models.MetricsFilter) (float64, bool, error)
	RecentProperties(ctx context.Context, f models.MetricsFilter, limit int) ([]models.PropertySummary, error)
	CountByType(ctx context.Context) ([]models.TypeCount, error)
}

// EventPublisher envia notificações de alteração de imóveis.
type EventPublisher interface {
	Publish(ctx context.Context, event events.PropertyEvent) error
}
