package service

import (
	"context"

	"github.com/Skotchmaster/shopfront/internal/events"
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/pkg/logging"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type WarehouseNotifier interface {
	NotifyCaptured(ctx context.Context, order *models.Order) error
}

type ProductIndexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Search(ctx context.Context, keyword string, from, size int) ([]models.Product, error)
}

// publish sends a domain event after the database work has committed.
// Delivery is best effort.
func publish(ctx context.Context, pub EventPublisher, topic, key, eventType string, data map[string]any) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, topic, key, events.New(eventType, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", eventType, "key", key, "error", err)
	}
}
