package services

import (
	"encoding/json"
	"time"

	"productsapi/internal/models"

	"github.com/google/uuid"
)

// Product event types, also used as routing keys.
const (
	EventProductCreated             = "product.created"
	EventProductUpdated             = "product.updated"
	EventProductAvailabilityToggled = "product.availability_toggled"
	EventProductDeleted             = "product.deleted"
)

// EventPublisher delivers serialized events. pkg/rabbitmq.Client implements it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductEvent is the message published after a product changes.
type ProductEvent struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	ProductID  uint            `json:"product_id"`
	Product    *models.Product `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewProductEvent builds an event with a fresh id. product is nil for deletions.
func NewProductEvent(eventType string, productID uint, product *models.Product) ProductEvent {
	return ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	}
}

// Marshal encodes the event as JSON.
func (e ProductEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
