package models

import "time"

// Types d'événements poussés sur les connexions live et journalisés
const (
	EventOrderCreated     = "order_created"
	EventOrderConfirmed   = "order_confirmed"
	EventStatusUpdated    = "status_updated"
	EventDeliveryAssigned = "delivery_assigned"
	EventOrderDelivered   = "order_delivered"
	EventOrderCancelled   = "order_cancelled"
)

// Notification — entrée durable, stockée en tête de liste Redis
// "notifications:<userId>" (TTL 7 jours, remis à chaque écriture)
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	OrderID   string    `json:"orderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// PushEvent — événement temps réel, sans garantie de livraison
type PushEvent struct {
	Type    string      `json:"type"`
	OrderID string      `json:"orderId,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}
