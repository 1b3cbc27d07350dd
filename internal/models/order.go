package models

import "time"

// OrderStatus est un enum fermé — les libellés d'affichage vivent dans
// StatusLabelFR, jamais dans la machine à états.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPrepared   OrderStatus = "prepared"
	StatusInDelivery OrderStatus = "in_delivery"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus valide une chaîne reçue du client
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusPrepared, StatusInDelivery, StatusDelivered, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// IsTerminal : rien n'est atteignable depuis delivered/cancelled
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// StatusLabelFR — libellés de présentation uniquement
var StatusLabelFR = map[OrderStatus]string{
	StatusPending:    "En attente",
	StatusConfirmed:  "Confirmée",
	StatusPrepared:   "Prête",
	StatusInDelivery: "En livraison",
	StatusDelivered:  "Livrée",
	StatusCancelled:  "Annulée",
}

// OrderLine est un instantané figé au checkout : le prix n'est jamais relu
// depuis le catalogue après création de la commande.
type OrderLine struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `json:"quantity"`
	Total      float64 `json:"total"`
	Notes      string  `json:"notes,omitempty"`
}

// StatusChange — entrée du journal d'audit des transitions acceptées
type StatusChange struct {
	Status    OrderStatus `json:"status"`
	ChangedBy string      `json:"changedBy"`
	ChangedAt time.Time   `json:"changedAt"`
	Notes     string      `json:"notes,omitempty"`
}

type Order struct {
	ID                    string         `json:"id"`
	UserID                string         `json:"userId"`
	RestaurantID          string         `json:"restaurantId"`
	Items                 []OrderLine    `json:"items"`
	TotalPrice            float64        `json:"totalPrice"`
	DeliveryAddress       string         `json:"deliveryAddress"`
	Status                OrderStatus    `json:"status"`
	StatusHistory         []StatusChange `json:"statusHistory"`
	DeliveryPartnerID     *string        `json:"deliveryPartnerId,omitempty"`
	EstimatedDeliveryTime *time.Time     `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time     `json:"actualDeliveryTime,omitempty"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}
