package orders

import (
	"testing"

	"livra_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.OrderStatus
		to   models.OrderStatus
		want bool
	}{
		{"pending vers confirmed", models.StatusPending, models.StatusConfirmed, true},
		{"pending vers cancelled", models.StatusPending, models.StatusCancelled, true},
		{"confirmed vers prepared", models.StatusConfirmed, models.StatusPrepared, true},
		{"confirmed vers cancelled", models.StatusConfirmed, models.StatusCancelled, true},
		{"prepared vers in_delivery", models.StatusPrepared, models.StatusInDelivery, true},
		{"prepared vers cancelled", models.StatusPrepared, models.StatusCancelled, true},
		{"in_delivery vers delivered", models.StatusInDelivery, models.StatusDelivered, true},

		{"pas de saut pending vers delivered", models.StatusPending, models.StatusDelivered, false},
		{"pas de saut pending vers prepared", models.StatusPending, models.StatusPrepared, false},
		{"pas de saut confirmed vers in_delivery", models.StatusConfirmed, models.StatusInDelivery, false},
		{"pas d'annulation en livraison", models.StatusInDelivery, models.StatusCancelled, false},
		{"pas de retour arrière", models.StatusConfirmed, models.StatusPending, false},
		{"delivered est terminal", models.StatusDelivered, models.StatusCancelled, false},
		{"cancelled est terminal", models.StatusCancelled, models.StatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		name string
		role string
		from models.OrderStatus
		to   models.OrderStatus
		want bool
	}{
		{"admin fait tout", models.RoleAdmin, models.StatusInDelivery, models.StatusDelivered, true},
		{"restaurateur confirme", models.RoleRestaurantAdmin, models.StatusPending, models.StatusConfirmed, true},
		{"restaurateur prépare", models.RoleRestaurantAdmin, models.StatusConfirmed, models.StatusPrepared, true},
		{"restaurateur annule", models.RoleRestaurantAdmin, models.StatusPending, models.StatusCancelled, true},
		{"restaurateur ne livre pas", models.RoleRestaurantAdmin, models.StatusInDelivery, models.StatusDelivered, false},
		{"livreur part en livraison", models.RoleDeliveryPartner, models.StatusPrepared, models.StatusInDelivery, true},
		{"livreur livre", models.RoleDeliveryPartner, models.StatusInDelivery, models.StatusDelivered, true},
		{"livreur ne confirme pas", models.RoleDeliveryPartner, models.StatusPending, models.StatusConfirmed, false},
		{"livreur n'annule pas", models.RoleDeliveryPartner, models.StatusPending, models.StatusCancelled, false},
		{"client annule", models.RoleCustomer, models.StatusPending, models.StatusCancelled, true},
		{"client ne confirme pas", models.RoleCustomer, models.StatusPending, models.StatusConfirmed, false},
		{"rôle inconnu", "stagiaire", models.StatusPending, models.StatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roleAllows(tt.role, tt.from, tt.to))
		})
	}
}
