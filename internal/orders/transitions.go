package orders

import "livra_back_end/internal/models"

// forwardEdges — la machine à états. Aucune arête ne revient en arrière ;
// delivered et cancelled sont terminaux.
var forwardEdges = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:    {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:  {models.StatusPrepared, models.StatusCancelled},
	models.StatusPrepared:   {models.StatusInDelivery, models.StatusCancelled},
	models.StatusInDelivery: {models.StatusDelivered},
}

// CanTransition vérifie l'adjacence avant — indépendamment du rôle
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range forwardEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// roleAllows applique la matrice de permissions rôle × transition.
// Les vérifications de rattachement (propriétaire du restaurant, livreur
// assigné, client propriétaire) sont faites par l'appelant.
func roleAllows(role string, from, to models.OrderStatus) bool {
	switch role {
	case models.RoleAdmin:
		// Toute transition, toute commande
		return true
	case models.RoleRestaurantAdmin:
		// Toute transition avant sauf l'étape finale réservée au livreur,
		// plus l'annulation
		return !(from == models.StatusInDelivery && to == models.StatusDelivered)
	case models.RoleDeliveryPartner:
		return (from == models.StatusPrepared && to == models.StatusInDelivery) ||
			(from == models.StatusInDelivery && to == models.StatusDelivered)
	case models.RoleCustomer:
		return to == models.StatusCancelled && !from.IsTerminal()
	}
	return false
}
