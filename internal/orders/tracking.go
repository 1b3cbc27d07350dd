package orders

import (
	"context"

	"livra_back_end/internal/domain"
	"livra_back_end/internal/models"
)

// Projections en lecture seule pour le suivi des commandes. L'autorisation
// reprend l'intention de la matrice : propriétaire, admin du restaurant,
// livreur assigné, ou admin plateforme.

// OrderView — vue détaillée avec champs dénormalisés pour l'affichage
type OrderView struct {
	models.Order
	StatusLabel    string `json:"statusLabel"`
	RestaurantName string `json:"restaurantName,omitempty"`
	PartnerName    string `json:"partnerName,omitempty"`
	PartnerPhone   string `json:"partnerPhone,omitempty"`
}

// TrackingView — statistiques de temps écoulé pour le polling client
type TrackingView struct {
	OrderID               string                `json:"orderId"`
	Status                models.OrderStatus    `json:"status"`
	StatusLabel           string                `json:"statusLabel"`
	StatusHistory         []models.StatusChange `json:"statusHistory"`
	ElapsedMinutes        int                   `json:"elapsedMinutes"`
	ElapsedHours          float64               `json:"elapsedHours"`
	EstimatedDeliveryTime *string               `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *string               `json:"actualDeliveryTime,omitempty"`
}

// GetOrder retourne la vue détaillée, après contrôle d'accès
func (s *Service) GetOrder(ctx context.Context, actor models.Actor, orderID string) (*OrderView, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, actor, o); err != nil {
		return nil, err
	}

	view := &OrderView{Order: *o, StatusLabel: models.StatusLabelFR[o.Status]}

	// Enrichissements best-effort : la vue reste utile sans eux
	if r, err := s.Catalog.GetRestaurant(ctx, o.RestaurantID); err == nil {
		view.RestaurantName = r.Name
	}
	if o.DeliveryPartnerID != nil {
		if p, err := s.Users.GetPartner(ctx, *o.DeliveryPartnerID); err == nil {
			view.PartnerName = p.Name
			view.PartnerPhone = p.Phone
		}
	}
	return view, nil
}

// ListMine — commandes du client, paginées, filtre statut optionnel
func (s *Service) ListMine(ctx context.Context, userID string, page, limit int, status *models.OrderStatus) ([]models.Order, error) {
	return s.Orders.ListByUser(ctx, userID, page, limit, status)
}

// Track retourne les statistiques de temps écoulé depuis la création
func (s *Service) Track(ctx context.Context, actor models.Actor, orderID string) (*TrackingView, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, actor, o); err != nil {
		return nil, err
	}

	elapsed := s.now().Sub(o.CreatedAt)
	view := &TrackingView{
		OrderID:        o.ID,
		Status:         o.Status,
		StatusLabel:    models.StatusLabelFR[o.Status],
		StatusHistory:  o.StatusHistory,
		ElapsedMinutes: int(elapsed.Minutes()),
		ElapsedHours:   elapsed.Hours(),
	}
	if o.EstimatedDeliveryTime != nil {
		t := o.EstimatedDeliveryTime.Format("15:04")
		view.EstimatedDeliveryTime = &t
	}
	if o.ActualDeliveryTime != nil {
		t := o.ActualDeliveryTime.Format("15:04")
		view.ActualDeliveryTime = &t
	}
	return view, nil
}

func (s *Service) authorizeView(ctx context.Context, actor models.Actor, o *models.Order) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleCustomer:
		if o.UserID == actor.UserID {
			return nil
		}
	case models.RoleRestaurantAdmin:
		owns, err := s.Users.IsRestaurantOwner(ctx, actor.UserID, o.RestaurantID)
		if err == nil && owns {
			return nil
		}
	case models.RoleDeliveryPartner:
		partner, err := s.Users.GetPartnerByUser(ctx, actor.UserID)
		if err == nil && o.DeliveryPartnerID != nil && *o.DeliveryPartnerID == partner.ID {
			return nil
		}
	}
	return domain.ErrForbidden
}
