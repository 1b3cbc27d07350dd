// Package orders porte le cœur de l'orchestration : matérialisation d'une
// commande depuis le panier (ou une liste manuelle), machine à états des
// statuts, et projections de suivi.
package orders

import (
	"context"
	"log"
	"time"

	"livra_back_end/internal/cart"
	"livra_back_end/internal/catalog"
	"livra_back_end/internal/domain"
	"livra_back_end/internal/models"
	"livra_back_end/internal/store"

	"github.com/google/uuid"
)

// Délai estimé de livraison une fois la commande en route
const DeliveryETA = 30 * time.Minute

// Notifier — sous-ensemble du dispatcher utilisé ici, toujours best-effort
type Notifier interface {
	OrderCreated(ctx context.Context, o *models.Order)
	StatusChanged(ctx context.Context, o *models.Order, oldStatus, newStatus models.OrderStatus)
}

// Assigner — tentative d'auto-assignation à la création, best-effort
type Assigner interface {
	AutoAssign(ctx context.Context, o *models.Order)
}

type Service struct {
	Orders  store.OrderStore
	Users   store.UserStore
	Cart    *cart.Service
	Catalog catalog.Catalog
	Notify  Notifier
	Assign  Assigner // optionnel

	now   func() time.Time
	newID func() string
}

func NewService(orders store.OrderStore, users store.UserStore, cartSvc *cart.Service, cat catalog.Catalog, notifier Notifier) *Service {
	return &Service{
		Orders:  orders,
		Users:   users,
		Cart:    cartSvc,
		Catalog: cat,
		Notify:  notifier,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// ManualItem — ligne du chemin manuel (sans panier)
type ManualItem struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
}

type CreateOrderInput struct {
	DeliveryAddress string
	FromCart        bool
	RestaurantID    string
	Items           []ManualItem
}

// Create matérialise une commande au statut initial "pending" (le premier
// état de la file). Chemin panier : validation re-pricée puis vidage du
// panier. Chemin manuel : chaque article est résolu au catalogue, restreint
// au restaurant donné. Les prix sont figés à la création.
func (s *Service) Create(ctx context.Context, userID string, in CreateOrderInput) (*models.Order, error) {
	if in.DeliveryAddress == "" {
		return nil, domain.Wrap(domain.ErrValidation, "adresse de livraison manquante")
	}

	var (
		restaurantID string
		lines        []models.OrderLine
		err          error
	)
	if in.FromCart {
		restaurantID, lines, err = s.linesFromCart(ctx, userID)
	} else {
		restaurantID, lines, err = s.linesFromManual(ctx, in)
	}
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, l := range lines {
		total += l.Total
	}

	now := s.now()
	o := &models.Order{
		ID:              s.newID(),
		UserID:          userID,
		RestaurantID:    restaurantID,
		Items:           lines,
		TotalPrice:      total,
		DeliveryAddress: in.DeliveryAddress,
		Status:          models.StatusPending,
		StatusHistory: []models.StatusChange{
			{Status: models.StatusPending, ChangedBy: userID, ChangedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Orders.Insert(ctx, o); err != nil {
		return nil, err
	}

	// Le panier n'est vidé que sur le chemin panier, après persistance.
	// La commande existe déjà : un échec ici ne la remet pas en cause.
	if in.FromCart {
		if _, err := s.Cart.Clear(ctx, userID); err != nil {
			log.Printf("⚠️ Échec vidage du panier après commande %s: %v", o.ID, err)
		}
	}

	// Effets best-effort : ni la notification ni l'auto-assignation ne
	// peuvent faire échouer la création
	if s.Notify != nil {
		s.Notify.OrderCreated(ctx, o)
	}
	if s.Assign != nil {
		s.Assign.AutoAssign(ctx, o)
	}

	return o, nil
}

func (s *Service) linesFromCart(ctx context.Context, userID string) (string, []models.OrderLine, error) {
	c, err := s.Cart.Validate(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	lines := make([]models.OrderLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, models.OrderLine{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
			Total:      l.Total,
			Notes:      l.Notes,
		})
	}
	return c.RestaurantID, lines, nil
}

func (s *Service) linesFromManual(ctx context.Context, in CreateOrderInput) (string, []models.OrderLine, error) {
	if in.RestaurantID == "" || len(in.Items) == 0 {
		return "", nil, domain.Wrap(domain.ErrValidation, "restaurant et articles requis")
	}
	if _, err := s.Catalog.GetRestaurant(ctx, in.RestaurantID); err != nil {
		return "", nil, err
	}

	lines := make([]models.OrderLine, 0, len(in.Items))
	for _, mi := range in.Items {
		if mi.Quantity < 1 {
			return "", nil, domain.Wrap(domain.ErrValidation, "quantité invalide")
		}
		item, err := s.Catalog.GetMenuItem(ctx, mi.MenuItemID)
		if err != nil {
			return "", nil, err
		}
		// Un article d'un autre restaurant est traité comme introuvable
		if item.RestaurantID != in.RestaurantID || !item.Available {
			return "", nil, domain.Wrap(domain.ErrNotFound, "article hors du restaurant demandé")
		}
		lines = append(lines, models.OrderLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   mi.Quantity,
			Total:      item.Price * float64(mi.Quantity),
			Notes:      mi.Notes,
		})
	}
	return in.RestaurantID, lines, nil
}

// UpdateStatus applique une transition selon la matrice rôle × transition.
// Une transition vers le statut courant est un succès sans entrée d'historique.
func (s *Service) UpdateStatus(ctx context.Context, actor models.Actor, orderID string, newStatus models.OrderStatus, notes string) (*models.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status == newStatus {
		return o, nil
	}

	// L'adjacence d'abord : un saut illégal est une transition invalide,
	// quel que soit l'acteur
	from := o.Status
	if !CanTransition(from, newStatus) {
		return nil, domain.Wrap(domain.ErrInvalidState,
			string(from)+" → "+string(newStatus))
	}
	if err := s.authorizeTransition(ctx, actor, o); err != nil {
		return nil, err
	}
	if !roleAllows(actor.Role, from, newStatus) {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	o.Status = newStatus
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, models.StatusChange{
		Status:    newStatus,
		ChangedBy: actor.UserID,
		ChangedAt: now,
		Notes:     notes,
	})
	switch newStatus {
	case models.StatusInDelivery:
		eta := now.Add(DeliveryETA)
		o.EstimatedDeliveryTime = &eta
	case models.StatusDelivered:
		o.ActualDeliveryTime = &now
	}

	applied, err := s.Orders.UpdateGuarded(ctx, o, from)
	if err != nil {
		return nil, err
	}
	if !applied {
		// La commande a changé sous nos pieds : l'appelant peut réessayer
		return nil, domain.Wrap(domain.ErrConflict, "la commande a été modifiée entre-temps")
	}

	if s.Notify != nil {
		s.Notify.StatusChanged(ctx, o, from, newStatus)
	}
	return o, nil
}

// Cancel — spécialisation : refusée d'emblée sur un état terminal
func (s *Service) Cancel(ctx context.Context, actor models.Actor, orderID string) (*models.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status.IsTerminal() {
		return nil, domain.Wrap(domain.ErrInvalidState, "commande déjà terminée")
	}
	return s.UpdateStatus(ctx, actor, orderID, models.StatusCancelled, "")
}

// authorizeTransition vérifie le rattachement acteur ↔ commande.
// Les contraintes de transition par rôle sont dans roleAllows.
func (s *Service) authorizeTransition(ctx context.Context, actor models.Actor, o *models.Order) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleRestaurantAdmin:
		owns, err := s.Users.IsRestaurantOwner(ctx, actor.UserID, o.RestaurantID)
		if err != nil {
			return err
		}
		if !owns {
			return domain.ErrForbidden
		}
		return nil
	case models.RoleDeliveryPartner:
		partner, err := s.Users.GetPartnerByUser(ctx, actor.UserID)
		if err != nil {
			return domain.ErrForbidden
		}
		if o.DeliveryPartnerID == nil || *o.DeliveryPartnerID != partner.ID {
			return domain.ErrForbidden
		}
		return nil
	case models.RoleCustomer:
		if o.UserID != actor.UserID {
			return domain.ErrForbidden
		}
		return nil
	}
	return domain.ErrForbidden
}
