// Package delivery répartit les commandes non assignées entre livreurs :
// réclamation atomique (claim) et auto-assignation équilibrée par charge.
package delivery

import (
	"context"
	"log"
	"time"

	"livra_back_end/internal/domain"
	"livra_back_end/internal/models"
	"livra_back_end/internal/store"
)

// Notifier — sous-ensemble du dispatcher utilisé par le moteur d'assignation
type Notifier interface {
	StatusChanged(ctx context.Context, o *models.Order, oldStatus, newStatus models.OrderStatus)
	PartnerAssigned(ctx context.Context, o *models.Order, partner *models.DeliveryPartner)
}

type Engine struct {
	Orders store.OrderStore
	Users  store.UserStore
	Notify Notifier

	now func() time.Time
}

func NewEngine(orders store.OrderStore, users store.UserStore, notifier Notifier) *Engine {
	return &Engine{Orders: orders, Users: users, Notify: notifier, now: time.Now}
}

// ListClaimable — commandes en pending/prepared sans livreur, les plus
// anciennes d'abord
func (e *Engine) ListClaimable(ctx context.Context) ([]models.Order, error) {
	return e.Orders.ListUnassigned(ctx, models.StatusPending, models.StatusPrepared)
}

// Claim assigne la commande au livreur, au plus une fois. Une commande
// réclamée en pending est promue confirmed (la réclamation la « débloque ») ;
// en prepared le statut ne bouge pas. L'écriture est conditionnelle côté
// store : le perdant d'une course reçoit ErrAlreadyAssigned.
func (e *Engine) Claim(ctx context.Context, orderID, partnerID string) (*models.Order, error) {
	partner, err := e.Users.GetPartner(ctx, partnerID)
	if err != nil {
		return nil, domain.ErrForbidden
	}

	o, err := e.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status != models.StatusPending && o.Status != models.StatusPrepared {
		return nil, domain.Wrap(domain.ErrInvalidState, "commande non réclamable dans cet état")
	}
	if o.DeliveryPartnerID != nil {
		return nil, domain.ErrAlreadyAssigned
	}

	from := o.Status
	now := e.now()
	o.DeliveryPartnerID = &partner.ID
	o.UpdatedAt = now
	if from == models.StatusPending {
		o.Status = models.StatusConfirmed
		o.StatusHistory = append(o.StatusHistory, models.StatusChange{
			Status:    models.StatusConfirmed,
			ChangedBy: partner.UserID,
			ChangedAt: now,
		})
	}

	applied, err := e.Orders.AssignPartnerGuarded(ctx, o, from)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.ErrAlreadyAssigned
	}

	if e.Notify != nil {
		// Notification de statut seulement si le statut a réellement changé
		if o.Status != from {
			e.Notify.StatusChanged(ctx, o, from, o.Status)
		}
		e.Notify.PartnerAssigned(ctx, o, partner)
	}
	return o, nil
}

// AutoAssign tente d'assigner la commande au livreur le moins chargé
// (nombre de commandes en in_delivery/prepared, égalité tranchée par ordre
// d'itération). Tous les échecs sont avalés : la création de commande ne
// dépend jamais de la disponibilité d'un livreur.
func (e *Engine) AutoAssign(ctx context.Context, o *models.Order) {
	partners, err := e.Users.ListPartners(ctx)
	if err != nil || len(partners) == 0 {
		log.Printf("⚠️ Auto-assignation impossible pour la commande %s: aucun livreur disponible", o.ID)
		return
	}

	best := -1
	bestCount := 0
	for i, p := range partners {
		count, err := e.Orders.CountActiveByPartner(ctx, p.ID)
		if err != nil {
			continue
		}
		if best == -1 || count < bestCount {
			best = i
			bestCount = count
		}
	}
	if best == -1 {
		log.Printf("⚠️ Auto-assignation impossible pour la commande %s: charge livreurs inconnue", o.ID)
		return
	}

	if _, err := e.Claim(ctx, o.ID, partners[best].ID); err != nil {
		log.Printf("⚠️ Auto-assignation échouée pour la commande %s: %v", o.ID, err)
	}
}
