package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"livra_back_end/internal/models"
	"livra_back_end/internal/store"

	"github.com/google/uuid"
)

// Dispatcher compose les canaux. Chaque effet est indépendant et
// best-effort : un échec est loggé, jamais propagé à l'opération métier
// qui a déclenché l'événement.
type Dispatcher struct {
	Push  PushTransport
	Log   DurableLog
	Users store.UserStore // résolution d'e-mail, optionnel
	Mail  Mailer          // optionnel

	now   func() time.Time
	newID func() string
}

func NewDispatcher(push PushTransport, durable DurableLog, users store.UserStore, mailer Mailer) *Dispatcher {
	return &Dispatcher{
		Push:  push,
		Log:   durable,
		Users: users,
		Mail:  mailer,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// OrderCreated notifie le client que sa commande est enregistrée
func (d *Dispatcher) OrderCreated(ctx context.Context, o *models.Order) {
	msg := fmt.Sprintf("Votre commande #%s a bien été enregistrée (%.2f€)", shortID(o.ID), o.TotalPrice)
	d.notify(ctx, o.UserID, models.EventOrderCreated, o, msg, false)
}

// StatusChanged notifie le client du passage oldStatus → newStatus et
// publie aussi sur le canal de la commande pour quiconque la suit
func (d *Dispatcher) StatusChanged(ctx context.Context, o *models.Order, oldStatus, newStatus models.OrderStatus) {
	eventType := models.EventStatusUpdated
	switch newStatus {
	case models.StatusConfirmed:
		eventType = models.EventOrderConfirmed
	case models.StatusDelivered:
		eventType = models.EventOrderDelivered
	case models.StatusCancelled:
		eventType = models.EventOrderCancelled
	}

	msg := fmt.Sprintf("Commande #%s : %s → %s",
		shortID(o.ID), models.StatusLabelFR[oldStatus], models.StatusLabelFR[newStatus])
	d.notify(ctx, o.UserID, eventType, o, msg, true)
	d.mailStatus(ctx, o, newStatus)
}

// PartnerAssigned notifie le client et le livreur de l'assignation
func (d *Dispatcher) PartnerAssigned(ctx context.Context, o *models.Order, partner *models.DeliveryPartner) {
	msg := fmt.Sprintf("Un livreur a pris en charge votre commande #%s", shortID(o.ID))
	d.notify(ctx, o.UserID, models.EventDeliveryAssigned, o, msg, true)

	partnerMsg := fmt.Sprintf("La commande #%s vous a été assignée", shortID(o.ID))
	d.notify(ctx, partner.UserID, models.EventDeliveryAssigned, o, partnerMsg, false)
}

// notify applique les deux effets (durable puis push) — chacun best-effort
func (d *Dispatcher) notify(ctx context.Context, userID, eventType string, o *models.Order, message string, publishOrder bool) {
	n := models.Notification{
		ID:        d.newID(),
		Type:      eventType,
		OrderID:   o.ID,
		Message:   message,
		Timestamp: d.now(),
		Read:      false,
	}

	if err := d.Log.Append(ctx, userID, n); err != nil {
		log.Printf("⚠️ Échec journalisation notification (%s, user %s): %v", eventType, userID, err)
	}

	ev := models.PushEvent{Type: eventType, OrderID: o.ID, Payload: n}
	if err := d.Push.SendToUser(userID, ev); err != nil {
		log.Printf("⚠️ Échec push notification (%s, user %s): %v", eventType, userID, err)
	}
	if publishOrder {
		if err := d.Push.PublishOrder(ctx, o.ID, ev); err != nil {
			log.Printf("⚠️ Échec publication canal commande %s: %v", o.ID, err)
		}
	}
}

func (d *Dispatcher) mailStatus(ctx context.Context, o *models.Order, status models.OrderStatus) {
	if d.Mail == nil || d.Users == nil {
		return
	}
	u, err := d.Users.GetUser(ctx, o.UserID)
	if err != nil || u.Email == "" {
		return
	}
	if err := d.Mail.SendStatusEmail(u.Email, o, status); err != nil {
		log.Printf("⚠️ Échec e-mail de statut pour la commande %s: %v", o.ID, err)
	}
}
