package notify

import (
	"context"
	"encoding/json"

	"livra_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// PushTransport — canal temps réel : événement typé vers la connexion de
// l'utilisateur, et pour les changements de statut vers le canal de la
// commande (quiconque suit cette commande).
type PushTransport interface {
	SendToUser(userID string, ev models.PushEvent) error
	PublishOrder(ctx context.Context, orderID string, ev models.PushEvent) error
}

// WSPush — websockets locaux + pub/sub Redis pour le canal par commande
type WSPush struct {
	Presence *Presence
	Redis    *redis.Client
}

func NewWSPush(p *Presence, r *redis.Client) *WSPush {
	return &WSPush{Presence: p, Redis: r}
}

func (w *WSPush) SendToUser(userID string, ev models.PushEvent) error {
	return w.Presence.Send(userID, ev)
}

func OrderChannel(orderID string) string { return "order:" + orderID }

func (w *WSPush) PublishOrder(ctx context.Context, orderID string, ev models.PushEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return w.Redis.Publish(ctx, OrderChannel(orderID), payload).Err()
}
