package handlers

import (
	"log"
	"net/http"
	"time"

	"livra_back_end/internal/notify"
	"livra_back_end/internal/orders"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

type WSHandler struct {
	Presence *notify.Presence
	Redis    *redis.Client
	Orders   *orders.Service
}

func NewWSHandler(presence *notify.Presence, rdb *redis.Client, svc *orders.Service) *WSHandler {
	return &WSHandler{Presence: presence, Redis: rdb, Orders: svc}
}

// NotificationsWS enregistre la connexion dans le registre de présence :
// le dispatcher pousse ensuite les événements dessus. Aucune file d'attente
// à la déconnexion.
func (h *WSHandler) NotificationsWS(c *gin.Context) {
	userID := c.GetString("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}

	// Message d'accueil avant l'enregistrement : ensuite, seules les
	// écritures sérialisées par le registre touchent la connexion
	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Notifications temps réel activées",
	})

	h.Presence.Register(userID, conn)
	defer func() {
		h.Presence.Unregister(userID, conn)
		conn.Close()
	}()

	// Ping périodique ; la boucle de lecture détecte la fermeture.
	// WriteControl est sûr face aux écritures concurrentes du dispatcher.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

// OrderWS suit une commande précise : abonnement au canal Redis de la
// commande, relai des événements publiés par le dispatcher
func (h *WSHandler) OrderWS(c *gin.Context) {
	orderID := c.Param("id")

	// Même contrôle d'accès que la vue détaillée
	if _, err := h.Orders.GetOrder(c.Request.Context(), actor(c), orderID); err != nil {
		fail(c, readErrorStatus(err), err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.Redis.Subscribe(ctx, notify.OrderChannel(orderID))
	defer pubsub.Close()
	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Suivi de commande activé",
		"orderId": orderID,
	})

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
