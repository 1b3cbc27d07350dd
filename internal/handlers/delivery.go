package handlers

import (
	"errors"
	"net/http"

	"livra_back_end/internal/delivery"
	"livra_back_end/internal/domain"
	"livra_back_end/internal/store"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	Engine *delivery.Engine
	Users  store.UserStore
}

func NewDeliveryHandler(engine *delivery.Engine, users store.UserStore) *DeliveryHandler {
	return &DeliveryHandler{Engine: engine, Users: users}
}

// GET /api/delivery/claimable
func (h *DeliveryHandler) Claimable(c *gin.Context) {
	list, err := h.Engine.ListClaimable(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": list})
}

// POST /api/delivery/claim/:orderId
func (h *DeliveryHandler) Claim(c *gin.Context) {
	userID := c.GetString("user_id")

	// Le token porte l'utilisateur ; le moteur attend l'identité livreur
	partner, err := h.Users.GetPartnerByUser(c.Request.Context(), userID)
	if err != nil {
		// Store injoignable ≠ livreur inconnu
		if errors.Is(err, domain.ErrUnavailable) {
			fail(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Livreur non enregistré"})
		return
	}

	o, err := h.Engine.Claim(c.Request.Context(), c.Param("orderId"), partner.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			fail(c, http.StatusNotFound, err)
		case errors.Is(err, domain.ErrForbidden):
			fail(c, http.StatusForbidden, err)
		default:
			// État non réclamable ou déjà assignée
			fail(c, http.StatusBadRequest, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Commande prise en charge", "order": o})
}
