package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"livra_back_end/internal/domain"
	"livra_back_end/internal/models"
	"livra_back_end/internal/orders"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Svc *orders.Service
}

func NewOrderHandler(svc *orders.Service) *OrderHandler { return &OrderHandler{Svc: svc} }

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		DeliveryAddress string              `json:"deliveryAddress"`
		FromCart        bool                `json:"fromCart"`
		RestaurantID    string              `json:"restaurantId"`
		Items           []orders.ManualItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Données invalides"})
		return
	}

	o, err := h.Svc.Create(c.Request.Context(), userID, orders.CreateOrderInput{
		DeliveryAddress: input.DeliveryAddress,
		FromCart:        input.FromCart,
		RestaurantID:    input.RestaurantID,
		Items:           input.Items,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			fail(c, http.StatusBadRequest, err)
		case errors.Is(err, domain.ErrNotFound):
			fail(c, http.StatusNotFound, err)
		default:
			// Panier vide, article périmé, store indisponible
			fail(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Commande enregistrée", "order": o})
}

// GET /api/orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID := c.GetString("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var status *models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		st, ok := models.ParseOrderStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Statut inconnu"})
			return
		}
		status = &st
	}

	list, err := h.Svc.ListMine(c.Request.Context(), userID, page, limit, status)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": list, "page": page, "limit": limit})
}

// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	view, err := h.Svc.GetOrder(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, readErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": view})
}

// GET /api/orders/:id/track
func (h *OrderHandler) Track(c *gin.Context) {
	view, err := h.Svc.Track(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, readErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tracking": view})
}

// PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Données invalides"})
		return
	}

	newStatus, ok := models.ParseOrderStatus(input.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Statut inconnu"})
		return
	}

	o, err := h.Svc.UpdateStatus(c.Request.Context(), actor(c), c.Param("id"), newStatus, input.Notes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			fail(c, http.StatusNotFound, err)
		case errors.Is(err, domain.ErrForbidden):
			fail(c, http.StatusForbidden, err)
		case errors.Is(err, domain.ErrConflict):
			fail(c, http.StatusConflict, err)
		default:
			fail(c, http.StatusBadRequest, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
}

// POST /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	o, err := h.Svc.Cancel(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			fail(c, http.StatusNotFound, err)
		case errors.Is(err, domain.ErrForbidden):
			fail(c, http.StatusForbidden, err)
		default:
			fail(c, http.StatusBadRequest, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Commande annulée", "order": o})
}

func readErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
