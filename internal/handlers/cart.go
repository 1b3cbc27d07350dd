package handlers

import (
	"errors"
	"net/http"

	"livra_back_end/internal/cart"
	"livra_back_end/internal/domain"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	Svc *cart.Service
}

func NewCartHandler(svc *cart.Service) *CartHandler { return &CartHandler{Svc: svc} }

// GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	userID := c.GetString("user_id")
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": h.Svc.Get(c.Request.Context(), userID)})
}

// POST /api/cart/add
func (h *CartHandler) Add(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		MenuItemID string `json:"menuItemId"`
		Quantity   int    `json:"quantity"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Quantité invalide"})
		return
	}

	updated, err := h.Svc.AddItem(c.Request.Context(), userID, input.MenuItemID, input.Quantity, input.Notes)
	if err != nil {
		fail(c, cartErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Article ajouté au panier", "cart": updated})
}

// PUT /api/cart/item
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		MenuItemID string `json:"menuItemId"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Données invalides"})
		return
	}

	updated, err := h.Svc.UpdateQuantity(c.Request.Context(), userID, input.MenuItemID, input.Quantity)
	if err != nil {
		fail(c, cartErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": updated})
}

// DELETE /api/cart/:menuItemId
func (h *CartHandler) Remove(c *gin.Context) {
	userID := c.GetString("user_id")

	updated, err := h.Svc.RemoveItem(c.Request.Context(), userID, c.Param("menuItemId"))
	if err != nil {
		fail(c, cartErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Article supprimé du panier", "cart": updated})
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID := c.GetString("user_id")

	cleared, err := h.Svc.Clear(c.Request.Context(), userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Panier vidé avec succès", "cart": cleared})
}

// POST /api/cart/validate
func (h *CartHandler) Validate(c *gin.Context) {
	userID := c.GetString("user_id")

	snapshot, err := h.Svc.Validate(c.Request.Context(), userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": snapshot})
}

// Le contrat du boundary panier : quantité malformée → 400, erreur métier
// (article introuvable, conflit de restaurant, store indisponible) → 500
func cartErrorStatus(err error) int {
	if errors.Is(err, domain.ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
