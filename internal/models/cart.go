package models

import "time"

// CartLine — nom et prix unitaire dénormalisés au moment de l'ajout ;
// le re-pricing de la validation (checkout) fait foi.
type CartLine struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `json:"quantity"`
	Notes      string  `json:"notes,omitempty"`
	Total      float64 `json:"total"`
}

// Cart — panier éphémère, un par utilisateur, blob JSON sous "cart:<userId>"
// avec TTL 24h. Invariant : toutes les lignes appartiennent au même
// restaurant ; RestaurantID vide ssi aucune ligne.
type Cart struct {
	UserID       string     `json:"userId"`
	RestaurantID string     `json:"restaurantId,omitempty"`
	Lines        []CartLine `json:"lines"`
	TotalPrice   float64    `json:"totalPrice"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Recompute recalcule le total depuis les lignes
func (c *Cart) Recompute() {
	total := 0.0
	for _, l := range c.Lines {
		total += l.Total
	}
	c.TotalPrice = total
	if len(c.Lines) == 0 {
		c.RestaurantID = ""
		c.TotalPrice = 0
	}
}

// EmptyCart retourne la forme « panier vide »
func EmptyCart(userID string) *Cart {
	return &Cart{UserID: userID, Lines: []CartLine{}}
}
