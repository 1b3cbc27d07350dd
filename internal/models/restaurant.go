package models

type Restaurant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// MenuItem — lecture seule pour ce service, le catalogue est géré ailleurs
type MenuItem struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurantId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Available    bool    `json:"available"`
}
