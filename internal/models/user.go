package models

// Rôles portés par le claim JWT "role"
const (
	RoleAdmin           = "admin"
	RoleRestaurantAdmin = "restaurant_admin"
	RoleDeliveryPartner = "delivery_partner"
	RoleCustomer        = "customer"
)

type User struct {
	ID    string `json:"user_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Actor — identité résolue par le middleware JWT, passée au cœur métier
type Actor struct {
	UserID string
	Role   string
}

// DeliveryPartner — livreur enregistré ; le compteur de commandes actives
// est dérivé côté store, pas stocké ici.
type DeliveryPartner struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Phone  string `json:"phone,omitempty"`
}
