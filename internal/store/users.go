// Package store regroupe les accès persistants (Scylla) du cœur métier :
// commandes, utilisateurs et livreurs.
package store

import (
	"context"

	"livra_back_end/internal/database"
	"livra_back_end/internal/domain"
	"livra_back_end/internal/models"

	"github.com/gocql/gocql"
)

// UserStore résout identités, propriété de restaurant et registre des livreurs
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	IsRestaurantOwner(ctx context.Context, userID, restaurantID string) (bool, error)
	GetPartner(ctx context.Context, partnerID string) (*models.DeliveryPartner, error)
	GetPartnerByUser(ctx context.Context, userID string) (*models.DeliveryPartner, error)
	ListPartners(ctx context.Context) ([]models.DeliveryPartner, error)
}

type ScyllaUserStore struct{}

func NewScyllaUserStore() *ScyllaUserStore { return &ScyllaUserStore{} }

func (s *ScyllaUserStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	var u models.User
	err = session.Query(`SELECT user_id, name, email, role, phone FROM users WHERE user_id = ?`, userID).
		WithContext(ctx).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Phone)
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.ErrUnavailable
	}
	return &u, nil
}

func (s *ScyllaUserStore) IsRestaurantOwner(ctx context.Context, userID, restaurantID string) (bool, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return false, domain.ErrUnavailable
	}

	var ownerID string
	err = session.Query(`SELECT owner_id FROM restaurants WHERE restaurant_id = ?`, restaurantID).
		WithContext(ctx).
		Scan(&ownerID)
	if err == gocql.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, domain.ErrUnavailable
	}
	return ownerID == userID, nil
}

func (s *ScyllaUserStore) GetPartner(ctx context.Context, partnerID string) (*models.DeliveryPartner, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	var p models.DeliveryPartner
	err = session.Query(`SELECT partner_id, user_id, name, phone FROM delivery_partners WHERE partner_id = ?`, partnerID).
		WithContext(ctx).
		Scan(&p.ID, &p.UserID, &p.Name, &p.Phone)
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.ErrUnavailable
	}
	return &p, nil
}

func (s *ScyllaUserStore) GetPartnerByUser(ctx context.Context, userID string) (*models.DeliveryPartner, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	// Table de requête inverse, dénormalisée à l'enregistrement du livreur
	var p models.DeliveryPartner
	err = session.Query(`SELECT partner_id, user_id, name, phone FROM delivery_partners_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).
		Scan(&p.ID, &p.UserID, &p.Name, &p.Phone)
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.ErrUnavailable
	}
	return &p, nil
}

func (s *ScyllaUserStore) ListPartners(ctx context.Context) ([]models.DeliveryPartner, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	iter := session.Query(`SELECT partner_id, user_id, name, phone FROM delivery_partners`).
		WithContext(ctx).Iter()

	var partners []models.DeliveryPartner
	var p models.DeliveryPartner
	for iter.Scan(&p.ID, &p.UserID, &p.Name, &p.Phone) {
		partners = append(partners, p)
	}
	if err := iter.Close(); err != nil {
		return nil, domain.ErrUnavailable
	}
	return partners, nil
}
