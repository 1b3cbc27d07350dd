// Package cart implémente le panier éphémère : un blob JSON par utilisateur
// sous "cart:<userId>", TTL 24h remis à chaque écriture. Les read-modify-write
// sont sérialisés par un mutex par clé (un utilisateur = un panier).
package cart

import (
	"context"
	"encoding/json"
	"time"

	"livra_back_end/internal/catalog"
	"livra_back_end/internal/domain"
	"livra_back_end/internal/lock"
	"livra_back_end/internal/models"
)

const TTL = 24 * time.Hour

type Service struct {
	kv      KV
	catalog catalog.Catalog
	locks   *lock.KeyMutex
	now     func() time.Time
}

func NewService(kv KV, cat catalog.Catalog) *Service {
	return &Service{kv: kv, catalog: cat, locks: lock.NewKeyMutex(), now: time.Now}
}

func cartKey(userID string) string { return "cart:" + userID }

// Get retourne la forme « panier vide » si rien n'est stocké — ne échoue jamais
func (s *Service) Get(ctx context.Context, userID string) *models.Cart {
	data, err := s.kv.Get(ctx, cartKey(userID))
	if err != nil || data == "" {
		return models.EmptyCart(userID)
	}

	var c models.Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return models.EmptyCart(userID)
	}
	c.UserID = userID
	return &c
}

// AddItem résout l'article au catalogue et l'ajoute au panier. Si la même
// ligne existe déjà, les quantités s'additionnent et le prix unitaire stocké
// est rafraîchi au prix catalogue courant. Un ajout inter-restaurant est
// rejeté en bloc, sans mutation partielle.
func (s *Service) AddItem(ctx context.Context, userID, menuItemID string, quantity int, notes string) (*models.Cart, error) {
	if quantity < 1 {
		return nil, domain.Wrap(domain.ErrValidation, "quantité invalide")
	}

	item, err := s.catalog.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.ErrNotFound
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	c := s.Get(ctx, userID)
	if len(c.Lines) > 0 && c.RestaurantID != item.RestaurantID {
		return nil, domain.ErrCrossRestaurant
	}

	found := false
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == menuItemID {
			c.Lines[i].Quantity += quantity
			c.Lines[i].UnitPrice = item.Price
			c.Lines[i].Name = item.Name
			c.Lines[i].Total = item.Price * float64(c.Lines[i].Quantity)
			if notes != "" {
				c.Lines[i].Notes = notes
			}
			found = true
			break
		}
	}
	if !found {
		c.Lines = append(c.Lines, models.CartLine{
			MenuItemID: menuItemID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   quantity,
			Notes:      notes,
			Total:      item.Price * float64(quantity),
		})
	}

	c.RestaurantID = item.RestaurantID
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity — quantité ≤ 0 supprime la ligne, sinon recalcule le total
func (s *Service) UpdateQuantity(ctx context.Context, userID, menuItemID string, quantity int) (*models.Cart, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	c := s.Get(ctx, userID)
	idx := -1
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == menuItemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, domain.Wrap(domain.ErrNotFound, "article absent du panier")
	}

	if quantity <= 0 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	} else {
		c.Lines[idx].Quantity = quantity
		c.Lines[idx].Total = c.Lines[idx].UnitPrice * float64(quantity)
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, menuItemID string) (*models.Cart, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	c := s.Get(ctx, userID)
	idx := -1
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == menuItemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, domain.Wrap(domain.ErrNotFound, "article absent du panier")
	}

	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear est idempotent : vider un panier déjà vide est un succès
func (s *Service) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	if err := s.kv.Del(ctx, cartKey(userID)); err != nil {
		return nil, domain.ErrUnavailable
	}
	return models.EmptyCart(userID), nil
}

// Validate re-résout chaque ligne au catalogue et retourne un instantané
// re-pricé, prêt pour le checkout. C'est ici que le prix fait foi.
func (s *Service) Validate(ctx context.Context, userID string) (*models.Cart, error) {
	c := s.Get(ctx, userID)
	if len(c.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	for i := range c.Lines {
		item, err := s.catalog.GetMenuItem(ctx, c.Lines[i].MenuItemID)
		if err != nil || !item.Available || item.RestaurantID != c.RestaurantID {
			return nil, domain.Wrap(domain.ErrStaleItem, c.Lines[i].Name)
		}
		c.Lines[i].Name = item.Name
		c.Lines[i].UnitPrice = item.Price
		c.Lines[i].Total = item.Price * float64(c.Lines[i].Quantity)
	}

	c.Recompute()
	return c, nil
}

func (s *Service) save(ctx context.Context, c *models.Cart) error {
	c.Recompute()
	c.UpdatedAt = s.now()

	data, _ := json.Marshal(c)
	if err := s.kv.Set(ctx, cartKey(c.UserID), string(data), TTL); err != nil {
		return domain.ErrUnavailable
	}
	return nil
}
