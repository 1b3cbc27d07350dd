package catalog

import (
	"context"

	"livra_back_end/internal/database"
	"livra_back_end/internal/domain"
	"livra_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaCatalog lit le keyspace catalogue (tables restaurants, menu_items)
type ScyllaCatalog struct{}

func NewScyllaCatalog() *ScyllaCatalog { return &ScyllaCatalog{} }

func (sc *ScyllaCatalog) GetMenuItem(ctx context.Context, menuItemID string) (*models.MenuItem, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	var item models.MenuItem
	err = session.Query(`SELECT item_id, restaurant_id, name, price, available
	                     FROM menu_items WHERE item_id = ?`, menuItemID).
		WithContext(ctx).
		Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Price, &item.Available)
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.ErrUnavailable
	}
	return &item, nil
}

func (sc *ScyllaCatalog) GetRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	var r models.Restaurant
	err = session.Query(`SELECT restaurant_id, name, owner_id, address, phone
	                     FROM restaurants WHERE restaurant_id = ?`, restaurantID).
		WithContext(ctx).
		Scan(&r.ID, &r.Name, &r.OwnerID, &r.Address, &r.Phone)
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.ErrUnavailable
	}
	return &r, nil
}
