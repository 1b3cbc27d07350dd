// Package catalog expose les lectures du catalogue (restaurants, articles
// de menu). Lecture seule pour ce service : le catalogue est administré par
// un autre système.
package catalog

import (
	"context"

	"livra_back_end/internal/models"
)

type Catalog interface {
	GetMenuItem(ctx context.Context, menuItemID string) (*models.MenuItem, error)
	GetRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error)
}
