package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"livra_back_end/internal/domain"
	"livra_back_end/internal/lock"
	"livra_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, error) { return m.data[key], nil }

func (m *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type fakeCatalog struct {
	items       map[string]*models.MenuItem
	restaurants map[string]*models.Restaurant
}

func (f *fakeCatalog) GetMenuItem(_ context.Context, id string) (*models.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeCatalog) GetRestaurant(_ context.Context, id string) (*models.Restaurant, error) {
	r, ok := f.restaurants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func newTestService(cat *fakeCatalog) (*Service, *memKV) {
	kv := newMemKV()
	return &Service{
		kv:      kv,
		catalog: cat,
		locks:   lock.NewKeyMutex(),
		now:     func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) },
	}, kv
}

func pizzaCatalog() *fakeCatalog {
	return &fakeCatalog{
		items: map[string]*models.MenuItem{
			"pizza": {ID: "pizza", RestaurantID: "resto-1", Name: "Pizza Margherita", Price: 15.99, Available: true},
			"coke":  {ID: "coke", RestaurantID: "resto-1", Name: "Coca-Cola", Price: 2.50, Available: true},
			"sushi": {ID: "sushi", RestaurantID: "resto-2", Name: "Sushi Mix", Price: 22.00, Available: true},
			"off":   {ID: "off", RestaurantID: "resto-1", Name: "Plat du jour", Price: 9.00, Available: false},
		},
		restaurants: map[string]*models.Restaurant{
			"resto-1": {ID: "resto-1", Name: "Chez Mario"},
			"resto-2": {ID: "resto-2", Name: "Tokyo Bay"},
		},
	}
}

func TestAddItem_ComputesTotals(t *testing.T) {
	svc, _ := newTestService(pizzaCatalog())
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "user-1", "pizza", 2, "")
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, "Pizza Margherita", c.Lines[0].Name)
	assert.Equal(t, 15.99, c.Lines[0].UnitPrice)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.InDelta(t, 31.98, c.Lines[0].Total, 0.001)
	assert.InDelta(t, 31.98, c.TotalPrice, 0.001)
	assert.Equal(t, "resto-1", c.RestaurantID)
}

func TestAddItem_MergesAndReprices(t *testing.T) {
	cat := pizzaCatalog()
	svc, _ := newTestService(cat)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "pizza", 1, "")
	require.NoError(t, err)

	// Le restaurant change son prix entre deux ajouts
	cat.items["pizza"].Price = 17.50

	c, err := svc.AddItem(ctx, "user-1", "pizza", 2, "")
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.Equal(t, 17.50, c.Lines[0].UnitPrice)
	assert.InDelta(t, 52.50, c.TotalPrice, 0.001)
}

func TestAddItem_CrossRestaurantRejected(t *testing.T) {
	svc, _ := newTestService(pizzaCatalog())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "pizza", 1, "")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "user-1", "sushi", 1, "")
	assert.ErrorIs(t, err, domain.ErrCrossRestaurant)

	// Le panier n'a pas bougé
	c := svc.Get(ctx, "user-1")
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "pizza", c.Lines[0].MenuItemID)
	assert.Equal(t, "resto-1", c.RestaurantID)
}

func TestAddItem_Validation(t *testing.T) {
	svc, _ := newTestService(pizzaCatalog())
	ctx := context.Background()

	tests := []struct {
		name       string
		menuItemID string
		quantity   int
		wantErr    error
	}{
		{name: "quantité nulle", menuItemID: "pizza", quantity: 0, wantErr: domain.ErrValidation},
		{name: "quantité négative", menuItemID: "pizza", quantity: -3, wantErr: domain.ErrValidation},
		{name: "article inconnu", menuItemID: "nope", quantity: 1, wantErr: domain.ErrNotFound},
		{name: "article indisponible", menuItemID: "off", quantity: 1, wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(ctx, "user-1", tt.menuItemID, tt.quantity, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateQuantity(t *testing.T) {
	svc, _ := newTestService(pizzaCatalog())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "pizza", 2, "")
	require.NoError(t, err)

	c, err := svc.UpdateQuantity(ctx, "user-1", "pizza", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.InDelta(t, 5*15.99, c.TotalPrice, 0.001)

	// Quantité ≤ 0 supprime la ligne ; panier vide ⇒ restaurant réinitialisé
	c, err = svc.UpdateQuantity(ctx, "user-1", "pizza", 0)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
	assert.Empty(t, c.RestaurantID)
	assert.Zero(t, c.TotalPrice)

	_, err = svc.UpdateQuantity(ctx, "user-1", "pizza", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveItem_Missing(t *testing.T) {
	svc, _ := newTestService(pizzaCatalog())

	_, err := svc.RemoveItem(context.Background(), "user-1", "pizza")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClear_Idempotent(t *testing.T) {
	svc, _ := newTestService(pizzaCatalog())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "pizza", 1, "")
	require.NoError(t, err)

	c, err := svc.Clear(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	// Vider un panier déjà vide reste un succès
	c, err = svc.Clear(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestGet_CorruptPayloadReturnsEmptyShape(t *testing.T) {
	svc, kv := newTestService(pizzaCatalog())
	kv.data["cart:user-1"] = "{pas du json"

	c := svc.Get(context.Background(), "user-1")
	assert.Equal(t, "user-1", c.UserID)
	assert.Empty(t, c.Lines)
}

func TestValidate_EmptyCart(t *testing.T) {
	svc, _ := newTestService(pizzaCatalog())

	_, err := svc.Validate(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestValidate_StaleItem(t *testing.T) {
	cat := pizzaCatalog()
	svc, _ := newTestService(cat)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "pizza", 1, "")
	require.NoError(t, err)

	// L'article disparaît de la carte après l'ajout
	cat.items["pizza"].Available = false

	_, err = svc.Validate(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrStaleItem)
}

func TestValidate_RepricesWithoutPersisting(t *testing.T) {
	cat := pizzaCatalog()
	svc, _ := newTestService(cat)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", "pizza", 2, "")
	require.NoError(t, err)

	cat.items["pizza"].Price = 18.00

	validated, err := svc.Validate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 18.00, validated.Lines[0].UnitPrice)
	assert.InDelta(t, 36.00, validated.TotalPrice, 0.001)

	// Le panier stocké garde l'ancien prix : la validation ne persiste pas
	stored := svc.Get(ctx, "user-1")
	assert.Equal(t, 15.99, stored.Lines[0].UnitPrice)
}

func TestSave_StoreDown(t *testing.T) {
	svc, _ := newTestService(pizzaCatalog())
	svc.kv = failingKV{}

	_, err := svc.AddItem(context.Background(), "user-1", "pizza", 1, "")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, error) { return "", nil }
func (failingKV) Set(context.Context, string, string, time.Duration) error {
	return errors.New("connexion refusée")
}
func (failingKV) Del(context.Context, string) error { return errors.New("connexion refusée") }
