package delivery

import (
	"context"
	"testing"
	"time"

	"livra_back_end/internal/domain"
	"livra_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOrderStore struct {
	byID        map[string]*models.Order
	refuseGuard bool
}

func newMemOrderStore() *memOrderStore { return &memOrderStore{byID: map[string]*models.Order{}} }

func (m *memOrderStore) Insert(_ context.Context, o *models.Order) error {
	cp := *o
	m.byID[o.ID] = &cp
	return nil
}

func (m *memOrderStore) GetByID(_ context.Context, orderID string) (*models.Order, error) {
	o, ok := m.byID[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderStore) ListByUser(_ context.Context, userID string, _, _ int, _ *models.OrderStatus) ([]models.Order, error) {
	return nil, nil
}

func (m *memOrderStore) ListUnassigned(_ context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.byID {
		if o.DeliveryPartnerID != nil {
			continue
		}
		for _, st := range statuses {
			if o.Status == st {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

func (m *memOrderStore) UpdateGuarded(_ context.Context, o *models.Order, expected models.OrderStatus) (bool, error) {
	stored, ok := m.byID[o.ID]
	if !ok || stored.Status != expected || m.refuseGuard {
		return false, nil
	}
	cp := *o
	m.byID[o.ID] = &cp
	return true, nil
}

func (m *memOrderStore) AssignPartnerGuarded(_ context.Context, o *models.Order, expected models.OrderStatus) (bool, error) {
	stored, ok := m.byID[o.ID]
	if !ok || stored.Status != expected || stored.DeliveryPartnerID != nil || m.refuseGuard {
		return false, nil
	}
	cp := *o
	m.byID[o.ID] = &cp
	return true, nil
}

func (m *memOrderStore) CountActiveByPartner(_ context.Context, partnerID string) (int, error) {
	n := 0
	for _, o := range m.byID {
		if o.DeliveryPartnerID != nil && *o.DeliveryPartnerID == partnerID &&
			(o.Status == models.StatusInDelivery || o.Status == models.StatusPrepared) {
			n++
		}
	}
	return n, nil
}

type fakeUsers struct {
	partners []models.DeliveryPartner
}

func (f *fakeUsers) GetUser(_ context.Context, userID string) (*models.User, error) {
	return &models.User{ID: userID}, nil
}

func (f *fakeUsers) IsRestaurantOwner(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (f *fakeUsers) GetPartner(_ context.Context, partnerID string) (*models.DeliveryPartner, error) {
	for i := range f.partners {
		if f.partners[i].ID == partnerID {
			return &f.partners[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) GetPartnerByUser(_ context.Context, userID string) (*models.DeliveryPartner, error) {
	for i := range f.partners {
		if f.partners[i].UserID == userID {
			return &f.partners[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) ListPartners(_ context.Context) ([]models.DeliveryPartner, error) {
	return f.partners, nil
}

type recNotifier struct {
	changed  []string
	assigned []string // "orderID:partnerID"
}

func (r *recNotifier) StatusChanged(_ context.Context, _ *models.Order, oldStatus, newStatus models.OrderStatus) {
	r.changed = append(r.changed, string(oldStatus)+"→"+string(newStatus))
}

func (r *recNotifier) PartnerAssigned(_ context.Context, o *models.Order, partner *models.DeliveryPartner) {
	r.assigned = append(r.assigned, o.ID+":"+partner.ID)
}

func newTestEngine(partners ...models.DeliveryPartner) (*Engine, *memOrderStore, *recNotifier) {
	orderStore := newMemOrderStore()
	notifier := &recNotifier{}
	e := NewEngine(orderStore, &fakeUsers{partners: partners}, notifier)
	e.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return e, orderStore, notifier
}

func seedOrder(store *memOrderStore, id string, status models.OrderStatus, partnerID *string) {
	store.byID[id] = &models.Order{
		ID:                id,
		UserID:            "user-1",
		RestaurantID:      "resto-1",
		Status:            status,
		DeliveryPartnerID: partnerID,
	}
}

func TestClaim_PendingPromotedToConfirmed(t *testing.T) {
	e, store, notifier := newTestEngine(models.DeliveryPartner{ID: "partner-1", UserID: "courier-1"})
	seedOrder(store, "cmd-1", models.StatusPending, nil)

	o, err := e.Claim(context.Background(), "cmd-1", "partner-1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, o.Status)
	require.NotNil(t, o.DeliveryPartnerID)
	assert.Equal(t, "partner-1", *o.DeliveryPartnerID)
	require.Len(t, o.StatusHistory, 1)
	assert.Equal(t, "courier-1", o.StatusHistory[0].ChangedBy)

	assert.Equal(t, []string{"pending→confirmed"}, notifier.changed)
	assert.Equal(t, []string{"cmd-1:partner-1"}, notifier.assigned)
}

func TestClaim_PreparedKeepsStatus(t *testing.T) {
	e, store, notifier := newTestEngine(models.DeliveryPartner{ID: "partner-1", UserID: "courier-1"})
	seedOrder(store, "cmd-1", models.StatusPrepared, nil)

	o, err := e.Claim(context.Background(), "cmd-1", "partner-1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPrepared, o.Status)
	assert.Empty(t, o.StatusHistory)

	// Pas de changement de statut ⇒ pas de notification de statut
	assert.Empty(t, notifier.changed)
	assert.Equal(t, []string{"cmd-1:partner-1"}, notifier.assigned)
}

func TestClaim_Refusals(t *testing.T) {
	other := "partner-2"
	tests := []struct {
		name    string
		status  models.OrderStatus
		partner *string
		wantErr error
	}{
		{name: "déjà assignée", status: models.StatusPrepared, partner: &other, wantErr: domain.ErrAlreadyAssigned},
		{name: "déjà confirmée", status: models.StatusConfirmed, wantErr: domain.ErrInvalidState},
		{name: "en livraison", status: models.StatusInDelivery, wantErr: domain.ErrInvalidState},
		{name: "livrée", status: models.StatusDelivered, wantErr: domain.ErrInvalidState},
		{name: "annulée", status: models.StatusCancelled, wantErr: domain.ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store, _ := newTestEngine(models.DeliveryPartner{ID: "partner-1", UserID: "courier-1"})
			seedOrder(store, "cmd-1", tt.status, tt.partner)

			_, err := e.Claim(context.Background(), "cmd-1", "partner-1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClaim_UnknownPartnerForbidden(t *testing.T) {
	e, store, _ := newTestEngine()
	seedOrder(store, "cmd-1", models.StatusPending, nil)

	_, err := e.Claim(context.Background(), "cmd-1", "partner-404")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClaim_LostRace(t *testing.T) {
	// L'écriture conditionnelle échoue : un autre livreur est passé avant
	e, store, notifier := newTestEngine(models.DeliveryPartner{ID: "partner-1", UserID: "courier-1"})
	seedOrder(store, "cmd-1", models.StatusPending, nil)
	store.refuseGuard = true

	_, err := e.Claim(context.Background(), "cmd-1", "partner-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyAssigned)
	assert.Empty(t, notifier.assigned)
}

func TestListClaimable(t *testing.T) {
	e, store, _ := newTestEngine()
	assigned := "partner-9"
	seedOrder(store, "cmd-1", models.StatusPending, nil)
	seedOrder(store, "cmd-2", models.StatusPrepared, nil)
	seedOrder(store, "cmd-3", models.StatusPrepared, &assigned)
	seedOrder(store, "cmd-4", models.StatusInDelivery, nil)

	list, err := e.ListClaimable(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	assert.ElementsMatch(t, []string{"cmd-1", "cmd-2"}, ids)
}

func TestAutoAssign_PicksLeastLoaded(t *testing.T) {
	e, store, notifier := newTestEngine(
		models.DeliveryPartner{ID: "partner-1", UserID: "courier-1"},
		models.DeliveryPartner{ID: "partner-2", UserID: "courier-2"},
	)

	// partner-1 a déjà deux courses actives, partner-2 aucune
	busy := "partner-1"
	store.byID["cmd-a"] = &models.Order{ID: "cmd-a", Status: models.StatusInDelivery, DeliveryPartnerID: &busy}
	store.byID["cmd-b"] = &models.Order{ID: "cmd-b", Status: models.StatusPrepared, DeliveryPartnerID: &busy}
	seedOrder(store, "cmd-1", models.StatusPending, nil)

	e.AutoAssign(context.Background(), store.byID["cmd-1"])

	o, err := store.GetByID(context.Background(), "cmd-1")
	require.NoError(t, err)
	require.NotNil(t, o.DeliveryPartnerID)
	assert.Equal(t, "partner-2", *o.DeliveryPartnerID)
	assert.Equal(t, []string{"cmd-1:partner-2"}, notifier.assigned)
}

func TestAutoAssign_NoPartnersSwallowed(t *testing.T) {
	e, store, notifier := newTestEngine()
	seedOrder(store, "cmd-1", models.StatusPending, nil)

	// Aucun livreur : l'échec est avalé, la commande reste intacte
	e.AutoAssign(context.Background(), store.byID["cmd-1"])

	o, err := store.GetByID(context.Background(), "cmd-1")
	require.NoError(t, err)
	assert.Nil(t, o.DeliveryPartnerID)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Empty(t, notifier.assigned)
}
