package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"livra_back_end/internal/database"
	"livra_back_end/internal/domain"
	"livra_back_end/internal/models"

	"github.com/gocql/gocql"
)

// OrderStore — accès durable aux commandes. Les mutations passent par des
// écritures conditionnelles (LWT) : la garde `IF status = ?` (et
// `IF delivery_partner_id = null` pour l'assignation) ferme la course
// read-modify-write sur un même document commande.
type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, page, limit int, status *models.OrderStatus) ([]models.Order, error)
	ListUnassigned(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error)
	// UpdateGuarded persiste statut/historique/horodatages de o,
	// conditionné au statut observé à la lecture. Retourne false si la
	// commande a changé entre-temps.
	UpdateGuarded(ctx context.Context, o *models.Order, expected models.OrderStatus) (bool, error)
	// AssignPartnerGuarded persiste l'assignation, conditionnée à
	// « pas encore de livreur » et au statut observé.
	AssignPartnerGuarded(ctx context.Context, o *models.Order, expected models.OrderStatus) (bool, error)
	CountActiveByPartner(ctx context.Context, partnerID string) (int, error)
}

type ScyllaOrderStore struct{}

func NewScyllaOrderStore() *ScyllaOrderStore { return &ScyllaOrderStore{} }

const orderColumns = `order_id, user_id, restaurant_id, items_json, total_price, delivery_address,
	status, history_json, delivery_partner_id, estimated_delivery, actual_delivery, created_at, updated_at`

func (s *ScyllaOrderStore) Insert(ctx context.Context, o *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return domain.ErrUnavailable
	}

	itemsJSON, _ := json.Marshal(o.Items)
	historyJSON, _ := json.Marshal(o.StatusHistory)

	err = session.Query(`INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.RestaurantID, string(itemsJSON), o.TotalPrice, o.DeliveryAddress,
		string(o.Status), string(historyJSON), partnerBinding(o), o.EstimatedDeliveryTime, o.ActualDeliveryTime,
		o.CreatedAt, o.UpdatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return domain.ErrUnavailable
	}
	return nil
}

func (s *ScyllaOrderStore) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	o, err := scanOrder(session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID).
		WithContext(ctx))
	if err == gocql.ErrNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.ErrUnavailable
	}
	return o, nil
}

func (s *ScyllaOrderStore) ListByUser(ctx context.Context, userID string, page, limit int, status *models.OrderStatus) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	iter := session.Query(`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ALLOW FILTERING`, userID).
		WithContext(ctx).Iter()
	orders, err := collectOrders(iter)
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	if status != nil {
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == *status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	// Tri + pagination côté application : le volume par utilisateur reste petit
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(orders) {
		return []models.Order{}, nil
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end], nil
}

func (s *ScyllaOrderStore) ListUnassigned(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	wanted := make(map[models.OrderStatus]bool, len(statuses))
	statusStrs := make([]string, 0, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
		statusStrs = append(statusStrs, string(st))
	}

	iter := session.Query(`SELECT `+orderColumns+` FROM orders WHERE status IN ? ALLOW FILTERING`, statusStrs).
		WithContext(ctx).Iter()
	orders, err := collectOrders(iter)
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	// CQL ne filtre pas sur null hors LWT : le filtre « non assignée » est applicatif
	unassigned := orders[:0]
	for _, o := range orders {
		if o.DeliveryPartnerID == nil && wanted[o.Status] {
			unassigned = append(unassigned, o)
		}
	}

	// Les plus anciennes d'abord
	sort.Slice(unassigned, func(i, j int) bool { return unassigned[i].CreatedAt.Before(unassigned[j].CreatedAt) })
	return unassigned, nil
}

func (s *ScyllaOrderStore) UpdateGuarded(ctx context.Context, o *models.Order, expected models.OrderStatus) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, domain.ErrUnavailable
	}

	historyJSON, _ := json.Marshal(o.StatusHistory)

	applied, err := session.Query(`UPDATE orders
		SET status = ?, history_json = ?, estimated_delivery = ?, actual_delivery = ?, updated_at = ?
		WHERE order_id = ? IF status = ?`,
		string(o.Status), string(historyJSON), o.EstimatedDeliveryTime, o.ActualDeliveryTime, o.UpdatedAt,
		o.ID, string(expected)).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, domain.ErrUnavailable
	}
	return applied, nil
}

func (s *ScyllaOrderStore) AssignPartnerGuarded(ctx context.Context, o *models.Order, expected models.OrderStatus) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, domain.ErrUnavailable
	}

	historyJSON, _ := json.Marshal(o.StatusHistory)

	applied, err := session.Query(`UPDATE orders
		SET delivery_partner_id = ?, status = ?, history_json = ?, updated_at = ?
		WHERE order_id = ? IF delivery_partner_id = null AND status = ?`,
		*o.DeliveryPartnerID, string(o.Status), string(historyJSON), o.UpdatedAt,
		o.ID, string(expected)).
		WithContext(ctx).
		MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, domain.ErrUnavailable
	}
	return applied, nil
}

func (s *ScyllaOrderStore) CountActiveByPartner(ctx context.Context, partnerID string) (int, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return 0, domain.ErrUnavailable
	}

	iter := session.Query(`SELECT status FROM orders WHERE delivery_partner_id = ? ALLOW FILTERING`, partnerID).
		WithContext(ctx).Iter()

	count := 0
	var status string
	for iter.Scan(&status) {
		st := models.OrderStatus(status)
		if st == models.StatusInDelivery || st == models.StatusPrepared {
			count++
		}
	}
	if err := iter.Close(); err != nil {
		return 0, domain.ErrUnavailable
	}
	return count, nil
}

// partnerBinding retourne la valeur à lier pour delivery_partner_id :
// null CQL tant que la commande n'est pas assignée. Le sentinel compte :
// la garde `IF delivery_partner_id = null` de AssignPartnerGuarded serait
// toujours fausse face à une chaîne vide, qui est une vraie valeur CQL.
// À la lecture, null redevient "" et hydrateOrder le remappe sur nil.
func partnerBinding(o *models.Order) interface{} {
	if o.DeliveryPartnerID == nil {
		return nil
	}
	return *o.DeliveryPartnerID
}

// --- helpers de scan ---

func scanOrder(q *gocql.Query) (*models.Order, error) {
	var (
		o           models.Order
		itemsJSON   string
		historyJSON string
		partnerID   string
		status      string
		estimated   time.Time
		actual      time.Time
	)
	err := q.Scan(&o.ID, &o.UserID, &o.RestaurantID, &itemsJSON, &o.TotalPrice, &o.DeliveryAddress,
		&status, &historyJSON, &partnerID, &estimated, &actual, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	hydrateOrder(&o, itemsJSON, historyJSON, partnerID, status, estimated, actual)
	return &o, nil
}

func collectOrders(iter *gocql.Iter) ([]models.Order, error) {
	var orders []models.Order
	for {
		var (
			o           models.Order
			itemsJSON   string
			historyJSON string
			partnerID   string
			status      string
			estimated   time.Time
			actual      time.Time
		)
		if !iter.Scan(&o.ID, &o.UserID, &o.RestaurantID, &itemsJSON, &o.TotalPrice, &o.DeliveryAddress,
			&status, &historyJSON, &partnerID, &estimated, &actual, &o.CreatedAt, &o.UpdatedAt) {
			break
		}
		hydrateOrder(&o, itemsJSON, historyJSON, partnerID, status, estimated, actual)
		orders = append(orders, o)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

func hydrateOrder(o *models.Order, itemsJSON, historyJSON, partnerID, status string, estimated, actual time.Time) {
	_ = json.Unmarshal([]byte(itemsJSON), &o.Items)
	_ = json.Unmarshal([]byte(historyJSON), &o.StatusHistory)
	o.Status = models.OrderStatus(status)
	if partnerID != "" {
		o.DeliveryPartnerID = &partnerID
	}
	if !estimated.IsZero() {
		o.EstimatedDeliveryTime = &estimated
	}
	if !actual.IsZero() {
		o.ActualDeliveryTime = &actual
	}
}
