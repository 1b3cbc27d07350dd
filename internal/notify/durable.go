package notify

import (
	"context"
	"encoding/json"
	"time"

	"livra_back_end/internal/domain"
	"livra_back_end/internal/lock"
	"livra_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// TTL de la liste, remis à chaque écriture
	DurableTTL = 7 * 24 * time.Hour
	// Borne de la liste par utilisateur
	MaxEntries = 100
	// Limite de lecture par défaut
	DefaultListLimit = 50
)

func notifKey(userID string) string { return "notifications:" + userID }

// DurableLog — journal durable par utilisateur
type DurableLog interface {
	Append(ctx context.Context, userID string, n models.Notification) error
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	ClearAll(ctx context.Context, userID string) error
}

// ListStore — opérations de liste nécessaires au journal. Redis en
// production, fake en mémoire dans les tests.
type ListStore interface {
	PushFront(ctx context.Context, key, value string, max int64, ttl time.Duration) error
	Range(ctx context.Context, key string, start, stop int64) ([]string, error)
	SetAt(ctx context.Context, key string, index int64, value string) error
	Del(ctx context.Context, key string) error
}

// RedisListStore — LPUSH + LTRIM + EXPIRE en pipeline
type RedisListStore struct {
	Client *redis.Client
}

func NewRedisListStore(client *redis.Client) *RedisListStore { return &RedisListStore{Client: client} }

func (r *RedisListStore) PushFront(ctx context.Context, key, value string, max int64, ttl time.Duration) error {
	pipe := r.Client.Pipeline()
	pipe.LPush(ctx, key, value)
	pipe.LTrim(ctx, key, 0, max-1)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisListStore) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := r.Client.LRange(ctx, key, start, stop).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return vals, err
}

func (r *RedisListStore) SetAt(ctx context.Context, key string, index int64, value string) error {
	return r.Client.LSet(ctx, key, index, value).Err()
}

func (r *RedisListStore) Del(ctx context.Context, key string) error {
	return r.Client.Del(ctx, key).Err()
}

// Log — implémentation de DurableLog au-dessus d'un ListStore. Les
// écritures d'un même utilisateur sont sérialisées par un mutex par clé :
// MarkRead réécrit par index de liste, un LPUSH intercalé décalerait tout.
type Log struct {
	store ListStore
	locks *lock.KeyMutex
}

func NewLog(store ListStore) *Log {
	return &Log{store: store, locks: lock.NewKeyMutex()}
}

func (l *Log) Append(ctx context.Context, userID string, n models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	l.locks.Lock(userID)
	defer l.locks.Unlock(userID)
	return l.store.PushFront(ctx, notifKey(userID), string(data), MaxEntries, DurableTTL)
}

// List retourne les `limit` entrées les plus récentes (50 par défaut)
func (l *Log) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > MaxEntries {
		limit = DefaultListLimit
	}

	raw, err := l.store.Range(ctx, notifKey(userID), 0, int64(limit)-1)
	if err != nil {
		return nil, domain.ErrUnavailable
	}

	notifications := make([]models.Notification, 0, len(raw))
	for _, entry := range raw {
		var n models.Notification
		if json.Unmarshal([]byte(entry), &n) == nil {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

// MarkRead parcourt la liste et réécrit l'entrée correspondante. Le verrou
// utilisateur garantit que l'index lu est encore le bon au moment du SetAt.
func (l *Log) MarkRead(ctx context.Context, userID, notificationID string) error {
	l.locks.Lock(userID)
	defer l.locks.Unlock(userID)

	raw, err := l.store.Range(ctx, notifKey(userID), 0, MaxEntries-1)
	if err != nil {
		return domain.ErrUnavailable
	}

	for i, entry := range raw {
		var n models.Notification
		if json.Unmarshal([]byte(entry), &n) != nil {
			continue
		}
		if n.ID != notificationID {
			continue
		}
		n.Read = true
		data, _ := json.Marshal(n)
		if err := l.store.SetAt(ctx, notifKey(userID), int64(i), string(data)); err != nil {
			return domain.ErrUnavailable
		}
		return nil
	}
	return domain.Wrap(domain.ErrNotFound, "notification introuvable")
}

// ClearAll supprime toute la liste — lues et non lues, irréversible
func (l *Log) ClearAll(ctx context.Context, userID string) error {
	l.locks.Lock(userID)
	defer l.locks.Unlock(userID)

	if err := l.store.Del(ctx, notifKey(userID)); err != nil {
		return domain.ErrUnavailable
	}
	return nil
}
