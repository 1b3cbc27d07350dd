package cart

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV — lecture/écriture « valeur entière » du blob panier.
// L'abstraction permet de tester le service sans Redis.
type KV interface {
	Get(ctx context.Context, key string) (string, error) // "" si absent
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisKV — implémentation Redis (celle du déploiement réel)
type RedisKV struct {
	Client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV { return &RedisKV{Client: client} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	data, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return data, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Del(ctx context.Context, key string) error {
	return r.Client.Del(ctx, key).Err()
}
