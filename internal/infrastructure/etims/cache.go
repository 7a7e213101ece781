package etims

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "kra:"

// RedisCache guarda en Redis los catálogos de referencia de la KRA (clasificaciones,
// contribuyentes) para no consultarlos en cada request.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *Metrics
}

// NewRedisCache construye la caché. client nil devuelve una caché que nunca acierta.
func NewRedisCache(client *redis.Client, ttl time.Duration, metrics *Metrics) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, metrics: metrics}
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// Get decodifica en v el valor de key. Devuelve false si no existe o no hay Redis.
func (c *RedisCache) Get(ctx context.Context, key string, v any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.cacheLookup(kindOf(key), false)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("redis decode %s: %w", key, err)
	}
	c.metrics.cacheLookup(kindOf(key), true)
	return true, nil
}

// Set guarda v como JSON con el TTL configurado.
func (c *RedisCache) Set(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// kindOf etiqueta de métrica: la parte antes del primer ':' (ej. "customer:P05..." -> "customer").
func kindOf(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
