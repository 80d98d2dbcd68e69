package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/config"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/metrics"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
)

func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	logging.Info().Str("addr", cfg.RedisAddr).Msg("[redis] conectado")
	return client, nil
}

// RedisCache guarda las recomendaciones en Redis con TTL de una hora.
//
// Cada usuario tiene un contador de generación; la generación vigente forma
// parte de la clave de sus entradas. Invalidar sube el contador (las claves
// viejas dejan de leerse) y borra las entradas existentes con SCAN.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

const redisBackend = "redis"

func genKey(userID int) string {
	return fmt.Sprintf("rec:gen:user:%d", userID)
}

func entryKey(key models.CacheKey, gen int64) string {
	return fmt.Sprintf("rec:%s:user:%d:g%d:filter:%s", key.Kind, key.UserID, gen, key.Filter)
}

func userPattern(userID int) string {
	return fmt.Sprintf("rec:*:user:%d:g*", userID)
}

func (c *RedisCache) generation(ctx context.Context, userID int) (int64, error) {
	v, err := c.client.Get(ctx, genKey(userID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

// GetOrCompute: los errores de Redis se registran y se recalcula sin caché.
func (c *RedisCache) GetOrCompute(ctx context.Context, key models.CacheKey, compute recommend.ComputeFunc) ([]models.RatingPrediction, error) {
	log := logging.Ctx(ctx)

	gen, err := c.generation(ctx, key.UserID)
	if err != nil {
		log.Warn().Err(err).Msg("[redis] no se pudo leer la generación, se calcula sin caché")
		metrics.CacheLookups.WithLabelValues(redisBackend, "error").Inc()
		return compute(context.WithoutCancel(ctx))
	}

	k := entryKey(key, gen)
	val, err := c.client.Get(ctx, k).Bytes()
	switch {
	case err == nil:
		var items []models.RatingPrediction
		if err := json.Unmarshal(val, &items); err == nil {
			metrics.CacheLookups.WithLabelValues(redisBackend, "hit").Inc()
			return items, nil
		}
		log.Warn().Str("key", k).Msg("[redis] entrada corrupta, se recalcula")
		metrics.CacheLookups.WithLabelValues(redisBackend, "miss").Inc()
	case err == redis.Nil:
		metrics.CacheLookups.WithLabelValues(redisBackend, "miss").Inc()
	default:
		log.Warn().Err(err).Str("key", k).Msg("[redis] error de lectura")
		metrics.CacheLookups.WithLabelValues(redisBackend, "error").Inc()
	}

	// El cálculo no se corta si el cliente se desconecta.
	detached := context.WithoutCancel(ctx)
	items, err := compute(detached)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(items)
	if err != nil {
		log.Warn().Err(err).Msg("[redis] no se pudo serializar")
		return items, nil
	}
	// Sólo se guarda si nadie invalidó mientras calculábamos.
	if err := c.storeIfCurrent(detached, key.UserID, gen, k, b); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("[redis] error cacheando recomendación")
	}
	return items, nil
}

func (c *RedisCache) storeIfCurrent(ctx context.Context, userID int, gen int64, k string, payload []byte) error {
	gk := genKey(userID)
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, k, payload, recommend.CacheTTL)
			return nil
		})
		return err
	}, gk)
}

func (c *RedisCache) InvalidateUser(ctx context.Context, userID int) (int, error) {
	if err := c.client.Incr(ctx, genKey(userID)).Err(); err != nil {
		return 0, fmt.Errorf("redis incr generation: %w", err)
	}
	metrics.CacheInvalidations.WithLabelValues(redisBackend).Inc()

	n := 0
	iter := c.client.Scan(ctx, 0, userPattern(userID), 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			deleted, err := c.client.Del(ctx, batch...).Result()
			if err != nil {
				return n, err
			}
			n += int(deleted)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return n, err
	}
	if len(batch) > 0 {
		deleted, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			return n, err
		}
		n += int(deleted)
	}
	return n, nil
}

func (c *RedisCache) Len(ctx context.Context) (int, error) {
	n := 0
	iter := c.client.Scan(ctx, 0, "rec:*:user:*:g*", 500).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n, iter.Err()
}
