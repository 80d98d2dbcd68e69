package recommend

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/metrics"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

// CacheTTL es fijo: una entrada vale una hora desde que se guardó.
const CacheTTL = time.Hour

type ComputeFunc func(ctx context.Context) ([]models.RatingPrediction, error)

// Cache memoiza la lista rankeada por (tipo de oráculo, usuario, filtro).
type Cache interface {
	// GetOrCompute devuelve la entrada vigente o llama compute y guarda el
	// resultado. Un error de compute no se guarda.
	GetOrCompute(ctx context.Context, key models.CacheKey, compute ComputeFunc) ([]models.RatingPrediction, error)
	// InvalidateUser borra todas las entradas del usuario, de cualquier tipo y
	// filtro, y devuelve cuántas borró. Un cálculo en curso iniciado antes no
	// llega a guardarse.
	InvalidateUser(ctx context.Context, userID int) (int, error)
	// Len cuenta las entradas vigentes.
	Len(ctx context.Context) (int, error)
}

type entry struct {
	insertedAt time.Time
	payload    []models.RatingPrediction
}

// MemoryCache vive lo que vive el proceso. La expiración es perezosa: la
// entrada vencida se borra en la consulta que la encuentra.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[models.CacheKey]entry
	// gens[u] sube en cada invalidación de u.
	gens map[int]uint64

	now   func() time.Time
	group singleflight.Group
}

type MemoryOption func(*MemoryCache)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[models.CacheKey]entry),
		gens:    make(map[int]uint64),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

const memoryBackend = "memory"

func (c *MemoryCache) GetOrCompute(ctx context.Context, key models.CacheKey, compute ComputeFunc) ([]models.RatingPrediction, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.now().Sub(e.insertedAt) < CacheTTL {
			c.mu.Unlock()
			metrics.CacheLookups.WithLabelValues(memoryBackend, "hit").Inc()
			return e.payload, nil
		}
		delete(c.entries, key)
		metrics.CacheLookups.WithLabelValues(memoryBackend, "expired").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues(memoryBackend, "miss").Inc()
	}
	gen := c.gens[key.UserID]
	c.mu.Unlock()

	// La generación va en la clave del grupo: después de invalidar, nadie se
	// suma a un cálculo viejo.
	flight := key.String() + "#" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		items, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gens[key.UserID] == gen {
			c.entries[key] = entry{insertedAt: c.now(), payload: items}
		}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.RatingPrediction), nil
}

func (c *MemoryCache) InvalidateUser(_ context.Context, userID int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[userID]++
	n := 0
	for k := range c.entries {
		if k.UserID == userID {
			delete(c.entries, k)
			n++
		}
	}
	metrics.CacheInvalidations.WithLabelValues(memoryBackend).Inc()
	return n, nil
}

func (c *MemoryCache) Len(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for _, e := range c.entries {
		if now.Sub(e.insertedAt) < CacheTTL {
			n++
		}
	}
	return n, nil
}
