package cache

import (
	"context"
	"errors"
	"path"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/metrics"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
)

var _ recommend.Cache = (*RedisCache)(nil)

func TestKeyLayout(t *testing.T) {
	k := models.CacheKey{Kind: models.KindItem, UserID: 12, Filter: "3,4"}
	if got, want := entryKey(k, 5), "rec:item:user:12:g5:filter:3,4"; got != want {
		t.Errorf("entryKey = %q, want %q", got, want)
	}
	if got, want := genKey(12), "rec:gen:user:12"; got != want {
		t.Errorf("genKey = %q, want %q", got, want)
	}
}

// El patrón de SCAN toma las entradas del usuario y no las de otros ids ni el contador.
func TestUserPatternMatches(t *testing.T) {
	pat := userPattern(12)
	tests := []struct {
		key  string
		want bool
	}{
		{entryKey(models.CacheKey{Kind: models.KindUser, UserID: 12, Filter: "all"}, 0), true},
		{entryKey(models.CacheKey{Kind: models.KindItem, UserID: 12, Filter: "2"}, 7), true},
		{entryKey(models.CacheKey{Kind: models.KindItem, UserID: 120, Filter: "2"}, 0), false},
		{entryKey(models.CacheKey{Kind: models.KindItem, UserID: 1, Filter: "2"}, 0), false},
		{genKey(12), false},
	}
	for _, tt := range tests {
		got, err := path.Match(pat, tt.key)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("match(%q, %q) = %v, want %v", pat, tt.key, got, tt.want)
		}
	}
}

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func countingCompute(n *atomic.Int64, items ...int) recommend.ComputeFunc {
	return func(context.Context) ([]models.RatingPrediction, error) {
		n.Add(1)
		out := make([]models.RatingPrediction, len(items))
		for i, id := range items {
			out[i] = models.RatingPrediction{MovieID: id, PredictedRating: 4.25}
		}
		return out, nil
	}
}

func movieIDs(items []models.RatingPrediction) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.MovieID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var keyUser1 = models.CacheKey{Kind: models.KindUser, UserID: 1, Filter: "all"}

func TestRedisCacheHitSuppressesRecompute(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()
	var calls atomic.Int64
	hits := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(redisBackend, "hit"))

	first, err := c.GetOrCompute(ctx, keyUser1, countingCompute(&calls, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.GetOrCompute(ctx, keyUser1, countingCompute(&calls, 9))
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Errorf("compute calls = %d, want 1", calls.Load())
	}
	if !equalInts(movieIDs(second), movieIDs(first)) || second[0].PredictedRating != 4.25 {
		t.Errorf("cached = %+v, want %+v", second, first)
	}
	if got := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(redisBackend, "hit")) - hits; got != 1 {
		t.Errorf("hit delta = %v, want 1", got)
	}
	if n, _ := c.Len(ctx); n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}

	k := entryKey(keyUser1, 0)
	if ttl := mr.TTL(k); ttl != recommend.CacheTTL {
		t.Errorf("ttl = %v, want %v", ttl, recommend.CacheTTL)
	}

	// Al vencer el TTL se recalcula.
	mr.FastForward(recommend.CacheTTL)
	if _, err := c.GetOrCompute(ctx, keyUser1, countingCompute(&calls, 3, 4)); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("compute calls after expiry = %d, want 2", calls.Load())
	}
}

func TestRedisCacheInvalidateForcesRecompute(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()
	var calls atomic.Int64

	keys := []models.CacheKey{
		keyUser1,
		{Kind: models.KindItem, UserID: 1, Filter: "4,5"},
		{Kind: models.KindUser, UserID: 2, Filter: "all"},
	}
	for _, k := range keys {
		if _, err := c.GetOrCompute(ctx, k, countingCompute(&calls, 1)); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := c.InvalidateUser(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if n, _ := c.Len(ctx); n != 1 {
		t.Errorf("Len after invalidate = %d, want 1", n)
	}

	before := calls.Load()
	if _, err := c.GetOrCompute(ctx, keyUser1, countingCompute(&calls, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrCompute(ctx, keys[2], countingCompute(&calls, 1)); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load() - before; got != 1 {
		t.Errorf("recomputes = %d, want 1 (only the invalidated user)", got)
	}
}

func TestRedisCacheInvalidationDuringComputeIsNotStored(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()
	var calls atomic.Int64

	got, err := c.GetOrCompute(ctx, keyUser1, func(ctx context.Context) ([]models.RatingPrediction, error) {
		calls.Add(1)
		if _, err := c.InvalidateUser(ctx, 1); err != nil {
			return nil, err
		}
		return []models.RatingPrediction{{MovieID: 7}}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !equalInts(movieIDs(got), []int{7}) {
		t.Errorf("caller result = %v, want [7]", movieIDs(got))
	}
	if n, _ := c.Len(ctx); n != 0 {
		t.Errorf("Len = %d, want 0 (stale result stored)", n)
	}

	if _, err := c.GetOrCompute(ctx, keyUser1, countingCompute(&calls, 7)); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("compute calls = %d, want 2", calls.Load())
	}
}

func TestRedisCacheErrorNotStored(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()
	boom := errors.New("oracle down")

	_, err := c.GetOrCompute(ctx, keyUser1, func(context.Context) ([]models.RatingPrediction, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if n, _ := c.Len(ctx); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

// Si el cliente se va a mitad del cálculo, el cálculo sigue y se guarda completo.
func TestRedisCacheComputeSurvivesCallerCancel(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := c.GetOrCompute(ctx, keyUser1, func(computeCtx context.Context) ([]models.RatingPrediction, error) {
		cancel()
		if computeCtx.Err() != nil {
			return nil, computeCtx.Err()
		}
		return []models.RatingPrediction{{MovieID: 3}}, nil
	})
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if n, _ := c.Len(context.Background()); n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}
}

func TestRedisCacheDownComputesWithoutCache(t *testing.T) {
	c, mr := newTestRedisCache(t)
	mr.Close()
	var calls atomic.Int64

	got, err := c.GetOrCompute(context.Background(), keyUser1, countingCompute(&calls, 5))
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if !equalInts(movieIDs(got), []int{5}) || calls.Load() != 1 {
		t.Errorf("got %v after %d calls", movieIDs(got), calls.Load())
	}
}
