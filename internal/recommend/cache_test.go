package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/metrics"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache() (*MemoryCache, *fakeClock) {
	clk := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewMemoryCache(WithClock(clk.Now)), clk
}

func countingCompute(n *atomic.Int64, items ...int) ComputeFunc {
	return func(context.Context) ([]models.RatingPrediction, error) {
		n.Add(1)
		out := make([]models.RatingPrediction, len(items))
		for i, id := range items {
			out[i] = models.RatingPrediction{MovieID: id}
		}
		return out, nil
	}
}

var keyUser1 = models.CacheKey{Kind: models.KindUser, UserID: 1, Filter: "all"}

func TestCacheHitSuppressesRecompute(t *testing.T) {
	c, clk := newTestCache()
	var calls atomic.Int64
	hits := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "hit"))

	first, err := c.GetOrCompute(context.Background(), keyUser1, countingCompute(&calls, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	clk.Advance(59 * time.Minute)
	second, err := c.GetOrCompute(context.Background(), keyUser1, countingCompute(&calls, 9))
	if err != nil {
		t.Fatal(err)
	}

	if calls.Load() != 1 {
		t.Errorf("compute calls = %d, want 1", calls.Load())
	}
	if !equalInts(movieIDs(first), movieIDs(second)) {
		t.Errorf("second = %v, want cached %v", movieIDs(second), movieIDs(first))
	}
	if got := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "hit")) - hits; got != 1 {
		t.Errorf("hit counter delta = %v, want 1", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c, clk := newTestCache()
	var calls atomic.Int64

	_, _ = c.GetOrCompute(context.Background(), keyUser1, countingCompute(&calls, 1))
	clk.Advance(CacheTTL)

	if n, _ := c.Len(context.Background()); n != 0 {
		t.Errorf("Len after TTL = %d, want 0", n)
	}
	got, _ := c.GetOrCompute(context.Background(), keyUser1, countingCompute(&calls, 2))
	if calls.Load() != 2 {
		t.Errorf("compute calls = %d, want 2", calls.Load())
	}
	if !equalInts(movieIDs(got), []int{2}) {
		t.Errorf("got %v, want fresh [2]", movieIDs(got))
	}
}

func TestCacheInvalidateUser(t *testing.T) {
	c, _ := newTestCache()
	var calls atomic.Int64
	ctx := context.Background()

	keys := []models.CacheKey{
		{Kind: models.KindUser, UserID: 1, Filter: "all"},
		{Kind: models.KindItem, UserID: 1, Filter: "3"},
		{Kind: models.KindItem, UserID: 2, Filter: "all"},
	}
	for _, k := range keys {
		_, _ = c.GetOrCompute(ctx, k, countingCompute(&calls, 1))
	}

	n, err := c.InvalidateUser(ctx, 1)
	if err != nil || n != 2 {
		t.Fatalf("InvalidateUser = %d, %v; want 2, nil", n, err)
	}
	if left, _ := c.Len(ctx); left != 1 {
		t.Errorf("Len = %d, want 1", left)
	}

	calls.Store(0)
	for _, k := range keys {
		_, _ = c.GetOrCompute(ctx, k, countingCompute(&calls, 1))
	}
	if calls.Load() != 2 {
		t.Errorf("recomputes = %d, want 2 (only user 1)", calls.Load())
	}
}

func TestCacheInvalidationDuringComputeIsNotStored(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.GetOrCompute(ctx, keyUser1, func(context.Context) ([]models.RatingPrediction, error) {
			close(started)
			<-release
			return []models.RatingPrediction{{MovieID: 1}}, nil
		})
	}()

	<-started
	if _, err := c.InvalidateUser(ctx, 1); err != nil {
		t.Fatal(err)
	}
	close(release)
	<-done

	var calls atomic.Int64
	got, _ := c.GetOrCompute(ctx, keyUser1, countingCompute(&calls, 2))
	if calls.Load() != 1 || !equalInts(movieIDs(got), []int{2}) {
		t.Errorf("stale result was cached: calls=%d got=%v", calls.Load(), movieIDs(got))
	}
}

func TestCacheErrorNotStored(t *testing.T) {
	c, _ := newTestCache()
	boom := errors.New("oracle down")

	_, err := c.GetOrCompute(context.Background(), keyUser1, func(context.Context) ([]models.RatingPrediction, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if n, _ := c.Len(context.Background()); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestCacheCollapsesConcurrentMisses(t *testing.T) {
	c, _ := newTestCache()
	var calls atomic.Int64
	release := make(chan struct{})

	compute := func(context.Context) ([]models.RatingPrediction, error) {
		calls.Add(1)
		<-release
		return []models.RatingPrediction{{MovieID: 1}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetOrCompute(context.Background(), keyUser1, compute); err != nil {
				t.Error(err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("compute calls = %d, want 1", calls.Load())
	}
}
