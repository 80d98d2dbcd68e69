package oracle

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/cluster"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

type stubPredictor map[int]Result

func (s stubPredictor) Predict(_ context.Context, _ int, movieID int) Result {
	if r, ok := s[movieID]; ok {
		return r
	}
	return Infeasible()
}

func startNode(t *testing.T, reg *Registry) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = cluster.Serve(ctx, ln, NodeHandler("test", reg), zerolog.Nop())
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ln.Addr().String()
}

func TestRemoteAgainstRealNode(t *testing.T) {
	reg := NewRegistry()
	reg.Register(models.KindItem, stubPredictor{
		1: Feasible(4.25),
		2: Infeasible(),
		3: Failed(errors.New("boom")),
	})
	addr := startNode(t, reg)

	r := NewRemote(models.KindItem, []string{addr}, time.Second)
	got := r.PredictBatch(context.Background(), 7, []int{1, 2, 3})

	if got[0].Status != StatusFeasible || got[0].Estimate != 4.25 {
		t.Errorf("movie 1 = %+v, want feasible 4.25", got[0])
	}
	if got[1].Status != StatusInfeasible {
		t.Errorf("movie 2 = %+v, want infeasible", got[1])
	}
	if got[2].Status != StatusFailed || got[2].Err == nil || got[2].Err.Error() != "boom" {
		t.Errorf("movie 3 = %+v, want failed boom", got[2])
	}
}

func TestRemoteNodeWithoutModelFailsShard(t *testing.T) {
	addr := startNode(t, NewRegistry())

	r := NewRemote(models.KindUser, []string{addr}, time.Second)
	res := r.Predict(context.Background(), 1, 1)
	if res.Status != StatusFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
}

func TestRemoteShardsByPosition(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string][]int)

	r := NewRemote(models.KindItem, []string{"a", "b"}, time.Second)
	r.send = func(_ context.Context, addr string, task *cluster.PredictTask) (*cluster.PredictResponse, error) {
		mu.Lock()
		seen[addr] = append(seen[addr], task.MovieIDs...)
		mu.Unlock()

		if addr == "b" {
			return nil, errors.New("connection refused")
		}
		resp := &cluster.PredictResponse{NodeID: addr}
		for _, m := range task.MovieIDs {
			est := float64(m)
			resp.Predictions = append(resp.Predictions, cluster.NodePrediction{MovieID: m, Est: &est})
		}
		return resp, nil
	}

	got := r.PredictBatch(context.Background(), 1, []int{10, 20, 30, 40, 50})

	if want := []int{10, 30, 50}; !equalInts(seen["a"], want) {
		t.Errorf("node a got %v, want %v", seen["a"], want)
	}
	if want := []int{20, 40}; !equalInts(seen["b"], want) {
		t.Errorf("node b got %v, want %v", seen["b"], want)
	}
	for i, res := range got {
		wantFailed := i%2 == 1
		if (res.Status == StatusFailed) != wantFailed {
			t.Errorf("result %d = %+v, failed should be %v", i, res, wantFailed)
		}
		if !wantFailed && res.Estimate != float64((i+1)*10) {
			t.Errorf("result %d estimate = %v", i, res.Estimate)
		}
	}
}

func TestRemoteMissingPredictionIsFailed(t *testing.T) {
	r := NewRemote(models.KindItem, []string{"a"}, time.Second)
	r.send = func(_ context.Context, addr string, task *cluster.PredictTask) (*cluster.PredictResponse, error) {
		return &cluster.PredictResponse{NodeID: addr}, nil
	}
	if res := r.Predict(context.Background(), 1, 10); res.Status != StatusFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
}

func TestRemoteReadyAfterBreakerOpens(t *testing.T) {
	r := NewRemote(models.KindItem, []string{"down-1", "down-2"}, time.Second)
	r.send = func(context.Context, string, *cluster.PredictTask) (*cluster.PredictResponse, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	if err := r.Ready(); err != nil {
		t.Fatalf("Ready() before failures = %v", err)
	}

	for i := 0; i < 3; i++ {
		r.PredictBatch(context.Background(), 1, []int{1, 2})
	}

	if err := r.Ready(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ready() = %v, want ErrUnavailable", err)
	}
}

func TestRemoteWithoutNodes(t *testing.T) {
	r := NewRemote(models.KindItem, nil, 0)
	if err := r.Ready(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ready() = %v, want ErrUnavailable", err)
	}
	if res := r.Predict(context.Background(), 1, 1); res.Status != StatusFailed {
		t.Errorf("status = %v, want failed", res.Status)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.Get(models.KindUser); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get unregistered = %v, want ErrUnavailable", err)
	}

	reg.Register(models.KindUser, stubPredictor{})
	if _, err := reg.Get(models.KindUser); err != nil {
		t.Errorf("Get registered = %v", err)
	}

	reg.Fail(models.KindUser, errors.New("model file missing"))
	_, err := reg.Get(models.KindUser)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get failed kind = %v, want ErrUnavailable", err)
	}
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
