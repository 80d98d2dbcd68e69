package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/cluster"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/metrics"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

const DefaultRemoteTimeout = 10 * time.Second

type sendFunc func(ctx context.Context, addr string, task *cluster.PredictTask) (*cluster.PredictResponse, error)

type node struct {
	addr string
	cb   *gobreaker.CircuitBreaker[*cluster.PredictResponse]
}

// Remote reparte el lote de candidatos entre los nodos ML (candidato i -> nodo i % n)
// y los consulta en paralelo. Un nodo caído sólo invalida sus candidatos.
type Remote struct {
	kind    models.OracleKind
	nodes   []*node
	timeout time.Duration
	send    sendFunc
}

func NewRemote(kind models.OracleKind, addrs []string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	r := &Remote{kind: kind, timeout: timeout, send: cluster.SendTask}
	for _, addr := range addrs {
		r.nodes = append(r.nodes, &node{addr: addr, cb: newBreaker(string(kind) + "@" + addr)})
	}
	return r
}

func newBreaker(name string) *gobreaker.CircuitBreaker[*cluster.PredictResponse] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[*cluster.PredictResponse](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("node", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] cambio de estado")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Ready falla sólo si todos los nodos tienen el circuito abierto.
func (r *Remote) Ready() error {
	if len(r.nodes) == 0 {
		return fmt.Errorf("%w: no ML nodes configured", ErrUnavailable)
	}
	for _, n := range r.nodes {
		if n.cb.State() != gobreaker.StateOpen {
			return nil
		}
	}
	return fmt.Errorf("%w: all ML nodes are failing", ErrUnavailable)
}

func (r *Remote) Predict(ctx context.Context, userID, movieID int) Result {
	return r.PredictBatch(ctx, userID, []int{movieID})[0]
}

func (r *Remote) PredictBatch(ctx context.Context, userID int, movieIDs []int) []Result {
	results := make([]Result, len(movieIDs))
	if len(r.nodes) == 0 {
		for i := range results {
			results[i] = Failed(ErrUnavailable)
		}
		return results
	}

	shards := len(r.nodes)
	positions := make([][]int, shards)
	for i := range movieIDs {
		positions[i%shards] = append(positions[i%shards], i)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var wg sync.WaitGroup
	for shardID, pos := range positions {
		if len(pos) == 0 {
			continue
		}
		wg.Add(1)
		go func(n *node, pos []int) {
			defer wg.Done()
			r.predictShard(ctxTimeout, n, userID, movieIDs, pos, results)
		}(r.nodes[shardID], pos)
	}
	wg.Wait()

	return results
}

// predictShard escribe sólo en las posiciones de su shard.
func (r *Remote) predictShard(ctx context.Context, n *node, userID int, movieIDs, pos []int, results []Result) {
	task := &cluster.PredictTask{Kind: string(r.kind), UserID: userID, MovieIDs: make([]int, len(pos))}
	for j, i := range pos {
		task.MovieIDs[j] = movieIDs[i]
	}

	resp, err := n.cb.Execute(func() (*cluster.PredictResponse, error) {
		resp, err := r.send(ctx, n.addr, task)
		if err != nil {
			return nil, err
		}
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return resp, nil
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("node", n.addr).Int("candidates", len(pos)).Msg("nodo ML falló, candidatos descartados")
		for _, i := range pos {
			results[i] = Failed(err)
		}
		return
	}

	byMovie := make(map[int]cluster.NodePrediction, len(resp.Predictions))
	for _, p := range resp.Predictions {
		byMovie[p.MovieID] = p
	}
	for _, i := range pos {
		p, ok := byMovie[movieIDs[i]]
		switch {
		case !ok:
			results[i] = Failed(fmt.Errorf("node %s: no prediction for movie %d", n.addr, movieIDs[i]))
		case p.Error != "":
			results[i] = Failed(errors.New(p.Error))
		case p.Impossible || p.Est == nil:
			results[i] = Infeasible()
		default:
			results[i] = Feasible(*p.Est)
		}
	}
}

// NodeHandler resuelve tareas en un nodo ML con los predictores locales del registro.
func NodeHandler(nodeID string, reg *Registry) cluster.HandlerFunc {
	return func(ctx context.Context, task *cluster.PredictTask) *cluster.PredictResponse {
		resp := &cluster.PredictResponse{NodeID: nodeID}

		kind, ok := models.ParseKind(task.Kind)
		if !ok {
			resp.Error = fmt.Sprintf("unknown oracle kind %q", task.Kind)
			return resp
		}
		p, err := reg.Get(kind)
		if err != nil {
			resp.Error = err.Error()
			return resp
		}

		resp.Predictions = make([]cluster.NodePrediction, 0, len(task.MovieIDs))
		for _, m := range task.MovieIDs {
			np := cluster.NodePrediction{MovieID: m}
			res := p.Predict(ctx, task.UserID, m)
			switch res.Status {
			case StatusFeasible:
				est := res.Estimate
				np.Est = &est
			case StatusInfeasible:
				np.Impossible = true
			default:
				np.Error = "prediction failed"
				if res.Err != nil {
					np.Error = res.Err.Error()
				}
			}
			resp.Predictions = append(resp.Predictions, np)
		}
		return resp
	}
}
