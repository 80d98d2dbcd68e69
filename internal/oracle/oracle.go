// Package oracle contiene los predictores de rating (vecinos por usuario y por
// ítem) que el pipeline de recomendaciones consulta como una caja negra.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

// ErrUnavailable: el modelo no cargó o ningún nodo responde.
var ErrUnavailable = errors.New("scoring oracle unavailable")

type Status int

const (
	StatusFeasible Status = iota
	StatusInfeasible
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result es la respuesta de una predicción individual. Sólo Feasible trae Estimate.
type Result struct {
	Status   Status
	Estimate float64
	Err      error
}

func Feasible(est float64) Result { return Result{Status: StatusFeasible, Estimate: est} }
func Infeasible() Result          { return Result{Status: StatusInfeasible} }
func Failed(err error) Result     { return Result{Status: StatusFailed, Err: err} }

type Predictor interface {
	Predict(ctx context.Context, userID, movieID int) Result
}

// BatchPredictor evita una ida y vuelta por candidato (oráculo remoto).
// Devuelve un Result por cada movieID, en el mismo orden.
type BatchPredictor interface {
	Predictor
	PredictBatch(ctx context.Context, userID int, movieIDs []int) []Result
}

// readiness lo implementan los predictores que pueden quedar fuera de servicio en caliente.
type readiness interface {
	Ready() error
}

// Registry asocia cada tipo de oráculo con su predictor.
type Registry struct {
	mu         sync.RWMutex
	predictors map[models.OracleKind]Predictor
	failures   map[models.OracleKind]error
}

func NewRegistry() *Registry {
	return &Registry{
		predictors: make(map[models.OracleKind]Predictor),
		failures:   make(map[models.OracleKind]error),
	}
}

func (r *Registry) Register(kind models.OracleKind, p Predictor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predictors[kind] = p
	delete(r.failures, kind)
}

// Fail marca el tipo como no disponible (p. ej. el modelo no se pudo cargar).
func (r *Registry) Fail(kind models.OracleKind, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.predictors, kind)
	r.failures[kind] = cause
}

func (r *Registry) Get(kind models.OracleKind) (Predictor, error) {
	r.mu.RLock()
	p, ok := r.predictors[kind]
	cause := r.failures[kind]
	r.mu.RUnlock()

	if !ok {
		if cause != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, kind, cause)
		}
		return nil, fmt.Errorf("%w: %s not registered", ErrUnavailable, kind)
	}
	if rd, ok := p.(readiness); ok {
		if err := rd.Ready(); err != nil {
			return nil, err
		}
	}
	return p, nil
}
