package oracle

import (
	"context"
	"math"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

const (
	DefaultK  = 40
	MinRating = 0.5
	MaxRating = 5.0
)

// Model es un modelo de vecinos ya entrenado: listas top-k precalculadas y los
// ratings con los que se calcularon. No cambia después de cargarse.
type Model struct {
	Kind models.OracleKind

	// user: usuario -> usuarios vecinos. item: película -> películas vecinas.
	// Ordenadas por similitud descendente.
	neighbors map[int][]models.Neighbor

	byUser map[int]map[int]float64 // userId -> movieId -> rating
	byItem map[int]map[int]float64 // movieId -> userId -> rating
	means  map[int]float64
}

// NewModel arma el modelo. means puede ser nil o parcial: las medias que falten
// se calculan a partir de ratings.
func NewModel(kind models.OracleKind, neighbors map[int][]models.Neighbor, ratings []models.RatingDoc, means map[int]float64) *Model {
	m := &Model{
		Kind:      kind,
		neighbors: neighbors,
		byUser:    make(map[int]map[int]float64),
		byItem:    make(map[int]map[int]float64),
		means:     make(map[int]float64),
	}
	if m.neighbors == nil {
		m.neighbors = make(map[int][]models.Neighbor)
	}

	sums := make(map[int]float64)
	for _, r := range ratings {
		if m.byUser[r.UserID] == nil {
			m.byUser[r.UserID] = make(map[int]float64)
		}
		if m.byItem[r.MovieID] == nil {
			m.byItem[r.MovieID] = make(map[int]float64)
		}
		if prev, ok := m.byUser[r.UserID][r.MovieID]; ok {
			sums[r.UserID] -= prev
		}
		m.byUser[r.UserID][r.MovieID] = r.Rating
		m.byItem[r.MovieID][r.UserID] = r.Rating
		sums[r.UserID] += r.Rating
	}
	for u, rs := range m.byUser {
		m.means[u] = sums[u] / float64(len(rs))
	}
	for u, mean := range means {
		m.means[u] = mean
	}
	return m
}

// KNN predice con el modelo de vecinos. Kind del modelo decide la fórmula:
//
//	user: mean_u + Σ w·(r_vi − mean_v) / Σ|w|   (k vecinos de u que calificaron i)
//	item: Σ w·r_uj / Σ|w|                        (k vecinos de i que u calificó)
//
// Sólo cuentan similitudes positivas.
type KNN struct {
	model *Model
	k     int
}

func NewKNN(m *Model, k int) *KNN {
	if k <= 0 {
		k = DefaultK
	}
	return &KNN{model: m, k: k}
}

func (p *KNN) Kind() models.OracleKind { return p.model.Kind }

func (p *KNN) Predict(ctx context.Context, userID, movieID int) Result {
	if err := ctx.Err(); err != nil {
		return Failed(err)
	}
	switch p.model.Kind {
	case models.KindUser:
		return p.predictUser(userID, movieID)
	case models.KindItem:
		return p.predictItem(userID, movieID)
	}
	return Infeasible()
}

func (p *KNN) predictUser(userID, movieID int) Result {
	m := p.model
	raters, ok := m.byItem[movieID]
	if !ok {
		return Infeasible()
	}
	if _, ok := m.byUser[userID]; !ok {
		return Infeasible()
	}

	var num, den float64
	used := 0
	for _, n := range m.neighbors[userID] {
		if used == p.k {
			break
		}
		if n.Sim <= 0 {
			continue
		}
		r, ok := raters[n.ID]
		if !ok {
			continue
		}
		num += n.Sim * (r - m.means[n.ID])
		den += math.Abs(n.Sim)
		used++
	}
	if used == 0 || den == 0 {
		return Infeasible()
	}
	return Feasible(clamp(m.means[userID] + num/den))
}

func (p *KNN) predictItem(userID, movieID int) Result {
	m := p.model
	rated, ok := m.byUser[userID]
	if !ok {
		return Infeasible()
	}
	if _, ok := m.byItem[movieID]; !ok {
		return Infeasible()
	}

	var num, den float64
	used := 0
	for _, n := range m.neighbors[movieID] {
		if used == p.k {
			break
		}
		if n.Sim <= 0 {
			continue
		}
		r, ok := rated[n.ID]
		if !ok {
			continue
		}
		num += n.Sim * r
		den += math.Abs(n.Sim)
		used++
	}
	if used == 0 || den == 0 {
		return Infeasible()
	}
	return Feasible(clamp(num / den))
}

func clamp(x float64) float64 {
	if x < MinRating {
		return MinRating
	}
	if x > MaxRating {
		return MaxRating
	}
	return x
}
