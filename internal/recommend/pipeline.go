package recommend

import (
	"context"
	"fmt"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/metrics"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/oracle"
)

// Catalog es la parte del catálogo que lee el pipeline.
type Catalog interface {
	UserExists(ctx context.Context, userID int) (bool, error)
	AllMovieIDs(ctx context.Context) ([]int, error)
	RatedMovieIDs(ctx context.Context, userID int) ([]int, error)
	// Popularity: movieId -> cantidad de ratings.
	Popularity(ctx context.Context) (map[int]int, error)
	// MovieInfo omite los ids que no existen.
	MovieInfo(ctx context.Context, ids []int) (map[int]models.MovieInfo, error)
}

// Snapshot es lo que un cálculo lee del catálogo, tomado en un solo momento.
type Snapshot struct {
	UserExists bool
	Candidates []int
	Info       map[int]models.MovieInfo
}

// Snapshotter lo implementan los catálogos que pueden armar el Snapshot bajo
// un único lock. Compute lo prefiere a las lecturas sueltas de Catalog.
type Snapshotter interface {
	Snapshot(ctx context.Context, userID int) (Snapshot, error)
}

// Request agrupa los parámetros de un cálculo sin caché.
type Request struct {
	Kind       models.OracleKind
	UserID     int
	Filter     models.FilterSpec
	MaxResults int
}

// Compute corre candidatos -> predicción -> ranking -> corte para un usuario.
// Un usuario desconocido devuelve ErrNotFound; si fallan todas las predicciones
// devuelve oracle.ErrUnavailable.
func Compute(ctx context.Context, cat Catalog, p oracle.Predictor, req Request) ([]models.RatingPrediction, error) {
	snap, err := readSnapshot(ctx, cat, req.UserID)
	if err != nil {
		return nil, err
	}
	if !snap.UserExists {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, req.UserID)
	}
	candidates, info := snap.Candidates, snap.Info
	metrics.Candidates.Observe(float64(len(candidates)))

	results := predictAll(ctx, p, req.UserID, candidates)
	// Si no respondió ningún candidato el oráculo está caído: una lista vacía
	// se cachearía como resultado válido.
	if allFailed(results) {
		return nil, fmt.Errorf("%w: %s: all %d predictions failed: %v",
			oracle.ErrUnavailable, req.Kind, len(results), results[0].Err)
	}

	preds := filterResults(ctx, req.Kind, req.UserID, candidates, results, info, req.Filter)
	return Truncate(Rank(preds), req.MaxResults), nil
}

// readSnapshot usa Snapshotter si el catálogo lo tiene; si no, lee por partes.
func readSnapshot(ctx context.Context, cat Catalog, userID int) (Snapshot, error) {
	if sn, ok := cat.(Snapshotter); ok {
		snap, err := sn.Snapshot(ctx, userID)
		if err != nil {
			return Snapshot{}, fmt.Errorf("catalog snapshot: %w", err)
		}
		return snap, nil
	}

	ok, err := cat.UserExists(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("user lookup: %w", err)
	}
	if !ok {
		return Snapshot{}, nil
	}
	all, err := cat.AllMovieIDs(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("movie ids: %w", err)
	}
	rated, err := cat.RatedMovieIDs(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("rated movies: %w", err)
	}
	pop, err := cat.Popularity(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("popularity: %w", err)
	}
	candidates := SelectCandidates(all, rated, pop)
	info, err := cat.MovieInfo(ctx, candidates)
	if err != nil {
		return Snapshot{}, fmt.Errorf("movie info: %w", err)
	}
	return Snapshot{UserExists: true, Candidates: candidates, Info: info}, nil
}
