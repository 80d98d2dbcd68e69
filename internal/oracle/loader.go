package oracle

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/dataset"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/repository"
)

// Source entrega los artefactos de un modelo ya entrenado.
type Source interface {
	Ratings(ctx context.Context) ([]models.RatingDoc, error)
	// Neighbors devuelve las listas de vecinos del tipo pedido y, si existen, medias por usuario.
	Neighbors(ctx context.Context, kind models.OracleKind) (map[int][]models.Neighbor, map[int]float64, error)
}

func Load(ctx context.Context, kind models.OracleKind, src Source) (*Model, error) {
	ratings, err := src.Ratings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s model: ratings: %w", kind, err)
	}
	neighbors, means, err := src.Neighbors(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s model: neighbors: %w", kind, err)
	}
	if len(neighbors) == 0 {
		return nil, fmt.Errorf("load %s model: no neighbor lists", kind)
	}
	return NewModel(kind, neighbors, ratings, means), nil
}

// FileSource lee rating.csv, user_neighbors.csv e item_neighbors.csv de Dir.
type FileSource struct {
	Dir string
}

func (s FileSource) Ratings(ctx context.Context) ([]models.RatingDoc, error) {
	return dataset.ReadRatings(filepath.Join(s.Dir, dataset.RatingsFile))
}

func (s FileSource) Neighbors(ctx context.Context, kind models.OracleKind) (map[int][]models.Neighbor, map[int]float64, error) {
	name := dataset.ItemNeighborsFile
	if kind == models.KindUser {
		name = dataset.UserNeighborsFile
	}
	nb, err := dataset.ReadNeighbors(filepath.Join(s.Dir, name))
	return nb, nil, err
}

// MongoSource lee las colecciones ratings, similarities y user_similarities.
type MongoSource struct {
	RatingRepo     *repository.RatingRepository
	SimilarityRepo *repository.SimilarityRepository
}

func (s MongoSource) Ratings(ctx context.Context) ([]models.RatingDoc, error) {
	return s.RatingRepo.All(ctx)
}

func (s MongoSource) Neighbors(ctx context.Context, kind models.OracleKind) (map[int][]models.Neighbor, map[int]float64, error) {
	if kind == models.KindUser {
		return s.SimilarityRepo.AllUserNeighbors(ctx)
	}
	nb, err := s.SimilarityRepo.AllItemNeighbors(ctx)
	return nb, nil, err
}

// LoadAll carga ambos modelos desde src y los registra con k vecinos.
// Un modelo que no carga queda marcado con Fail y no bloquea al otro.
func LoadAll(ctx context.Context, reg *Registry, src Source, k int) {
	for _, kind := range []models.OracleKind{models.KindUser, models.KindItem} {
		start := time.Now()
		m, err := Load(ctx, kind, src)
		if err != nil {
			logging.Error().Err(err).Str("kind", string(kind)).Msg("modelo no disponible")
			reg.Fail(kind, err)
			continue
		}
		reg.Register(kind, NewKNN(m, k))
		logging.Info().Str("kind", string(kind)).Dur("elapsed", time.Since(start)).Msg("modelo cargado")
	}
}
