package service

import (
	"context"
	"fmt"
	"time"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/metrics"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/oracle"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
)

// HistoryRecorder guarda cada cálculo nuevo (colección recommendations).
type HistoryRecorder interface {
	Insert(ctx context.Context, rec *models.Recommendation) error
}

type RecommendService struct {
	catalog    recommend.Catalog
	oracles    *oracle.Registry
	cache      recommend.Cache
	history    HistoryRecorder
	maxResults int
}

// NewRecommendService: history puede ser nil; maxResults <= 0 usa recommend.DefaultMaxResults.
func NewRecommendService(
	cat recommend.Catalog,
	oracles *oracle.Registry,
	cache recommend.Cache,
	history HistoryRecorder,
	maxResults int,
) *RecommendService {
	if maxResults <= 0 {
		maxResults = recommend.DefaultMaxResults
	}
	return &RecommendService{
		catalog:    cat,
		oracles:    oracles,
		cache:      cache,
		history:    history,
		maxResults: maxResults,
	}
}

// GetRecommendations devuelve una página de la lista rankeada del usuario,
// calculándola sólo si no está en caché.
func (s *RecommendService) GetRecommendations(
	ctx context.Context,
	kind models.OracleKind,
	userID int,
	rawFilter string,
	offset, limit int,
) (*models.Page, error) {
	filter, err := recommend.ParseFilter(rawFilter)
	if err != nil {
		return nil, err
	}
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: offset=%d limit=%d", recommend.ErrInvalidPage, offset, limit)
	}

	ok, err := s.catalog.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %d", recommend.ErrNotFound, userID)
	}

	key := models.CacheKey{Kind: kind, UserID: userID, Filter: filter.String()}
	all, err := s.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]models.RatingPrediction, error) {
		return s.compute(ctx, kind, userID, filter)
	})
	if err != nil {
		return nil, err
	}

	items, total, err := recommend.Paginate(all, offset, limit)
	if err != nil {
		return nil, err
	}
	return &models.Page{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *RecommendService) compute(ctx context.Context, kind models.OracleKind, userID int, filter models.FilterSpec) ([]models.RatingPrediction, error) {
	p, err := s.oracles.Get(kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	items, err := recommend.Compute(ctx, s.catalog, p, recommend.Request{
		Kind:       kind,
		UserID:     userID,
		Filter:     filter,
		MaxResults: s.maxResults,
	})
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	metrics.PipelineDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())

	logging.Ctx(ctx).Info().
		Str("kind", string(kind)).
		Int("user", userID).
		Str("filter", filter.String()).
		Int("items", len(items)).
		Dur("elapsed", elapsed).
		Msg("recomendaciones calculadas")

	// Guardar historial en Mongo (no rompemos la respuesta si falla)
	if s.history != nil {
		hist := &models.Recommendation{
			UserID:    userID,
			Algo:      string(kind) + "-knn",
			Filter:    filter.String(),
			Items:     items,
			CreatedAt: time.Now(),
		}
		if err := s.history.Insert(ctx, hist); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("error guardando recomendación en Mongo")
		}
	}
	return items, nil
}

// InvalidateUser borra las recomendaciones cacheadas del usuario.
func (s *RecommendService) InvalidateUser(ctx context.Context, userID int) (int, error) {
	n, err := s.cache.InvalidateUser(ctx, userID)
	if err != nil {
		return n, err
	}
	logging.Ctx(ctx).Debug().Int("user", userID).Int("entries", n).Msg("caché de recomendaciones invalidada")
	return n, nil
}

func (s *RecommendService) CacheSize(ctx context.Context) (int, error) {
	return s.cache.Len(ctx)
}
