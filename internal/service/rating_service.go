package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/catalog"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
)

const (
	MinRating = 0.5
	MaxRating = 5.0
)

var ErrInvalidRating = errors.New("rating must be between 0.5 and 5.0")

// Invalidator lo implementa RecommendService.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID int) (int, error)
}

func validRating(r float64) bool {
	return r >= MinRating && r <= MaxRating
}

type RatingService struct {
	store catalog.Store
	recs  Invalidator
}

func NewRatingService(store catalog.Store, recs Invalidator) *RatingService {
	return &RatingService{store: store, recs: recs}
}

// Rate guarda el rating y borra las recomendaciones cacheadas del usuario.
func (s *RatingService) Rate(ctx context.Context, userID, movieID int, rating float64) error {
	if !validRating(rating) {
		return fmt.Errorf("%w: got %v", ErrInvalidRating, rating)
	}

	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %d", recommend.ErrNotFound, userID)
	}
	ok, err = s.store.MovieExists(ctx, movieID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: movie %d", recommend.ErrNotFound, movieID)
	}

	if err := s.store.AddRating(ctx, userID, movieID, rating); err != nil {
		return err
	}

	if _, err := s.recs.InvalidateUser(ctx, userID); err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("user", userID).Msg("no se pudo invalidar la caché tras el rating")
	}
	return nil
}
