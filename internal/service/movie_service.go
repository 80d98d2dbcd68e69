// internal/service/movie_service.go
package service

import (
	"context"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/catalog"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

type MovieService struct {
	store catalog.Store
}

func NewMovieService(store catalog.Store) *MovieService {
	return &MovieService{store: store}
}

func (s *MovieService) List(ctx context.Context, limit int) ([]models.Movie, error) {
	return s.store.ListMovies(ctx, limit)
}

func (s *MovieService) Popular(ctx context.Context, n int) ([]models.Movie, error) {
	return s.store.PopularMovies(ctx, n)
}
