package service

import (
	"context"
	"fmt"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/catalog"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
)

type UserService struct {
	store catalog.Store
}

func NewUserService(store catalog.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) List(ctx context.Context, limit int) ([]models.User, error) {
	return s.store.ListUsers(ctx, limit)
}

// Create valida los ratings iniciales antes de crear al usuario.
func (s *UserService) Create(ctx context.Context, username string, ratings map[int]float64) (*models.User, error) {
	for movieID, r := range ratings {
		if !validRating(r) {
			return nil, fmt.Errorf("%w: movie %d got %v", ErrInvalidRating, movieID, r)
		}
		ok, err := s.store.MovieExists(ctx, movieID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: movie %d", recommend.ErrNotFound, movieID)
		}
	}
	return s.store.CreateUser(ctx, username, ratings)
}

func (s *UserService) Ratings(ctx context.Context, userID int) ([]models.UserRating, error) {
	return s.store.UserRatings(ctx, userID)
}
