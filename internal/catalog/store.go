// Package catalog es la fuente de verdad de películas, usuarios y ratings.
// Hay dos variantes: archivos CSV cargados en memoria (FileStore) y MongoDB (MongoStore).
package catalog

import (
	"context"
	"sort"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Store interface {
	recommend.Catalog

	// FindUser devuelve nil si el usuario no existe.
	FindUser(ctx context.Context, userID int) (*models.UserDoc, error)
	MovieExists(ctx context.Context, movieID int) (bool, error)

	// AddRating crea o reemplaza el rating del par (usuario, película).
	AddRating(ctx context.Context, userID, movieID int, rating float64) error
	// CreateUser asigna id = máximo actual + 1 y guarda los ratings iniciales.
	CreateUser(ctx context.Context, username string, ratings map[int]float64) (*models.User, error)

	ListUsers(ctx context.Context, limit int) ([]models.User, error)
	ListMovies(ctx context.Context, limit int) ([]models.Movie, error)
	// PopularMovies: por cantidad de ratings descendente, empates por movieId.
	PopularMovies(ctx context.Context, n int) ([]models.Movie, error)
	// UserRatings: historial por rating descendente; recommend.ErrNotFound si el usuario no existe.
	UserRatings(ctx context.Context, userID int) ([]models.UserRating, error)
}

func sortUserRatings(rs []models.UserRating) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Rating != rs[j].Rating {
			return rs[i].Rating > rs[j].Rating
		}
		return rs[i].MovieID < rs[j].MovieID
	})
}
