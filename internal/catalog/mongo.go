package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/repository"
)

// Lo que MongoStore usa de cada repositorio.
type movieRepo interface {
	GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error)
	Exists(ctx context.Context, movieID int) (bool, error)
	AllIDs(ctx context.Context) ([]int, error)
	Update(ctx context.Context, m *models.MovieDoc) error
	List(ctx context.Context, limit, offset int) ([]models.MovieDoc, error)
	ByIDs(ctx context.Context, ids []int) ([]models.MovieDoc, error)
	Popularity(ctx context.Context) (map[int]int, error)
	Top(ctx context.Context, metric string, limit int) ([]models.MovieDoc, error)
}

type ratingRepo interface {
	GetOne(ctx context.Context, userID, movieID int) (*models.RatingDoc, error)
	UpsertRating(ctx context.Context, userID, movieID int, rating float64) error
	RatedMovieIDs(ctx context.Context, userID int) ([]int, error)
	GetAllByUser(ctx context.Context, userID int) ([]models.RatingDoc, error)
}

type userRepo interface {
	FindByID(ctx context.Context, userID int) (*models.UserDoc, error)
	Exists(ctx context.Context, userID int) (bool, error)
	GetNextUserID(ctx context.Context) (int, error)
	Insert(ctx context.Context, u *models.UserDoc) error
	List(ctx context.Context, limit, offset int) ([]models.UserDoc, error)
}

// MongoStore usa las colecciones movies, ratings y users.
type MongoStore struct {
	movies  movieRepo
	ratings ratingRepo
	users   userRepo
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		movies:  repository.NewMovieRepository(db),
		ratings: repository.NewRatingRepository(db),
		users:   repository.NewUserRepository(db),
	}
}

func (s *MongoStore) UserExists(ctx context.Context, userID int) (bool, error) {
	return s.users.Exists(ctx, userID)
}

func (s *MongoStore) AllMovieIDs(ctx context.Context) ([]int, error) {
	return s.movies.AllIDs(ctx)
}

func (s *MongoStore) RatedMovieIDs(ctx context.Context, userID int) ([]int, error) {
	return s.ratings.RatedMovieIDs(ctx, userID)
}

func (s *MongoStore) Popularity(ctx context.Context) (map[int]int, error) {
	return s.movies.Popularity(ctx)
}

func (s *MongoStore) MovieInfo(ctx context.Context, ids []int) (map[int]models.MovieInfo, error) {
	docs, err := s.movies.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int]models.MovieInfo, len(docs))
	for i := range docs {
		out[docs[i].MovieID] = docs[i].Info()
	}
	return out, nil
}

func (s *MongoStore) FindUser(ctx context.Context, userID int) (*models.UserDoc, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil || u == nil {
		return u, err
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return u, nil
}

func (s *MongoStore) MovieExists(ctx context.Context, movieID int) (bool, error) {
	return s.movies.Exists(ctx, movieID)
}

// AddRating hace upsert del rating y mantiene ratingStats (count y average) de la película.
// Una película inexistente no deja ningún rating escrito.
func (s *MongoStore) AddRating(ctx context.Context, userID, movieID int, rating float64) error {
	// 1) La película tiene que existir antes de escribir nada
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return fmt.Errorf("%w: movie %d", recommend.ErrNotFound, movieID)
	}

	// 2) Ver si ya existía un rating previo
	prev, err := s.ratings.GetOne(ctx, userID, movieID)
	if err != nil {
		return err
	}

	// 3) Upsert del rating (guarda timestamp como epoch)
	if err := s.ratings.UpsertRating(ctx, userID, movieID, rating); err != nil {
		return err
	}

	// 4) Actualizar stats de la película
	if movie.RatingStats == nil {
		movie.RatingStats = &models.RatingStats{}
	}
	applyRating(movie.RatingStats, prev, rating)

	nowStr := time.Now().Format(time.RFC3339)
	movie.RatingStats.LastRatedAt = nowStr
	movie.UpdatedAt = nowStr

	return s.movies.Update(ctx, movie)
}

// applyRating actualiza count/average sin releer todos los ratings.
func applyRating(rs *models.RatingStats, prev *models.RatingDoc, rating float64) {
	if prev == nil {
		total := rs.Average*float64(rs.Count) + rating
		rs.Count++
		rs.Average = total / float64(rs.Count)
		return
	}
	if rs.Count > 0 {
		total := rs.Average*float64(rs.Count) - prev.Rating + rating
		rs.Average = total / float64(rs.Count)
	}
}

func (s *MongoStore) CreateUser(ctx context.Context, username string, ratings map[int]float64) (*models.User, error) {
	// Validar las películas antes de crear el usuario
	for movieID := range ratings {
		ok, err := s.movies.Exists(ctx, movieID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: movie %d", recommend.ErrNotFound, movieID)
		}
	}

	nextID, err := s.users.GetNextUserID(ctx)
	if err != nil {
		return nil, err
	}
	if username == "" {
		username = fmt.Sprintf("Nuevo Usuario %d", nextID)
	}

	u := &models.UserDoc{
		UserID:    nextID,
		Username:  username,
		Role:      RoleUser,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}

	for movieID, r := range ratings {
		if err := s.AddRating(ctx, nextID, movieID, r); err != nil {
			return nil, fmt.Errorf("initial rating movie %d: %w", movieID, err)
		}
	}
	return &models.User{UserID: u.UserID, Username: u.Username}, nil
}

func (s *MongoStore) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	docs, err := s.users.List(ctx, limit, 0)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, len(docs))
	for i, d := range docs {
		name := d.Username
		if name == "" {
			name = fmt.Sprintf("Usuario %d", d.UserID)
		}
		out[i] = models.User{UserID: d.UserID, Username: name}
	}
	return out, nil
}

func toMovies(docs []models.MovieDoc) []models.Movie {
	out := make([]models.Movie, len(docs))
	for i := range docs {
		info := docs[i].Info()
		out[i] = models.Movie{MovieID: docs[i].MovieID, Title: info.Title, Genres: info.Genres}
	}
	return out
}

func (s *MongoStore) ListMovies(ctx context.Context, limit int) ([]models.Movie, error) {
	docs, err := s.movies.List(ctx, limit, 0)
	if err != nil {
		return nil, err
	}
	return toMovies(docs), nil
}

func (s *MongoStore) PopularMovies(ctx context.Context, n int) ([]models.Movie, error) {
	docs, err := s.movies.Top(ctx, "popular", n)
	if err != nil {
		return nil, err
	}
	return toMovies(docs), nil
}

func (s *MongoStore) UserRatings(ctx context.Context, userID int) ([]models.UserRating, error) {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %d", recommend.ErrNotFound, userID)
	}

	ratings, err := s.ratings.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(ratings))
	for i, r := range ratings {
		ids[i] = r.MovieID
	}
	info, err := s.MovieInfo(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserRating, 0, len(ratings))
	for _, r := range ratings {
		mi, ok := info[r.MovieID]
		if !ok {
			continue
		}
		out = append(out, models.UserRating{MovieID: r.MovieID, Title: mi.Title, Genres: mi.Genres, Rating: r.Rating})
	}
	sortUserRatings(out)
	return out, nil
}
