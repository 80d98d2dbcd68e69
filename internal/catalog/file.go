package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/dataset"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
)

// FileStore carga movie.csv y rating.csv en memoria. Los ratings nuevos se
// agregan al final de rating.csv; los nombres de usuarios nuevos sólo viven
// en memoria.
type FileStore struct {
	mu sync.RWMutex

	ratingsPath string

	movieOrder []int // orden del CSV
	movies     map[int]models.MovieInfo
	ratings    map[int]map[int]float64 // userId -> movieId -> rating
	popularity map[int]int

	usernames map[int]string
	admins    map[int]bool
	maxUserID int

	now func() time.Time
}

func NewFileStore(dir string, adminIDs []int) (*FileStore, error) {
	movies, err := dataset.ReadMovies(filepath.Join(dir, dataset.MoviesFile))
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	ratingsPath := filepath.Join(dir, dataset.RatingsFile)
	ratings, err := dataset.ReadRatings(ratingsPath)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	s := &FileStore{
		ratingsPath: ratingsPath,
		movies:      make(map[int]models.MovieInfo, len(movies)),
		ratings:     make(map[int]map[int]float64),
		popularity:  make(map[int]int),
		usernames:   make(map[int]string),
		admins:      make(map[int]bool, len(adminIDs)),
		now:         time.Now,
	}
	for _, m := range movies {
		if _, dup := s.movies[m.MovieID]; !dup {
			s.movieOrder = append(s.movieOrder, m.MovieID)
		}
		s.movies[m.MovieID] = models.MovieInfo{Title: m.Title, Genres: m.Genres}
	}
	for _, r := range ratings {
		s.setRating(r.UserID, r.MovieID, r.Rating)
	}
	for _, id := range adminIDs {
		s.admins[id] = true
	}

	logging.Info().
		Str("dir", dir).
		Int("movies", len(s.movies)).
		Int("users", len(s.ratings)).
		Int("ratings", len(ratings)).
		Msg("[catalog] archivos cargados")
	return s, nil
}

// setRating requiere s.mu tomado (o construcción).
func (s *FileStore) setRating(userID, movieID int, rating float64) {
	byMovie, ok := s.ratings[userID]
	if !ok {
		byMovie = make(map[int]float64)
		s.ratings[userID] = byMovie
	}
	if _, seen := byMovie[movieID]; !seen {
		s.popularity[movieID]++
	}
	byMovie[movieID] = rating
	if userID > s.maxUserID {
		s.maxUserID = userID
	}
}

func (s *FileStore) UserExists(_ context.Context, userID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userExists(userID), nil
}

func (s *FileStore) userExists(userID int) bool {
	if _, ok := s.ratings[userID]; ok {
		return true
	}
	_, ok := s.usernames[userID]
	return ok
}

func (s *FileStore) AllMovieIDs(context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, len(s.movieOrder))
	copy(out, s.movieOrder)
	return out, nil
}

func (s *FileStore) RatedMovieIDs(_ context.Context, userID int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, 0, len(s.ratings[userID]))
	for id := range s.ratings[userID] {
		out = append(out, id)
	}
	return out, nil
}

func (s *FileStore) Popularity(context.Context) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]int, len(s.popularity))
	for id, n := range s.popularity {
		out[id] = n
	}
	return out, nil
}

func (s *FileStore) MovieInfo(_ context.Context, ids []int) (map[int]models.MovieInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]models.MovieInfo, len(ids))
	for _, id := range ids {
		if mi, ok := s.movies[id]; ok {
			out[id] = mi
		}
	}
	return out, nil
}

// Snapshot arma candidatos e info del usuario con un solo RLock, así un
// rating concurrente no queda a medias entre lecturas.
func (s *FileStore) Snapshot(_ context.Context, userID int) (recommend.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.userExists(userID) {
		return recommend.Snapshot{}, nil
	}

	rated := make([]int, 0, len(s.ratings[userID]))
	for id := range s.ratings[userID] {
		rated = append(rated, id)
	}
	candidates := recommend.SelectCandidates(s.movieOrder, rated, s.popularity)
	info := make(map[int]models.MovieInfo, len(candidates))
	for _, id := range candidates {
		info[id] = s.movies[id]
	}
	return recommend.Snapshot{UserExists: true, Candidates: candidates, Info: info}, nil
}

func (s *FileStore) FindUser(_ context.Context, userID int) (*models.UserDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.userExists(userID) {
		return nil, nil
	}
	role := RoleUser
	if s.admins[userID] {
		role = RoleAdmin
	}
	return &models.UserDoc{UserID: userID, Username: s.username(userID), Role: role}, nil
}

func (s *FileStore) username(userID int) string {
	if name, ok := s.usernames[userID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Usuario %d", userID)
}

func (s *FileStore) MovieExists(_ context.Context, movieID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.movies[movieID]
	return ok, nil
}

func (s *FileStore) AddRating(_ context.Context, userID, movieID int, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := models.RatingDoc{UserID: userID, MovieID: movieID, Rating: rating, Timestamp: s.now().Unix()}
	if err := dataset.AppendRatings(s.ratingsPath, []models.RatingDoc{row}); err != nil {
		return fmt.Errorf("append rating: %w", err)
	}
	s.setRating(userID, movieID, rating)
	logging.Debug().Int("user", userID).Int("movie", movieID).Float64("rating", rating).Msg("[file] rating agregado")
	return nil
}

func (s *FileStore) CreateUser(_ context.Context, username string, ratings map[int]float64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.maxUserID + 1
	ts := s.now().Unix()

	movieIDs := make([]int, 0, len(ratings))
	for m := range ratings {
		movieIDs = append(movieIDs, m)
	}
	sort.Ints(movieIDs)
	rows := make([]models.RatingDoc, 0, len(movieIDs))
	for _, m := range movieIDs {
		rows = append(rows, models.RatingDoc{UserID: id, MovieID: m, Rating: ratings[m], Timestamp: ts})
	}
	if len(rows) > 0 {
		if err := dataset.AppendRatings(s.ratingsPath, rows); err != nil {
			return nil, fmt.Errorf("append ratings: %w", err)
		}
	}

	if username == "" {
		username = fmt.Sprintf("Nuevo Usuario %d", id)
	}
	s.usernames[id] = username
	s.maxUserID = id
	for _, r := range rows {
		s.setRating(r.UserID, r.MovieID, r.Rating)
	}
	return &models.User{UserID: id, Username: username}, nil
}

// ListUsers: los primeros limit usuarios por id.
func (s *FileStore) ListUsers(_ context.Context, limit int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.ratings)+len(s.usernames))
	for id := range s.ratings {
		ids = append(ids, id)
	}
	for id := range s.usernames {
		if _, ok := s.ratings[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]models.User, len(ids))
	for i, id := range ids {
		out[i] = models.User{UserID: id, Username: s.username(id)}
	}
	return out, nil
}

func (s *FileStore) ListMovies(_ context.Context, limit int) ([]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.movieOrder
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]models.Movie, len(ids))
	for i, id := range ids {
		mi := s.movies[id]
		out[i] = models.Movie{MovieID: id, Title: mi.Title, Genres: mi.Genres}
	}
	return out, nil
}

func (s *FileStore) PopularMovies(_ context.Context, n int) ([]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.popularity))
	for id := range s.popularity {
		if _, ok := s.movies[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := s.popularity[ids[i]], s.popularity[ids[j]]
		if pi != pj {
			return pi > pj
		}
		return ids[i] < ids[j]
	})
	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}

	out := make([]models.Movie, len(ids))
	for i, id := range ids {
		mi := s.movies[id]
		out[i] = models.Movie{MovieID: id, Title: mi.Title, Genres: mi.Genres}
	}
	return out, nil
}

func (s *FileStore) UserRatings(_ context.Context, userID int) ([]models.UserRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.userExists(userID) {
		return nil, fmt.Errorf("%w: user %d", recommend.ErrNotFound, userID)
	}
	out := make([]models.UserRating, 0, len(s.ratings[userID]))
	for movieID, r := range s.ratings[userID] {
		mi, ok := s.movies[movieID]
		if !ok {
			continue
		}
		out = append(out, models.UserRating{MovieID: movieID, Title: mi.Title, Genres: mi.Genres, Rating: r})
	}
	sortUserRatings(out)
	return out, nil
}
