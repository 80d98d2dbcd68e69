// internal/repository/movie_repo.go
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{col: db.Collection("movies")}
}

func (r *MovieRepository) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	var m models.MovieDoc
	err := r.col.FindOne(ctx, bson.M{"movieId": movieID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &m, err
}

func (r *MovieRepository) Exists(ctx context.Context, movieID int) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"movieId": movieID}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *MovieRepository) AllIDs(ctx context.Context) ([]int, error) {
	vals, err := r.col.Distinct(ctx, "movieId", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		out = append(out, asInt(v))
	}
	return out, nil
}

// Update reemplaza el documento completo (incluye ratingStats).
func (r *MovieRepository) Update(ctx context.Context, m *models.MovieDoc) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"movieId": m.MovieID}, m)
	return err
}

func (r *MovieRepository) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]models.MovieDoc, error) {
	defer cur.Close(ctx)

	var out []models.MovieDoc
	for cur.Next(ctx) {
		var m models.MovieDoc
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// List en orden de movieId.
func (r *MovieRepository) List(ctx context.Context, limit, offset int) ([]models.MovieDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "movieId", Value: 1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

func (r *MovieRepository) ByIDs(ctx context.Context, ids []int) ([]models.MovieDoc, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"movieId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}

// Popularity devuelve movieId -> ratingStats.count para todo el catálogo.
// Películas sin ratingStats quedan con 0.
func (r *MovieRepository) Popularity(ctx context.Context) (map[int]int, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0, "movieId": 1, "ratingStats.count": 1})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[int]int)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		count := 0
		if rs, ok := raw["ratingStats"].(bson.M); ok {
			count = asInt(rs["count"])
		}
		out[asInt(raw["movieId"])] = count
	}
	return out, cur.Err()
}

// Top por popularidad (count) o rating promedio
func (r *MovieRepository) Top(ctx context.Context, metric string, limit int) ([]models.MovieDoc, error) {
	sortField := "ratingStats.count" // popular
	if metric == "rating" {
		sortField = "ratingStats.average"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: -1}, {Key: "movieId", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(ctx, cur)
}
