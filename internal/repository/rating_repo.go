package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{col: db.Collection("ratings")}
}

func (r *RatingRepository) UpsertRating(ctx context.Context, userID, movieID int, rating float64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "movieId": movieID},
		bson.M{"$set": bson.M{
			"rating": rating,
			// guardamos epoch (int64)
			"timestamp": time.Now().Unix(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// GetOne devuelve nil si el usuario no calificó la película.
func (r *RatingRepository) GetOne(ctx context.Context, userID, movieID int) (*models.RatingDoc, error) {
	var raw bson.M
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "movieId": movieID}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rd := ratingFromRaw(raw)
	return &rd, nil
}

// helpers de casteo seguro: el import desde CSV deja int32, int64 o double según la fila
func asInt(v any) int {
	switch x := v.(type) {
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func ratingFromRaw(raw bson.M) models.RatingDoc {
	return models.RatingDoc{
		UserID:    asInt(raw["userId"]),
		MovieID:   asInt(raw["movieId"]),
		Rating:    asFloat64(raw["rating"]),
		Timestamp: asInt64(raw["timestamp"]),
	}
}

func (r *RatingRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.RatingDoc, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, ratingFromRaw(raw))
	}
	return out, cur.Err()
}

// GetByUser: historial ordenado por rating descendente (empates por movieId).
func (r *RatingRepository) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "movieId", Value: 1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

func (r *RatingRepository) GetAllByUser(ctx context.Context, userID int) ([]models.RatingDoc, error) {
	return r.GetByUser(ctx, userID, 0, 0)
}

// RatedMovieIDs trae sólo los movieId calificados por el usuario.
func (r *RatingRepository) RatedMovieIDs(ctx context.Context, userID int) ([]int, error) {
	vals, err := r.col.Distinct(ctx, "movieId", bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		out = append(out, asInt(v))
	}
	return out, nil
}

// All carga la colección completa; la usa el cargador del modelo al arrancar.
func (r *RatingRepository) All(ctx context.Context) ([]models.RatingDoc, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0, "userId": 1, "movieId": 1, "rating": 1})
	return r.find(ctx, bson.M{}, opts)
}
