package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/dataset"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

// SimilarityRepository lee las listas de vecinos que deja el entrenamiento offline:
// similarities (película -> películas) y user_similarities (usuario -> usuarios).
type SimilarityRepository struct {
	items *mongo.Collection
	users *mongo.Collection
}

func NewSimilarityRepository(db *mongo.Database) *SimilarityRepository {
	return &SimilarityRepository{
		items: db.Collection("similarities"),
		users: db.Collection("user_similarities"),
	}
}

func (r *SimilarityRepository) AllItemNeighbors(ctx context.Context) (map[int][]models.Neighbor, error) {
	cur, err := r.items.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[int][]models.Neighbor)
	for cur.Next(ctx) {
		var doc models.SimilarityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		dataset.SortNeighbors(doc.Neighbors)
		out[doc.MovieID] = doc.Neighbors
	}
	return out, cur.Err()
}

// AllUserNeighbors devuelve también la media de cada usuario guardada junto a sus vecinos.
func (r *SimilarityRepository) AllUserNeighbors(ctx context.Context) (map[int][]models.Neighbor, map[int]float64, error) {
	cur, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)

	out := make(map[int][]models.Neighbor)
	means := make(map[int]float64)
	for cur.Next(ctx) {
		var doc models.UserSimilarityDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, nil, err
		}
		dataset.SortNeighbors(doc.Neighbors)
		out[doc.UserID] = doc.Neighbors
		if doc.Mean > 0 {
			means[doc.UserID] = doc.Mean
		}
	}
	return out, means, cur.Err()
}
