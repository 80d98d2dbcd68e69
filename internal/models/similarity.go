package models

// Neighbor es un vecino precalculado: una película (modelo item) o un usuario (modelo user).
type Neighbor struct {
	ID  int     `json:"id" bson:"id"`
	Sim float64 `json:"sim" bson:"sim"`
}

// SimilarityDoc: colección similarities (item-item).
type SimilarityDoc struct {
	MovieID   int        `json:"movieId" bson:"movieId"`
	Metric    string     `json:"metric" bson:"metric"`
	K         int        `json:"k" bson:"k"`
	Neighbors []Neighbor `json:"neighbors" bson:"neighbors"`
	UpdatedAt string     `json:"updatedAt" bson:"updatedAt"`
}

// UserSimilarityDoc: colección user_similarities (user-user), con la media del usuario.
type UserSimilarityDoc struct {
	UserID    int        `json:"userId" bson:"userId"`
	Mean      float64    `json:"mean" bson:"mean"`
	Metric    string     `json:"metric" bson:"metric"`
	K         int        `json:"k" bson:"k"`
	Neighbors []Neighbor `json:"neighbors" bson:"neighbors"`
	UpdatedAt string     `json:"updatedAt" bson:"updatedAt"`
}
