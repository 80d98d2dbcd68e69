package models

// Lo que está en Mongo (colección ratings)
type RatingDoc struct {
	UserID    int     `json:"userId" bson:"userId"`
	MovieID   int     `json:"movieId" bson:"movieId"`
	Rating    float64 `json:"rating" bson:"rating"`
	Timestamp int64   `json:"timestamp" bson:"timestamp"`
}

// UserRating es una fila del historial de un usuario, ya unida con la película.
type UserRating struct {
	MovieID int     `json:"movieId"`
	Title   string  `json:"title"`
	Genres  string  `json:"genres"`
	Rating  float64 `json:"rating"`
}
