package models

import "strings"

type RatingStats struct {
	Average     float64 `json:"average" bson:"average"`
	Count       int     `json:"count" bson:"count"`
	LastRatedAt string  `json:"lastRatedAt,omitempty" bson:"lastRatedAt,omitempty"`
}

// Lo que está en Mongo (colección movies)
type MovieDoc struct {
	MovieID     int          `json:"movieId" bson:"movieId"`
	Title       string       `json:"title" bson:"title"`
	Year        *int         `json:"year,omitempty" bson:"year,omitempty"`
	Genres      []string     `json:"genres" bson:"genres"`
	RatingStats *RatingStats `json:"ratingStats,omitempty" bson:"ratingStats,omitempty"`
	CreatedAt   string       `json:"createdAt" bson:"createdAt"`
	UpdatedAt   string       `json:"updatedAt" bson:"updatedAt"`
}

// Info devuelve título y géneros con el formato de MovieLens ("Action|Comedy").
func (m *MovieDoc) Info() MovieInfo {
	return MovieInfo{Title: m.Title, Genres: strings.Join(m.Genres, "|")}
}

type MovieInfo struct {
	Title  string
	Genres string
}

// Movie es la forma que devolvemos por API.
type Movie struct {
	MovieID int    `json:"movieId"`
	Title   string `json:"title"`
	Genres  string `json:"genres"`
}
