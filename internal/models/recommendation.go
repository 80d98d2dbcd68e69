package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OracleKind identifica el modelo de vecinos usado para predecir.
type OracleKind string

const (
	KindUser OracleKind = "user"
	KindItem OracleKind = "item"
)

// ParseKind acepta "user", "item" y las variantes "user-based"/"item-based" de las rutas.
func ParseKind(s string) (OracleKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "user-based":
		return KindUser, true
	case "item", "item-based":
		return KindItem, true
	}
	return "", false
}

// RatingPrediction es inmutable una vez creada.
type RatingPrediction struct {
	MovieID         int     `json:"movieId" bson:"movieId"`
	Title           string  `json:"title" bson:"title"`
	Genres          string  `json:"genres" bson:"genres"`
	PredictedRating float64 `json:"predicted_rating" bson:"predictedRating"`
}

// FilterSpec: nil significa sin filtro. Cada etiqueta b selecciona [b, b+1).
type FilterSpec []int

func (f FilterSpec) String() string {
	if len(f) == 0 {
		return "all"
	}
	parts := make([]string, len(f))
	for i, b := range f {
		parts[i] = strconv.Itoa(b)
	}
	return strings.Join(parts, ",")
}

type CacheKey struct {
	Kind   OracleKind
	UserID int
	Filter string
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s_%d_filter_%s", k.Kind, k.UserID, k.Filter)
}

type Page struct {
	Items  []RatingPrediction `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// Recommendation es el historial que se guarda en Mongo por cada cálculo nuevo.
type Recommendation struct {
	ID        string             `bson:"_id,omitempty" json:"id"`
	UserID    int                `bson:"userId"        json:"userId"`
	Algo      string             `bson:"algo"          json:"algo"`
	Filter    string             `bson:"filter"        json:"filter"`
	Items     []RatingPrediction `bson:"items"         json:"items"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
}
