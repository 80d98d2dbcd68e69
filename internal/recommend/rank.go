package recommend

import (
	"sort"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

// DefaultMaxResults: cuántas recomendaciones se guardan por clave después del ranking.
const DefaultMaxResults = 100

// Rank ordena por predictedRating descendente y movieId ascendente.
// No modifica la entrada.
func Rank(preds []models.RatingPrediction) []models.RatingPrediction {
	out := make([]models.RatingPrediction, len(preds))
	copy(out, preds)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PredictedRating != out[j].PredictedRating {
			return out[i].PredictedRating > out[j].PredictedRating
		}
		return out[i].MovieID < out[j].MovieID
	})
	return out
}

// Truncate corta a n elementos; n <= 0 no corta.
func Truncate(preds []models.RatingPrediction, n int) []models.RatingPrediction {
	if n <= 0 || len(preds) <= n {
		return preds
	}
	return preds[:n]
}
