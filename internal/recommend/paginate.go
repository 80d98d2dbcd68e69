package recommend

import (
	"fmt"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

// Paginate devuelve list[offset:offset+limit] y el total. Un offset fuera de
// rango da una página vacía.
func Paginate(list []models.RatingPrediction, offset, limit int) ([]models.RatingPrediction, int, error) {
	if offset < 0 || limit < 0 {
		return nil, 0, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidPage, offset, limit)
	}
	total := len(list)
	if offset >= total {
		return []models.RatingPrediction{}, total, nil
	}
	end := offset + limit
	if end > total || end < offset {
		end = total
	}
	return list[offset:end], total, nil
}
