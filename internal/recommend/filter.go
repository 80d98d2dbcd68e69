package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
)

// ParseFilter interpreta filter_ratings: "" o "all" es sin filtro; si no, una
// lista de enteros separados por coma ("3,4"). Conserva el orden dado.
func ParseFilter(raw string) (models.FilterSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	spec := make(models.FilterSpec, 0, len(parts))
	for _, p := range parts {
		tok := strings.TrimSpace(p)
		b, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: label %q is not an integer", ErrInvalidFilter, tok)
		}
		spec = append(spec, b)
	}
	return spec, nil
}

// matchBucket: primera etiqueta b con b <= r1 < b+1.
func matchBucket(spec models.FilterSpec, r1 float64) (int, bool) {
	for _, b := range spec {
		lo := float64(b)
		if lo <= r1 && r1 < lo+1 {
			return b, true
		}
	}
	return 0, false
}

// roundTo redondea al decimal más cercano del valor binario exacto, empates a par.
func roundTo(x float64, places int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

func round1(x float64) float64 { return roundTo(x, 1) }
func round2(x float64) float64 { return roundTo(x, 2) }
