// Package recommend implementa el pipeline de recomendaciones: selección de
// candidatos, filtro de predicciones por rango, ranking, caché con TTL y paginación.
package recommend

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidPage   = errors.New("invalid pagination")
)
