package recommend

import (
	"context"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/metrics"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/oracle"
)

// FilterPredictions consulta el oráculo por cada candidato y arma las
// predicciones aceptadas. Un candidato que falla, es infactible o no tiene
// ficha en el catálogo se descarta sin cortar el lote.
//
// Con filtro, el bucket se decide sobre round(est, 1) y recién después se
// redondea a 2 decimales. El orden de salida es el de los candidatos.
func FilterPredictions(
	ctx context.Context,
	kind models.OracleKind,
	p oracle.Predictor,
	userID int,
	candidates []int,
	info map[int]models.MovieInfo,
	filter models.FilterSpec,
) []models.RatingPrediction {
	results := predictAll(ctx, p, userID, candidates)
	return filterResults(ctx, kind, userID, candidates, results, info, filter)
}

// allFailed: ningún candidato obtuvo respuesta del oráculo (p. ej. todos los nodos caídos).
func allFailed(results []oracle.Result) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Status != oracle.StatusFailed {
			return false
		}
	}
	return true
}

func filterResults(
	ctx context.Context,
	kind models.OracleKind,
	userID int,
	candidates []int,
	results []oracle.Result,
	info map[int]models.MovieInfo,
	filter models.FilterSpec,
) []models.RatingPrediction {
	log := logging.Ctx(ctx)

	counts := map[string]int{}
	out := make([]models.RatingPrediction, 0, len(candidates))
	for i, movieID := range candidates {
		res := results[i]
		switch res.Status {
		case oracle.StatusFailed:
			counts["failed"]++
			log.Debug().Err(res.Err).Int("user", userID).Int("movie", movieID).Msg("predicción fallida, candidato descartado")
			continue
		case oracle.StatusInfeasible:
			counts["infeasible"]++
			continue
		}

		mi, ok := info[movieID]
		if !ok {
			counts["no_info"]++
			continue
		}

		if len(filter) > 0 {
			if _, ok := matchBucket(filter, round1(res.Estimate)); !ok {
				counts["filtered"]++
				continue
			}
		}

		counts["feasible"]++
		out = append(out, models.RatingPrediction{
			MovieID:         movieID,
			Title:           mi.Title,
			Genres:          mi.Genres,
			PredictedRating: round2(res.Estimate),
		})
	}

	for outcome, n := range counts {
		metrics.OracleOutcomes.WithLabelValues(string(kind), outcome).Add(float64(n))
	}
	if counts["failed"] > 0 {
		log.Warn().
			Str("kind", string(kind)).
			Int("user", userID).
			Int("failed", counts["failed"]).
			Int("candidates", len(candidates)).
			Msg("predicciones fallidas descartadas")
	}
	return out
}

func predictAll(ctx context.Context, p oracle.Predictor, userID int, candidates []int) []oracle.Result {
	if bp, ok := p.(oracle.BatchPredictor); ok {
		res := bp.PredictBatch(ctx, userID, candidates)
		if len(res) == len(candidates) {
			return res
		}
		logging.Ctx(ctx).Error().Int("want", len(candidates)).Int("got", len(res)).Msg("lote de predicciones incompleto")
		out := make([]oracle.Result, len(candidates))
		for i := range out {
			if i < len(res) {
				out[i] = res[i]
			} else {
				out[i] = oracle.Failed(oracle.ErrUnavailable)
			}
		}
		return out
	}

	out := make([]oracle.Result, len(candidates))
	for i, m := range candidates {
		out[i] = p.Predict(ctx, userID, m)
	}
	return out
}
