package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// result: hit | miss | expired
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cache_lookups_total",
			Help: "Consultas a la caché de recomendaciones por backend y resultado",
		},
		[]string{"backend", "result"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cache_invalidations_total",
			Help: "Invalidaciones explícitas de la caché por usuario",
		},
		[]string{"backend"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_pipeline_duration_seconds",
			Help:    "Duración del cálculo completo (candidatos, predicción y ranking)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// outcome: feasible | infeasible | failed | filtered | no_info
	OracleOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_oracle_outcomes_total",
			Help: "Resultados del oráculo por candidato",
		},
		[]string{"kind", "outcome"},
	)

	Candidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates",
			Help:    "Candidatos evaluados por cálculo",
			Buckets: []float64{0, 10, 50, 100, 250, 500},
		},
	)

	// 0 = closed, 1 = half-open, 2 = open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oracle_node_circuit_breaker_state",
			Help: "Estado del circuit breaker por nodo ML",
		},
		[]string{"node"},
	)
)
